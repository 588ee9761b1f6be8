//nolint:gochecknoglobals
package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	invitationsSentMetric = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tenancy",
		Subsystem: "invitations",
		Name:      "sent_total",
		Help:      "Invitations created and delivered.",
	})

	invitationsRejectedMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tenancy",
		Subsystem: "invitations",
		Name:      "rejected_total",
		Help:      "Invitation operations refused, by reason.",
	}, []string{"reason"})

	invitationTransitionsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tenancy",
		Subsystem: "invitations",
		Name:      "transitions_total",
		Help:      "Invitations leaving pending, by terminal status.",
	}, []string{"status"})

	sweepRunsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tenancy",
		Subsystem: "invitations",
		Name:      "sweep_runs_total",
		Help:      "Expiry sweeps, by outcome.",
	}, []string{"outcome"})
)
