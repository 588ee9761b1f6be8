package service

import (
	"context"
	"log/slog"
	"time"
)

// ExpirySweeper periodically moves stale pending invitations to expired.
// Reads expire lazily anyway; the sweeper keeps the stored status honest
// for rows nobody looks at.
type ExpirySweeper struct {
	Invitations *InvitationService
	Logger      *slog.Logger
	Interval    time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewExpirySweeper creates a sweeper with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewExpirySweeper(invitations *InvitationService, logger *slog.Logger, interval time.Duration) *ExpirySweeper {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &ExpirySweeper{
		Invitations: invitations,
		Logger:      logger,
		Interval:    interval,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start runs a sweep immediately and then one per interval.
// Call Stop() to gracefully shutdown the worker.
func (s *ExpirySweeper) Start() {
	go s.run()
	s.Logger.Info("expiry sweeper started", "interval", s.Interval)
}

// Stop blocks until an in-progress sweep has finished.
func (s *ExpirySweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("expiry sweeper stopped")
}

func (s *ExpirySweeper) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *ExpirySweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.Interval)
	defer cancel()

	n, err := s.Invitations.SweepExpired(ctx, s.Invitations.Now())
	if err != nil {
		s.Logger.Error("expiry sweep failed", "expired", n, "error", err)
		return
	}
	s.Logger.Debug("expiry sweep completed", "expired", n)
}
