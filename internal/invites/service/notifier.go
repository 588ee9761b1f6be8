package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/invites/domain"
	"github.com/aussiebroadwan/tenancy/pkg/mailx"
)

// Notifier delivers invitation mail. Both calls are synchronous and may
// fail.
type Notifier interface {
	SendInvitationEmail(ctx context.Context, to, propertyName, code, landlordName string) error
	SendCancellationEmail(ctx context.Context, to, propertyName string) error
}

// MailNotifier renders the mailx templates and hands them to a Sender.
type MailNotifier struct {
	Sender mailx.Sender

	// AppURL is the public site root; the signup link is built from it.
	AppURL string

	// TTL is quoted in the email as a number of days.
	TTL time.Duration
}

func (n *MailNotifier) SendInvitationEmail(ctx context.Context, to, propertyName, code, landlordName string) error {
	ttl := n.TTL
	if ttl <= 0 {
		ttl = domain.DefaultInvitationTTL
	}
	msg, err := mailx.InvitationEmail(to, mailx.InvitationData{
		PropertyName: propertyName,
		Code:         code,
		LandlordName: landlordName,
		SignupURL:    n.AppURL + "/user/signup",
		ValidDays:    int(ttl / (24 * time.Hour)),
	})
	if err != nil {
		return err
	}
	return n.Sender.Send(ctx, msg)
}

func (n *MailNotifier) SendCancellationEmail(ctx context.Context, to, propertyName string) error {
	msg, err := mailx.CancellationEmail(to, mailx.CancellationData{PropertyName: propertyName})
	if err != nil {
		return err
	}
	return n.Sender.Send(ctx, msg)
}
