package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/tenancy/internal/invites/domain"
)

var (
	ErrInvalidRequest = errors.New("invalid request")

	// Send rejections. Returned wrapped in a *ConflictError.
	ErrTenantAlreadyPlaced    = errors.New("tenant already placed")
	ErrTenantInviteInFlight   = errors.New("tenant invitation in flight")
	ErrPropertyAlreadyInvited = errors.New("property already invited")

	ErrPropertyNotFound           = errors.New("property not found")
	ErrNotificationDeliveryFailed = errors.New("notification delivery failed")
	ErrCodeSpaceExhausted         = errors.New("could not allocate a unique invitation code")

	// ErrInvalidOrExpiredCode is the umbrella for every *CodeError.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired invitation code")

	ErrNotFoundOrNotOwned = errors.New("invitation not found or not owned")

	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameTaken  = errors.New("username already taken")
	ErrEmailTaken     = errors.New("email already registered")
	ErrNotTenantEmail = errors.New("account email does not match invitation")
)

// ConflictError names the property that blocks a new invitation.
type ConflictError struct {
	Err          error
	PropertyName string
}

func (e *ConflictError) Error() string {
	switch e.Err {
	case ErrTenantAlreadyPlaced:
		return fmt.Sprintf("Tenant is already registered for property: %s. "+
			"Cannot send invitations to tenants who are already renting a property.", e.PropertyName)
	case ErrTenantInviteInFlight:
		return fmt.Sprintf("Tenant already has a pending invitation for property: %s. "+
			"Cannot send another invitation until the current one is resolved.", e.PropertyName)
	case ErrPropertyAlreadyInvited:
		return "This property already has an active invitation. Only one tenant can be invited per property."
	}
	return e.Err.Error()
}

func (e *ConflictError) Unwrap() error { return e.Err }

// CodeReason says why a code was refused. Callers only see whether the
// code expired; the rest is for logs.
type CodeReason string

const (
	ReasonNotFound      CodeReason = "not_found"
	ReasonNotPending    CodeReason = "not_pending"
	ReasonExpiredByDate CodeReason = CodeReason(domain.ExpiredByDate)
	ReasonExpiredByAge  CodeReason = CodeReason(domain.ExpiredByAge)
	ReasonWrongEmail    CodeReason = "wrong_email"
)

type CodeError struct {
	Reason CodeReason
	Status domain.InvitationStatus // set for not_pending
}

func (e *CodeError) Error() string {
	switch e.Reason {
	case ReasonExpiredByDate:
		return "This invitation has expired. Please contact the landlord for a new invitation."
	case ReasonExpiredByAge:
		return "This invitation has expired after 1 month of pending status. " +
			"Please contact the landlord for a new invitation."
	}
	return "Invalid invitation code"
}

func (e *CodeError) Unwrap() error { return ErrInvalidOrExpiredCode }

// Expired reports whether the code existed but ran out of time.
func (e *CodeError) Expired() bool {
	return e.Reason == ReasonExpiredByDate || e.Reason == ReasonExpiredByAge
}

// ValidationError lists the fields that failed input validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, f+" "+msg)
	}
	return "invalid request: " + strings.Join(sortedCopy(parts), "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidRequest }
