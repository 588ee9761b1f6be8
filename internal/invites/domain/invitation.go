package domain

import (
	"strings"
	"time"
)

// InvitationStatus is the state-machine variable of an invitation.
type InvitationStatus string

const (
	StatusPending   InvitationStatus = "pending"
	StatusAccepted  InvitationStatus = "accepted"
	StatusExpired   InvitationStatus = "expired"
	StatusCancelled InvitationStatus = "cancelled"
)

func (s InvitationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s InvitationStatus) IsTerminal() bool {
	return s == StatusAccepted || s == StatusExpired || s == StatusCancelled
}

// CanTransitionTo allows pending to move to exactly one terminal state.
func (s InvitationStatus) CanTransitionTo(next InvitationStatus) bool {
	return s == StatusPending && next.IsTerminal()
}

const (
	// DefaultInvitationTTL is added to the creation time to get ExpiresAt.
	DefaultInvitationTTL = 30 * 24 * time.Hour

	// MaxPendingAge expires a pending invitation regardless of ExpiresAt.
	MaxPendingAge = 30 * 24 * time.Hour
)

// ExpiryReason says which rule made an invitation stale.
type ExpiryReason string

const (
	NotExpired    ExpiryReason = ""
	ExpiredByDate ExpiryReason = "expired_by_date"
	ExpiredByAge  ExpiryReason = "expired_by_age"
)

type Invitation struct {
	ID           string
	Email        string // lowercase
	Username     string // set once the tenant registers
	PropertyID   string
	PropertyName string // snapshot at issue time
	LandlordID   string
	Code         string // uppercase
	Status       InvitationStatus
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ExpiryReason applies the date rule, then the age rule. Only pending
// invitations can expire.
func (inv Invitation) ExpiryReason(now time.Time) ExpiryReason {
	if inv.Status != StatusPending {
		return NotExpired
	}
	if inv.ExpiresAt.Before(now) {
		return ExpiredByDate
	}
	if inv.CreatedAt.Before(now.Add(-MaxPendingAge)) {
		return ExpiredByAge
	}
	return NotExpired
}

// IsStale is true for a pending invitation past either expiry rule.
func (inv Invitation) IsStale(now time.Time) bool {
	return inv.ExpiryReason(now) != NotExpired
}

// IsActive reports whether the invitation holds its property: accepted, or
// pending and not stale.
func (inv Invitation) IsActive(now time.Time) bool {
	switch inv.Status {
	case StatusAccepted:
		return true
	case StatusPending:
		return !inv.IsStale(now)
	}
	return false
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
