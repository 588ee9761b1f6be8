package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/invites/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict is returned by compare-and-swap updates when the row is no
	// longer in the expected state.
	ErrConflict = errors.New("store: state changed concurrently")

	ErrDuplicateCode     = fmt.Errorf("%w: invitation code", ErrAlreadyExists)
	ErrDuplicateEmail    = fmt.Errorf("%w: email", ErrAlreadyExists)
	ErrDuplicateUsername = fmt.Errorf("%w: username", ErrAlreadyExists)
)

// Store is the root data access interface. Invitations, users and
// properties live in the same database so acceptance can touch all three in
// one transaction.
type Store interface {
	Invitations() Invitations
	Users() Users
	Properties() Properties

	ApplyMigrations() error

	// Tx starts a write transaction and returns a Tx-scoped Store. The
	// caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Invitations interface {
	// CreateInvitation inserts a new invitation. A code collision returns
	// ErrDuplicateCode.
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error)

	// GetInvitationByCode matches the code case-insensitively.
	GetInvitationByCode(ctx context.Context, code string) (domain.Invitation, error)

	// FindByEmailAndStatus returns matching invitations, newest first.
	FindByEmailAndStatus(ctx context.Context, email string, status domain.InvitationStatus) ([]domain.Invitation, error)

	// ListByProperty returns every invitation for a property, newest first.
	ListByProperty(ctx context.Context, propertyID string) ([]domain.Invitation, error)

	ListByLandlordAndStatus(ctx context.Context, landlordID string, status domain.InvitationStatus) ([]domain.Invitation, error)

	// ListByEmail returns the invitation history of an address, newest first.
	ListByEmail(ctx context.Context, email string) ([]domain.Invitation, error)

	// ListStalePending returns pending invitations whose expires_at is before
	// now or whose created_at is before ageCutoff.
	ListStalePending(ctx context.Context, now, ageCutoff time.Time) ([]domain.Invitation, error)

	// UpdateInvitationStatus moves an invitation from one status to another.
	// It returns ErrConflict when the row is not in the from status and
	// ErrNotFound when it does not exist.
	UpdateInvitationStatus(ctx context.Context, id string, from, to domain.InvitationStatus, now time.Time) error

	// MarkInvitationAccepted swaps pending to accepted and records the
	// username of the registering tenant.
	MarkInvitationAccepted(ctx context.Context, id, username string, now time.Time) error

	// DeleteInvitation is only used to undo a send whose email failed.
	DeleteInvitation(ctx context.Context, id string) error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Taken emails and usernames return ErrDuplicateEmail and
	// ErrDuplicateUsername.
	CreateUser(ctx context.Context, u domain.User) error

	// UpsertUser mirrors an account known from a verified token. The
	// password hash of an existing row is kept.
	UpsertUser(ctx context.Context, u domain.User) error
}

type Properties interface {
	GetPropertyByID(ctx context.Context, id string) (domain.Property, error)
	CreateProperty(ctx context.Context, p domain.Property) error

	// ListPropertiesByLandlord returns the landlord's properties, newest first.
	ListPropertiesByLandlord(ctx context.Context, landlordID string) ([]domain.Property, error)

	// UpdateTenantLink stamps the tenant on a property. Writing the same
	// link twice is harmless.
	UpdateTenantLink(ctx context.Context, propertyID string, link domain.TenantLink, now time.Time) error
}
