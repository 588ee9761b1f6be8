package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/invites/domain"
	"github.com/aussiebroadwan/tenancy/internal/invites/store/drivers/sqlite"
	"github.com/aussiebroadwan/tenancy/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sentInvite struct {
	To, PropertyName, Code, LandlordName string
}

type recordingNotifier struct {
	mu        sync.Mutex
	invites   []sentInvite
	cancelled []string

	FailInvite error
	FailCancel error

	// CancelInvite, when set, is called during delivery and the context
	// error is returned, as a dropped client connection would.
	CancelInvite context.CancelFunc
}

func (n *recordingNotifier) SendInvitationEmail(ctx context.Context, to, propertyName, code, landlordName string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.CancelInvite != nil {
		n.CancelInvite()
		return ctx.Err()
	}
	if n.FailInvite != nil {
		return n.FailInvite
	}
	n.invites = append(n.invites, sentInvite{to, propertyName, code, landlordName})
	return nil
}

func (n *recordingNotifier) SendCancellationEmail(_ context.Context, to, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.FailCancel != nil {
		return n.FailCancel
	}
	n.cancelled = append(n.cancelled, to)
	return nil
}

func (n *recordingNotifier) Invites() []sentInvite {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentInvite(nil), n.invites...)
}

func (n *recordingNotifier) Cancelled() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.cancelled...)
}

type harness struct {
	store      *sqlite.Store
	clock      *fakeClock
	notifier   *recordingNotifier
	invites    *InvitationService
	properties *PropertyService
}

func newHarness(t *testing.T, policy domain.PropertyPolicy) *harness {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	clock := &fakeClock{now: baseTime}
	notifier := &recordingNotifier{}

	return &harness{
		store:    st,
		clock:    clock,
		notifier: notifier,
		invites: &InvitationService{
			Store:    st,
			Notifier: notifier,
			Hasher:   cryptox.PasswordHasher{},
			Policy:   policy,
			Clock:    clock.Now,
		},
		properties: &PropertyService{Store: st, Clock: clock.Now},
	}
}

func (h *harness) property(t *testing.T, landlordID, name string) domain.Property {
	t.Helper()
	p, err := h.properties.CreateProperty(context.Background(), CreatePropertyInput{
		LandlordID: landlordID,
		Name:       name,
	})
	require.NoError(t, err)
	return p
}

func (h *harness) send(t *testing.T, p domain.Property, email string) SentInvitation {
	t.Helper()
	sent, err := h.invites.SendInvitation(context.Background(), SendInvitationInput{
		LandlordID: p.LandlordID,
		Email:      email,
		PropertyID: p.ID,
	})
	require.NoError(t, err)
	return sent
}

func (h *harness) register(t *testing.T, code, email, username string) RegisteredTenant {
	t.Helper()
	reg, err := h.invites.RegisterTenant(context.Background(), RegisterTenantInput{
		Code:     code,
		Email:    email,
		FullName: "Test Tenant",
		Username: username,
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	return reg
}

func (h *harness) status(t *testing.T, id string) domain.InvitationStatus {
	t.Helper()
	inv, err := h.store.Invitations().GetInvitationByID(context.Background(), id)
	require.NoError(t, err)
	return inv.Status
}

// sequence returns the given codes in order, repeating the last one.
func sequence(codes ...string) func() (string, error) {
	var mu sync.Mutex
	i := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		c := codes[min(i, len(codes)-1)]
		i++
		return c, nil
	}
}

func requireConflict(t *testing.T, err, target error, propertyName string) {
	t.Helper()
	require.ErrorIs(t, err, target)
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	if propertyName != "" {
		require.Contains(t, conflict.Error(), propertyName)
	}
}

func requireCodeError(t *testing.T, err error, expired bool) *CodeError {
	t.Helper()
	require.ErrorIs(t, err, ErrInvalidOrExpiredCode)
	var codeErr *CodeError
	require.True(t, errors.As(err, &codeErr))
	require.Equal(t, expired, codeErr.Expired())
	return codeErr
}

var bothPolicies = []domain.PropertyPolicy{domain.PolicyStrict, domain.PolicyRelaxed}
