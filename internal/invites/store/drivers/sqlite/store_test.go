package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/invites/domain"
	"github.com/aussiebroadwan/tenancy/internal/invites/store"
	"github.com/aussiebroadwan/tenancy/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(DSN(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func seedProperty(t *testing.T, s *Store, landlordID string) domain.Property {
	t.Helper()
	p := domain.Property{
		ID:         idx.New(),
		LandlordID: landlordID,
		Name:       "Flat " + idx.New()[20:],
		Status:     domain.PropertyAvailable,
		CreatedAt:  baseTime,
		UpdatedAt:  baseTime,
	}
	require.NoError(t, s.Properties().CreateProperty(context.Background(), p))
	return p
}

func newInvitation(p domain.Property, email, code string, created time.Time) domain.Invitation {
	return domain.Invitation{
		ID:           idx.New(),
		Email:        email,
		PropertyID:   p.ID,
		PropertyName: p.Name,
		LandlordID:   p.LandlordID,
		Code:         code,
		Status:       domain.StatusPending,
		ExpiresAt:    created.Add(domain.DefaultInvitationTTL),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func TestApplyMigrationsIsRepeatable(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedProperty(t, s, "landlord-1")
	boom := errors.New("boom")

	inv := newInvitation(p, "a@example.com", "AAAAAA", baseTime)
	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Invitations().CreateInvitation(ctx, inv))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Invitations().GetInvitationByID(ctx, inv.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxCommits(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedProperty(t, s, "landlord-1")

	inv := newInvitation(p, "a@example.com", "BBBBBB", baseTime)
	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Invitations().CreateInvitation(ctx, inv)
	}))

	got, err := s.Invitations().GetInvitationByID(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, inv.Code, got.Code)
}

func TestNestedTxNotSupported(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		require.Error(t, tx.WithTx(ctx, func(store.Tx) error { return nil }))
		_, err := tx.Tx(ctx)
		require.Error(t, err)
		return nil
	}))
}
