package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/tenancy/internal/invites/domain"
	"github.com/stretchr/testify/require"
)

func TestCreateProperty(t *testing.T) {
	ctx := context.Background()

	t.Run("mirrors the landlord profile", func(t *testing.T) {
		h := newHarness(t, domain.PolicyStrict)
		p, err := h.properties.CreateProperty(ctx, CreatePropertyInput{
			LandlordID:       "landlord-1",
			LandlordEmail:    "Lord@Example.com",
			LandlordUsername: "lord",
			LandlordName:     "Lady Landlord",
			Name:             "House A",
			Address:          "1 Rose St",
		})
		require.NoError(t, err)
		require.Equal(t, domain.PropertyAvailable, p.Status)

		u, err := h.store.Users().GetUserByID(ctx, "landlord-1")
		require.NoError(t, err)
		require.Equal(t, "lord@example.com", u.Email)
		require.Equal(t, domain.RoleLandlord, u.Role)

		// A later token without a name keeps the stored one.
		_, err = h.properties.CreateProperty(ctx, CreatePropertyInput{
			LandlordID:       "landlord-1",
			LandlordEmail:    "lord@example.com",
			LandlordUsername: "lord",
			Name:             "House B",
		})
		require.NoError(t, err)
		u, err = h.store.Users().GetUserByID(ctx, "landlord-1")
		require.NoError(t, err)
		require.Equal(t, "Lady Landlord", u.FullName)
	})

	t.Run("requires a name", func(t *testing.T) {
		h := newHarness(t, domain.PolicyStrict)
		_, err := h.properties.CreateProperty(ctx, CreatePropertyInput{LandlordID: "landlord-1"})
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("lists and hides by owner", func(t *testing.T) {
		h := newHarness(t, domain.PolicyStrict)
		a := h.property(t, "landlord-1", "House A")
		h.property(t, "landlord-2", "House B")

		list, err := h.properties.ListProperties(ctx, "landlord-1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, a.ID, list[0].ID)

		_, err = h.properties.GetProperty(ctx, "landlord-2", a.ID)
		require.ErrorIs(t, err, ErrPropertyNotFound)

		got, err := h.properties.GetProperty(ctx, "landlord-1", a.ID)
		require.NoError(t, err)
		require.Equal(t, "House A", got.Name)
	})
}
