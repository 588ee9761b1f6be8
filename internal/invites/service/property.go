package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/invites/domain"
	"github.com/aussiebroadwan/tenancy/internal/invites/store"
	"github.com/aussiebroadwan/tenancy/pkg/idx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
)

// PropertyService registers the properties invitations are issued for.
// Landlord accounts live in the platform's identity service; their profile
// is mirrored from token claims whenever they create a property.
type PropertyService struct {
	Store store.Store
	Clock func() time.Time
}

type CreatePropertyInput struct {
	LandlordID       string `json:"landlord_id" validate:"required"`
	LandlordEmail    string `json:"landlord_email" validate:"omitempty,email"`
	LandlordUsername string `json:"landlord_username" validate:"max=64"`
	LandlordName     string `json:"landlord_name" validate:"max=100"`
	Name             string `json:"name" validate:"required,max=200"`
	Address          string `json:"address" validate:"max=500"`
}

func (s *PropertyService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// CreateProperty stores a new available property owned by the landlord.
func (s *PropertyService) CreateProperty(ctx context.Context, in CreatePropertyInput) (domain.Property, error) {
	log := slogx.FromContext(ctx)

	if err := validateInput(in); err != nil {
		return domain.Property{}, err
	}

	now := s.now()
	p := domain.Property{
		ID:         idx.NewAt(now),
		LandlordID: in.LandlordID,
		Name:       in.Name,
		Address:    in.Address,
		Status:     domain.PropertyAvailable,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if in.LandlordEmail != "" && in.LandlordUsername != "" {
			landlord := domain.User{
				ID:        in.LandlordID,
				Email:     domain.NormalizeEmail(in.LandlordEmail),
				FullName:  in.LandlordName,
				Username:  in.LandlordUsername,
				Role:      domain.RoleLandlord,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Users().UpsertUser(ctx, landlord); err != nil {
				// A clash with another account's email or username only
				// costs the display name in emails.
				if !errors.Is(err, store.ErrAlreadyExists) {
					return err
				}
				log.Warn("landlord profile not mirrored", slog.String("landlord_id", in.LandlordID), slog.Any("error", err))
			}
		}
		return tx.Properties().CreateProperty(ctx, p)
	})
	if err != nil {
		log.Error("failed to create property", slog.String("landlord_id", in.LandlordID), slog.Any("error", err))
		return domain.Property{}, err
	}

	log.Info("property created", slog.String("property_id", p.ID), slog.String("landlord_id", p.LandlordID))
	return p, nil
}

func (s *PropertyService) ListProperties(ctx context.Context, landlordID string) ([]domain.Property, error) {
	return s.Store.Properties().ListPropertiesByLandlord(ctx, landlordID)
}

// GetProperty returns a property only to its landlord.
func (s *PropertyService) GetProperty(ctx context.Context, landlordID, propertyID string) (domain.Property, error) {
	p, err := s.Store.Properties().GetPropertyByID(ctx, propertyID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && p.LandlordID != landlordID) {
		return domain.Property{}, ErrPropertyNotFound
	}
	return p, err
}
