package http

import (
	"github.com/aussiebroadwan/tenancy/internal/invites/domain"
	"github.com/aussiebroadwan/tenancy/pkg/invitesdk"
)

func toInvitation(inv domain.Invitation) invitesdk.Invitation {
	return invitesdk.Invitation{
		ID:           inv.ID,
		Email:        inv.Email,
		Username:     inv.Username,
		PropertyID:   inv.PropertyID,
		PropertyName: inv.PropertyName,
		Status:       string(inv.Status),
		ExpiresAt:    inv.ExpiresAt,
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
	}
}

func toInvitationList(invs []domain.Invitation) invitesdk.InvitationListResponse {
	out := invitesdk.InvitationListResponse{Invitations: make([]invitesdk.Invitation, 0, len(invs))}
	for _, inv := range invs {
		out.Invitations = append(out.Invitations, toInvitation(inv))
	}
	return out
}

func toProperty(p domain.Property) invitesdk.Property {
	return invitesdk.Property{
		ID:          p.ID,
		Name:        p.Name,
		Address:     p.Address,
		Status:      string(p.Status),
		TenantID:    p.TenantID,
		TenantEmail: p.TenantEmail,
		TenantName:  p.TenantName,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
