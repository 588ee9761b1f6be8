package invitesdk

import (
	"context"
	"net/http"
	"net/url"
)

// SendInvitation emails an invitation code for one of the landlord's
// properties. Requires the landlord role.
func (s *Session) SendInvitation(ctx context.Context, req SendInvitationRequest) (*SendInvitationResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/invitations", req)
	if err != nil {
		return nil, err
	}

	var out SendInvitationResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelInvitation withdraws a pending invitation.
func (s *Session) CancelInvitation(ctx context.Context, invitationID string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/invitations/"+url.PathEscape(invitationID)+"/cancel", nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// AcceptInvitation consumes a code for the signed-in tenant.
func (s *Session) AcceptInvitation(ctx context.Context, req AcceptRequest) (*AcceptResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/invitations/accept", req)
	if err != nil {
		return nil, err
	}

	var out AcceptResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) ListPropertyInvitations(ctx context.Context, propertyID string) ([]Invitation, error) {
	return s.listInvitations(ctx, "/v1/properties/"+url.PathEscape(propertyID)+"/invitations")
}

func (s *Session) ListLandlordAccepted(ctx context.Context) ([]Invitation, error) {
	return s.listInvitations(ctx, "/v1/invitations/landlord/accepted")
}

func (s *Session) ListTenantAccepted(ctx context.Context) ([]Invitation, error) {
	return s.listInvitations(ctx, "/v1/invitations/tenant/accepted")
}

func (s *Session) TenantHistory(ctx context.Context) ([]Invitation, error) {
	return s.listInvitations(ctx, "/v1/invitations/tenant/history")
}

func (s *Session) listInvitations(ctx context.Context, path string) ([]Invitation, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var out InvitationListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Invitations, nil
}

// CheckEligibility asks whether email could receive an invitation now.
func (s *Session) CheckEligibility(ctx context.Context, email string) (*EligibilityResponse, error) {
	path := "/v1/invitations/eligibility?" + url.Values{"email": {email}}.Encode()
	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var out EligibilityResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExpireStale runs an expiry sweep and returns how many invitations it
// expired.
func (s *Session) ExpireStale(ctx context.Context) (int, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/invitations/expire", nil)
	if err != nil {
		return 0, err
	}

	var out SweepResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return 0, err
	}
	return out.Expired, nil
}
