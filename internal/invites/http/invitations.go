package http

import (
	"net/http"

	"github.com/aussiebroadwan/tenancy/internal/invites/service"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/idx"
	"github.com/aussiebroadwan/tenancy/pkg/invitesdk"
)

// InvitationsHandler serves the invitation lifecycle endpoints.
type InvitationsHandler struct {
	InvitationService *service.InvitationService
}

// HandleSend handles POST /v1/invitations
//
//	@Summary		Send Invitation
//	@Description	Creates a pending invitation for one of the caller's properties and emails the code to the tenant.
//	@Description	If the email cannot be delivered the invitation is discarded and 502 is returned; the call may be retried.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		invitesdk.SendInvitationRequest		true	"Invitation request"
//	@Success		201		{object}	invitesdk.SendInvitationResponse	"id, code, expires_at"
//	@Failure		400		{object}	invitesdk.ErrorResponse				"error, error_description"
//	@Failure		401		{object}	invitesdk.ErrorResponse				"error, error_description"
//	@Failure		403		{object}	invitesdk.ErrorResponse				"error, error_description"
//	@Failure		404		{object}	invitesdk.ErrorResponse				"property not found"
//	@Failure		409		{object}	invitesdk.ErrorResponse				"tenant placed, invitation in flight, or property already invited"
//	@Failure		502		{object}	invitesdk.ErrorResponse				"invitation email failed"
//	@Failure		500		{object}	invitesdk.ErrorResponse				"error, error_description"
//	@Router			/v1/invitations [post].
func (h *InvitationsHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req invitesdk.SendInvitationRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}

	sent, err := h.InvitationService.SendInvitation(ctx, service.SendInvitationInput{
		LandlordID:   httpx.UserIDFromContext(ctx),
		Email:        req.Email,
		PropertyID:   req.PropertyID,
		PropertyName: req.PropertyName,
	})
	if err != nil {
		writeServiceError(w, r, err, "send invitation")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, invitesdk.SendInvitationResponse{
		ID:        sent.ID,
		Code:      sent.Code,
		ExpiresAt: sent.ExpiresAt,
	})
}

// HandleValidate handles GET /v1/invitations/validate/{code}
//
//	@Summary		Validate Invitation Code
//	@Description	Checks a code before the signup form is shown. An expired code answers 410; every other failure answers 404.
//	@Tags			Invitations
//	@Produce		json
//	@Param			code	path		string	true	"Invitation code"
//	@Param			email	query		string	false	"Email the code is expected to belong to"
//	@Success		200		{object}	invitesdk.ValidateCodeResponse
//	@Failure		404		{object}	invitesdk.ErrorResponse	"invalid_code"
//	@Failure		410		{object}	invitesdk.ErrorResponse	"expired_code"
//	@Failure		429		{object}	invitesdk.ErrorResponse	"rate_limit_exceeded"
//	@Router			/v1/invitations/validate/{code} [get].
func (h *InvitationsHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	v, err := h.InvitationService.ValidateCode(r.Context(), r.PathValue("code"), r.URL.Query().Get("email"))
	if err != nil {
		writeServiceError(w, r, err, "validate invitation code")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, invitesdk.ValidateCodeResponse{
		Valid:        true,
		Email:        v.Email,
		PropertyID:   v.PropertyID,
		PropertyName: v.PropertyName,
		ExpiresAt:    v.ExpiresAt,
	})
}

// HandleRegister handles POST /v1/invitations/register
//
//	@Summary		Register Tenant With Invitation
//	@Description	Creates a tenant account and accepts the invitation atomically. Either both happen or neither does.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		invitesdk.RegisterRequest	true	"Registration request"
//	@Success		201		{object}	invitesdk.RegisterResponse
//	@Failure		400		{object}	invitesdk.ErrorResponse	"error, error_description, fields"
//	@Failure		404		{object}	invitesdk.ErrorResponse	"invalid_code"
//	@Failure		409		{object}	invitesdk.ErrorResponse	"username or email taken"
//	@Failure		410		{object}	invitesdk.ErrorResponse	"expired_code"
//	@Failure		500		{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Router			/v1/invitations/register [post].
func (h *InvitationsHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req invitesdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}

	reg, err := h.InvitationService.RegisterTenant(r.Context(), service.RegisterTenantInput{
		Code:     req.Code,
		Email:    req.Email,
		FullName: req.FullName,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err, "register tenant")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, invitesdk.RegisterResponse{
		UserID:       reg.User.ID,
		Username:     reg.User.Username,
		InvitationID: reg.Invitation.InvitationID,
		PropertyID:   reg.Invitation.PropertyID,
		PropertyName: reg.Invitation.PropertyName,
	})
}

// HandleAccept handles POST /v1/invitations/accept
//
//	@Summary		Accept Invitation
//	@Description	Consumes a code for the signed-in tenant and links them to the property.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		invitesdk.AcceptRequest	true	"Accept request; email defaults to the token's email"
//	@Success		200		{object}	invitesdk.AcceptResponse
//	@Failure		403		{object}	invitesdk.ErrorResponse	"email_mismatch"
//	@Failure		404		{object}	invitesdk.ErrorResponse	"invalid_code"
//	@Failure		409		{object}	invitesdk.ErrorResponse	"tenant_already_placed"
//	@Failure		410		{object}	invitesdk.ErrorResponse	"expired_code"
//	@Router			/v1/invitations/accept [post].
func (h *InvitationsHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req invitesdk.AcceptRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}
	if req.Email == "" {
		if claims, ok := httpx.ClaimsFromContext(ctx); ok {
			req.Email = claims.Email
		}
	}

	acc, err := h.InvitationService.AcceptInvitation(ctx, service.AcceptInvitationInput{
		Code:   req.Code,
		Email:  req.Email,
		UserID: httpx.UserIDFromContext(ctx),
	})
	if err != nil {
		writeServiceError(w, r, err, "accept invitation")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, invitesdk.AcceptResponse{
		InvitationID: acc.InvitationID,
		PropertyID:   acc.PropertyID,
		PropertyName: acc.PropertyName,
	})
}

// HandleCancel handles POST /v1/invitations/{id}/cancel
//
//	@Summary		Cancel Invitation
//	@Description	Withdraws a pending invitation owned by the caller. The tenant is told by email on a best-effort basis.
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Invitation ID"
//	@Success		204	"No Content"
//	@Failure		404	{object}	invitesdk.ErrorResponse	"not found, not owned, or not pending"
//	@Failure		500	{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Router			/v1/invitations/{id}/cancel [post].
func (h *InvitationsHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := r.PathValue("id")
	if !idx.Valid(id) {
		writeServiceError(w, r, service.ErrNotFoundOrNotOwned, "cancel invitation")
		return
	}

	if err := h.InvitationService.CancelInvitation(ctx, httpx.UserIDFromContext(ctx), id); err != nil {
		writeServiceError(w, r, err, "cancel invitation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListByProperty handles GET /v1/properties/{id}/invitations
//
//	@Summary		List Property Invitations
//	@Description	Every invitation for one of the caller's properties, newest first. Stale pending invitations are reported as expired.
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Property ID"
//	@Success		200	{object}	invitesdk.InvitationListResponse
//	@Failure		404	{object}	invitesdk.ErrorResponse	"property_not_found"
//	@Router			/v1/properties/{id}/invitations [get].
func (h *InvitationsHandler) HandleListByProperty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	propertyID := r.PathValue("id")
	if !idx.Valid(propertyID) {
		writeServiceError(w, r, service.ErrPropertyNotFound, "list property invitations")
		return
	}

	invs, err := h.InvitationService.ListByProperty(ctx, httpx.UserIDFromContext(ctx), propertyID)
	if err != nil {
		writeServiceError(w, r, err, "list property invitations")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInvitationList(invs))
}

// HandleLandlordAccepted handles GET /v1/invitations/landlord/accepted
//
//	@Summary		List Accepted Invitations (Landlord)
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	invitesdk.InvitationListResponse
//	@Router			/v1/invitations/landlord/accepted [get].
func (h *InvitationsHandler) HandleLandlordAccepted(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	invs, err := h.InvitationService.ListAcceptedByLandlord(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeServiceError(w, r, err, "list landlord accepted invitations")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInvitationList(invs))
}

// HandleTenantAccepted handles GET /v1/invitations/tenant/accepted
//
//	@Summary		List Accepted Invitations (Tenant)
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	invitesdk.InvitationListResponse
//	@Failure		404	{object}	invitesdk.ErrorResponse	"user_not_found"
//	@Router			/v1/invitations/tenant/accepted [get].
func (h *InvitationsHandler) HandleTenantAccepted(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	invs, err := h.InvitationService.ListAcceptedByTenant(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeServiceError(w, r, err, "list tenant accepted invitations")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInvitationList(invs))
}

// HandleTenantHistory handles GET /v1/invitations/tenant/history
//
//	@Summary		Tenant Invitation History
//	@Description	Every invitation ever sent to the caller's email, newest first.
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	invitesdk.InvitationListResponse
//	@Failure		404	{object}	invitesdk.ErrorResponse	"user_not_found"
//	@Router			/v1/invitations/tenant/history [get].
func (h *InvitationsHandler) HandleTenantHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	invs, err := h.InvitationService.TenantHistory(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeServiceError(w, r, err, "tenant invitation history")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInvitationList(invs))
}

// HandleEligibility handles GET /v1/invitations/eligibility
//
//	@Summary		Check Tenant Eligibility
//	@Description	Reports whether an email could receive an invitation right now. Property conflicts are not considered.
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Param			email	query		string	true	"Tenant email"
//	@Success		200		{object}	invitesdk.EligibilityResponse
//	@Failure		400		{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Router			/v1/invitations/eligibility [get].
func (h *InvitationsHandler) HandleEligibility(w http.ResponseWriter, r *http.Request) {
	e, err := h.InvitationService.CheckEligibility(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		writeServiceError(w, r, err, "check eligibility")
		return
	}

	resp := invitesdk.EligibilityResponse{
		Eligible: e.Eligible,
		Reason:   e.Reason,
		Message:  e.Message,
	}
	if e.Existing != nil {
		inv := toInvitation(*e.Existing)
		resp.Existing = &inv
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleExpire handles POST /v1/invitations/expire
//
//	@Summary		Expire Stale Invitations
//	@Description	Runs the expiry sweep now instead of waiting for the timer.
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	invitesdk.SweepResponse
//	@Failure		500	{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Router			/v1/invitations/expire [post].
func (h *InvitationsHandler) HandleExpire(w http.ResponseWriter, r *http.Request) {
	n, err := h.InvitationService.SweepExpired(r.Context(), h.InvitationService.Now())
	if err != nil {
		writeServiceError(w, r, err, "expire invitations")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, invitesdk.SweepResponse{Expired: n})
}
