package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/tenancy/internal/invites/service"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/invitesdk"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
)

// writeServiceError maps service errors to status codes. Anything it does
// not recognise is logged and returned as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	var (
		verr     *service.ValidationError
		conflict *service.ConflictError
		codeErr  *service.CodeError
	)

	switch {
	case errors.As(err, &verr):
		httpx.WriteJSON(w, http.StatusBadRequest, invitesdk.ErrorResponse{
			Error:            invitesdk.CodeInvalidRequest,
			ErrorDescription: "Request validation failed",
			Fields:           verr.Fields,
		})
	case errors.Is(err, service.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, invitesdk.CodeInvalidRequest, err.Error())

	case errors.As(err, &conflict):
		writeError(w, http.StatusConflict, conflictCode(conflict.Err), conflict.Error())

	case errors.As(err, &codeErr):
		// Callers learn whether a code expired and nothing else.
		if codeErr.Expired() {
			writeError(w, http.StatusGone, invitesdk.CodeExpiredCode, codeErr.Error())
			return
		}
		writeError(w, http.StatusNotFound, invitesdk.CodeInvalidCode, codeErr.Error())

	case errors.Is(err, service.ErrPropertyNotFound):
		writeError(w, http.StatusNotFound, invitesdk.CodePropertyNotFound, "Property not found")
	case errors.Is(err, service.ErrNotFoundOrNotOwned):
		writeError(w, http.StatusNotFound, invitesdk.CodeInvitationNotFound,
			"Invitation not found or you don't have permission to cancel it")
	case errors.Is(err, service.ErrNotificationDeliveryFailed):
		writeError(w, http.StatusBadGateway, invitesdk.CodeNotificationFailed,
			"Failed to send invitation email. Please try again.")
	case errors.Is(err, service.ErrCodeSpaceExhausted):
		writeError(w, http.StatusServiceUnavailable, invitesdk.CodeCodeSpaceExhausted,
			"Could not allocate an invitation code. Please try again.")
	case errors.Is(err, service.ErrUsernameTaken):
		writeError(w, http.StatusConflict, invitesdk.CodeUsernameTaken, "Username is already taken")
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, invitesdk.CodeEmailTaken, "An account with this email already exists")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, invitesdk.CodeUserNotFound, "User not found")
	case errors.Is(err, service.ErrNotTenantEmail):
		writeError(w, http.StatusForbidden, invitesdk.CodeEmailMismatch,
			"This invitation was sent to a different email address")

	default:
		slogx.FromContext(r.Context()).Error(op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, invitesdk.CodeServerError, "Internal server error")
	}
}

func conflictCode(err error) string {
	switch {
	case errors.Is(err, service.ErrTenantAlreadyPlaced):
		return invitesdk.CodeTenantAlreadyPlaced
	case errors.Is(err, service.ErrTenantInviteInFlight):
		return invitesdk.CodeTenantInviteInFlight
	case errors.Is(err, service.ErrPropertyAlreadyInvited):
		return invitesdk.CodePropertyAlreadyInvited
	}
	return "conflict"
}

func writeError(w http.ResponseWriter, status int, code, desc string) {
	httpx.WriteError(w, status, code, desc)
}

func writeInvalidJSON(w http.ResponseWriter) {
	writeError(w, http.StatusBadRequest, invitesdk.CodeInvalidRequest, "Invalid JSON body")
}
