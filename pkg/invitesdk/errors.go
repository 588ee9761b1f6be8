package invitesdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes carried in ErrorResponse.Error.
const (
	CodeInvalidRequest         = "invalid_request"
	CodeInvalidToken           = "invalid_token"
	CodeInsufficientRole       = "insufficient_role"
	CodeRateLimited            = "rate_limit_exceeded"
	CodeTenantAlreadyPlaced    = "tenant_already_placed"
	CodeTenantInviteInFlight   = "tenant_invite_in_flight"
	CodePropertyAlreadyInvited = "property_already_invited"
	CodePropertyNotFound       = "property_not_found"
	CodeInvalidCode            = "invalid_code"
	CodeExpiredCode            = "expired_code"
	CodeInvitationNotFound     = "invitation_not_found"
	CodeNotificationFailed     = "notification_failed"
	CodeUsernameTaken          = "username_taken"
	CodeEmailTaken             = "email_taken"
	CodeUserNotFound           = "user_not_found"
	CodeEmailMismatch          = "email_mismatch"
	CodeCodeSpaceExhausted     = "code_space_exhausted"
	CodeServerError            = "server_error"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
	Fields      map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Retryable reports whether repeating the same call may succeed.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusBadGateway ||
		e.Code == CodeCodeSpaceExhausted ||
		e.StatusCode == http.StatusServiceUnavailable ||
		e.StatusCode == http.StatusTooManyRequests
}

// parseErrorResponse turns an error body into an *APIError. Returns nil for
// 2xx responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
			Fields:      errResp.Fields,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        CodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
