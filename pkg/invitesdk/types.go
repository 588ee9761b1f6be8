package invitesdk

import "time"

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error            string            `json:"error"`
	ErrorDescription string            `json:"error_description"`
	Fields           map[string]string `json:"fields,omitempty"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks is only present on /readyz.
type HealthChecks struct {
	Database string `json:"database"`
}

// ============================================================================
// Invitations
// ============================================================================

type SendInvitationRequest struct {
	Email      string `json:"email"`
	PropertyID string `json:"property_id"`

	// PropertyName overrides the stored property name in the email.
	PropertyName string `json:"property_name,omitempty"`
}

type SendInvitationResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ValidateCodeResponse struct {
	Valid        bool      `json:"valid"`
	Email        string    `json:"email"`
	PropertyID   string    `json:"property_id"`
	PropertyName string    `json:"property_name"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// RegisterRequest creates a tenant account and consumes the code.
type RegisterRequest struct {
	Code     string `json:"code"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	InvitationID string `json:"invitation_id"`
	PropertyID   string `json:"property_id"`
	PropertyName string `json:"property_name"`
}

// AcceptRequest consumes a code for the signed-in tenant.
type AcceptRequest struct {
	Code  string `json:"code"`
	Email string `json:"email"`
}

type AcceptResponse struct {
	InvitationID string `json:"invitation_id"`
	PropertyID   string `json:"property_id"`
	PropertyName string `json:"property_name"`
}

type Invitation struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username,omitempty"`
	PropertyID   string    `json:"property_id"`
	PropertyName string    `json:"property_name"`
	Status       string    `json:"status"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type InvitationListResponse struct {
	Invitations []Invitation `json:"invitations"`
}

type EligibilityResponse struct {
	Eligible bool        `json:"eligible"`
	Reason   string      `json:"reason,omitempty"`
	Message  string      `json:"message,omitempty"`
	Existing *Invitation `json:"existing,omitempty"`
}

type SweepResponse struct {
	Expired int `json:"expired"`
}

// ============================================================================
// Properties
// ============================================================================

type CreatePropertyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

type Property struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address,omitempty"`
	Status      string    `json:"status"`
	TenantID    string    `json:"tenant_id,omitempty"`
	TenantEmail string    `json:"tenant_email,omitempty"`
	TenantName  string    `json:"tenant_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PropertyListResponse struct {
	Properties []Property `json:"properties"`
}
