package invitesdk

import (
	"context"
	"net/http"
	"net/url"
)

// ValidateCode checks an invitation code before the signup form is shown.
// email may be empty.
func (c *SDKClient) ValidateCode(ctx context.Context, code, email string) (*ValidateCodeResponse, error) {
	path := "/v1/invitations/validate/" + url.PathEscape(code)
	if email != "" {
		path += "?" + url.Values{"email": {email}}.Encode()
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var out ValidateCodeResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a tenant account and accepts the invitation in one step.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/invitations/register", req)
	if err != nil {
		return nil, err
	}

	var out RegisterResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
