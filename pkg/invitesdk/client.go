package invitesdk

import (
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the tenancy invitation service. It covers the
// public endpoints and hands out Sessions for the authenticated ones.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Session sends a bearer token issued by the identity service. Sessions are
// safe for concurrent use.
type Session struct {
	client      *SDKClient
	accessToken string
}

// NewSession wraps an access token. The service decides from the token's
// role claim which endpoints the session may call.
func (c *SDKClient) NewSession(accessToken string) *Session {
	return &Session{client: c, accessToken: accessToken}
}
