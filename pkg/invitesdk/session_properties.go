package invitesdk

import (
	"context"
	"net/http"
)

func (s *Session) CreateProperty(ctx context.Context, req CreatePropertyRequest) (*Property, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/properties", req)
	if err != nil {
		return nil, err
	}

	var out Property
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) ListProperties(ctx context.Context) ([]Property, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/properties", nil)
	if err != nil {
		return nil, err
	}

	var out PropertyListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Properties, nil
}
