package http

import (
	"net/http"

	"github.com/aussiebroadwan/tenancy/internal/invites/service"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/invitesdk"
)

// PropertiesHandler handles the landlord's property endpoints.
type PropertiesHandler struct {
	PropertyService *service.PropertyService
}

// HandleCreate handles POST /v1/properties
//
//	@Summary		Create Property
//	@Description	Registers a property owned by the caller. The landlord's profile is refreshed from the token claims.
//	@Tags			Properties
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		invitesdk.CreatePropertyRequest	true	"Property"
//	@Success		201		{object}	invitesdk.Property
//	@Failure		400		{object}	invitesdk.ErrorResponse	"error, error_description, fields"
//	@Failure		500		{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Router			/v1/properties [post].
func (h *PropertiesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req invitesdk.CreatePropertyRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}

	in := service.CreatePropertyInput{
		LandlordID: httpx.UserIDFromContext(ctx),
		Name:       req.Name,
		Address:    req.Address,
	}
	if claims, ok := httpx.ClaimsFromContext(ctx); ok {
		in.LandlordEmail = claims.Email
		in.LandlordUsername = claims.Username
	}

	p, err := h.PropertyService.CreateProperty(ctx, in)
	if err != nil {
		writeServiceError(w, r, err, "create property")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toProperty(p))
}

// HandleList handles GET /v1/properties
//
//	@Summary		List Properties
//	@Tags			Properties
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	invitesdk.PropertyListResponse
//	@Router			/v1/properties [get].
func (h *PropertiesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	props, err := h.PropertyService.ListProperties(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeServiceError(w, r, err, "list properties")
		return
	}

	resp := invitesdk.PropertyListResponse{Properties: make([]invitesdk.Property, 0, len(props))}
	for _, p := range props {
		resp.Properties = append(resp.Properties, toProperty(p))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
