package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/aussiebroadwan/tenancy/api/invites" // Swagger docs
	"github.com/aussiebroadwan/tenancy/internal/invites/service"
	"github.com/aussiebroadwan/tenancy/internal/invites/store"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/jwtx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	limits       httpx.RateLimits
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	InvitationService *service.InvitationService
	PropertyService   *service.PropertyService
}

func NewRouter(
	verifier jwtx.Verifier,
	limits httpx.RateLimits,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		limits:       limits,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerInvitations()
	r.registerProperties()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Tenancy Invitation Service API
//	@version		0.1.0
//	@description	Tenant invitation lifecycle: landlords send single-use codes for their properties,
//	@description	prospective tenants validate them and register, and stale invitations expire.
//	@description
//	@description				Bearer tokens are HS256 JWTs issued by the platform identity service and carry a role claim.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/tenancy
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// handle registers h under pattern with latency instrumentation in front
// of the given middlewares.
func (r *Router) handle(pattern string, h http.HandlerFunc, mws ...httpx.Middleware) {
	r.Mux.Handle(pattern, httpx.Chain(h, append([]httpx.Middleware{httpx.Instrument(pattern)}, mws...)...))
}

// authed returns the middlewares for a bearer-protected route.
func (r *Router) authed(limit httpx.RateLimitConfig, roles ...string) []httpx.Middleware {
	return []httpx.Middleware{
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireRole(roles...),
		httpx.RateLimitByUser(limit),
	}
}

func (r *Router) registerInvitations() {
	h := &InvitationsHandler{InvitationService: r.InvitationService}

	// Public code endpoints - strict rate limit by IP against code guessing
	r.handle("GET /v1/invitations/validate/{code}", h.HandleValidate,
		httpx.RateLimitByIP(r.limits.Strict),
	)
	r.handle("POST /v1/invitations/register", h.HandleRegister,
		httpx.RateLimitByIP(r.limits.Strict),
	)

	// Landlord writes - moderate rate limit by user
	r.handle("POST /v1/invitations", h.HandleSend,
		r.authed(r.limits.Moderate, jwtx.RoleLandlord)...)
	r.handle("POST /v1/invitations/{id}/cancel", h.HandleCancel,
		r.authed(r.limits.Moderate, jwtx.RoleLandlord)...)
	r.handle("POST /v1/invitations/expire", h.HandleExpire,
		r.authed(r.limits.Moderate, jwtx.RoleLandlord, jwtx.RoleAdmin)...)

	// Landlord reads - lenient rate limit by user
	r.handle("GET /v1/properties/{id}/invitations", h.HandleListByProperty,
		r.authed(r.limits.Lenient, jwtx.RoleLandlord)...)
	r.handle("GET /v1/invitations/landlord/accepted", h.HandleLandlordAccepted,
		r.authed(r.limits.Lenient, jwtx.RoleLandlord)...)
	r.handle("GET /v1/invitations/eligibility", h.HandleEligibility,
		r.authed(r.limits.Lenient, jwtx.RoleLandlord)...)

	// Tenant endpoints
	r.handle("POST /v1/invitations/accept", h.HandleAccept,
		r.authed(r.limits.Strict, jwtx.RoleTenant)...)
	r.handle("GET /v1/invitations/tenant/accepted", h.HandleTenantAccepted,
		r.authed(r.limits.Lenient, jwtx.RoleTenant)...)
	r.handle("GET /v1/invitations/tenant/history", h.HandleTenantHistory,
		r.authed(r.limits.Lenient, jwtx.RoleTenant)...)
}

func (r *Router) registerProperties() {
	h := &PropertiesHandler{PropertyService: r.PropertyService}

	r.handle("POST /v1/properties", h.HandleCreate,
		r.authed(r.limits.Moderate, jwtx.RoleLandlord)...)
	r.handle("GET /v1/properties", h.HandleList,
		r.authed(r.limits.Lenient, jwtx.RoleLandlord)...)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.handle("GET /livez", LivezHandler(r.startTime, r.buildVersion),
		httpx.RateLimitByIP(r.limits.Lenient),
	)
	r.handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store),
		httpx.RateLimitByIP(r.limits.Lenient),
	)

	r.Mux.Handle("GET /metrics", promhttp.Handler())
}
