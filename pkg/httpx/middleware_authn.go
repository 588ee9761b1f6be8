package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/tenancy/pkg/jwtx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
)

// AuthnMiddleware verifies the bearer token and injects its claims into the
// request context. Tokens whose role claim is not tenant, landlord or admin
// are refused here so RequireRole never sees them.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := bearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("jwt verify failed", "err", err)
				desc := "token verification failed"
				if errors.Is(err, jwtx.ErrExpired) {
					desc = "token expired"
				}
				writeBearerError(w, desc)
				return
			}

			if !claims.HasRole(jwtx.RoleTenant, jwtx.RoleLandlord, jwtx.RoleAdmin) {
				log.Warn("token without a known role", "sub", claims.Subject, "role", claims.Role)
				writeBearerError(w, "token carries no account role")
				return
			}

			ctx = ContextWithClaims(ctx, claims)
			ctx = slogx.WithContext(ctx, log.With("user_id", claims.Subject, "role", claims.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the credentials of an Authorization header. The
// scheme is matched case-insensitively (RFC 7235).
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RFC 6750 error response for bearer auth. The JSON body matches every
// other error the service returns.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "invalid_token", desc)
}
