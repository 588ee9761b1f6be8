package httpx

import (
	"net/http"
	"strings"
)

// RequireRole admits the request only when the caller's role claim is one
// of allowed. It must run after AuthnMiddleware.
func RequireRole(allowed ...string) Middleware {
	want := make(map[string]struct{}, len(allowed))
	for _, s := range allowed {
		want[s] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := want[RoleFromContext(r.Context())]; ok {
				next.ServeHTTP(w, r)
				return
			}
			writeForbidden(w, allowed...)
		})
	}
}

func writeForbidden(w http.ResponseWriter, allowed ...string) {
	WriteError(w, http.StatusForbidden, "insufficient_role", "requires role: "+strings.Join(allowed, " or "))
}
