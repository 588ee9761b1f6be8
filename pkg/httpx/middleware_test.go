package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler(), mw("a"), mw("b"), mw("c"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"a", "b", "c"}, order)
}

func TestAuthnMiddleware(t *testing.T) {
	secret := []byte(strings.Repeat("k", jwtx.MinSecretLength))
	signer, err := jwtx.NewSignerHS256(secret)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256(secret, "accounts", 0)
	require.NoError(t, err)

	var seen jwtx.Claims
	h := httpx.AuthnMiddleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpx.ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("bad token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		tok, err := signer.Sign(jwtx.NewAccessClaims("user-1", "lee", "lee@example.com", jwtx.RoleLandlord, time.Minute, "accounts", time.Now()))
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "user-1", seen.Subject)
		require.Equal(t, jwtx.RoleLandlord, seen.Role)
	})

	t.Run("scheme is case-insensitive", func(t *testing.T) {
		tok, err := signer.Sign(jwtx.NewAccessClaims("user-2", "kim", "kim@example.com", jwtx.RoleTenant, time.Minute, "accounts", time.Now()))
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "bearer "+tok)
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		tok, err := signer.Sign(jwtx.NewAccessClaims("user-1", "lee", "lee@example.com", jwtx.RoleLandlord, time.Minute, "accounts", time.Now().Add(-time.Hour)))
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "token expired")
	})

	t.Run("unknown role", func(t *testing.T) {
		tok, err := signer.Sign(jwtx.NewAccessClaims("user-3", "bot", "bot@example.com", "service", time.Minute, "accounts", time.Now()))
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid_token")
	})
}

func TestRequireRole(t *testing.T) {
	h := httpx.RequireRole(jwtx.RoleLandlord, jwtx.RoleAdmin)(okHandler())

	serve := func(role string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if role != "" {
			req = req.WithContext(httpx.ContextWithClaims(req.Context(), jwtx.Claims{Role: role}))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, serve(jwtx.RoleLandlord))
	require.Equal(t, http.StatusOK, serve(jwtx.RoleAdmin))
	require.Equal(t, http.StatusForbidden, serve(jwtx.RoleTenant))
	require.Equal(t, http.StatusForbidden, serve(""))
}

func TestInstrumentPassesThrough(t *testing.T) {
	h := httpx.Instrument("test")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","extra":1}`))
	require.Error(t, httpx.DecodeJSON(rec, req, &v))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}`))
	require.NoError(t, httpx.DecodeJSON(rec, req, &v))
	require.Equal(t, "a", v.Name)
}
