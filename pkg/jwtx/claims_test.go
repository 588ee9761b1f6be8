package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenancy/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte(strings.Repeat("s", jwtx.MinSecretLength))

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: "accounts",
		},
	}

	t.Run("matching issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer("accounts"))
	})

	t.Run("empty expected issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer(""))
	})

	t.Run("mismatched issuer", func(t *testing.T) {
		require.ErrorIs(t, c.ValidateIssuer("billing"), jwtx.ErrIssuer)
	})
}

func TestValidateExpiry(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid window", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
			NotBefore: jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		}}
		require.NoError(t, c.ValidateExpiry(0))
	})

	t.Run("expired", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
		}}
		require.ErrorIs(t, c.ValidateExpiry(0), jwtx.ErrExpired)
	})

	t.Run("expired but inside leeway", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(-10 * time.Second)),
		}}
		require.NoError(t, c.ValidateExpiry(time.Minute))
	})

	t.Run("not yet valid", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
			NotBefore: jwt.NewNumericDate(now.Add(time.Hour)),
		}}
		require.ErrorIs(t, c.ValidateExpiry(0), jwtx.ErrNotYetValid)
	})
}

func TestHasRole(t *testing.T) {
	c := jwtx.NewAccessClaims("u1", "lee", "lee@example.com", jwtx.RoleLandlord, time.Minute, "accounts", time.Now())
	require.True(t, c.HasRole(jwtx.RoleLandlord, jwtx.RoleAdmin))
	require.False(t, c.HasRole(jwtx.RoleTenant))
}

func TestSignAndVerifyHS256(t *testing.T) {
	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256(testSecret, "accounts", 0)
	require.NoError(t, err)

	claims := jwtx.NewAccessClaims("user-1", "terry", "terry@example.com", jwtx.RoleTenant, time.Minute, "accounts", time.Now())
	tok, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := verifier.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "terry@example.com", got.Email)
	require.Equal(t, jwtx.RoleTenant, got.Role)
}

func TestVerifyRejects(t *testing.T) {
	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256(testSecret, "accounts", 0)
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := jwtx.NewSignerHS256([]byte(strings.Repeat("x", jwtx.MinSecretLength)))
		require.NoError(t, err)
		tok, err := other.Sign(jwtx.NewAccessClaims("u", "", "", jwtx.RoleTenant, time.Minute, "accounts", time.Now()))
		require.NoError(t, err)

		_, err = verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		tok, err := signer.Sign(jwtx.NewAccessClaims("u", "", "", jwtx.RoleTenant, time.Minute, "elsewhere", time.Now()))
		require.NoError(t, err)

		_, err = verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("expired", func(t *testing.T) {
		tok, err := signer.Sign(jwtx.NewAccessClaims("u", "", "", jwtx.RoleTenant, time.Minute, "accounts", time.Now().Add(-time.Hour)))
		require.NoError(t, err)

		_, err = verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("missing subject", func(t *testing.T) {
		tok, err := signer.Sign(jwtx.NewAccessClaims("", "", "", jwtx.RoleTenant, time.Minute, "accounts", time.Now()))
		require.NoError(t, err)

		_, err = verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
	})
}

func TestWeakSecretRejected(t *testing.T) {
	_, err := jwtx.NewVerifierHS256([]byte("short"), "", 0)
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)
	_, err = jwtx.NewSignerHS256([]byte("short"))
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)
}
