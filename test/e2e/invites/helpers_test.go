package invites_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aussiebroadwan/tenancy/pkg/idx"
	"github.com/aussiebroadwan/tenancy/pkg/invitesdk"
	"github.com/aussiebroadwan/tenancy/pkg/jwtx"
)

/*
 * Common constants and helper functions for invitation service end-to-end
 * tests: container setup, token minting and assertions.
 */

const (
	testImageName = "tenancy-invites-test:latest"

	jwtSecret = "e2e-secret-0123456789abcdef0123456789"
	jwtIssuer = "tenancy-platform"
)

// TestMain builds the Docker image once before all tests and removes it
// afterwards.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Invites Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Invites Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/invites/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

// baseEnv is the container environment shared by every test. Rate limits
// are raised so tests that make many rapid requests are not throttled.
func baseEnv() map[string]string {
	return map[string]string{
		"INVITES_JWT_SECRET": jwtSecret,
		"INVITES_JWT_ISSUER": jwtIssuer,
		"INVITES_NOTIFIER":   "log",
		"ENV":                "test",
		"LOG_LEVEL":          "info",
		"LOG_FORMAT":         "json",

		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
		"RATELIMIT_LENIENT_REQUESTS":  "1000",
		"RATELIMIT_LENIENT_BURST":     "1000",
	}
}

// setupInvitesContainer starts the service with relaxed rate limits and
// returns its base URL.
func setupInvitesContainer(t *testing.T) (string, func()) {
	t.Helper()
	return startContainer(t, baseEnv())
}

// setupInvitesContainerWithDefaultRateLimits keeps the production limits.
// Only the rate limit tests should use it.
func setupInvitesContainerWithDefaultRateLimits(t *testing.T) (string, func()) {
	t.Helper()
	env := map[string]string{}
	for k, v := range baseEnv() {
		if !strings.HasPrefix(k, "RATELIMIT_") {
			env[k] = v
		}
	}
	return startContainer(t, env)
}

func startContainer(t *testing.T, env map[string]string) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// actor is a platform account with a token minted for it.
type actor struct {
	ID       string
	Username string
	Email    string
	Session  *invitesdk.Session
}

// newActor mints an access token the way the platform's account service
// would.
func newActor(t *testing.T, client *invitesdk.SDKClient, username, email, role string) actor {
	t.Helper()

	id := idx.New()
	token := mintToken(t, id, username, email, role)
	return actor{ID: id, Username: username, Email: email, Session: client.NewSession(token)}
}

// mintToken signs an access token for an existing account id.
func mintToken(t *testing.T, userID, username, email, role string) string {
	t.Helper()

	signer, err := jwtx.NewSignerHS256([]byte(jwtSecret))
	require.NoError(t, err)

	token, err := signer.Sign(jwtx.NewAccessClaims(userID, username, email, role, time.Hour, jwtIssuer, time.Now()))
	require.NoError(t, err)
	return token
}

// createProperty registers a property for the landlord.
func createProperty(t *testing.T, landlord actor, name string) *invitesdk.Property {
	t.Helper()

	prop, err := landlord.Session.CreateProperty(t.Context(), invitesdk.CreatePropertyRequest{
		Name:    name,
		Address: "1 Test Street",
	})
	require.NoError(t, err, "property creation should succeed")
	require.Equal(t, "available", prop.Status)
	return prop
}

// sendInvitation invites email to the property and returns the response.
func sendInvitation(t *testing.T, landlord actor, propertyID, email string) *invitesdk.SendInvitationResponse {
	t.Helper()

	sent, err := landlord.Session.SendInvitation(t.Context(), invitesdk.SendInvitationRequest{
		Email:      email,
		PropertyID: propertyID,
	})
	require.NoError(t, err, "send should succeed")
	require.Len(t, sent.Code, 6)
	return sent
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *invitesdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

// assertAPIError checks the status and error code of a failed call.
func assertAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)

	var apiErr *invitesdk.APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %T: %v", err, err)
	require.Equal(t, status, apiErr.StatusCode, "status for %s", apiErr.Code)
	require.Equal(t, code, apiErr.Code)
}
