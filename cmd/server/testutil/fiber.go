package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkline/cmd/server/handlers/httperr"
	"inkline/cmd/server/middlewares"
	"inkline/internal/config"
	"inkline/internal/logger"
	"inkline/internal/services/auth"
	"inkline/internal/utils/crypto"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// TestJWTSecret signs tokens in handler tests.
const TestJWTSecret = "test-secret-key-with-at-least-32-characters"

// CreateTestApp creates a basic Fiber app for testing with common configuration
func CreateTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Config{LogLevel: "debug", LogFormat: "text"}
	_, err := logger.Init(cfg)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: httperr.Handler,
	})

	return app
}

// CreateTestValidator creates a validator with crypto password validation registered
func CreateTestValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	err := crypto.RegisterPasswordValidator(v)
	require.NoError(t, err)
	return v
}

// CreateTestJWT signs a token the way sign-in does, valid for expiry.
func CreateTestJWT(userID string, email string, secret []byte, expiry time.Duration) (string, error) {
	return auth.SignToken(secret, userID, email, time.Now().UTC(), expiry)
}

// MustJWT signs a one-hour token for userID with TestJWTSecret.
func MustJWT(t *testing.T, userID string) string {
	t.Helper()
	token, err := CreateTestJWT(userID, "test@example.com", []byte(TestJWTSecret), time.Hour)
	require.NoError(t, err)
	return token
}

// SetupJWTMiddleware returns the production JWT middleware keyed on jwtSecret.
func SetupJWTMiddleware(jwtSecret string) fiber.Handler {
	return middlewares.JWT(config.Config{JWTSecret: jwtSecret, JWTAlgorithm: "HS256"})
}

// CreateRateLimiter creates a rate limiter for testing
func CreateRateLimiter(maxRequests int, duration time.Duration) fiber.Handler {
	return middlewares.BuildRateLimiter(maxRequests, duration)
}

// CreateJSONRequest creates an HTTP request with JSON body
func CreateJSONRequest(method, url string, body any) *http.Request {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// CreateAuthenticatedRequest creates an HTTP request with Authorization header
func CreateAuthenticatedRequest(method, url string, body any, token string) *http.Request {
	req := CreateJSONRequest(method, url, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// DecodeJSON reads resp into out and closes the body.
func DecodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out), "body: %s", data)
}

// ErrorMessage returns the "error" field of a JSON error response.
func ErrorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var e httperr.E
	DecodeJSON(t, resp, &e)
	return e.Message
}
