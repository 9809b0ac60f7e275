package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"outward-wms/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authApp(t *testing.T) *fiber.App {
	t.Helper()
	config.JWTSecret = "middleware-test-secret"

	app := fiber.New()
	app.Use(RequestID)
	app.Get("/me", AuthMiddleware, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user": UserID(c), "company": Company(c)})
	})
	return app
}

func get(t *testing.T, app *fiber.App, header string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthMiddleware_AcceptsSignedToken(t *testing.T) {
	app := authApp(t)
	token, err := SignToken(42, "acme", time.Now().Add(time.Hour).Unix())
	require.NoError(t, err)

	status, body := get(t, app, "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"user":42,"company":"acme"}`, body)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	app := authApp(t)

	expired, err := SignToken(42, "acme", time.Now().Add(-time.Hour).Unix())
	require.NoError(t, err)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1, "company": "acme"})
	noExpToken, err := noExp.SignedString([]byte(config.JWTSecret))
	require.NoError(t, err)

	noCompany := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1, "exp": time.Now().Add(time.Hour).Unix()})
	noCompanyToken, err := noCompany.SignedString([]byte(config.JWTSecret))
	require.NoError(t, err)

	otherKey := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1, "company": "acme", "exp": time.Now().Add(time.Hour).Unix()})
	otherKeyToken, err := otherKey.SignedString([]byte("someone-else"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"missing header", "", "Missing Authorization header"},
		{"not bearer", "Basic abc", "Invalid Authorization header format"},
		{"expired", "Bearer " + expired, "Invalid token"},
		{"no exp", "Bearer " + noExpToken, "Invalid token"},
		{"wrong key", "Bearer " + otherKeyToken, "Invalid token"},
		{"no company", "Bearer " + noCompanyToken, "Invalid company"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, app, tt.header)
			assert.Equal(t, fiber.StatusUnauthorized, status)
			assert.Contains(t, body, tt.message)
		})
	}
}

func TestRequestID(t *testing.T) {
	app := authApp(t)

	req := httptest.NewRequest("GET", "/me", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(HeaderRequestID), 36)

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set(HeaderRequestID, "given-id")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "given-id", resp.Header.Get(HeaderRequestID))
}

func TestInjectDBMiddleware_RequiresCompany(t *testing.T) {
	app := fiber.New()
	app.Get("/", InjectDBMiddleware, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
