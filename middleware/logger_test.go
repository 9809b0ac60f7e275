package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger_LevelFollowsStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	app := fiber.New()
	app.Use(RequestID)
	app.Use(RequestLogger(zap.New(core)))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.ErrNotFound })
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.ErrInternalServerError })

	for _, path := range []string{"/ok", "/missing", "/boom"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, zap.ErrorLevel, entries[2].Level)

	// fields keep their values after fiber recycles the request
	for i, path := range []string{"/ok", "/missing", "/boom"} {
		assert.Equal(t, path, entries[i].ContextMap()["path"])
		assert.Equal(t, "GET", entries[i].ContextMap()["method"])
	}

	fields := entries[1].ContextMap()
	assert.Equal(t, int64(fiber.StatusNotFound), fields["status"])
	assert.Equal(t, "/missing", fields["path"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestRequestID_EchoesIncomingHeader(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	app := fiber.New()
	app.Use(RequestID)
	app.Use(RequestLogger(zap.New(core)))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for _, id := range []string{"req-first", "req-second"} {
		req := httptest.NewRequest("GET", "/ok", nil)
		req.Header.Set(HeaderRequestID, id)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, id, resp.Header.Get(HeaderRequestID))
		resp.Body.Close()
	}

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-first", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "req-second", entries[1].ContextMap()["request_id"])
}
