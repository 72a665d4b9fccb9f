package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"retailapi/internal/logger"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		local := c.Locals(RequestIDLocalKey).(string)
		if got := logger.RequestID(c.UserContext()); got != local {
			return c.Status(fiber.StatusInternalServerError).SendString("user context has " + got)
		}
		return c.SendString(local)
	})

	t.Run("generates an id when absent", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest("GET", "/test", nil))

		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.Len(t, ridHeader, 36)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("preserves a caller id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, "pos-terminal-7:000123")

		resp, _ := app.Test(req)

		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "pos-terminal-7:000123", resp.Header.Get(RequestIDHeader))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, "pos-terminal-7:000123", buf.String())
	})
}

func TestRequestID_OutlivesRequest(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	var kept []context.Context
	app.Get("/test", func(c *fiber.Ctx) error {
		kept = append(kept, c.UserContext())
		return c.SendStatus(fiber.StatusNoContent)
	})

	ids := []string{"till-01-aaaa", "till-02-bbbb", "till-03-cccc"}
	for _, id := range ids {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, id)
		_, err := app.Test(req)
		require.NoError(t, err)
	}

	require.Len(t, kept, len(ids))
	for i, ctx := range kept {
		assert.Equal(t, ids[i], logger.RequestID(ctx))
	}
}

func TestSanitizeRequestID(t *testing.T) {
	cases := map[string]struct {
		in   string
		keep bool
	}{
		"plain":        {"abc-123", true},
		"trimmed":      {"  abc-123  ", true},
		"empty":        {"", false},
		"oversized":    {strings.Repeat("x", maxRequestIDLen+1), false},
		"inner space":  {"abc 123", false},
		"non ascii":    {"caf\u00e9", false},
		"at max limit": {strings.Repeat("x", maxRequestIDLen), true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := sanitizeRequestID(tc.in)
			if tc.keep {
				assert.Equal(t, strings.TrimSpace(tc.in), got)
				return
			}
			assert.Len(t, got, 36)
		})
	}
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	app := fiber.New()

	// Logger usually depends on RequestID for request_id field
	app.Use(RequestID())
	app.Use(Logger(zap.New(core)))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		c.Locals(ErrorLocalKey, errors.New("db down"))
		return c.SendStatus(fiber.StatusInternalServerError)
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})

	for _, path := range []string{"/test", "/boom", "/missing"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		resp.Body.Close()
	}

	entries := logs.FilterMessage("http_request").AllUntimed()
	require.Len(t, entries, 3)

	ok := entries[0].ContextMap()
	assert.NotEmpty(t, ok["request_id"])
	assert.Equal(t, "GET", ok["method"])
	assert.Equal(t, "/test", ok["path"])
	assert.Equal(t, int64(fiber.StatusAccepted), ok["status"])
	assert.Contains(t, ok, "latency_ms")
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "db down", entries[1].ContextMap()["error"])

	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
}
