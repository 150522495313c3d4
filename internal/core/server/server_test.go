package server

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/core/config"
	"storefront/internal/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew verifies that New creates a Server with the correct configuration.
func TestNew(t *testing.T) {
	cfg := &config.AppConfig{
		ServerPort: 8080,
	}

	logger.Init("development", "debug")
	srv := New(cfg)

	require.NotNil(t, srv)
	assert.NotNil(t, srv.App)
	assert.Equal(t, cfg, srv.cfg)
}

// TestServer_PanicBoundary verifies that a panicking handler yields a retryable 500.
func TestServer_PanicBoundary(t *testing.T) {
	logger.Init("development", "error")
	srv := New(&config.AppConfig{})
	srv.App.Get("/boom", func(c *fiber.Ctx) error {
		panic("unexpected")
	})

	resp, err := srv.App.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, MessageSomethingWentWrong, body.Message)
	assert.Equal(t, []string{ActionRetry}, body.Actions)
	assert.NotEmpty(t, body.RayID)
	assert.Equal(t, body.RayID, resp.Header.Get("X-Ray-ID"))
}

// TestServer_NotFound verifies that unknown routes keep their status and offer a way back.
func TestServer_NotFound(t *testing.T) {
	logger.Init("development", "error")
	srv := New(&config.AppConfig{})

	resp, err := srv.App.Test(httptest.NewRequest("GET", "/nowhere", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{ActionBack}, body.Actions)
}

func TestFail_DefaultsToRetry(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return Fail(c, fiber.StatusServiceUnavailable, "unavailable")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "unknown", body.RayID)
	assert.Equal(t, []string{ActionRetry}, body.Actions)
}

// TestServer_Run_Error verifies that Run returns an error when binding fails (e.g., privileged port).
func TestServer_Run_Error(t *testing.T) {
	cfg := &config.AppConfig{
		ServerPort: 1,
	}
	logger.Init("development", "error")

	srv := New(cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(1 * time.Second):
		srv.Shutdown()
		t.Log("Server unexpectedly started or timed out on Error test")
	}
}
