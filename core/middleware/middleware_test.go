package middleware_test

import (
	"net/http/httptest"
	"testing"

	"pick-reconciler/core/middleware/auth"
	"pick-reconciler/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRayID(t *testing.T) {
	app := fiber.New()
	app.Use(rayid.New())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(rayid.LocalsKey).(string))
	})

	t.Run("Generated", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Header.Get(rayid.Header))
	})

	t.Run("Propagated", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(rayid.Header, "scan-gun-7")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, "scan-gun-7", resp.Header.Get(rayid.Header))
	})
}

func TestAuth(t *testing.T) {
	newApp := func(key string) *fiber.App {
		app := fiber.New()
		app.Use(auth.New(auth.Config{ApiKey: key, Skip: []string{"/swagger"}}))
		app.Get("/picking", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
		app.Get("/swagger/index.html", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
		return app
	}

	tests := []struct {
		name   string
		key    string
		path   string
		header string
		want   int
	}{
		{"Disabled", "", "/picking", "", fiber.StatusOK},
		{"Missing", "secret", "/picking", "", fiber.StatusUnauthorized},
		{"Wrong", "secret", "/picking", "nope", fiber.StatusUnauthorized},
		{"Valid", "secret", "/picking", "secret", fiber.StatusOK},
		{"Skipped", "secret", "/swagger/index.html", "", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set(auth.Header, tt.header)
			}
			resp, err := newApp(tt.key).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}

	t.Run("QueryParam", func(t *testing.T) {
		resp, err := newApp("secret").Test(httptest.NewRequest("GET", "/picking?api_key=secret", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
