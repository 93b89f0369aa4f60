package logger

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		enabled zapcore.Level
	}{
		{"DebugConsole", Config{Level: "debug", Format: "console", Output: "stderr"}, zapcore.DebugLevel},
		{"InfoJSON", Config{Level: "info", Format: "json", Output: "stderr"}, zapcore.InfoLevel},
		{"WarnJSON", Config{Level: "warn", Format: "json", Output: "stderr"}, zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&tt.cfg)
			assert.NoError(t, err)
			assert.NotNil(t, l)
			assert.True(t, l.Core().Enabled(tt.enabled))
		})
	}
}

func TestWithRayID(t *testing.T) {
	app := fiber.New()
	var got *zap.Logger
	base := zap.NewNop()

	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals("ray_id", "ray-1")
		got = WithRayID(base, c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.NotNil(t, got)
}
