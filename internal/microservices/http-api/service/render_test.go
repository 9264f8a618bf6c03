package service

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRenderTemplate(t *testing.T) {
	result := RenderTemplate("Hello {{name}}, order {{order_id}} shipped", map[string]any{
		"name":     "Ali",
		"order_id": 42,
	})
	assert.Equal(t, "Hello Ali, order 42 shipped", result)
}

func TestRenderTemplate_MissingVariableStaysLiteral(t *testing.T) {
	result := RenderTemplate("Hello {{name}}, code {{code}}", map[string]any{
		"name": "Ali",
	})
	assert.Equal(t, "Hello Ali, code {{code}}", result)
}

func TestRenderTemplate_EmptyContext(t *testing.T) {
	result := RenderTemplate("Hello {{name}}", nil)
	assert.Equal(t, "Hello {{name}}", result)
}

func TestRenderTemplate_RepeatedPlaceholder(t *testing.T) {
	result := RenderTemplate("{{name}} and {{name}} again", map[string]any{"name": "Ali"})
	assert.Equal(t, "Ali and Ali again", result)
}
