package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate_NoMarkers(t *testing.T) {
	out, err := RenderTemplate("plain instructions", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain instructions", out)
}

func TestRenderTemplate_SubstitutesState(t *testing.T) {
	out, err := RenderTemplate("Hello {{.user}}, last query: {{default \"none\" .lastQuery}}", map[string]any{"user": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada, last query: none", out)
}

func TestRenderTemplate_MissingKeyIsEmpty(t *testing.T) {
	out, err := RenderTemplate("[{{.missing}}]", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestRenderTemplate_ParseError(t *testing.T) {
	_, err := RenderTemplate("{{.broken", nil)
	assert.Error(t, err)
}

func TestNewID_Unique(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
}
