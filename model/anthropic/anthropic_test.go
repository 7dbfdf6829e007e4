package anthropic

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/hupe1980/taskrouter/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages_ToolResultsAreUserBlocks(t *testing.T) {
	history := []core.Message{
		core.NewUserMessage("book a table"),
		core.NewAssistantMessage("Booking", "", core.ToolCall{ID: "t1", Name: "find_slots", Arguments: `{"restaurant_id":7}`}),
		core.NewToolMessage("Booking", "t1", "find_slots", "[]"),
		core.NewUserMessage("any other day?"),
	}

	msgs := buildMessages(history)
	require.Len(t, msgs, 3)

	assert.Equal(t, anthropic.MessageParamRoleUser, msgs[0].Role)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, msgs[1].Role)
	require.Len(t, msgs[1].Content, 1)
	assert.NotNil(t, msgs[1].Content[0].OfToolUse)

	// tool result and the following user text share one user turn
	assert.Equal(t, anthropic.MessageParamRoleUser, msgs[2].Role)
	require.Len(t, msgs[2].Content, 2)
	assert.NotNil(t, msgs[2].Content[0].OfToolResult)
	assert.NotNil(t, msgs[2].Content[1].OfText)
}

func TestBuildMessages_DropsOrphanToolResults(t *testing.T) {
	history := []core.Message{
		core.NewToolMessage("Booking", "gone", "find_slots", "[]"),
		core.NewAssistantMessage("Booking", "Here are the slots."),
	}

	msgs := buildMessages(history)
	require.Len(t, msgs, 1)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, msgs[0].Role)
}

func TestBuildTools(t *testing.T) {
	defs := []core.ToolDefinition{{
		Name:        "add",
		Description: "Add two numbers",
		Parameters:  core.Schema{{Name: "a", Type: core.TypeNumber, Required: true}}.JSONSchema(),
	}}

	tools := buildTools(defs)
	require.Len(t, tools, 1)
	require.NotNil(t, tools[0].OfTool)
	assert.Equal(t, "add", tools[0].OfTool.Name)
	assert.Equal(t, []string{"a"}, tools[0].OfTool.InputSchema.Required)
}
