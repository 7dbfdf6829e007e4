package tool

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hupe1980/taskrouter/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTC(state core.State) *core.ToolContext {
	return core.NewToolContext(context.Background(), "call-1", "Tester", state, nil)
}

// -------------------- Schema & Coercion Tests --------------------

type sampleArgs struct {
	A string  `json:"a" description:"Field A"`
	B *int    `json:"b" description:"Optional pointer field"`
	C int     `json:"c,omitempty" description:"Omit empty field"`
	D float64 `json:"d,omitempty" enum:"x,y"`
}

func TestSchemaFromStruct(t *testing.T) {
	schema := SchemaFromStruct(sampleArgs{})
	require.Len(t, schema, 4)

	assert.Equal(t, "a", schema[0].Name)
	assert.Equal(t, core.TypeString, schema[0].Type)
	assert.True(t, schema[0].Required)
	assert.Equal(t, "Field A", schema[0].Description)

	assert.Equal(t, core.TypeInteger, schema[1].Type)
	assert.False(t, schema[1].Required)
	assert.False(t, schema[2].Required)
	assert.Equal(t, []string{"x", "y"}, schema[3].Enum)
}

func TestCoerce_PositionalAndObjectFormsAgree(t *testing.T) {
	schema := core.Schema{{Name: "restaurant_id", Type: core.TypeInteger, Required: true}}

	positional, err := Coerce(schema, "7")
	require.NoError(t, err)

	object, err := Coerce(schema, `{"restaurant_id": 7}`)
	require.NoError(t, err)

	assert.Equal(t, object, positional)
	assert.Equal(t, int64(7), positional["restaurant_id"])
}

func TestCoerce_NumericStringsAndExtraKeys(t *testing.T) {
	schema := SchemaFromStruct(AddArgs{})

	args, err := Coerce(schema, `{"a": "1.5", "b": 2, "extra": true}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1.5, "b": 2.0}, args)
}

func TestCoerce_BareTextForStringParameter(t *testing.T) {
	schema := core.Schema{{Name: "query", Type: core.TypeString, Required: true}}

	args, err := Coerce(schema, "best pizza in chennai")
	require.NoError(t, err)
	assert.Equal(t, "best pizza in chennai", args["query"])
}

func TestCoerce_Failures(t *testing.T) {
	numeric := core.Schema{{Name: "a", Type: core.TypeNumber, Required: true}}

	tests := []struct {
		name   string
		schema core.Schema
		raw    string
	}{
		{"invalid json for number", numeric, "{not json"},
		{"missing required", numeric, "{}"},
		{"wrong type", numeric, `{"a": "abc"}`},
		{"fraction for integer", core.Schema{{Name: "n", Type: core.TypeInteger, Required: true}}, "1.5"},
		{"positional without params", core.Schema{}, "3"},
		{"enum mismatch", core.Schema{{Name: "e", Type: core.TypeString, Enum: []string{"x"}}}, `"y"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Coerce(tt.schema, tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrInvalidArgument))
		})
	}
}

func TestCoerce_EmptyPayload(t *testing.T) {
	args, err := Coerce(core.Schema{{Name: "key", Type: core.TypeString}}, "")
	require.NoError(t, err)
	assert.Empty(t, args)
}

func TestCoerce_SingleObjectParameter(t *testing.T) {
	schema := core.Schema{{Name: "filter", Type: core.TypeObject, Required: true}}

	args, err := Coerce(schema, `{"city": "chennai"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"city": "chennai"}, args["filter"])
}

// -------------------- FunctionTool Tests --------------------

func TestFunctionTool_Success(t *testing.T) {
	res, err := NewAddTool().Call(newTC(nil), map[string]any{"a": 2.0, "b": 3.5})
	require.NoError(t, err)
	assert.Equal(t, "5.5", res.Value)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	_, err := NewAddTool().Call(newTC(nil), map[string]any{"a": 1.0})
	require.Error(t, err)

	var te *ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeValidationError, te.Code)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestFunctionTool_ExecutionErrorAndPassthrough(t *testing.T) {
	plain := NewFunctionTool("fail", "fails", nil, func(*core.ToolContext, map[string]any) (core.Result, error) {
		return core.Result{}, errors.New("boom")
	})
	_, err := plain.Call(newTC(nil), nil)
	var te *ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeExecutionError, te.Code)
	assert.Equal(t, "boom", te.Message)

	custom := NewFunctionTool("custom", "custom", nil, func(*core.ToolContext, map[string]any) (core.Result, error) {
		return core.Result{}, NewToolError("custom", "rate limited", "RATE_LIMIT")
	})
	_, err = custom.Call(newTC(nil), nil)
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "RATE_LIMIT", te.Code)
}

// -------------------- Registry Tests --------------------

func TestRegistry_UnknownTool(t *testing.T) {
	r := NewRegistry(NewAddTool())

	_, err := r.Invoke(newTC(nil), "multiply", `{"a":1,"b":2}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownTool)

	var te *ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeUnknownTool, te.Code)
}

func TestRegistry_InvokeCoercesArguments(t *testing.T) {
	r := NewRegistry(NewAddTool())

	res, err := r.Invoke(newTC(nil), "add", `{"a":"40","b":2}`)
	require.NoError(t, err)
	assert.Equal(t, "42", res.Value)

	_, err = r.Invoke(newTC(nil), "add", `not json`)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestRegistry_RecoversPanics(t *testing.T) {
	boom := NewFunctionTool("boom", "panics", nil, func(*core.ToolContext, map[string]any) (core.Result, error) {
		panic("kaboom")
	})
	r := NewRegistry(boom)

	_, err := r.Invoke(newTC(nil), "boom", "")
	var te *ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeExecutionError, te.Code)
	assert.Contains(t, te.Message, "kaboom")
}

func TestRegistry_DuplicateReplaces(t *testing.T) {
	first := NewFunctionTool("x", "first", nil, func(*core.ToolContext, map[string]any) (core.Result, error) {
		return core.NewResult("first"), nil
	})
	second := NewFunctionTool("x", "second", nil, func(*core.ToolContext, map[string]any) (core.Result, error) {
		return core.NewResult("second"), nil
	})
	r := NewRegistry(first, NewAddTool(), second)

	assert.Equal(t, []string{"x", "add"}, r.Names())
	res, err := r.Invoke(newTC(nil), "x", "")
	require.NoError(t, err)
	assert.Equal(t, "second", res.Value)
}

// -------------------- Switch Tool Tests --------------------

type staticResolver map[string]*core.Agent

func (s staticResolver) Resolve(name string) (*core.Agent, bool) {
	for k, a := range s {
		if strings.EqualFold(k, name) {
			return a, true
		}
	}
	return nil, false
}

func (s staticResolver) Names() []string { return []string{"Booking", "Triage"} }

func TestSwitchAgent_ResolvesCaseInsensitively(t *testing.T) {
	booking := core.NewAgent("Booking")
	sw := NewSwitchAgentTool(staticResolver{"Booking": booking})

	res, err := sw.Call(newTC(nil), map[string]any{"agent": "booking"})
	require.NoError(t, err)
	assert.Same(t, booking, res.AgentSwitch)
	assert.Equal(t, "Switched to Booking", res.Value)
}

func TestSwitchAgent_IdempotentForStableName(t *testing.T) {
	triage := core.NewAgent("Triage")
	sw := NewSwitchAgentTool(staticResolver{"Triage": triage})

	for i := 0; i < 3; i++ {
		res, err := sw.Call(newTC(nil), map[string]any{"agent": "Triage"})
		require.NoError(t, err)
		assert.Same(t, triage, res.AgentSwitch)
	}
}

func TestSwitchAgent_UnknownTargetIsNoop(t *testing.T) {
	sw := NewSwitchAgentTool(staticResolver{})

	res, err := sw.Call(newTC(nil), map[string]any{"agent": "Astrologer"})
	require.NoError(t, err)
	assert.Nil(t, res.AgentSwitch)
	assert.Contains(t, res.Value, "Astrologer")
	assert.Contains(t, res.Value, "Booking, Triage")
}

// -------------------- Context Tool Tests --------------------

func TestGetContextTool(t *testing.T) {
	ctxTool := NewGetContextTool()
	state := core.State{"lastSearch": map[string]any{"results": []any{"a"}}, "lastSlots": 1}

	res, err := ctxTool.Call(newTC(state), map[string]any{})
	require.NoError(t, err)
	assert.JSONEq(t, `["lastSearch","lastSlots"]`, res.Value)

	res, err = ctxTool.Call(newTC(state), map[string]any{"key": "lastSearch"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"results":["a"]}`, res.Value)
	assert.Empty(t, res.ContextPatch)
}
