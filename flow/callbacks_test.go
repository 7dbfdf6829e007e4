package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/taskrouter/core"
	"github.com/hupe1980/taskrouter/model"
)

func TestCallbacks_RunAtEveryStage(t *testing.T) {
	target := newAgent("Target", false)
	sw := &patchTool{name: "go", sw: target}
	agent := newAgent("Start", false, sw, &patchTool{name: "other"})

	var seen []string
	record := func(typ CallbackType) Callback {
		return NewFunctionCallback(typ, func(_ context.Context, cc *CallbackContext) error {
			switch cc.Type {
			case CallbackBeforeTool:
				seen = append(seen, string(cc.Type)+":"+cc.Call.Name)
			case CallbackAfterTool:
				seen = append(seen, string(cc.Type)+":"+cc.Outcome.Result.Value)
			case CallbackAgentSwitch:
				seen = append(seen, string(cc.Type)+":"+cc.Target.Name())
			default:
				seen = append(seen, string(cc.Type))
			}
			return nil
		})
	}

	m := model.NewMockModel("mock", "mock").EnqueueToolCalls(calls("go", "other")...)
	ctrl := NewController(m, func(o *Options) {
		o.Callbacks = []Callback{
			record(CallbackBeforeModel), record(CallbackAfterModel),
			record(CallbackBeforeTool), record(CallbackAfterTool),
			record(CallbackAgentSwitch),
		}
	})

	res, err := ctrl.Run(context.Background(), agent, history(), nil)
	require.NoError(t, err)
	assert.True(t, res.Switched)

	assert.Equal(t, []string{
		"before_model",
		"after_model",
		"before_tool:go",
		"before_tool:other",
		"after_tool:go done",
		"after_tool:other done",
		"agent_switch:Target",
	}, seen)
}

func TestCallbacks_BeforeModelErrorAbortsRound(t *testing.T) {
	m := model.NewMockModel("mock", "mock").EnqueueText("never")
	ctrl := NewController(m, func(o *Options) {
		o.Callbacks = []Callback{NewFunctionCallback(CallbackBeforeModel, func(context.Context, *CallbackContext) error {
			return errors.New("quota exceeded")
		})}
	})

	_, err := ctrl.Run(context.Background(), newAgent("A", false), history(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Empty(t, m.Requests())
}

func TestCallbacks_ObserverErrorsAreIgnored(t *testing.T) {
	pt := &patchTool{name: "t"}
	m := model.NewMockModel("mock", "mock").EnqueueToolCalls(calls("t")...)
	ctrl := NewController(m, func(o *Options) {
		o.Callbacks = []Callback{NewFunctionCallback(CallbackAfterTool, func(context.Context, *CallbackContext) error {
			return errors.New("sink down")
		})}
	})

	res, err := ctrl.Run(context.Background(), newAgent("A", false, pt), history(), core.State{})
	require.NoError(t, err)
	assert.Equal(t, "t done", res.Messages[1].Content)
}

func TestCallbackManager(t *testing.T) {
	var order []int
	mk := func(i int, err error) Callback {
		return NewFunctionCallback(CallbackAfterModel, func(context.Context, *CallbackContext) error {
			order = append(order, i)
			return err
		})
	}

	mgr := NewCallbackManager(mk(1, nil), nil, mk(2, errors.New("stop")), mk(3, nil))
	assert.Equal(t, 3, mgr.Len(CallbackAfterModel))
	assert.Equal(t, 0, mgr.Len(CallbackBeforeTool))

	err := mgr.Execute(context.Background(), &CallbackContext{Type: CallbackAfterModel})
	require.Error(t, err)
	assert.Equal(t, []int{1, 2}, order)

	var nilMgr *CallbackManager
	assert.NoError(t, nilMgr.Execute(context.Background(), &CallbackContext{Type: CallbackAfterModel}))
}
