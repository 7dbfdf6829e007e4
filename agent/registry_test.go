package agent

import (
	"context"
	"testing"

	"github.com/hupe1980/taskrouter/core"
	"github.com/hupe1980/taskrouter/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ResolveIsCaseInsensitive(t *testing.T) {
	booking := core.NewAgent("Booking")
	r := NewRegistry(booking)

	for _, name := range []string{"Booking", "booking", "BOOKING", "  booking "} {
		got, ok := r.Resolve(name)
		require.True(t, ok, name)
		assert.Same(t, booking, got)
	}

	_, ok := r.Resolve("Astrologer")
	assert.False(t, ok)
}

func TestRegistry_ReplaceKeepsOrder(t *testing.T) {
	first := core.NewAgent("Triage")
	second := core.NewAgent("triage")
	r := NewRegistry(first, core.NewAgent("Booking"), second)

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"triage", "Booking"}, r.Names())
	got, _ := r.Resolve("TRIAGE")
	assert.Same(t, second, got)
}

func TestNewRoster(t *testing.T) {
	r := NewRoster(Toolset{})

	require.NotNil(t, r.Root)
	assert.Equal(t, TriageName, r.Root.Name())
	assert.Equal(t, []string{TriageName, BookingName, SchedulerName, ResearcherName, CalculatorName}, r.Registry.Names())

	for _, name := range r.Registry.Names() {
		a, ok := r.Registry.Resolve(name)
		require.True(t, ok)
		_, hasSwitch := a.Tool(tool.SwitchAgentToolName)
		assert.True(t, hasSwitch, "%s must be able to switch", name)
	}

	researcher, _ := r.Registry.Resolve(ResearcherName)
	assert.True(t, researcher.AllowConcurrentTools())

	calc, _ := r.Registry.Resolve(CalculatorName)
	_, hasAdd := calc.Tool("add")
	assert.True(t, hasAdd)
}

func TestRoster_SwitchToOwnNameReturnsSameAgent(t *testing.T) {
	r := NewRoster(Toolset{})
	sw, _ := r.Root.Tool(tool.SwitchAgentToolName)

	tc := core.NewToolContext(context.Background(), "c1", TriageName, nil, nil)
	res, err := sw.Call(tc, map[string]any{"agent": TriageName})
	require.NoError(t, err)
	assert.Same(t, r.Root, res.AgentSwitch)
}

func TestRoster_InstructionsRenderFromContext(t *testing.T) {
	r := NewRoster(Toolset{})
	researcher, _ := r.Registry.Resolve(ResearcherName)

	empty, err := researcher.Instructions(core.State{})
	require.NoError(t, err)
	assert.NotContains(t, empty, "previous research query")

	withQuery, err := researcher.Instructions(core.State{"lastResearch": map[string]any{"query": "go generics"}})
	require.NoError(t, err)
	assert.Contains(t, withQuery, "The previous research query was: go generics")
}
