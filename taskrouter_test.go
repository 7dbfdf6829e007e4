package taskrouter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/taskrouter/agent"
	"github.com/hupe1980/taskrouter/config"
	"github.com/hupe1980/taskrouter/core"
	"github.com/hupe1980/taskrouter/fetch"
	"github.com/hupe1980/taskrouter/logging"
	"github.com/hupe1980/taskrouter/model"
	"github.com/hupe1980/taskrouter/research"
	"github.com/hupe1980/taskrouter/tool"
)

type stubSearcher struct{ queries []string }

func (s *stubSearcher) Search(_ context.Context, q string) (*research.SearchResponse, error) {
	s.queries = append(s.queries, q)
	return &research.SearchResponse{
		AnswerBox: &research.AnswerBox{Title: "Go", Answer: "a language"},
		Organic:   []research.OrganicResult{{Title: "go.dev", Link: "https://go.dev", Snippet: "home"}},
	}, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.New[config.Config]("", "")
	require.NoError(t, err)
	return cfg
}

func newTestRouter(t *testing.T, m model.Model, s research.Searcher) *TaskRouter {
	t.Helper()
	tr, err := New(testConfig(t), func(o *Options) {
		o.Model = m
		o.Logger = logging.NoOpLogger{}
		o.Searcher = s
		o.Fetcher = fetch.FetcherFunc(func(context.Context, string) (string, error) {
			return "<html><body><p>Go is open source</p></body></html>", nil
		})
	})
	require.NoError(t, err)
	return tr
}

func TestNew_WiresRoster(t *testing.T) {
	tr := newTestRouter(t, model.NewMockModel("mock", "test"), &stubSearcher{})

	assert.Equal(t, agent.TriageName, tr.Roster().Root.Name())
	assert.Equal(t, []string{"Triage", "Booking", "Scheduler", "Researcher", "Calculator"}, tr.Roster().Registry.Names())

	booking, ok := tr.Roster().Registry.Resolve("booking")
	require.True(t, ok)
	for _, name := range []string{"get_nearby_restaurants", "find_slots", "book_table", tool.SwitchAgentToolName} {
		_, ok := booking.Tool(name)
		assert.True(t, ok, name)
	}
}

func TestTurn_SwitchThenResearch(t *testing.T) {
	m := model.NewMockModel("mock", "test")
	m.EnqueueToolCalls(core.ToolCall{ID: "c1", Name: tool.SwitchAgentToolName, Arguments: `{"agent":"Researcher"}`}).
		EnqueueToolCalls(core.ToolCall{ID: "c2", Name: "conduct_research", Arguments: `"golang"`}).
		EnqueueText("Go is a language.")

	searcher := &stubSearcher{}
	tr := newTestRouter(t, m, searcher)

	out, err := tr.Turn(context.Background(), "s1", "what is go?")
	require.NoError(t, err)
	assert.Equal(t, agent.ResearcherName, out.AgentName)
	assert.True(t, out.Switched)
	assert.Equal(t, "Go is a language.", out.Reply)
	assert.Equal(t, []string{"golang"}, searcher.queries)

	var digest string
	for _, msg := range out.Messages {
		if msg.Role == core.RoleTool && msg.ToolName == "conduct_research" {
			digest = msg.Content
		}
	}
	assert.Equal(t, "Go a languagego.dev\nhomeGo is open source", digest)

	state, err := tr.Runner().State("s1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"query": "golang"}, state["lastResearch"])
}

func TestNewModel(t *testing.T) {
	m, err := NewModel(config.ModelConfig{Provider: "openai", APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "openai", m.Info().Provider)

	m, err = NewModel(config.ModelConfig{Provider: "anthropic", APIKey: "sk-test", Name: "claude-3-5-haiku-latest"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", m.Info().Provider)

	_, err = NewModel(config.ModelConfig{Provider: "llama"})
	assert.Error(t, err)
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}
