package research

import (
	"github.com/hupe1980/taskrouter/core"
	"github.com/hupe1980/taskrouter/tool"
)

// ResearchArgs are the arguments of conduct_research.
type ResearchArgs struct {
	Query string `json:"query" description:"Research topic or question"`
}

// NewConductResearchTool exposes the aggregator to the model. The query is
// remembered under lastResearch.
func NewConductResearchTool(a *Aggregator) *tool.FunctionTool {
	return tool.NewTypedTool("conduct_research",
		"Conducts research on a given topic with a web search and returns the findings.",
		func(tc *core.ToolContext, in ResearchArgs) (core.Result, error) {
			digest := a.Research(tc.Context(), in.Query)
			return core.NewResult(digest).WithPatch("lastResearch", map[string]any{"query": in.Query}), nil
		})
}
