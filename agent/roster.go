package agent

import (
	"github.com/hupe1980/taskrouter/core"
	"github.com/hupe1980/taskrouter/tool"
)

// Agent names of the default roster.
const (
	TriageName     = "Triage"
	BookingName    = "Booking"
	SchedulerName  = "Scheduler"
	ResearcherName = "Researcher"
	CalculatorName = "Calculator"
)

// Toolset groups the collaborator tools handed to the roster. Nil groups
// leave the corresponding agent with only the shared tools.
type Toolset struct {
	Booking    []core.Tool
	Scheduling []core.Tool
	Research   []core.Tool
}

// Roster is the default set of agents plus the registry the switch tool
// resolves against.
type Roster struct {
	Root     *core.Agent
	Registry *Registry
}

const triageInstruction = `You are the triage agent of a personal assistant.
Decide which specialist should handle the user's request and hand over with switch_agent:
- Booking: finding restaurants, listing time slots, reserving tables
- Scheduler: creating calendar meetings
- Researcher: answering questions that need a web search
- Calculator: arithmetic
Answer small talk yourself.`

const bookingInstruction = `You help the user find a restaurant and book a table.
Use get_nearby_restaurants to list options, find_slots for a restaurant id and book_table once the user picked a slot.
{{ if .lastSearch }}Restaurants were already listed; read them with get_context("lastSearch") instead of searching again.
{{ end }}{{ if .lastSlots }}Slots were already listed; read them with get_context("lastSlots").
{{ end }}Switch back to Triage when the user asks for something else.`

const schedulerInstruction = `You schedule meetings with schedule_meeting.
Collect the date and time, a title, the participants, the location and a short description before calling it.
{{ if .lastBooking }}A table was booked earlier in this conversation; offer to put it in the calendar.
{{ end }}Switch back to Triage when the user asks for something else.`

const researcherInstruction = `You answer questions using conduct_research and summarize what you find.
{{ with .lastResearch }}The previous research query was: {{ .query }}
{{ end }}Switch back to Triage when the user asks for something else.`

const calculatorInstruction = `You can perform addition using the add function.
Switch back to Triage when the user asks for something else.`

// NewRoster builds the default roster. Every agent can switch to every other
// agent and read the shared context.
func NewRoster(ts Toolset) *Roster {
	reg := NewRegistry()
	shared := []core.Tool{tool.NewSwitchAgentTool(reg), tool.NewGetContextTool()}

	with := func(tools []core.Tool) []core.Tool {
		out := make([]core.Tool, 0, len(tools)+len(shared))
		out = append(out, tools...)
		return append(out, shared...)
	}

	triage := core.NewAgent(TriageName, func(o *core.AgentOptions) {
		o.Description = "Routes the conversation to the right specialist."
		o.Instruction = core.NewInstructionFromText(triageInstruction)
		o.Tools = with(nil)
	})
	booking := core.NewAgent(BookingName, func(o *core.AgentOptions) {
		o.Description = "Finds restaurants and books tables."
		o.Instruction = core.NewInstructionFromText(bookingInstruction)
		o.Tools = with(ts.Booking)
	})
	scheduler := core.NewAgent(SchedulerName, func(o *core.AgentOptions) {
		o.Description = "Schedules calendar meetings."
		o.Instruction = core.NewInstructionFromText(schedulerInstruction)
		o.Tools = with(ts.Scheduling)
	})
	researcher := core.NewAgent(ResearcherName, func(o *core.AgentOptions) {
		o.Description = "Researches questions on the web."
		o.Instruction = core.NewInstructionFromText(researcherInstruction)
		o.Tools = with(ts.Research)
		o.AllowConcurrentTools = true
	})
	calculator := core.NewAgent(CalculatorName, func(o *core.AgentOptions) {
		o.Description = "Adds numbers."
		o.Instruction = core.NewInstructionFromText(calculatorInstruction)
		o.Tools = with([]core.Tool{tool.NewAddTool()})
	})

	reg.Register(triage, booking, scheduler, researcher, calculator)

	return &Roster{Root: triage, Registry: reg}
}
