package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/taskrouter/core"
	"github.com/hupe1980/taskrouter/flow"
	"github.com/hupe1980/taskrouter/logging"
	"github.com/hupe1980/taskrouter/session"
)

const (
	// DefaultMaxHistory bounds the retained messages of a conversation.
	DefaultMaxHistory = 20
	// DefaultSessionID is used when Turn is called with an empty id.
	DefaultSessionID = "default"
)

// Dispatcher runs one user turn. *flow.Controller implements it.
type Dispatcher interface {
	RunTurn(ctx context.Context, agent *core.Agent, history []core.Message, state core.State, maxRounds int) (*flow.TurnResult, error)
}

// Options holds dependency and configuration overrides passed to New.
type Options struct {
	// Store keeps conversations. Defaults to an in-memory store.
	Store session.Store
	// MaxHistory is the maximum number of retained messages.
	MaxHistory int
	// MaxRounds bounds the model rounds of one user turn.
	MaxRounds int
	Logger    logging.Logger
}

// Runner drives conversations. Turns on different sessions may run
// concurrently; turns on the same session are serialized.
type Runner struct {
	dispatcher Dispatcher
	root       *core.Agent
	store      session.Store
	maxHistory int
	maxRounds  int
	logger     logging.Logger
}

// TurnOutput describes what a turn produced.
type TurnOutput struct {
	SessionID string
	// AgentName is the active agent after the turn.
	AgentName string
	// Messages are the messages appended by this turn, excluding the user
	// message.
	Messages []core.Message
	// Reply is the latest assistant text, if any.
	Reply    string
	Switched bool
	Rounds   int
}

// New constructs a Runner whose conversations start on root.
func New(dispatcher Dispatcher, root *core.Agent, optFns ...func(o *Options)) *Runner {
	opts := Options{
		MaxHistory: DefaultMaxHistory,
		MaxRounds:  flow.DefaultMaxRounds,
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Store == nil {
		opts.Store = session.NewInMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.MaxHistory <= 0 {
		opts.MaxHistory = DefaultMaxHistory
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = flow.DefaultMaxRounds
	}

	return &Runner{
		dispatcher: dispatcher,
		root:       root,
		store:      opts.Store,
		maxHistory: opts.MaxHistory,
		maxRounds:  opts.MaxRounds,
		logger:     opts.Logger,
	}
}

// Turn feeds one line of user input into the session, creating the session
// on first use.
func (r *Runner) Turn(ctx context.Context, sessionID, input string) (*TurnOutput, error) {
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: empty input", core.ErrInvalidArgument)
	}

	state, err := r.conversation(sessionID)
	if err != nil {
		return nil, err
	}

	state.Lock()
	defer state.Unlock()

	startAgent := state.Agent
	state.Append(core.NewUserMessage(input))

	r.logger.Debug("runner.turn.start", "session_id", sessionID, "agent", startAgent.Name(), "history", len(state.History))

	result, runErr := r.dispatcher.RunTurn(ctx, startAgent, core.CloneMessages(state.History), state.Context.Snapshot(), r.maxRounds)
	if result != nil {
		state.Append(result.Messages...)
		state.Context.Merge(result.Patch)
		if result.Agent != nil {
			state.Agent = result.Agent
		}
	}
	state.TrimHistory(r.maxHistory)

	if err := r.store.Save(state); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	if runErr != nil {
		r.logger.Error("runner.turn.failed", "session_id", sessionID, "agent", state.Agent.Name(), "error", runErr)
		return nil, fmt.Errorf("turn failed: %w", runErr)
	}

	out := &TurnOutput{
		SessionID: sessionID,
		AgentName: state.Agent.Name(),
		Messages:  result.Messages,
		Reply:     result.Reply(),
		Switched:  state.Agent != startAgent,
		Rounds:    result.Rounds,
	}

	r.logger.Info("runner.turn.done", "session_id", sessionID, "agent", out.AgentName, "rounds", out.Rounds, "switched", out.Switched, "history", len(state.History))
	return out, nil
}

// State returns a snapshot of the session context.
func (r *Runner) State(sessionID string) (core.State, error) {
	state, err := r.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return state.Context.Snapshot(), nil
}

// ExportContext renders the session context as indented JSON.
func (r *Runner) ExportContext(sessionID string) ([]byte, error) {
	snapshot, err := r.State(sessionID)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(snapshot, "", "  ")
}

// ActiveAgent returns the name of the session's active agent. Unknown
// sessions report the root agent.
func (r *Runner) ActiveAgent(sessionID string) string {
	state, err := r.store.Get(sessionID)
	if err != nil {
		return r.root.Name()
	}
	state.Lock()
	defer state.Unlock()
	return state.Agent.Name()
}

// History returns a copy of the retained history of the session.
func (r *Runner) History(sessionID string) ([]core.Message, error) {
	state, err := r.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	state.Lock()
	defer state.Unlock()
	return core.CloneMessages(state.History), nil
}

// Reset ends the session. The next turn starts over on the root agent.
func (r *Runner) Reset(sessionID string) error {
	return r.store.Delete(sessionID)
}

func (r *Runner) conversation(sessionID string) (*session.ConversationState, error) {
	state, created, err := r.store.GetOrCreate(sessionID, r.root)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if created {
		r.logger.Debug("runner.session.created", "session_id", sessionID, "agent", r.root.Name())
	}
	return state, nil
}
