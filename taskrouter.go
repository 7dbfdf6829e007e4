// Package taskrouter wires the conversational task router together: the
// language model, the booking, scheduling and research collaborators, the
// default agent roster and the conversation runner.
//
// Most applications interact with this package by:
//  1. Loading a config.Config (config.Load)
//  2. Creating a TaskRouter via New, optionally overriding collaborators
//  3. Feeding user input to Turn and displaying the reply
//
// Every collaborator can be replaced through Options, which keeps tests and
// demos free of network access.
package taskrouter

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/taskrouter/agent"
	"github.com/hupe1980/taskrouter/booking"
	"github.com/hupe1980/taskrouter/config"
	"github.com/hupe1980/taskrouter/core"
	"github.com/hupe1980/taskrouter/extract"
	"github.com/hupe1980/taskrouter/fetch"
	"github.com/hupe1980/taskrouter/flow"
	"github.com/hupe1980/taskrouter/logging"
	"github.com/hupe1980/taskrouter/model"
	"github.com/hupe1980/taskrouter/model/anthropic"
	"github.com/hupe1980/taskrouter/model/openai"
	"github.com/hupe1980/taskrouter/research"
	"github.com/hupe1980/taskrouter/runner"
	"github.com/hupe1980/taskrouter/scheduling"
	"github.com/hupe1980/taskrouter/session"
)

// Options overrides the collaborators New would otherwise build from the
// configuration.
type Options struct {
	Model    model.Model
	Logger   logging.Logger
	Store    session.Store
	Booking  booking.Service
	Notifier scheduling.Notifier
	Searcher research.Searcher
	Fetcher  fetch.Fetcher

	// Callbacks observe the dispatch loop.
	Callbacks []flow.Callback
}

// TaskRouter is the assembled application.
type TaskRouter struct {
	runner *runner.Runner
	roster *agent.Roster
	model  model.Model
	logger logging.Logger
}

// New assembles a TaskRouter from cfg.
func New(cfg *config.Config, optFns ...func(o *Options)) (*TaskRouter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("taskrouter: nil config")
	}

	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = NewLogger(cfg.Log, os.Stderr)
	}
	logger := opts.Logger

	if opts.Model == nil {
		m, err := NewModel(cfg.Model)
		if err != nil {
			return nil, err
		}
		opts.Model = m
	}

	if opts.Fetcher == nil {
		f, err := fetch.New(fetch.Kind(strings.ToLower(cfg.Fetch.Kind)), func(o *fetch.Options) {
			o.Timeout = cfg.Fetch.Timeout
			o.MaxBytes = cfg.Fetch.MaxBytes
			o.UserAgent = cfg.Fetch.UserAgent
			o.Logger = logger
		})
		if err != nil {
			return nil, err
		}
		opts.Fetcher = f
	}

	if opts.Searcher == nil {
		opts.Searcher = research.NewSerperClient(cfg.Search.APIKey, func(o *research.SerperOptions) {
			o.Endpoint = cfg.Search.Endpoint
			o.Logger = logger
		})
	}

	if opts.Booking == nil {
		opts.Booking = booking.NewClient(func(o *booking.Options) {
			o.SiteURL = cfg.Booking.SiteURL
			o.APIURL = cfg.Booking.APIURL
			o.CityPage = cfg.Booking.CityPage
			o.Cookie = cfg.Booking.Cookie
			o.CSRFToken = cfg.Booking.CSRFToken
			o.Logger = logger
		})
	}

	if opts.Notifier == nil {
		opts.Notifier = scheduling.NewWebhookNotifier(cfg.Scheduling.WebhookURL, func(o *scheduling.WebhookOptions) {
			o.Duration = cfg.Scheduling.Duration
			o.Logger = logger
		})
	}

	aggregator := research.NewAggregator(opts.Searcher, extract.NewReader(opts.Fetcher), func(o *research.AggregatorOptions) {
		o.TopResults = cfg.Search.TopResults
		o.ExcerptChars = cfg.Search.ExcerptChars
		o.Logger = logger
	})

	roster := agent.NewRoster(agent.Toolset{
		Booking:    booking.Tools(opts.Booking),
		Scheduling: []core.Tool{scheduling.NewScheduleMeetingTool(opts.Notifier)},
		Research:   []core.Tool{research.NewConductResearchTool(aggregator)},
	})

	controller := flow.NewController(opts.Model, func(o *flow.Options) {
		o.Logger = logger
		o.MaxParallel = cfg.Runner.MaxParallel
		o.Callbacks = opts.Callbacks
	})

	r := runner.New(controller, roster.Root, func(o *runner.Options) {
		o.Store = opts.Store
		o.MaxHistory = cfg.Runner.MaxHistory
		o.MaxRounds = cfg.Runner.MaxRounds
		o.Logger = logger
	})

	info := opts.Model.Info()
	logger.Info("taskrouter.ready", "provider", info.Provider, "model", info.Name, "agents", strings.Join(roster.Registry.Names(), ","))

	return &TaskRouter{runner: r, roster: roster, model: opts.Model, logger: logger}, nil
}

// Turn runs one user turn on the session.
func (t *TaskRouter) Turn(ctx context.Context, sessionID, input string) (*runner.TurnOutput, error) {
	return t.runner.Turn(ctx, sessionID, input)
}

// Runner exposes the conversation runner.
func (t *TaskRouter) Runner() *runner.Runner { return t.runner }

// Roster exposes the agent roster.
func (t *TaskRouter) Roster() *agent.Roster { return t.roster }

// Logger returns the logger in use.
func (t *TaskRouter) Logger() logging.Logger { return t.logger }

// NewModel builds the model adapter selected by cfg.Provider.
func NewModel(cfg config.ModelConfig) (model.Model, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Name != "" {
				o.Model = cfg.Name
			}
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
			o.Temperature = cfg.Temperature
			if cfg.MaxTokens > 0 {
				o.MaxCompletionTokens = cfg.MaxTokens
			}
			o.Stream = cfg.Stream
		}), nil
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Name != "" {
				o.Model = anthropicsdk.Model(cfg.Name)
			}
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
			o.Temperature = cfg.Temperature
			if cfg.MaxTokens > 0 {
				o.MaxTokens = cfg.MaxTokens
			}
		}), nil
	default:
		return nil, fmt.Errorf("taskrouter: unsupported model provider %q", cfg.Provider)
	}
}

// NewLogger builds the process logger from cfg. An unknown level falls back
// to info.
func NewLogger(cfg config.LogConfig, w io.Writer) logging.Logger {
	level, _ := logging.ParseLevel(cfg.Level)
	return logging.New(logging.Config{Level: level, Format: cfg.Format, Output: w})
}
