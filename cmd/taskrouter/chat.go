package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/hupe1980/taskrouter/flow"
	"github.com/hupe1980/taskrouter/runner"
)

const exitCommand = "exit"

type turner interface {
	Turn(ctx context.Context, sessionID, input string) (*runner.TurnOutput, error)
}

var (
	agentLabel = color.New(color.FgCyan, color.Bold).SprintFunc()
	errorLabel = color.New(color.FgRed).SprintFunc()
	traceLabel = color.New(color.Faint).SprintFunc()
)

const traceWidth = 120

// runChat reads lines until exit, EOF or an interrupt. A failing turn is
// reported and the loop continues.
func runChat(ctx context.Context, t turner, editor lineEditor, sessionID string) error {
	out := editor.Output()
	fmt.Fprintf(out, "Type %q to quit.\n", exitCommand)

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := editor.ReadLine("> ")
		if err != nil {
			if errors.Is(err, errInputEOF) || errors.Is(err, errInputInterrupt) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == exitCommand {
			return nil
		}

		res, err := t.Turn(ctx, sessionID, line)
		if err != nil {
			fmt.Fprintf(out, "%s %v\n", errorLabel("error:"), err)
			continue
		}

		reply := res.Reply
		if reply == "" {
			reply = "(no response)"
		}
		fmt.Fprintf(out, "%s %s\n", agentLabel("["+res.AgentName+"]"), reply)
	}
}

// traceCallbacks returns callbacks printing tool outcomes and agent switches
// to w.
func traceCallbacks(w io.Writer) []flow.Callback {
	return []flow.Callback{
		flow.NewFunctionCallback(flow.CallbackAfterTool, func(_ context.Context, cc *flow.CallbackContext) error {
			value := cc.Outcome.Result.Value
			if cc.Outcome.Err != nil {
				value = "Error: " + cc.Outcome.Err.Error()
			}
			fmt.Fprintln(w, traceLabel(fmt.Sprintf("  %s %s(%s) -> %s", cc.Agent.Name(), cc.Call.Name, cc.Call.Arguments, clip(value, traceWidth))))
			return nil
		}),
		flow.NewFunctionCallback(flow.CallbackAgentSwitch, func(_ context.Context, cc *flow.CallbackContext) error {
			fmt.Fprintln(w, traceLabel(fmt.Sprintf("  %s -> %s", cc.Agent.Name(), cc.Target.Name())))
			return nil
		}),
	}
}

func clip(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n]) + "..."
	}
	return s
}
