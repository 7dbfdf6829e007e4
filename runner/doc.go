// Package runner is the conversation driver. It owns one ConversationState
// per session, feeds each user turn through the dispatch loop, merges the
// resulting context patch, records the active agent and keeps the history
// bounded.
//
// A failing turn never ends the session: the user message and any rounds
// completed before the failure stay in the history and the error is
// returned to the caller.
package runner
