package core

import "errors"

var (
	// ErrUnknownTool is returned when the model requests a tool that is not
	// part of the active agent's tool set.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrInvalidArgument is returned when tool arguments cannot be coerced
	// into the tool's parameter schema.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnresolvedSwitchTarget is reported when a switch names an agent that
	// is not registered. It never aborts a turn.
	ErrUnresolvedSwitchTarget = errors.New("unresolved switch target")
)

var (
	// ErrFetch is returned when a page cannot be retrieved (transport failure
	// or an HTTP status of 400 and above).
	ErrFetch = errors.New("fetch failed")
	// ErrMissingBody is returned when an HTML document has no body element.
	ErrMissingBody = errors.New("document has no body")
)
