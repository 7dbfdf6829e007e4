// Package logging provides a minimal logging interface and adapters for the
// task router.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the controller, tools and collaborators use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - ZerologAdapter wrapping github.com/rs/zerolog
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.New(logging.Config{Level: logging.LogLevelInfo, Format: "console"})
//	router, err := taskrouter.New(cfg, func(o *taskrouter.Options) { o.Logger = logger })
//
// Event names are dotted (tool.call.start, flow.round, research.fetch_failed)
// and extra fields are passed as alternating key/value pairs.
package logging
