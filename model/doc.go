// Package model defines the provider-agnostic abstractions and concrete
// helpers for interacting with language models.
//
// Core goals:
//   - Unify generation behind a single channel based interface
//   - Normalize tool call representation (core.ToolDefinition, core.ToolCall)
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight scripting for tests (MockModel)
//
// Providers (OpenAI, Anthropic) implement the Model interface from this
// package so the controller remains decoupled from vendor SDKs.
package model
