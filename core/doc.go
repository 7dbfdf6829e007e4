// Package core provides the foundational domain types used by the task
// router. It defines:
//
//   - Messages and tool calls (the conversation history exchanged with models)
//   - State and ContextStore (the accumulating key/value context shared by all agents)
//   - Result (the uniform value / context patch / agent switch contract of every tool)
//   - Agent (an immutable descriptor: name, instruction, tools, concurrency flag)
//   - Tool, Schema and ToolContext (the callable surface exposed to models)
//   - The dispatch error taxonomy (unknown tool, invalid argument, unresolved switch)
//
// The package keeps orchestration (flow), argument coercion (tool) and
// collaborators (booking, research, scheduling) out of scope so that every
// other package can depend on it without cycles.
package core
