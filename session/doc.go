// Package session holds per-conversation state: the history, the active
// agent and the shared context store. Store is the storage contract;
// InMemoryStore keeps conversations in process memory only, so nothing
// survives a restart.
//
// Other backends can implement Store without changing the runner; only the
// wiring layer decides which one to instantiate.
package session
