// Package agent holds the static agent registry used by the switch tool and
// the default roster of conversational roles.
//
// Agents themselves are immutable descriptors (see core.Agent): a name, an
// instruction template re-rendered every turn from the context snapshot, a
// tool set and a concurrency flag. The registry resolves names
// case-insensitively so a model asking for "booking" reaches "Booking".
//
// The roster is assembled from tools built by the collaborator packages
// (booking, research, scheduling); this package does not import them, which
// keeps the dependency direction collaborator -> core and root -> agent.
package agent
