package agent

import (
	"strings"
	"sync"

	"github.com/hupe1980/taskrouter/core"
)

// Registry is the static set of agents a switch may target. Names are unique
// ignoring case; registering a name again replaces the earlier agent.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]*core.Agent
	order  []string
}

// NewRegistry creates a registry seeded with agents.
func NewRegistry(agents ...*core.Agent) *Registry {
	r := &Registry{agents: make(map[string]*core.Agent, len(agents))}
	r.Register(agents...)
	return r
}

// Register adds agents to the registry.
func (r *Registry) Register(agents ...*core.Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range agents {
		if a == nil {
			continue
		}
		key := strings.ToLower(a.Name())
		if _, exists := r.agents[key]; !exists {
			r.order = append(r.order, key)
		}
		r.agents[key] = a
	}
}

// Resolve looks up an agent by name, ignoring case and surrounding space.
func (r *Registry) Resolve(name string) (*core.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[strings.ToLower(strings.TrimSpace(name))]
	return a, ok
}

// Names returns the registered agent names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.order))
	for _, k := range r.order {
		names = append(names, r.agents[k].Name())
	}
	return names
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}
