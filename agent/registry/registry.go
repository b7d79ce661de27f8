package registry

import (
	"fmt"

	contractx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/contract"
)

// Registry is the process-lifetime name-to-agent lookup table. All
// registrations happen in the composition root before any dispatch starts,
// so reads need no locking.
type Registry struct {
	agents map[string]contractx.Agent
}

func New() *Registry {
	return &Registry{agents: map[string]contractx.Agent{}}
}

// Register binds the agent under its own name, overwriting any prior binding,
// and hands registry-aware agents a back-reference so they can resolve peers.
func (r *Registry) Register(agent contractx.Agent) {
	if agent == nil {
		return
	}
	if aware, ok := agent.(contractx.RegistryAware); ok {
		aware.AttachRegistry(r)
	}
	r.agents[agent.Name()] = agent
}

func (r *Registry) Get(name string) (contractx.Agent, error) {
	agent, ok := r.agents[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", contractx.ErrAgentNotFound, name)
	}
	return agent, nil
}

// Names returns the registered agent names; order is unspecified.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	return names
}
