// Package apps holds the in-process registry of agents, tools and flow
// patterns a backend service exposes. The health subsystem only reads it.
package apps

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

var ErrNotInitialized = errors.New("application registry is not initialized")

type Registry struct {
	mu          sync.RWMutex
	initialized bool
	agents      map[string]struct{}
	tools       map[string]struct{}
	patterns    []string
}

func NewRegistry() *Registry {
	return &Registry{
		agents: make(map[string]struct{}),
		tools:  make(map[string]struct{}),
	}
}

func (r *Registry) RegisterAgent(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[name] = struct{}{}
}

func (r *Registry) RegisterTool(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[name] = struct{}{}
}

func (r *Registry) SetPatterns(patterns []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patterns = append([]string(nil), patterns...)
}

// MarkInitialized flags the registry as ready for introspection. Until
// then, every read returns ErrNotInitialized.
func (r *Registry) MarkInitialized() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.initialized = true
}

// AgentNames returns the registered agents in lexical order.
func (r *Registry) AgentNames() ([]string, error) {
	if r == nil {
		return nil, ErrNotInitialized
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.initialized {
		return nil, ErrNotInitialized
	}
	return sortedKeys(r.agents), nil
}

// ToolNames returns the registered tools in lexical order.
func (r *Registry) ToolNames() ([]string, error) {
	if r == nil {
		return nil, ErrNotInitialized
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.initialized {
		return nil, ErrNotInitialized
	}
	return sortedKeys(r.tools), nil
}

func (r *Registry) PatternNames() ([]string, error) {
	if r == nil {
		return nil, ErrNotInitialized
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.initialized {
		return nil, ErrNotInitialized
	}
	return append([]string(nil), r.patterns...), nil
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
