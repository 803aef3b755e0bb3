package probe

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Introspector is the read-only view of the in-process agent/tool registry.
type Introspector interface {
	AgentNames() ([]string, error)
	ToolNames() ([]string, error)
	PatternNames() ([]string, error)
}

type registryProbe struct {
	registry Introspector
}

func NewRegistryProbe(registry Introspector) *registryProbe {
	return &registryProbe{registry: registry}
}

func (r *registryProbe) Exec(_ context.Context) Result {
	agents, tools, err := r.inspect()
	if err != nil {
		return failed(KindIntrospection, err)
	}
	return passed(fmt.Sprintf("%d agents, %d tools registered", len(agents), len(tools)))
}

func (r *registryProbe) Describe(_ context.Context) (map[string]any, error) {
	agents, tools, err := r.inspect()
	if err != nil {
		return nil, err
	}

	patterns, err := r.registry.PatternNames()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list patterns")
	}

	return map[string]any{
		"agents":   nonNil(agents),
		"tools":    nonNil(tools),
		"patterns": nonNil(patterns),
	}, nil
}

func (r *registryProbe) inspect() ([]string, []string, error) {
	if r.registry == nil {
		return nil, nil, ErrNoHandle
	}

	agents, err := r.registry.AgentNames()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to list agents")
	}

	tools, err := r.registry.ToolNames()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to list tools")
	}

	return agents, tools, nil
}

// nonNil keeps empty lists from being rendered as JSON null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
