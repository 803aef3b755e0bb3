package probe

import (
	"context"
	"testing"

	"github.com/mittwald/healthd/pkg/apps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initializedApps() *apps.Registry {
	r := apps.NewRegistry()
	r.RegisterAgent("planner")
	r.RegisterAgent("coder")
	r.RegisterTool("search")
	r.SetPatterns([]string{"sequential", "parallel"})
	r.MarkInitialized()
	return r
}

func TestRegistryProbeExecOk(t *testing.T) {
	result := NewRegistryProbe(initializedApps()).Exec(context.Background())

	assert.True(t, result.OK)
	assert.Equal(t, "2 agents, 1 tools registered", result.Message)
}

func TestRegistryProbeExecUninitialized(t *testing.T) {
	result := NewRegistryProbe(apps.NewRegistry()).Exec(context.Background())

	assert.False(t, result.OK)
	assert.Equal(t, KindIntrospection, result.Kind())
	assert.ErrorIs(t, result.Err, apps.ErrNotInitialized)
}

func TestRegistryProbeExecWithoutHandle(t *testing.T) {
	var typedNil *apps.Registry

	for name, p := range map[string]*registryProbe{
		"nil interface": NewRegistryProbe(nil),
		"typed nil":     NewRegistryProbe(typedNil),
	} {
		result := p.Exec(context.Background())
		assert.False(t, result.OK, name)
		assert.Equal(t, KindIntrospection, result.Kind(), name)
	}
}

func TestRegistryProbeDescribe(t *testing.T) {
	details, err := NewRegistryProbe(initializedApps()).Describe(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"agents":   []string{"coder", "planner"},
		"tools":    []string{"search"},
		"patterns": []string{"sequential", "parallel"},
	}, details)
}

func TestRegistryProbeDescribeEmptyRegistry(t *testing.T) {
	r := apps.NewRegistry()
	r.MarkInitialized()

	details, err := NewRegistryProbe(r).Describe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{}, details["agents"])
	assert.Equal(t, []string{}, details["patterns"])
}

func TestRegistryProbeDescribeUninitialized(t *testing.T) {
	details, err := NewRegistryProbe(apps.NewRegistry()).Describe(context.Background())

	assert.ErrorIs(t, err, apps.ErrNotInitialized)
	assert.Nil(t, details)
}
