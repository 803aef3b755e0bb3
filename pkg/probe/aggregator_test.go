package probe

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type probeFunc func(ctx context.Context) Result

func (f probeFunc) Exec(ctx context.Context) Result {
	return f(ctx)
}

type describingProbe struct {
	probeFunc
	describe func(ctx context.Context) (map[string]any, error)
}

func (d describingProbe) Describe(ctx context.Context) (map[string]any, error) {
	return d.describe(ctx)
}

func passing() Probe {
	return probeFunc(func(context.Context) Result { return passed("Connected") })
}

func failing(msg string) Probe {
	return probeFunc(func(context.Context) Result { return failed(KindConnectivity, errors.New(msg)) })
}

func blocking() Probe {
	return probeFunc(func(ctx context.Context) Result {
		<-ctx.Done()
		return failed(KindConnectivity, ctx.Err())
	})
}

func newTestRegistry(t *testing.T, entries ...Entry) *Registry {
	t.Helper()
	r := NewRegistry()
	for _, e := range entries {
		require.NoError(t, r.Register(e.Name, e.Probe))
	}
	return r
}

func TestRunAllYieldsOneResultPerProbeForEveryFailureSubset(t *testing.T) {
	names := []string{"database", "redis", "registry", "uploads"}

	for mask := 0; mask < 1<<len(names); mask++ {
		t.Run(fmt.Sprintf("failing=%04b", mask), func(t *testing.T) {
			registry := NewRegistry()
			shouldFail := map[string]bool{}
			for i, name := range names {
				p := passing()
				if mask&(1<<i) != 0 {
					p = failing(name + " is down")
					shouldFail[name] = true
				}
				require.NoError(t, registry.Register(name, p))
			}

			results := NewAggregator(registry).RunAll(context.Background())

			require.Len(t, results, len(names))
			for i, r := range results {
				assert.Equal(t, names[i], r.Name, "results keep registry order")
				assert.Equal(t, !shouldFail[r.Name], r.OK, r.Name)
			}
			assert.Equal(t, mask == 0, results.AllOK())
			assert.Len(t, results.Failed(), len(shouldFail))
		})
	}
}

func TestRunAllEmptyRegistryIsReady(t *testing.T) {
	results := NewAggregator(NewRegistry()).RunAll(context.Background())

	assert.Empty(t, results)
	assert.True(t, results.AllOK())
}

func TestRunAllConvertsPanicsIntoFailedResults(t *testing.T) {
	registry := newTestRegistry(t,
		Entry{Name: "database", Probe: passing()},
		Entry{Name: "broken", Probe: probeFunc(func(context.Context) Result { panic("nil map write") })},
		Entry{Name: "redis", Probe: passing()},
	)

	results := NewAggregator(registry).RunAll(context.Background())

	require.Len(t, results, 3)
	broken, ok := results.Lookup("broken")
	require.True(t, ok)
	assert.False(t, broken.OK)
	assert.Equal(t, "probe failed unexpectedly", broken.Message)
	assert.Equal(t, KindInternal, broken.Kind())
	assert.ErrorIs(t, broken.Err, ErrProbePanicked)

	for _, name := range []string{"database", "redis"} {
		r, ok := results.Lookup(name)
		require.True(t, ok)
		assert.True(t, r.OK, name)
	}
}

func TestRunAllBoundsLatencyByTimeout(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	registry := newTestRegistry(t,
		Entry{Name: "slow-1", Probe: blocking()},
		Entry{Name: "slow-2", Probe: blocking()},
		Entry{Name: "slow-3", Probe: blocking()},
		Entry{Name: "fast", Probe: passing()},
	)

	start := time.Now()
	results := NewAggregator(registry, WithTimeout(50*time.Millisecond)).RunAll(context.Background())
	elapsed := time.Since(start)

	require.Len(t, results, 4)
	assert.Less(t, elapsed, 140*time.Millisecond, "parallel probes must not add up their timeouts")

	for _, name := range []string{"slow-1", "slow-2", "slow-3"} {
		r, _ := results.Lookup(name)
		assert.False(t, r.OK, name)
		assert.Equal(t, KindConnectivity, r.Kind(), name)
	}
	fast, _ := results.Lookup("fast")
	assert.True(t, fast.OK)
	assert.False(t, results.AllOK())
}

func TestRunAllReportsIgnoredContextAsTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	registry := newTestRegistry(t,
		Entry{Name: "stuck", Probe: probeFunc(func(context.Context) Result {
			<-release
			return passed("too late")
		})},
	)

	results := NewAggregator(registry, WithTimeout(20*time.Millisecond)).RunAll(context.Background())

	require.Len(t, results, 1)
	assert.False(t, results[0].OK)
	assert.Equal(t, "timed out", results[0].Message)
	assert.ErrorIs(t, results[0].Err, ErrTimeout)
}

func TestRunAllSequentialKeepsOrder(t *testing.T) {
	var mu sync.Mutex
	var calls []string
	recording := func(name string) Probe {
		return probeFunc(func(context.Context) Result {
			mu.Lock()
			calls = append(calls, name)
			mu.Unlock()
			return passed("ok")
		})
	}

	registry := newTestRegistry(t,
		Entry{Name: "a", Probe: recording("a")},
		Entry{Name: "b", Probe: recording("b")},
		Entry{Name: "c", Probe: recording("c")},
	)

	results := NewAggregator(registry, WithSequential()).RunAll(context.Background())

	assert.True(t, results.AllOK())
	assert.Equal(t, []string{"a", "b", "c"}, calls)
}

func TestRunAllRunsEveryProbeExactlyOnce(t *testing.T) {
	var mu sync.Mutex
	counts := map[string]int{}
	counting := func(name string, ok bool) Probe {
		return probeFunc(func(context.Context) Result {
			mu.Lock()
			counts[name]++
			mu.Unlock()
			if ok {
				return passed("ok")
			}
			return failed(KindQuery, errors.New("nope"))
		})
	}

	registry := newTestRegistry(t,
		Entry{Name: "a", Probe: counting("a", true)},
		Entry{Name: "b", Probe: counting("b", false)},
	)

	NewAggregator(registry).RunAll(context.Background())

	assert.Equal(t, map[string]int{"a": 1, "b": 1}, counts)
}

func TestRunAllNormalizesResultsWithoutError(t *testing.T) {
	registry := newTestRegistry(t,
		Entry{Name: "sloppy", Probe: probeFunc(func(context.Context) Result {
			return Result{OK: false}
		})},
		Entry{Name: "plain-error", Probe: probeFunc(func(context.Context) Result {
			return Result{OK: false, Err: errors.New("plain")}
		})},
	)

	results := NewAggregator(registry).RunAll(context.Background())

	sloppy, _ := results.Lookup("sloppy")
	assert.Equal(t, KindInternal, sloppy.Kind())
	assert.NotEmpty(t, sloppy.Message)

	plain, _ := results.Lookup("plain-error")
	assert.Equal(t, KindInternal, plain.Kind())
	assert.Contains(t, plain.Message, "plain")
}

func TestDescribe(t *testing.T) {
	registry := newTestRegistry(t,
		Entry{Name: "database", Probe: passing()},
		Entry{Name: "registry", Probe: describingProbe{
			probeFunc: func(context.Context) Result { return passed("ok") },
			describe: func(context.Context) (map[string]any, error) {
				return map[string]any{"agents": []string{"planner"}}, nil
			},
		}},
		Entry{Name: "uninitialized", Probe: describingProbe{
			probeFunc: func(context.Context) Result { return passed("ok") },
			describe: func(context.Context) (map[string]any, error) {
				return nil, errors.New("not initialized")
			},
		}},
		Entry{Name: "panicking", Probe: describingProbe{
			probeFunc: func(context.Context) Result { return passed("ok") },
			describe: func(context.Context) (map[string]any, error) {
				panic("boom")
			},
		}},
	)

	details := NewAggregator(registry).Describe(context.Background())

	assert.NotContains(t, details, "database")
	assert.Equal(t, map[string]any{"agents": []string{"planner"}}, details["registry"])

	for _, name := range []string{"uninitialized", "panicking"} {
		d, ok := details[name]
		assert.True(t, ok, name)
		assert.Nil(t, d, name)
	}
}
