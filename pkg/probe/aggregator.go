package probe

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const DefaultAggregatorTimeout = 3 * time.Second

type AggregatorOption func(*Aggregator)

// WithTimeout bounds one complete RunAll pass. Probes still running when
// it expires are reported as timed out.
func WithTimeout(timeout time.Duration) AggregatorOption {
	return func(a *Aggregator) {
		if timeout > 0 {
			a.timeout = timeout
		}
	}
}

// WithSequential runs probes one after another instead of concurrently.
func WithSequential() AggregatorOption {
	return func(a *Aggregator) {
		a.sequential = true
	}
}

// Aggregator runs every probe of a Registry exactly once per pass and
// isolates them from each other.
type Aggregator struct {
	registry   *Registry
	timeout    time.Duration
	sequential bool
}

func NewAggregator(registry *Registry, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		registry: registry,
		timeout:  DefaultAggregatorTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Aggregator) Registry() *Registry {
	return a.registry
}

// RunAll executes all registered probes and waits for every one of them to
// finish or time out. The returned Results always has one entry per probe,
// in registry order.
func (a *Aggregator) RunAll(ctx context.Context) Results {
	entries := a.registry.Entries()
	results := make(Results, len(entries))
	if len(entries) == 0 {
		return results
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if a.sequential {
		for i, e := range entries {
			results[i] = a.run(ctx, e)
		}
		return results
	}

	var g errgroup.Group
	for i, e := range entries {
		g.Go(func() error {
			results[i] = a.run(ctx, e)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (a *Aggregator) run(ctx context.Context, e Entry) Result {
	start := time.Now()

	var result Result
	if ctx.Err() != nil {
		result = failed(KindConnectivity, ErrTimeout)
	} else {
		resultCh := make(chan Result, 1)

		go func() {
			defer func() {
				if rec := recover(); rec != nil {
					log.WithFields(log.Fields{"kind": "probe", "name": e.Name, "panic": rec}).Error("probe panicked")
					resultCh <- failed(KindInternal, ErrProbePanicked)
				}
			}()
			resultCh <- e.Probe.Exec(ctx)
		}()

		select {
		case result = <-resultCh:
		case <-ctx.Done():
			result = failed(KindConnectivity, ErrTimeout)
		}
	}

	result = normalize(result)
	result.Name = e.Name
	result.Duration = time.Since(start)

	report(result)
	return result
}

// normalize makes sure a failed result always carries a *Failure.
func normalize(r Result) Result {
	if r.OK {
		return r
	}
	if r.Err == nil {
		msg := r.Message
		if msg == "" {
			msg = "probe reported failure without reason"
		}
		r.Err = &Failure{Kind: KindInternal, Err: errors.New(msg)}
	}
	var f *Failure
	if !errors.As(r.Err, &f) {
		r.Err = &Failure{Kind: KindInternal, Err: r.Err}
	}
	if r.Message == "" {
		r.Message = r.Err.Error()
	}
	return r
}

func report(r Result) {
	fields := log.Fields{"kind": "probe", "name": r.Name, "duration": r.Duration}
	if r.OK {
		log.WithFields(fields).WithField("status", "alive").Debug()
	} else {
		log.WithFields(fields).WithField("failure", r.Kind().String()).WithError(r.Err).Warn("probe failed")
	}
	observe(r)
}

// Describe collects the additional detail of every probe implementing
// Describer. A describer that fails or panics is mapped to a nil entry, so
// the presence of a key tells that the probe is able to describe itself.
func (a *Aggregator) Describe(ctx context.Context) map[string]map[string]any {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	out := make(map[string]map[string]any)
	for _, e := range a.registry.Entries() {
		d, ok := e.Probe.(Describer)
		if !ok {
			continue
		}
		out[e.Name] = describe(ctx, e.Name, d)
	}
	return out
}

func describe(ctx context.Context, name string, d Describer) (details map[string]any) {
	defer func() {
		if rec := recover(); rec != nil {
			log.WithFields(log.Fields{"kind": "probe", "name": name, "panic": rec}).Error("describer panicked")
			details = nil
		}
	}()

	details, err := d.Describe(ctx)
	if err != nil {
		log.WithFields(log.Fields{"kind": "probe", "name": name}).WithError(err).Debug("details unavailable")
		return nil
	}
	return details
}
