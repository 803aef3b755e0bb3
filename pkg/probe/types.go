// Package probe checks the dependencies of a backend service and folds the
// outcomes into a single readiness verdict.
//
// A Probe performs exactly one read-only round-trip against its dependency
// and reports the outcome as a Result. Probes never panic and never return
// errors directly; every failure is described by Result.Err, which is always
// a *Failure.
package probe

import (
	"context"
	"time"
)

type Probe interface {
	Exec(ctx context.Context) Result
}

// Describer is implemented by probes that can contribute additional detail
// to the detailed health report.
type Describer interface {
	Describe(ctx context.Context) (map[string]any, error)
}

type Result struct {
	Name     string        `json:"-"`
	OK       bool          `json:"ok"`
	Message  string        `json:"message,omitempty"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"-"`
}

// Kind returns the failure kind of a failed result, or KindNone.
func (r Result) Kind() FailureKind {
	return KindOf(r.Err)
}

// Results holds exactly one Result per registered probe, in registry order.
type Results []Result

// AllOK reports whether every probe passed. An empty set passes.
func (rs Results) AllOK() bool {
	for _, r := range rs {
		if !r.OK {
			return false
		}
	}
	return true
}

func (rs Results) Lookup(name string) (Result, bool) {
	for _, r := range rs {
		if r.Name == name {
			return r, true
		}
	}
	return Result{}, false
}

// Failed returns the names of all failed probes.
func (rs Results) Failed() []string {
	var names []string
	for _, r := range rs {
		if !r.OK {
			names = append(names, r.Name)
		}
	}
	return names
}

func passed(message string) Result {
	return Result{OK: true, Message: message}
}

func failed(kind FailureKind, err error) Result {
	f := &Failure{Kind: kind, Err: err}
	return Result{OK: false, Message: err.Error(), Err: f}
}
