package probe

import (
	"errors"
	"fmt"
)

type FailureKind int

const (
	KindNone FailureKind = iota
	// KindConnectivity: the dependency could not be reached in time.
	KindConnectivity
	// KindQuery: the dependency was reachable but the request failed.
	KindQuery
	// KindIntrospection: an in-process component could not be inspected.
	KindIntrospection
	// KindInternal: the probe itself misbehaved.
	KindInternal
)

func (k FailureKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindConnectivity:
		return "connectivity"
	case KindQuery:
		return "query"
	case KindIntrospection:
		return "introspection"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

var (
	ErrTimeout        = errors.New("timed out")
	ErrNoHandle       = errors.New("no connection handle configured")
	ErrProbePanicked  = errors.New("probe failed unexpectedly")
	ErrEmptyName      = errors.New("probe name must not be empty")
	ErrDuplicateProbe = errors.New("probe is already registered")
)

type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s failure: %s", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// KindOf returns the FailureKind carried by err, KindNone for a nil error
// and KindInternal for errors that are not a *Failure.
func KindOf(err error) FailureKind {
	if err == nil {
		return KindNone
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindInternal
}
