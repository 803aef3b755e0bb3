package probe

import (
	"github.com/pkg/errors"
)

type Entry struct {
	Name  string
	Probe Probe
}

// Registry is the ordered set of probes a service cares about. It is
// assembled once at startup; Register must not be called once checks are
// being served.
type Registry struct {
	entries []Entry
	index   map[string]int
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

func (r *Registry) Register(name string, p Probe) error {
	if name == "" {
		return ErrEmptyName
	}
	if p == nil {
		return errors.Errorf("probe %q is nil", name)
	}
	if _, ok := r.index[name]; ok {
		return errors.Wrapf(ErrDuplicateProbe, "probe %q", name)
	}

	r.index[name] = len(r.entries)
	r.entries = append(r.entries, Entry{Name: name, Probe: p})
	return nil
}

// Entries returns a copy of all registered probes in registration order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

func (r *Registry) Get(name string) (Probe, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.entries[i].Probe, true
}

func (r *Registry) Len() int {
	return len(r.entries)
}
