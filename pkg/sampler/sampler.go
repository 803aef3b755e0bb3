// Package sampler collects row counts from the relational store for the
// detailed health report. A failed sample is reported as absent, never as
// an error.
package sampler

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"time"

	"github.com/mittwald/healthd/internal/helper"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const DefaultTimeout = 2 * time.Second

var DefaultEntities = []string{"projects", "flows", "users"}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Snapshot holds one count per sampled entity, in sampling order.
type Snapshot struct {
	entities []string
	counts   map[string]int64
}

func (s *Snapshot) Count(entity string) (int64, bool) {
	if s == nil {
		return 0, false
	}
	c, ok := s.counts[entity]
	return c, ok
}

func (s *Snapshot) Entities() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.entities...)
}

// MarshalJSON renders the snapshot as an object keyed by entity. A nil
// snapshot renders as null.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	return helper.WriteObject(s.entities, func(i int) (any, error) {
		return s.counts[s.entities[i]], nil
	})
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	s.entities = nil
	s.counts = make(map[string]int64)
	return helper.ReadObject(data, func(entity string, dec *json.Decoder) error {
		var count int64
		if err := dec.Decode(&count); err != nil {
			return err
		}
		if _, ok := s.counts[entity]; !ok {
			s.entities = append(s.entities, entity)
		}
		s.counts[entity] = count
		return nil
	})
}

type Sampler struct {
	db       *sql.DB
	entities []string
	timeout  time.Duration
}

// New validates the entity names up front, since they are interpolated into
// the count queries.
func New(db *sql.DB, entities []string, timeout time.Duration) (*Sampler, error) {
	if len(entities) == 0 {
		entities = DefaultEntities
	}
	for _, entity := range entities {
		if !identifier.MatchString(entity) {
			return nil, errors.Errorf("invalid entity name %q", entity)
		}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Sampler{
		db:       db,
		entities: append([]string(nil), entities...),
		timeout:  timeout,
	}, nil
}

// Sample counts the rows of every entity on one scoped connection. It
// returns nil when any of the counts cannot be taken.
func (s *Sampler) Sample(ctx context.Context) *Snapshot {
	snapshot, err := s.sample(ctx)
	if err != nil {
		log.WithFields(log.Fields{"kind": "sampler", "entities": s.entities}).WithError(err).Debug("metrics unavailable")
		return nil
	}
	return snapshot
}

func (s *Sampler) sample(ctx context.Context) (*Snapshot, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("no database handle")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to acquire database connection")
	}
	defer conn.Close()

	snapshot := &Snapshot{
		entities: s.entities,
		counts:   make(map[string]int64, len(s.entities)),
	}
	for _, entity := range s.entities {
		var count int64
		if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+entity).Scan(&count); err != nil {
			return nil, errors.Wrapf(err, "failed to count %s", entity)
		}
		snapshot.counts[entity] = count
	}

	return snapshot, nil
}
