package probe

import (
	"database/sql"

	"github.com/mittwald/healthd/internal/config"
	"github.com/pkg/errors"
)

const (
	NameDatabase = "database"
	NameRedis    = "redis"
	NameRegistry = "registry"
)

// Dependencies are the live handles owned by the surrounding service.
type Dependencies struct {
	DB   *sql.DB
	Apps Introspector
}

// BuildRegistry assembles the database, redis and registry probes followed
// by every additional probe declared in the configuration, in file order.
func BuildRegistry(cfg *config.Ignition, deps Dependencies) (*Registry, error) {
	registry := NewRegistry()

	builtin := []Entry{
		{Name: NameDatabase, Probe: NewDatabaseProbe(deps.DB, cfg.Database.ProbeTimeout())},
		{Name: NameRedis, Probe: NewRedisProbe(cfg.Redis)},
		{Name: NameRegistry, Probe: NewRegistryProbe(deps.Apps)},
	}
	for _, e := range builtin {
		if err := registry.Register(e.Name, e.Probe); err != nil {
			return nil, err
		}
	}

	for i := range cfg.Probes {
		p, err := buildProbe(&cfg.Probes[i])
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build probe %q", cfg.Probes[i].Name)
		}
		if err := registry.Register(cfg.Probes[i].Name, p); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

func buildProbe(cfg *config.Probe) (Probe, error) {
	timeout := cfg.ProbeTimeout()

	switch {
	case cfg.Filesystem != "":
		return NewFilesystemProbe(cfg.Filesystem), nil
	case cfg.MongoDB != nil:
		return NewMongoDBProbe(cfg.MongoDB, timeout), nil
	case cfg.Amqp != nil:
		return NewAmqpProbe(cfg.Amqp, timeout), nil
	case cfg.HTTP != nil:
		return NewHttpProbe(cfg.HTTP, timeout)
	case cfg.SMTP != nil:
		return NewSmtpProbe(cfg.SMTP, timeout), nil
	default:
		return nil, errors.New("no probe backend configured")
	}
}
