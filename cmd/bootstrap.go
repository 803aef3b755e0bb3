package cmd

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mittwald/healthd/internal/config"
	"github.com/mittwald/healthd/internal/helper"
	"github.com/mittwald/healthd/pkg/apps"
	"github.com/mittwald/healthd/pkg/health"
	"github.com/mittwald/healthd/pkg/probe"
	"github.com/mittwald/healthd/pkg/sampler"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// stack is everything a health endpoint needs, assembled from one
// configuration.
type stack struct {
	config     *config.Ignition
	db         *sql.DB
	apps       *apps.Registry
	aggregator *probe.Aggregator
	handler    *health.Handler
}

func (s *stack) Close() {
	if s.db == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		log.WithError(err).Warn("failed to close database handle")
	}
	s.db = nil
}

func buildStack(cfg *config.Ignition) (*stack, error) {
	db := openDatabase(cfg.Database)
	registry := buildApps(cfg.Registry)

	probes, err := probe.BuildRegistry(cfg, probe.Dependencies{DB: db, Apps: registry})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build probe registry")
	}

	opts := []probe.AggregatorOption{probe.WithTimeout(cfg.Check.CheckTimeout())}
	if cfg.Check.Sequential {
		opts = append(opts, probe.WithSequential())
	}
	aggregator := probe.NewAggregator(probes, opts...)

	metrics, err := sampler.New(db, cfg.Database.Metrics, cfg.Database.SampleTimeout())
	if err != nil {
		return nil, errors.Wrap(err, "invalid database metrics")
	}

	handler := health.NewHandler(aggregator,
		health.WithServiceInfo(health.ServiceInfo{
			Name:    cfg.Service.Name,
			Version: cfg.Service.Version,
			Company: cfg.Service.Company,
		}),
		health.WithEnvironment(environmentFor(cfg)),
		health.WithSampler(metrics, probe.NameDatabase),
	)

	log.WithFields(log.Fields{"kind": "config", "probes": probes.Names()}).Info("health probes registered")

	return &stack{
		config:     cfg,
		db:         db,
		apps:       registry,
		aggregator: aggregator,
		handler:    handler,
	}, nil
}

// openDatabase returns a lazily connecting handle. A database that cannot be
// addressed leaves the handle nil, which the database probe reports.
func openDatabase(cfg *config.Database) *sql.DB {
	dsn, err := cfg.DSN()
	if err != nil {
		log.WithFields(log.Fields{"kind": "config", "section": "database"}).WithError(err).Warn("database handle unavailable")
		return nil
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.WithFields(log.Fields{"kind": "config", "section": "database"}).WithError(err).Warn("database handle unavailable")
		return nil
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	return db
}

func buildApps(cfg *config.Registry) *apps.Registry {
	registry := apps.NewRegistry()
	for _, agent := range cfg.Agents {
		registry.RegisterAgent(agent)
	}
	for _, tool := range cfg.Tools {
		registry.RegisterTool(tool)
	}
	registry.SetPatterns(cfg.Patterns)
	registry.MarkInitialized()
	return registry
}

func environmentFor(cfg *config.Ignition) health.Environment {
	dsn, _ := cfg.Database.DSN()
	return health.Environment{
		DeploymentMode: cfg.Service.Mode,
		StorageBackend: config.StorageBackendKind(helper.FirstNonEmpty(cfg.Database.URL, dsn)),
		CacheHost:      cfg.Redis.Hostname,
	}
}
