package probe

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/mittwald/healthd/internal/config"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type mongoDBProbe struct {
	uri     string
	host    string
	timeout time.Duration
}

func NewMongoDBProbe(cfg *config.MongoDB, timeout time.Duration) *mongoDBProbe {
	host := net.JoinHostPort(cfg.Hostname, cfg.Port)
	uri := cfg.URL
	if uri == "" {
		u := url.URL{
			Scheme: "mongodb",
			Host:   host,
			Path:   cfg.Database,
		}
		if cfg.User != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		}
		uri = u.String()
	}

	return &mongoDBProbe{
		uri:     uri,
		host:    host,
		timeout: timeout,
	}
}

func (m *mongoDBProbe) Exec(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(m.uri).
		SetConnectTimeout(m.timeout).
		SetServerSelectionTimeout(m.timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return failed(KindConnectivity, fmt.Errorf("failed to connect to mongodb: %w", err))
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return failed(KindConnectivity, fmt.Errorf("mongodb ping failed: %w", err))
	}

	log.WithFields(log.Fields{"kind": "probe", "name": "mongodb", "status": "alive", "host": m.host}).Debug()
	return passed("Connected")
}
