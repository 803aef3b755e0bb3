package probe

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/go-redis/redis"
	"github.com/mittwald/healthd/internal/config"
	log "github.com/sirupsen/logrus"
)

// redisProbe opens a short-lived client for every check, so it never
// shares a connection pool with the service it is reporting on.
type redisProbe struct {
	addr     string
	password string
	db       int
	timeout  time.Duration
}

func NewRedisProbe(cfg *config.Redis) *redisProbe {
	return &redisProbe{
		addr:     cfg.Addr(),
		password: cfg.Password,
		db:       cfg.DB,
		timeout:  cfg.ProbeTimeout(),
	}
}

func (r *redisProbe) Exec(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	client := redis.NewClient(&redis.Options{
		Addr:         r.addr,
		Password:     r.password,
		DB:           r.db,
		DialTimeout:  r.timeout,
		ReadTimeout:  r.timeout,
		WriteTimeout: r.timeout,
		MaxRetries:   0,
		PoolSize:     1,
	})
	defer client.Close()

	if _, err := client.WithContext(ctx).Ping().Result(); err != nil {
		return failed(classifyNetError(ctx, err), err)
	}

	log.WithFields(log.Fields{"kind": "probe", "name": "redis", "status": "alive", "host": r.addr}).Debug()
	return passed("Connected")
}

// classifyNetError separates transport problems from errors reported by a
// reachable server.
func classifyNetError(ctx context.Context, err error) FailureKind {
	if ctx.Err() != nil {
		return KindConnectivity
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindConnectivity
	}
	return KindQuery
}
