package probe

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/mittwald/healthd/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

type amqpProbe struct {
	user        string
	password    string
	host        string
	virtualHost string
	timeout     time.Duration
}

func NewAmqpProbe(cfg *config.Amqp, timeout time.Duration) *amqpProbe {
	return &amqpProbe{
		user:        cfg.User,
		password:    cfg.Password,
		host:        net.JoinHostPort(cfg.Hostname, cfg.Port),
		virtualHost: cfg.VirtualHost,
		timeout:     timeout,
	}
}

func (a *amqpProbe) url() url.URL {
	u := url.URL{
		Scheme: "amqp",
		Host:   a.host,
		Path:   a.virtualHost,
	}
	if a.user != "" && a.password != "" {
		u.User = url.UserPassword(a.user, a.password)
	}
	return u
}

func (a *amqpProbe) Exec(ctx context.Context) Result {
	u := a.url()

	// the amqp client has no context support; the dial timeout bounds the
	// handshake instead
	timeout := a.timeout
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		timeout = time.Until(deadline)
	}

	conn, err := amqp.DialConfig(u.String(), amqp.Config{
		Dial: amqp.DefaultDial(timeout),
	})
	if err != nil {
		return failed(KindConnectivity, fmt.Errorf("failed to dial amqp at %q: %w", u.Redacted(), err))
	}
	defer conn.Close()

	log.WithFields(log.Fields{"kind": "probe", "name": "amqp", "status": "alive", "host": a.host}).Debug()
	return passed("Connected")
}
