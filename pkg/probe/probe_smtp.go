package probe

import (
	"context"
	"net"
	"net/smtp"
	"time"

	"github.com/mittwald/healthd/internal/config"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type smtpProbe struct {
	host    string
	addr    string
	timeout time.Duration
}

func NewSmtpProbe(cfg *config.SMTP, timeout time.Duration) *smtpProbe {
	return &smtpProbe{
		host:    cfg.Hostname,
		addr:    net.JoinHostPort(cfg.Hostname, cfg.Port),
		timeout: timeout,
	}
}

func (s *smtpProbe) Exec(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return failed(KindConnectivity, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		_ = conn.Close()
		return failed(KindConnectivity, errors.Wrap(err, "smtp handshake failed"))
	}
	defer client.Close()

	if err := client.Noop(); err != nil {
		return failed(KindQuery, err)
	}
	if err := client.Quit(); err != nil {
		return failed(KindQuery, err)
	}

	log.WithFields(log.Fields{"kind": "probe", "name": "smtp", "status": "alive", "host": s.addr}).Debug()
	return passed("Connected")
}
