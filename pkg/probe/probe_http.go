package probe

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/mittwald/healthd/internal/config"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type httpProbe struct {
	method  string
	url     string
	headers map[string]string
	timeout time.Duration
	status  *regexp.Regexp
}

func NewHttpProbe(cfg *config.HTTP, timeout time.Duration) (*httpProbe, error) {
	host := cfg.Hostname
	if cfg.Port != "" {
		host = net.JoinHostPort(cfg.Hostname, cfg.Port)
	}

	status, err := regexp.Compile(cfg.ExpectStatus)
	if err != nil {
		return nil, errors.Wrap(err, "invalid HTTP status regexp")
	}

	u := url.URL{
		Scheme: cfg.Scheme,
		Host:   host,
		Path:   cfg.Path,
	}

	return &httpProbe{
		method:  strings.ToUpper(cfg.Method),
		url:     u.String(),
		headers: cfg.Headers,
		timeout: timeout,
		status:  status,
	}, nil
}

func (h *httpProbe) Exec(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, h.method, h.url, nil)
	if err != nil {
		return failed(KindQuery, err)
	}
	for k, v := range h.headers {
		req.Header.Set(k, v)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return failed(KindConnectivity, err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 64<<10))

	if !h.status.MatchString(fmt.Sprintf("%d", res.StatusCode)) {
		return failed(KindQuery, fmt.Errorf("http service %q returned status %q", h.url, res.Status))
	}

	log.WithFields(log.Fields{"kind": "probe", "name": "http", "status": "alive", "host": h.url}).Debug()
	return passed(res.Status)
}
