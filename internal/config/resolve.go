package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/mittwald/healthd/internal/helper"
	"github.com/pkg/errors"
)

const (
	DefaultServiceName    = "prossima-ai-backend"
	DefaultServiceVersion = "1.0.0"
	DefaultCompany        = "Prossimagen Technologies"
	DefaultMode           = "production"
	DefaultListen         = ":9102"

	DefaultCheckTimeout   = 3 * time.Second
	DefaultProbeTimeout   = 2 * time.Second
	DefaultMetricsTimeout = 2 * time.Second
)

var (
	DefaultMetrics  = []string{"projects", "flows", "users"}
	DefaultPatterns = []string{"sequential", "parallel", "router", "discussion"}
)

// Resolve replaces ENV: references, falls back to the conventional
// environment variables and fills in defaults for everything left empty.
func (ignitionConfig *Ignition) Resolve() error {
	if ignitionConfig.Service == nil {
		ignitionConfig.Service = &Service{}
	}
	if ignitionConfig.Server == nil {
		ignitionConfig.Server = &Server{}
	}
	if ignitionConfig.Check == nil {
		ignitionConfig.Check = &Check{}
	}
	if ignitionConfig.Database == nil {
		ignitionConfig.Database = &Database{}
	}
	if ignitionConfig.Redis == nil {
		ignitionConfig.Redis = &Redis{}
	}
	if ignitionConfig.Registry == nil {
		ignitionConfig.Registry = &Registry{}
	}

	ignitionConfig.Service.resolve()
	ignitionConfig.Server.Listen = helper.SetDefaultStringIfEmpty(helper.ResolveEnv(ignitionConfig.Server.Listen), DefaultListen, "listen", "server")
	ignitionConfig.Check.Timeout = helper.ResolveEnv(ignitionConfig.Check.Timeout)
	ignitionConfig.Database.resolve()
	ignitionConfig.Redis.resolve()
	ignitionConfig.Registry.resolve()

	seen := make(map[string]struct{}, len(ignitionConfig.Probes))
	for i := range ignitionConfig.Probes {
		p := &ignitionConfig.Probes[i]
		if err := p.validate(); err != nil {
			return err
		}
		if _, ok := seen[p.Name]; ok {
			return fmt.Errorf("probe %q is declared more than once", p.Name)
		}
		seen[p.Name] = struct{}{}
		p.resolve()
	}

	return nil
}

// CheckTimeout is the deadline for one complete aggregator pass.
func (c *Check) CheckTimeout() time.Duration {
	return helper.ParseDurationOrDefault(c.Timeout, DefaultCheckTimeout, "timeout", "check")
}

func (s *Service) resolve() {
	s.Name = helper.SetDefaultStringIfEmpty(helper.ResolveEnv(s.Name), DefaultServiceName, "name", "service")
	s.Version = helper.SetDefaultStringIfEmpty(helper.ResolveEnv(s.Version), DefaultServiceVersion, "version", "service")
	s.Company = helper.SetDefaultStringIfEmpty(helper.ResolveEnv(s.Company), DefaultCompany, "company", "service")
	s.Mode = helper.SetDefaultStringIfEmpty(
		helper.FirstNonEmpty(helper.ResolveEnv(s.Mode), os.Getenv("APP_ENV")),
		DefaultMode, "mode", "service",
	)
}

func (d *Database) resolve() {
	d.URL = helper.FirstNonEmpty(helper.ResolveEnv(d.URL), os.Getenv("DATABASE_URL"))
	d.Hostname = helper.SetDefaultStringIfEmpty(helper.ResolveEnv(d.Hostname), "localhost", "hostname", "database")
	d.Port = helper.SetDefaultStringIfEmpty(helper.ResolveEnv(d.Port), "3306", "port", "database")
	d.User = helper.ResolveEnv(d.User)
	d.Password = helper.ResolveEnv(d.Password)
	d.Database = helper.ResolveEnv(d.Database)
	d.Timeout = helper.ResolveEnv(d.Timeout)
	d.MetricsTimeout = helper.ResolveEnv(d.MetricsTimeout)
	if d.Metrics == nil {
		d.Metrics = append([]string(nil), DefaultMetrics...)
	}
}

func (d *Database) ProbeTimeout() time.Duration {
	return helper.ParseDurationOrDefault(d.Timeout, DefaultProbeTimeout, "timeout", "database")
}

func (d *Database) SampleTimeout() time.Duration {
	return helper.ParseDurationOrDefault(d.MetricsTimeout, DefaultMetricsTimeout, "metricsTimeout", "database")
}

// DSN returns a go-sql-driver/mysql data source name with dial, read and
// write timeouts bounded by the probe timeout.
func (d *Database) DSN() (string, error) {
	var cfg *mysql.Config

	switch {
	case strings.HasPrefix(d.URL, "mysql://"):
		u, err := url.Parse(d.URL)
		if err != nil {
			return "", errors.Wrap(err, "invalid database url")
		}
		cfg = mysql.NewConfig()
		cfg.Net = "tcp"
		cfg.Addr = u.Host
		cfg.DBName = strings.TrimPrefix(u.Path, "/")
		if u.User != nil {
			cfg.User = u.User.Username()
			cfg.Passwd, _ = u.User.Password()
		}
	case strings.Contains(d.URL, "://"):
		return "", fmt.Errorf("unsupported database url scheme in %q", redactURL(d.URL))
	case d.URL != "":
		parsed, err := mysql.ParseDSN(d.URL)
		if err != nil {
			return "", errors.Wrap(err, "invalid database dsn")
		}
		cfg = parsed
	default:
		cfg = mysql.NewConfig()
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(d.Hostname, d.Port)
		cfg.User = d.User
		cfg.Passwd = d.Password
		cfg.DBName = d.Database
	}

	timeout := d.ProbeTimeout()
	cfg.Timeout = timeout
	cfg.ReadTimeout = timeout
	cfg.WriteTimeout = timeout

	return cfg.FormatDSN(), nil
}

func (r *Redis) resolve() {
	r.Hostname = helper.SetDefaultStringIfEmpty(
		helper.FirstNonEmpty(helper.ResolveEnv(r.Hostname), os.Getenv("REDIS_HOST")),
		"localhost", "hostname", "redis",
	)
	r.Port = helper.SetDefaultStringIfEmpty(
		helper.FirstNonEmpty(helper.ResolveEnv(r.Port), os.Getenv("REDIS_PORT")),
		"6379", "port", "redis",
	)
	r.Password = helper.FirstNonEmpty(helper.ResolveEnv(r.Password), os.Getenv("REDIS_PASSWORD"))
	r.Timeout = helper.ResolveEnv(r.Timeout)
}

func (r *Redis) Addr() string {
	return net.JoinHostPort(r.Hostname, r.Port)
}

func (r *Redis) ProbeTimeout() time.Duration {
	return helper.ParseDurationOrDefault(r.Timeout, DefaultProbeTimeout, "timeout", "redis")
}

func (r *Registry) resolve() {
	if r.Patterns == nil {
		r.Patterns = append([]string(nil), DefaultPatterns...)
	}
}

func (p *Probe) validate() error {
	if p.Name == "" {
		return errors.New("probe without name")
	}

	backends := 0
	if p.Filesystem != "" {
		backends++
	}
	for _, set := range []bool{p.MongoDB != nil, p.Amqp != nil, p.HTTP != nil, p.SMTP != nil} {
		if set {
			backends++
		}
	}
	if backends != 1 {
		return fmt.Errorf("probe %q must declare exactly one backend, found %d", p.Name, backends)
	}
	return nil
}

func (p *Probe) resolve() {
	p.Timeout = helper.ResolveEnv(p.Timeout)
	p.Filesystem = helper.ResolveEnv(p.Filesystem)

	if m := p.MongoDB; m != nil {
		m.URL = helper.ResolveEnv(m.URL)
		m.Hostname = helper.ResolveEnv(m.Hostname)
		m.Port = helper.SetDefaultStringIfEmpty(helper.ResolveEnv(m.Port), "27017", "port", "mongodb")
		m.User = helper.ResolveEnv(m.User)
		m.Password = helper.ResolveEnv(m.Password)
		m.Database = helper.ResolveEnv(m.Database)
	}
	if a := p.Amqp; a != nil {
		a.Hostname = helper.ResolveEnv(a.Hostname)
		a.Port = helper.SetDefaultStringIfEmpty(helper.ResolveEnv(a.Port), "5672", "port", "amqp")
		a.User = helper.ResolveEnv(a.User)
		a.Password = helper.ResolveEnv(a.Password)
		a.VirtualHost = helper.SetDefaultStringIfEmpty(helper.ResolveEnv(a.VirtualHost), "/", "virtualHost", "amqp")
	}
	if h := p.HTTP; h != nil {
		h.Method = strings.ToUpper(helper.SetDefaultStringIfEmpty(helper.ResolveEnv(h.Method), "GET", "method", "http"))
		h.Scheme = helper.SetDefaultStringIfEmpty(helper.ResolveEnv(h.Scheme), "http", "scheme", "http")
		h.Hostname = helper.ResolveEnv(h.Hostname)
		h.Port = helper.ResolveEnv(h.Port)
		h.Path = helper.ResolveEnv(h.Path)
		h.ExpectStatus = helper.SetDefaultStringIfEmpty(helper.ResolveEnv(h.ExpectStatus), `^(1|2|3)\d\d`, "expectStatus", "http")
		for k, v := range h.Headers {
			h.Headers[k] = helper.ResolveEnv(v)
		}
	}
	if s := p.SMTP; s != nil {
		s.Hostname = helper.ResolveEnv(s.Hostname)
		s.Port = helper.SetDefaultStringIfEmpty(helper.ResolveEnv(s.Port), "25", "port", "smtp")
	}
}

func (p *Probe) ProbeTimeout() time.Duration {
	return helper.ParseDurationOrDefault(p.Timeout, DefaultProbeTimeout, "timeout", "probe."+p.Name)
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable>"
	}
	return u.Redacted()
}
