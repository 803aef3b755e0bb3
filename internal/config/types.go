package config

// Ignition is the merged content of all configuration files.
type Ignition struct {
	Service  *Service  `hcl:"service"`
	Server   *Server   `hcl:"server"`
	Check    *Check    `hcl:"check"`
	Database *Database `hcl:"database"`
	Redis    *Redis    `hcl:"redis"`
	Registry *Registry `hcl:"registry"`
	Probes   []Probe   `hcl:"probe"`
}

type Service struct {
	Name    string `hcl:"name"`
	Version string `hcl:"version"`
	Company string `hcl:"company"`
	// Mode describes the deployment, e.g. "production" or "development".
	Mode string `hcl:"mode"`
}

type Server struct {
	// Listen is either host:port or unix:///path/to/socket.
	Listen string `hcl:"listen"`
}

type Check struct {
	Timeout    string `hcl:"timeout"`
	Sequential bool   `hcl:"sequential"`
}

type Database struct {
	// URL is either a mysql:// URL or a go-sql-driver DSN. When empty, the
	// DSN is assembled from the discrete fields below.
	URL      string `hcl:"url"`
	Hostname string `hcl:"hostname"`
	Port     string `hcl:"port"`
	User     string `hcl:"user"`
	Password string `hcl:"password"`
	Database string `hcl:"database"`
	Timeout  string `hcl:"timeout"`

	// Metrics lists the tables counted for the detailed report.
	Metrics        []string `hcl:"metrics"`
	MetricsTimeout string   `hcl:"metricsTimeout"`
}

type Redis struct {
	Hostname string `hcl:"hostname"`
	Port     string `hcl:"port"`
	Password string `hcl:"password"`
	DB       int    `hcl:"db"`
	Timeout  string `hcl:"timeout"`
}

type Registry struct {
	Agents   []string `hcl:"agents"`
	Tools    []string `hcl:"tools"`
	Patterns []string `hcl:"patterns"`
}

type MongoDB struct {
	URL      string `hcl:"url"`
	Hostname string `hcl:"hostname"`
	Port     string `hcl:"port"`
	User     string `hcl:"user"`
	Password string `hcl:"password"`
	Database string `hcl:"database"`
}

type Amqp struct {
	Hostname    string `hcl:"hostname"`
	Port        string `hcl:"port"`
	User        string `hcl:"user"`
	Password    string `hcl:"password"`
	VirtualHost string `hcl:"virtualHost"`
}

type HTTP struct {
	Method       string            `hcl:"method"`
	Scheme       string            `hcl:"scheme"`
	Hostname     string            `hcl:"hostname"`
	Port         string            `hcl:"port"`
	Path         string            `hcl:"path"`
	Headers      map[string]string `hcl:"headers"`
	ExpectStatus string            `hcl:"expectStatus"`
}

type SMTP struct {
	Hostname string `hcl:"hostname"`
	Port     string `hcl:"port"`
}

// Probe declares an additional dependency check beyond the built-in
// database, redis and registry checks. Exactly one backend must be set.
type Probe struct {
	Name       string   `hcl:",key"`
	Timeout    string   `hcl:"timeout"`
	Filesystem string   `hcl:"filesystem"`
	MongoDB    *MongoDB `hcl:"mongodb"`
	Amqp       *Amqp    `hcl:"amqp"`
	HTTP       *HTTP    `hcl:"http"`
	SMTP       *SMTP    `hcl:"smtp"`
}
