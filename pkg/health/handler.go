package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/mittwald/healthd/pkg/probe"
	"github.com/mittwald/healthd/pkg/sampler"
	"github.com/mittwald/healthd/pkg/uptime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	PathBasic     = "/health"
	PathLiveness  = "/health/live"
	PathReadiness = "/health/ready"
	PathDetailed  = "/health/detailed"
	PathMetrics   = "/metrics"
)

// Sampler yields the optional metrics of the detailed report.
type Sampler interface {
	Sample(ctx context.Context) *sampler.Snapshot
}

type Option func(*Handler)

func WithServiceInfo(info ServiceInfo) Option {
	return func(h *Handler) { h.info = info }
}

func WithEnvironment(env Environment) Option {
	return func(h *Handler) { h.env = env }
}

func WithSampler(s Sampler, component string) Option {
	return func(h *Handler) {
		h.sampler = s
		h.metricsComponent = component
	}
}

func WithUptime(t *uptime.Tracker) Option {
	return func(h *Handler) { h.uptime = t }
}

func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

type Handler struct {
	aggregator       *probe.Aggregator
	info             ServiceInfo
	env              Environment
	sampler          Sampler
	metricsComponent string
	uptime           *uptime.Tracker
	now              func() time.Time
}

func NewHandler(aggregator *probe.Aggregator, opts ...Option) *Handler {
	h := &Handler{
		aggregator: aggregator,
		uptime:     uptime.Default,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) HandleBasic(w http.ResponseWriter, _ *http.Request) {
	res, code := Basic(h.info, h.uptime.Elapsed(), h.now())
	writeJSON(w, code, res)
}

func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	res, code := Liveness(h.now())
	writeJSON(w, code, res)
}

func (h *Handler) HandleReadiness(w http.ResponseWriter, req *http.Request) {
	results := h.aggregator.RunAll(req.Context())
	res, code := Readiness(results, h.now())
	writeJSON(w, code, res)
}

func (h *Handler) HandleDetailed(w http.ResponseWriter, req *http.Request) {
	res, code := h.Detailed(req.Context())
	writeJSON(w, code, res)
}

// Detailed runs the probes, the sampler and the describers concurrently
// and composes the detailed report once all of them are done.
func (h *Handler) Detailed(ctx context.Context) (DetailedResponse, int) {
	var (
		results  probe.Results
		snapshot *sampler.Snapshot
		details  map[string]map[string]any
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		results = h.aggregator.RunAll(gctx)
		return nil
	})
	g.Go(func() error {
		details = h.aggregator.Describe(gctx)
		return nil
	})
	if h.sampler != nil {
		g.Go(func() error {
			snapshot = h.sampler.Sample(gctx)
			return nil
		})
	}
	_ = g.Wait()

	return Detailed(DetailedInput{
		Info:             h.info,
		Environment:      h.env,
		Uptime:           h.uptime.Elapsed(),
		Results:          results,
		Now:              h.now(),
		MetricsComponent: h.metricsComponent,
		Metrics:          snapshot,
		Details:          details,
	})
}

// Router serves the health endpoints and the Prometheus metrics. Only GET
// is routed; other methods are answered with 405.
func (h *Handler) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(logRequests)

	register(router, PathBasic, h.HandleBasic)
	register(router, PathLiveness, h.HandleLiveness)
	register(router, PathReadiness, h.HandleReadiness)
	register(router, PathDetailed, h.HandleDetailed)
	router.Path(PathMetrics).Handler(promhttp.Handler()).Methods(http.MethodGet)

	return router
}

func register(router *mux.Router, path string, handler func(http.ResponseWriter, *http.Request)) {
	router.
		Path(path).
		HandlerFunc(handler).
		Methods(http.MethodGet)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, req)
		log.WithFields(log.Fields{
			"kind":     "http",
			"method":   req.Method,
			"path":     req.URL.Path,
			"duration": time.Since(start),
		}).Debug("served request")
	})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("failed to write health response")
	}
}
