package health

import (
	"net/http"
	"time"

	"github.com/mittwald/healthd/pkg/probe"
	"github.com/mittwald/healthd/pkg/sampler"
	"github.com/mittwald/healthd/pkg/uptime"
)

// DetailedInput carries everything the detailed report is built from.
type DetailedInput struct {
	Info        ServiceInfo
	Environment Environment
	Uptime      time.Duration
	Results     probe.Results
	Now         time.Time

	// MetricsComponent names the component that carries the sampled
	// metrics. Metrics is nil when sampling failed.
	MetricsComponent string
	Metrics          *sampler.Snapshot

	// Details has one entry per component that can describe itself; the
	// entry is nil when describing failed.
	Details map[string]map[string]any
}

func Timestamp(now time.Time) string {
	return now.UTC().Format(time.RFC3339)
}

func Basic(info ServiceInfo, up time.Duration, now time.Time) (BasicResponse, int) {
	return BasicResponse{
		Status:        StatusHealthy,
		Timestamp:     Timestamp(now),
		UptimeSeconds: uptime.Round(up),
		Version:       info.Version,
		Service:       info.Name,
		Company:       info.Company,
	}, http.StatusOK
}

func Liveness(now time.Time) (LivenessResponse, int) {
	return LivenessResponse{
		Status:    StatusAlive,
		Timestamp: Timestamp(now),
	}, http.StatusOK
}

func Readiness(results probe.Results, now time.Time) (ReadinessResponse, int) {
	checks := make(Checks, 0, len(results))
	for _, r := range results {
		status := StatusPass
		if !r.OK {
			status = StatusFail
		}
		checks = append(checks, Check{Name: r.Name, Status: status, Message: r.Message})
	}

	res := ReadinessResponse{
		Status:    StatusReady,
		Timestamp: Timestamp(now),
		Checks:    checks,
	}
	if !results.AllOK() {
		res.Status = StatusNotReady
		return res, http.StatusServiceUnavailable
	}
	return res, http.StatusOK
}

// Detailed builds the full report. The status code only depends on the
// probe results; metrics and details never change it.
func Detailed(in DetailedInput) (DetailedResponse, int) {
	components := make(Components, 0, len(in.Results))
	for _, r := range in.Results {
		c := Component{
			Name:    r.Name,
			Status:  StatusHealthy,
			Message: r.Message,
		}
		if !r.OK {
			c.Status = StatusUnhealthy
		}
		if r.Name == in.MetricsComponent {
			c.HasMetrics = true
			c.Metrics = in.Metrics
		}
		if details, ok := in.Details[r.Name]; ok {
			c.HasDetails = true
			c.Details = details
		}
		components = append(components, c)
	}

	res := DetailedResponse{
		Status:    StatusHealthy,
		Timestamp: Timestamp(in.Now),
		Version:   in.Info.Version,
		Service:   in.Info.Name,
		Company:   in.Info.Company,
		Uptime: Uptime{
			Seconds:       uptime.Round(in.Uptime),
			HumanReadable: uptime.HumanReadable(in.Uptime),
		},
		Components:  components,
		Environment: in.Environment,
	}
	if !in.Results.AllOK() {
		res.Status = StatusDegraded
		return res, http.StatusServiceUnavailable
	}
	return res, http.StatusOK
}
