// Package health composes the liveness, readiness and detailed health
// reports of the service and serves them over HTTP.
package health

import (
	"encoding/json"

	"github.com/mittwald/healthd/internal/helper"
	"github.com/mittwald/healthd/pkg/sampler"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
	StatusReady     = "ready"
	StatusNotReady  = "not_ready"
	StatusAlive     = "alive"
	StatusPass      = "pass"
	StatusFail      = "fail"
)

type ServiceInfo struct {
	Name    string
	Version string
	Company string
}

// Environment holds descriptive facts about the deployment. They are
// informational and never influence a verdict.
type Environment struct {
	DeploymentMode string `json:"deployment_mode"`
	StorageBackend string `json:"storage_backend"`
	CacheHost      string `json:"cache_host"`
}

type BasicResponse struct {
	Status        string  `json:"status"`
	Timestamp     string  `json:"timestamp"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Version       string  `json:"version"`
	Service       string  `json:"service"`
	Company       string  `json:"company"`
}

type LivenessResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type Check struct {
	Name    string `json:"-"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Checks is rendered as a JSON object keyed by check name, in probe
// registration order.
type Checks []Check

func (c Checks) MarshalJSON() ([]byte, error) {
	names := make([]string, len(c))
	for i := range c {
		names[i] = c[i].Name
	}
	return helper.WriteObject(names, func(i int) (any, error) {
		return c[i], nil
	})
}

func (c *Checks) UnmarshalJSON(data []byte) error {
	*c = nil
	return helper.ReadObject(data, func(name string, dec *json.Decoder) error {
		check := Check{Name: name}
		if err := dec.Decode(&check); err != nil {
			return err
		}
		*c = append(*c, check)
		return nil
	})
}

type ReadinessResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Checks    Checks `json:"checks"`
}

type Uptime struct {
	Seconds       float64 `json:"seconds"`
	HumanReadable string  `json:"human_readable"`
}

// Component is one entry of the detailed report. The metrics and details
// keys are only present when the component supports them; when present
// but unavailable they are rendered as null.
type Component struct {
	Name       string
	Status     string
	Message    string
	HasMetrics bool
	Metrics    *sampler.Snapshot
	HasDetails bool
	Details    map[string]any
}

func (c Component) MarshalJSON() ([]byte, error) {
	keys := []string{"status", "message"}
	if c.HasMetrics {
		keys = append(keys, "metrics")
	}
	if c.HasDetails {
		keys = append(keys, "details")
	}

	return helper.WriteObject(keys, func(i int) (any, error) {
		switch keys[i] {
		case "status":
			return c.Status, nil
		case "message":
			return c.Message, nil
		case "metrics":
			return c.Metrics, nil
		default:
			return c.Details, nil
		}
	})
}

func (c *Component) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Component{Name: c.Name}
	if v, ok := raw["status"]; ok {
		if err := json.Unmarshal(v, &c.Status); err != nil {
			return err
		}
	}
	if v, ok := raw["message"]; ok {
		if err := json.Unmarshal(v, &c.Message); err != nil {
			return err
		}
	}

	// a null value still marks the key as present
	if v, ok := raw["metrics"]; ok {
		c.HasMetrics = true
		if err := json.Unmarshal(v, &c.Metrics); err != nil {
			return err
		}
	}
	if v, ok := raw["details"]; ok {
		c.HasDetails = true
		if err := json.Unmarshal(v, &c.Details); err != nil {
			return err
		}
	}
	return nil
}

// Components is rendered as a JSON object keyed by component name, in
// probe registration order.
type Components []Component

func (c Components) MarshalJSON() ([]byte, error) {
	names := make([]string, len(c))
	for i := range c {
		names[i] = c[i].Name
	}
	return helper.WriteObject(names, func(i int) (any, error) {
		return c[i], nil
	})
}

func (c *Components) UnmarshalJSON(data []byte) error {
	*c = nil
	return helper.ReadObject(data, func(name string, dec *json.Decoder) error {
		var component Component
		if err := dec.Decode(&component); err != nil {
			return err
		}
		component.Name = name
		*c = append(*c, component)
		return nil
	})
}

func (c Components) Lookup(name string) (Component, bool) {
	for _, component := range c {
		if component.Name == name {
			return component, true
		}
	}
	return Component{}, false
}

type DetailedResponse struct {
	Status      string      `json:"status"`
	Timestamp   string      `json:"timestamp"`
	Version     string      `json:"version"`
	Service     string      `json:"service"`
	Company     string      `json:"company"`
	Uptime      Uptime      `json:"uptime"`
	Components  Components  `json:"components"`
	Environment Environment `json:"environment"`
}
