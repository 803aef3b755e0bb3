package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/mittwald/healthd/pkg/health"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const DefaultTimeout = 10 * time.Second

type APIClient struct {
	apiAddress string
	timeout    time.Duration
}

func NewAPIClient(apiAddress string) *APIClient {
	return &APIClient{
		apiAddress: apiAddress,
		timeout:    DefaultTimeout,
	}
}

func (api *APIClient) Detailed(ctx context.Context) *TypedAPIResponse[health.DetailedResponse] {
	return get(ctx, api, health.PathDetailed, NewTypedAPIResponse(health.DetailedResponse{}))
}

func (api *APIClient) Readiness(ctx context.Context) *TypedAPIResponse[health.ReadinessResponse] {
	return get(ctx, api, health.PathReadiness, NewTypedAPIResponse(health.ReadinessResponse{}))
}

func (api *APIClient) Liveness(ctx context.Context) *TypedAPIResponse[health.LivenessResponse] {
	return get(ctx, api, health.PathLiveness, NewTypedAPIResponse(health.LivenessResponse{}))
}

// Raw fetches path without decoding the body.
func (api *APIClient) Raw(ctx context.Context, path string) APIResponse {
	return get(ctx, api, path, NewAPIResponse)
}

// WaitReady polls the readiness endpoint until the service reports ready or
// ctx is done.
func (api *APIClient) WaitReady(ctx context.Context, interval time.Duration) error {
	log.Info("waiting for service readiness")

	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		res := api.Readiness(ctx)
		switch {
		case res.Err() != nil:
			log.WithError(res.Err()).Warn("service is not reachable yet")
		case res.StatusCode == http.StatusOK && res.Body.Status == health.StatusReady:
			return nil
		default:
			for _, c := range res.Body.Checks {
				if c.Status != health.StatusPass {
					log.WithFields(log.Fields{"kind": "probe", "name": c.Name}).Warnf("probe is not yet ready: %s", c.Message)
				}
			}
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "readiness interrupted")
		}
	}
}

func get[T any](ctx context.Context, api *APIClient, path string, decode func(*http.Response, error) T) T {
	client, u, err := api.buildHTTPClientAndURL(path)
	if err != nil {
		return decode(nil, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return decode(nil, err)
	}

	res, err := client.Do(req)
	if err != nil {
		return decode(nil, err)
	}
	defer res.Body.Close()

	return decode(res, nil)
}
