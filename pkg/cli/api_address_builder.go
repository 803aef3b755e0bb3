package cli

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// buildHTTPClientAndURL resolves path against the API address. Addresses of
// the form unix:///path/to/socket are dialled through the socket.
func (api *APIClient) buildHTTPClientAndURL(path string) (*http.Client, *url.URL, error) {
	u, err := url.Parse(api.apiAddress)
	if err != nil {
		return nil, nil, err
	}
	if u.Scheme != "unix" {
		u.Path = strings.TrimSuffix(u.Path, "/") + path
		return &http.Client{Timeout: api.timeout}, u, nil
	}

	socketPath := u.Path
	return &http.Client{
		Timeout: api.timeout,
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", socketPath)
			},
		},
	}, &url.URL{Scheme: "http", Host: "unix", Path: path}, nil
}
