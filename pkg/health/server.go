package health

import (
	"context"
	"net"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	unixPrefix      = "unix://"
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	listen string
	srv    *http.Server
}

func NewServer(listen string, handler http.Handler) *Server {
	return &Server{
		listen: listen,
		srv: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Listen opens the listener for addr, which is either host:port or
// unix:///path/to/socket.
func Listen(addr string) (net.Listener, error) {
	if !strings.HasPrefix(addr, unixPrefix) {
		return net.Listen("tcp", addr)
	}

	socketFile := strings.TrimPrefix(addr, unixPrefix)
	if err := os.MkdirAll(path.Dir(socketFile), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to prepare folder for socket-file")
	}
	if err := os.Remove(socketFile); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to remove stale socket %s", socketFile)
	}
	return net.Listen("unix", socketFile)
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	l, err := Listen(s.listen)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.listen)
	}
	return s.Serve(ctx, l)
}

func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	serveErr := make(chan error, 1)
	go func() {
		log.Infof("health api listens on %s", l.Addr())
		serveErr <- s.srv.Serve(l)
	}()

	select {
	case err := <-serveErr:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down health api")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shut down health api")
	}
	if err := <-serveErr; err != http.ErrServerClosed {
		return err
	}
	return nil
}
