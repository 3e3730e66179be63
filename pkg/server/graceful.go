package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-polarity/pkg/logging"
)

// ReloadFunc is called on SIGHUP. The scoring server uses it to recompute
// the report from its inputs.
type ReloadFunc func(ctx context.Context) error

// GracefulServer wraps an HTTP server with context driven shutdown and
// SIGHUP reloads.
type GracefulServer struct {
	server          *http.Server
	shutdownTimeout time.Duration
	logger          logging.Logger
	shutdownCh      chan struct{}
	shutdownOnce    sync.Once
	reloadFn        ReloadFunc
	reloadMu        sync.RWMutex
}

// NewGracefulServer wraps srv. Shutdown waits up to shutdownTimeout for
// in-flight requests.
func NewGracefulServer(srv *http.Server, shutdownTimeout time.Duration, logger logging.Logger) *GracefulServer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	return &GracefulServer{
		server:          srv,
		shutdownTimeout: shutdownTimeout,
		logger:          logger.With(logging.Component("server")),
		shutdownCh:      make(chan struct{}),
	}
}

// ListenAndServe listens on the configured address and calls Serve.
func (gs *GracefulServer) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", gs.server.Addr)
	if err != nil {
		return err
	}
	return gs.Serve(ctx, l)
}

// Serve accepts connections on l until ctx is done, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (gs *GracefulServer) Serve(ctx context.Context, l net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- gs.server.Serve(l)
	}()
	gs.logger.Info("HTTP server listening", logging.String("addr", l.Addr().String()))

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err

		case <-hup:
			gs.logger.Info("received SIGHUP, reloading")
			go func() {
				if err := gs.Reload(ctx); err != nil {
					gs.logger.Error("reload failed", logging.Error(err))
				}
			}()

		case <-ctx.Done():
			err := gs.Shutdown()
			<-errCh
			return err
		}
	}
}

// Shutdown stops accepting connections and drains in-flight requests.
// Only the first call has an effect.
func (gs *GracefulServer) Shutdown() error {
	var err error
	gs.shutdownOnce.Do(func() {
		close(gs.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), gs.shutdownTimeout)
		defer cancel()

		gs.logger.Info("initiating graceful shutdown", logging.Duration("timeout", gs.shutdownTimeout))
		if err = gs.server.Shutdown(ctx); err != nil {
			gs.logger.Error("error during shutdown", logging.Error(err))
			return
		}
		gs.logger.Info("server shutdown complete")
	})
	return err
}

// IsShuttingDown returns true if shutdown has been initiated
func (gs *GracefulServer) IsShuttingDown() bool {
	select {
	case <-gs.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownChannel returns a channel that closes when shutdown is initiated
func (gs *GracefulServer) ShutdownChannel() <-chan struct{} {
	return gs.shutdownCh
}

// SetReloadFunc sets the function called on SIGHUP
func (gs *GracefulServer) SetReloadFunc(fn ReloadFunc) {
	gs.reloadMu.Lock()
	defer gs.reloadMu.Unlock()
	gs.reloadFn = fn
}

// Reload calls the reload function, if any.
func (gs *GracefulServer) Reload(ctx context.Context) error {
	gs.reloadMu.RLock()
	fn := gs.reloadFn
	gs.reloadMu.RUnlock()

	if fn == nil {
		gs.logger.Warn("reload requested, but no reload function configured")
		return nil
	}
	return fn(ctx)
}
