// Package server runs the HTTP listener until its context ends.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const DefaultShutdownTimeout = 10 * time.Second

type Options struct {
	Server          *http.Server
	ShutdownTimeout time.Duration
	// Ready receives the bound address, then is closed.
	Ready chan<- net.Addr
	Log   *zap.Logger
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most ShutdownTimeout.
func Run(ctx context.Context, opts Options) error {
	if opts.Server == nil {
		return fmt.Errorf("server is required")
	}
	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	ln, err := net.Listen("tcp", opts.Server.Addr)
	if err != nil {
		return err
	}
	log.Info("listening", zap.String("addr", ln.Addr().String()))
	if opts.Ready != nil {
		opts.Ready <- ln.Addr()
		close(opts.Ready)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- opts.Server.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("timeout", timeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	shutdownErr := opts.Server.Shutdown(shutdownCtx)

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-shutdownCtx.Done():
		if shutdownErr != nil {
			return shutdownErr
		}
		return shutdownCtx.Err()
	}
	return shutdownErr
}
