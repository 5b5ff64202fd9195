// Package server runs the daemon's long-lived components.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/musicd/internal/events"
)

// Config for the runner.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration

	// Retention is how long persisted events are kept; 0 disables pruning.
	Retention     time.Duration
	PruneInterval time.Duration
}

// Runner serves HTTP and runs background maintenance until its context ends.
type Runner struct {
	handler  http.Handler
	eventLog *events.EventLog
	bus      *events.Bus
	config   Config
	logger   *slog.Logger
}

// NewRunner creates a new runner. eventLog and bus may be nil.
func NewRunner(handler http.Handler, eventLog *events.EventLog, bus *events.Bus, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.PruneInterval <= 0 {
		cfg.PruneInterval = time.Hour
	}
	return &Runner{
		handler:  handler,
		eventLog: eventLog,
		bus:      bus,
		config:   cfg,
		logger:   logger.With("component", "runner"),
	}
}

// Run listens on the configured address and blocks until ctx is canceled or
// a component fails.
func (r *Runner) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", r.config.Addr, err)
	}
	return r.Serve(ctx, ln)
}

// Serve runs all components on an existing listener. A clean shutdown
// returns nil.
func (r *Runner) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           r.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), r.config.ShutdownTimeout)
		defer cancel()
		r.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if r.eventLog != nil && r.config.Retention > 0 {
		g.Go(func() error {
			r.pruneLoop(ctx)
			return nil
		})
	}

	if r.bus != nil {
		ch := r.bus.SubscribeEntityType(events.EntityImport, 64)
		g.Go(func() error {
			defer r.bus.Unsubscribe(ch)
			r.monitorImports(ctx, ch)
			return nil
		})
	}

	return g.Wait()
}

func (r *Runner) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(r.config.PruneInterval)
	defer ticker.Stop()

	r.prune()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.prune()
		}
	}
}

func (r *Runner) prune() {
	n, err := r.eventLog.Prune(r.config.Retention)
	if err != nil {
		r.logger.Warn("prune events failed", "error", err)
		return
	}
	if n > 0 {
		r.logger.Info("pruned events", "count", n, "retention", r.config.Retention)
	}
}

// monitorImports logs import session milestones.
func (r *Runner) monitorImports(ctx context.Context, ch <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			switch ev := e.(type) {
			case *events.ImportStarted:
				r.logger.Info("import session started", "session", ev.SessionID, "paths", len(ev.Paths))
			case *events.ImportCompleted:
				r.logger.Info("import session completed", "session", ev.SessionID,
					"tasks", ev.Tasks, "tracks", ev.Total(), "added", ev.Added)
			case *events.ImportFailed:
				r.logger.Warn("import session failed", "session", ev.SessionID, "reason", ev.Reason)
			}
		}
	}
}
