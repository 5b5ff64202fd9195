package v1

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vmunix/musicd/internal/events"
	"github.com/vmunix/musicd/internal/importer"
	"github.com/vmunix/musicd/internal/importresults"
	"github.com/vmunix/musicd/internal/library"
	"github.com/vmunix/musicd/internal/media"
)

//go:generate mockgen -source=deps.go -destination=mocks/mock_deps.go -package=mocks

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// Importer runs import sessions. Run blocks until the whole import is done.
type Importer interface {
	DefaultOptions() importer.Options
	Run(ctx context.Context, lib *library.Store, opts importer.Options, paths []string) error
}

// Thumbnailer scales images. It returns an empty slice on any failure.
type Thumbnailer interface {
	Thumbnail(data []byte, size int) []byte
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Library     *library.Store
	Media       media.Reader
	Thumbnailer Thumbnailer
	Results     *importresults.Aggregator

	// Optional dependencies (nil if not configured)
	Importer Importer
	EventLog *events.EventLog
	Logger   *slog.Logger
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Library == nil {
		return errors.New("library store is required")
	}
	if d.Media == nil {
		return errors.New("media reader is required")
	}
	if d.Thumbnailer == nil {
		return errors.New("thumbnailer is required")
	}
	if d.Results == nil {
		return errors.New("import results aggregator is required")
	}
	return nil
}
