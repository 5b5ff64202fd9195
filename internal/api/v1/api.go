// Package v1 implements the HTTP API over the music library.
package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/time/rate"

	"github.com/vmunix/musicd/internal/events"
	"github.com/vmunix/musicd/internal/media"
)

// Config holds API server configuration.
type Config struct {
	// MaxThumbnail is the exclusive upper bound for ?size= on art routes.
	MaxThumbnail int
	Version      string

	// RateLimit is requests per second across all clients; 0 disables limiting.
	RateLimit float64
	RateBurst int
}

// Server is the v1 API server.
type Server struct {
	deps    ServerDeps
	cfg     Config
	log     *slog.Logger
	limiter *rate.Limiter
	// registry decodes persisted events for /status.
	registry *events.Registry

	// importMu serializes reset, run and snapshot of the import results.
	importMu sync.Mutex
}

// New creates a new v1 API server with explicit dependencies.
func New(deps ServerDeps, cfg Config) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingDependency, err)
	}
	if cfg.MaxThumbnail <= 0 {
		cfg.MaxThumbnail = media.MaxThumbnailSize
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		deps:     deps,
		cfg:      cfg,
		log:      log.With("component", "api"),
		registry: events.DefaultRegistry(),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = int(cfg.RateLimit) + 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return s, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Items
	mux.HandleFunc("GET /items", s.listItems)
	mux.HandleFunc("GET /item/{id}/file", s.getItemFile)
	mux.HandleFunc("GET /item/{id}/art", s.getItemArt)

	// Albums
	mux.HandleFunc("GET /albums", s.listAlbums)
	mux.HandleFunc("GET /album/{id}", s.getAlbum)
	mux.HandleFunc("GET /album/{id}/art", s.getAlbumArt)

	// Import
	mux.HandleFunc("PUT /import", s.requireImporter(s.importPath))

	// System
	mux.HandleFunc("GET /events", s.requireEventLog(s.listEvents))
	mux.HandleFunc("GET /status", s.getStatus)
}

// Handler returns the routes wrapped in the standard middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return s.recoverPanics(s.rateLimit(logRequests(mux, s.log)))
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// pathID extracts the integer {id} from the URL path.
func pathID(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: id")
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
