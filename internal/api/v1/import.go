package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/vmunix/musicd/internal/importer"
	"github.com/vmunix/musicd/internal/importresults"
)

// importRequest is the body of PUT /import.
type importRequest struct {
	Path string `json:"path"`
	Args string `json:"args"`
}

// importResponse reports every decision of the finished import.
type importResponse struct {
	OK      bool                  `json:"ok"`
	Summary importresults.Summary `json:"summary"`
	Details importresults.Details `json:"details"`
}

// importPath runs an import synchronously and returns what was decided. The
// request blocks for the whole import; concurrent imports queue on importMu.
func (s *Server) importPath(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PATH", "path is required")
		return
	}

	s.importMu.Lock()
	defer s.importMu.Unlock()

	s.deps.Results.Reset()

	opts, positional, err := importer.ParseArgs(strings.Fields(req.Args), s.deps.Importer.DefaultOptions())
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ARGS", err.Error())
		return
	}
	// A server has no terminal to prompt on.
	opts.Quiet = true

	paths := append(positional, req.Path)
	log := s.log.With("path", req.Path)
	log.Info("import requested", "args", req.Args)

	// The import outlives a disconnected client; it is not cancellable from HTTP.
	ctx := context.WithoutCancel(r.Context())
	if err := s.deps.Importer.Run(ctx, s.deps.Library, opts, paths); err != nil {
		switch {
		case errors.Is(err, importer.ErrNoSuchPath):
			writeError(w, http.StatusBadRequest, "NO_SUCH_PATH", err.Error())
		case errors.Is(err, importer.ErrInvalidOption):
			writeError(w, http.StatusBadRequest, "INVALID_ARGS", err.Error())
		default:
			log.Error("import failed", "error", err)
			writeError(w, http.StatusInternalServerError, "IMPORT_FAILED", "Import failed")
		}
		return
	}

	details, summary := s.deps.Results.Snapshot()
	log.Info("import finished", "summary", summary)
	writeJSON(w, http.StatusOK, importResponse{OK: true, Summary: summary, Details: details})
}
