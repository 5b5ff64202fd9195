package v1

import (
	"net/http"
	"time"

	"github.com/vmunix/musicd/internal/events"
)

// statusResponse is the response for GET /status.
type statusResponse struct {
	Status     string          `json:"status"`
	Version    string          `json:"version"`
	Items      int             `json:"items"`
	Albums     int             `json:"albums"`
	Importer   bool            `json:"importer"`
	LastImport *lastImportInfo `json:"last_import,omitempty"`
}

// lastImportInfo summarizes the newest completed import session.
type lastImportInfo struct {
	SessionID string         `json:"session_id"`
	At        string         `json:"at"`
	Choices   map[string]int `json:"choices"`
	Added     int            `json:"added"`
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	items, albums, err := s.deps.Library.Counts()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Status:     "ok",
		Version:    s.cfg.Version,
		Items:      items,
		Albums:     albums,
		Importer:   s.deps.Importer != nil,
		LastImport: s.lastImport(),
	})
}

// lastImport is best effort; status stays up when the event log is absent
// or holds a payload that no longer decodes.
func (s *Server) lastImport() *lastImportInfo {
	if s.deps.EventLog == nil {
		return nil
	}
	raw, err := s.deps.EventLog.Latest(events.EventImportCompleted)
	if err != nil || raw == nil {
		if err != nil {
			s.log.Warn("read last import", "error", err)
		}
		return nil
	}
	completed, err := events.DecodeAs[*events.ImportCompleted](s.registry, *raw)
	if err != nil {
		s.log.Warn("decode last import", "event_id", raw.ID, "error", err)
		return nil
	}
	return &lastImportInfo{
		SessionID: completed.SessionID,
		At:        completed.OccurredAt().Format(time.RFC3339),
		Choices:   completed.Choices,
		Added:     completed.Added,
	}
}
