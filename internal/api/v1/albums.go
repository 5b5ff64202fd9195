package v1

import (
	"errors"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmunix/musicd/internal/library"
)

// albumObject builds the JSON form of an album with artpath decoded to text.
func albumObject(a *library.Album) map[string]any {
	obj := a.Fields()
	if a.ArtPath == "" {
		obj["artpath"] = nil
	} else {
		obj["artpath"] = library.DisplayablePath(a.ArtPath)
	}
	return obj
}

func (s *Server) listAlbums(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if _, err := library.ParseQuery(query); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}

	s.streamArray(w, func(emit func(any) error) error {
		return s.deps.Library.IterAlbums(query, func(a *library.Album) error {
			return emit(albumObject(a))
		})
	})
}

func (s *Server) lookupAlbum(w http.ResponseWriter, r *http.Request) (*library.Album, bool) {
	// A non-numeric id names no row.
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Album not found")
		return nil, false
	}
	a, err := s.deps.Library.GetAlbum(id)
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Album not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return nil, false
	}
	return a, true
}

func (s *Server) getAlbum(w http.ResponseWriter, r *http.Request) {
	a, ok := s.lookupAlbum(w, r)
	if !ok {
		return
	}
	items, err := s.deps.Library.ItemsForAlbum(a.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	obj := albumObject(a)
	objs := make([]map[string]any, len(items))
	for i, it := range items {
		objs[i] = itemObject(it)
	}
	obj["items"] = objs
	writeJSON(w, http.StatusOK, obj)
}

func (s *Server) getAlbumArt(w http.ResponseWriter, r *http.Request) {
	a, ok := s.lookupAlbum(w, r)
	if !ok {
		return
	}
	if a.ArtPath == "" {
		writeError(w, http.StatusNotFound, "NO_ART", "Album has no art")
		return
	}

	data, err := os.ReadFile(a.ArtPath)
	if err != nil {
		s.log.Warn("album art unreadable", "album_id", a.ID, "path", library.DisplayablePath(a.ArtPath), "error", err)
		writeError(w, http.StatusNotFound, "NO_ART", "Album art not found")
		return
	}

	ext := strings.ToLower(filepath.Ext(a.ArtPath))
	ctype := mime.TypeByExtension(ext)
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	writeImage(w, ctype, "art"+ext, s.resize(r, data))
}
