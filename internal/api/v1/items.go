package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vmunix/musicd/internal/library"
)

// itemObject builds the JSON form of an item: every stored field, path decoded
// to text and size taken from disk. []byte values encode as base64.
func itemObject(it *library.Item) map[string]any {
	obj := it.Fields()
	obj["path"] = library.DisplayablePath(it.Path)
	var size int64
	if info, err := os.Stat(it.Path); err == nil {
		size = info.Size()
	}
	obj["size"] = size
	return obj
}

// streamArray writes a JSON array element by element. iter calls emit once per
// element. Errors after the first byte cannot change the status, so they are
// logged and the array is closed.
func (s *Server) streamArray(w http.ResponseWriter, iter func(emit func(any) error) error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	_, _ = io.WriteString(w, "[")
	n := 0
	err := iter(func(v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if n > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		n++
		if flusher != nil && n%100 == 0 {
			flusher.Flush()
		}
		return nil
	})
	if err != nil {
		s.log.Error("stream aborted", "elements", n, "error", err)
	}
	_, _ = io.WriteString(w, "]")
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if _, err := library.ParseQuery(query); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}

	s.streamArray(w, func(emit func(any) error) error {
		return s.deps.Library.IterItems(query, func(it *library.Item) error {
			return emit(itemObject(it))
		})
	})
}

func (s *Server) lookupItem(w http.ResponseWriter, r *http.Request) (*library.Item, bool) {
	// A non-numeric id names no row.
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Item not found")
		return nil, false
	}
	it, err := s.deps.Library.GetItem(id)
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Item not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return nil, false
	}
	return it, true
}

func (s *Server) getItemFile(w http.ResponseWriter, r *http.Request) {
	it, ok := s.lookupItem(w, r)
	if !ok {
		return
	}

	f, err := os.Open(it.Path)
	if err != nil {
		s.log.Warn("item file missing", "item_id", it.ID, "path", library.DisplayablePath(it.Path), "error", err)
		writeError(w, http.StatusNotFound, "FILE_NOT_FOUND", "Item file not found")
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "FILE_ERROR", "Cannot read item file")
		return
	}

	ctype := mime.TypeByExtension(filepath.Ext(it.Path))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	name := filepath.Base(library.DisplayablePath(it.Path))
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		s.log.Debug("file transfer interrupted", "item_id", it.ID, "error", err)
	}
}

func (s *Server) getItemArt(w http.ResponseWriter, r *http.Request) {
	it, ok := s.lookupItem(w, r)
	if !ok {
		return
	}

	images, err := s.deps.Media.Images(it.Path)
	if err != nil || len(images) == 0 || len(images[0].Data) == 0 {
		if err != nil {
			s.log.Debug("read embedded art failed", "item_id", it.ID, "error", err)
		}
		writeError(w, http.StatusNotFound, "NO_ART", "Item has no embedded art")
		return
	}

	data := s.resize(r, images[0].Data)
	writeImage(w, "image/jpeg", "art.jpg", data)
}

// resize applies ?size= when it lies strictly between 0 and the configured
// maximum. Out-of-range sizes return the original bytes.
func (s *Server) resize(r *http.Request, data []byte) []byte {
	size := queryInt(r, "size", 0)
	if size <= 0 || size >= s.cfg.MaxThumbnail {
		return data
	}
	return s.deps.Thumbnailer.Thumbnail(data, size)
}

func writeImage(w http.ResponseWriter, ctype, name string, data []byte) {
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
