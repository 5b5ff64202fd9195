// internal/importer/renamer.go
package importer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/vmunix/musicd/internal/library"
)

// Default naming templates.
const (
	DefaultAlbumTemplate     = "{albumartist}/{album}/{track:02} {title}"
	DefaultSingletonTemplate = "Non-Album/{artist}/{title}"
	DefaultCompTemplate      = "Compilations/{album}/{track:02} {title}"
)

// Renamer applies naming templates to generate library-relative file paths.
type Renamer struct {
	albumTemplate     string
	singletonTemplate string
	compTemplate      string
}

// NewRenamer creates a new Renamer with the given album and singleton templates.
// Empty strings use default templates.
func NewRenamer(albumTemplate, singletonTemplate string) *Renamer {
	if albumTemplate == "" {
		albumTemplate = DefaultAlbumTemplate
	}
	if singletonTemplate == "" {
		singletonTemplate = DefaultSingletonTemplate
	}
	return &Renamer{
		albumTemplate:     albumTemplate,
		singletonTemplate: singletonTemplate,
		compTemplate:      DefaultCompTemplate,
	}
}

// ItemPath generates the relative destination for an item. The extension is
// taken from the source file. Each template component is sanitized separately.
func (r *Renamer) ItemPath(item *library.Item, singleton bool, ext string) string {
	tmpl := r.albumTemplate
	switch {
	case singleton:
		tmpl = r.singletonTemplate
	case item.Comp:
		tmpl = r.compTemplate
	}

	vars := map[string]any{
		"title":       fallback(item.Title, "Unknown Title"),
		"artist":      fallback(item.Artist, fallback(item.AlbumArtist, "Unknown Artist")),
		"albumartist": fallback(item.AlbumArtist, fallback(item.Artist, "Unknown Artist")),
		"album":       fallback(item.Album, "Unknown Album"),
		"genre":       item.Genre,
		"year":        item.Year,
		"track":       item.Track,
		"disc":        item.Disc,
		"format":      item.Format,
	}

	parts := strings.Split(tmpl, "/")
	for i, part := range parts {
		parts[i] = SanitizeComponent(applyTemplate(part, vars))
		if parts[i] == "" {
			parts[i] = "_"
		}
	}
	return filepath.Join(parts...) + strings.ToLower(ext)
}

func fallback(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// formatPattern matches {name} or {name:02} style placeholders.
var formatPattern = regexp.MustCompile(`\{(\w+)(?::(\d+))?\}`)

// applyTemplate substitutes variables into a template string.
// Supports {name} for simple substitution and {name:02} for zero-padded integers.
func applyTemplate(template string, vars map[string]any) string {
	return formatPattern.ReplaceAllStringFunc(template, func(match string) string {
		parts := formatPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		val, ok := vars[name]
		if !ok {
			return match
		}

		if len(parts) >= 3 && parts[2] != "" {
			width, err := strconv.Atoi(parts[2])
			if err == nil {
				switch v := val.(type) {
				case int:
					return fmt.Sprintf("%0*d", width, v)
				case int64:
					return fmt.Sprintf("%0*d", width, v)
				}
			}
		}

		return fmt.Sprintf("%v", val)
	})
}
