package media

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dhowden/tag"
)

// TagReader implements Reader on top of github.com/dhowden/tag.
type TagReader struct{}

// NewTagReader creates a TagReader.
func NewTagReader() *TagReader {
	return &TagReader{}
}

var _ Reader = (*TagReader)(nil)

func readMetadata(path string) (tag.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	// tag reports short or unrecognized files with seek and format errors as
	// well as ErrNoTagsFound. None of them is readable audio.
	m, err := tag.ReadFrom(f)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
		}
		return nil, fmt.Errorf("%s: %w: %v", path, ErrUnsupported, err)
	}
	return m, nil
}

// ReadTags reads the file's metadata. A missing album artist falls back to the
// track artist.
func (r *TagReader) ReadTags(path string) (*Tags, error) {
	m, err := readMetadata(path)
	if err != nil {
		return nil, err
	}

	track, trackTotal := m.Track()
	disc, discTotal := m.Disc()
	t := &Tags{
		Title:       strings.TrimSpace(m.Title()),
		Artist:      strings.TrimSpace(m.Artist()),
		AlbumArtist: strings.TrimSpace(m.AlbumArtist()),
		Album:       strings.TrimSpace(m.Album()),
		Genre:       strings.TrimSpace(m.Genre()),
		Composer:    strings.TrimSpace(m.Composer()),
		Year:        m.Year(),
		Track:       track,
		TrackTotal:  trackTotal,
		Disc:        disc,
		DiscTotal:   discTotal,
		Format:      formatName(m.FileType()),
		Comp:        isCompilation(m.Raw()),
	}
	if t.AlbumArtist == "" {
		t.AlbumArtist = t.Artist
	}
	return t, nil
}

// Images returns the embedded cover, if any. The tag library exposes at most one.
func (r *TagReader) Images(path string) ([]Image, error) {
	m, err := readMetadata(path)
	if err != nil {
		return nil, err
	}
	p := m.Picture()
	if p == nil || len(p.Data) == 0 {
		return nil, nil
	}
	return []Image{{MIMEType: p.MIMEType, Ext: p.Ext, Data: p.Data}}, nil
}

func formatName(ft tag.FileType) string {
	switch ft {
	case tag.MP3:
		return "MP3"
	case tag.FLAC:
		return "FLAC"
	case tag.M4A, tag.M4B, tag.M4P:
		return "AAC"
	case tag.ALAC:
		return "ALAC"
	case tag.OGG:
		return "OGG"
	default:
		return string(ft)
	}
}

// isCompilation looks for the common compilation flags across tag formats.
func isCompilation(raw map[string]any) bool {
	for _, key := range []string{"TCMP", "TCP", "cpil", "compilation", "COMPILATION"} {
		v, ok := raw[key]
		if !ok {
			continue
		}
		switch x := v.(type) {
		case bool:
			return x
		case string:
			return x == "1" || strings.EqualFold(x, "true")
		case int:
			return x != 0
		}
	}
	return false
}
