package media

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"log/slog"
	"math"

	"golang.org/x/image/draw"
)

// MaxThumbnailSize is the exclusive upper bound for requested thumbnail sizes.
const MaxThumbnailSize = 1600

// Thumbnailer shrinks images to fit a square bounding box.
type Thumbnailer struct {
	log *slog.Logger
}

// NewThumbnailer creates a Thumbnailer.
func NewThumbnailer(logger *slog.Logger) *Thumbnailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Thumbnailer{log: logger}
}

// Thumbnail scales data to fit within size x size, preserving aspect ratio and
// re-encoding in the source format. Images already within bounds are returned as-is.
// Any failure yields an empty slice.
func (t *Thumbnailer) Thumbnail(data []byte, size int) (out []byte) {
	if len(data) == 0 || size <= 0 {
		return []byte{}
	}
	defer func() {
		if r := recover(); r != nil {
			t.log.Warn("thumbnail panicked", "panic", r)
			out = []byte{}
		}
	}()

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.log.Debug("thumbnail decode failed", "error", err)
		return []byte{}
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= size && h <= size {
		return data
	}

	ratio := math.Min(float64(size)/float64(w), float64(size)/float64(h))
	nw := max(1, int(math.Round(float64(w)*ratio)))
	nh := max(1, int(math.Round(float64(h)*ratio)))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90})
	case "png":
		err = png.Encode(&buf, dst)
	case "gif":
		err = gif.Encode(&buf, dst, nil)
	default:
		t.log.Debug("thumbnail format not supported", "format", format)
		return []byte{}
	}
	if err != nil {
		t.log.Debug("thumbnail encode failed", "format", format, "error", err)
		return []byte{}
	}
	return buf.Bytes()
}
