// Package media reads tags and embedded art from audio files and builds thumbnails.
package media

import "errors"

// ErrUnsupported indicates a file whose tag format cannot be read.
var ErrUnsupported = errors.New("unsupported audio format")

// Tags holds the metadata read from an audio file.
type Tags struct {
	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	Genre       string
	Composer    string
	Year        int
	Track       int
	TrackTotal  int
	Disc        int
	DiscTotal   int
	Format      string
	Comp        bool
}

// Image is an embedded picture.
type Image struct {
	MIMEType string
	Ext      string
	Data     []byte
}

//go:generate mockgen -source=media.go -destination=mocks/mock_media.go -package=mocks

// Reader extracts tags and embedded images from audio files.
type Reader interface {
	ReadTags(path string) (*Tags, error)
	Images(path string) ([]Image, error)
}
