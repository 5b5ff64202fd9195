package importresults

import (
	"github.com/vmunix/musicd/internal/importer"
	"github.com/vmunix/musicd/internal/library"
)

// Recorder feeds import decisions into an Aggregator. It never resets it.
type Recorder struct {
	agg *Aggregator
}

// NewRecorder creates a Recorder writing to agg.
func NewRecorder(agg *Aggregator) *Recorder {
	return &Recorder{agg: agg}
}

var _ importer.ChoiceListener = (*Recorder)(nil)

// OnTaskDecision records every item of a decided task, in order. Tracks are
// grouped by album artist so compilations stay together.
func (r *Recorder) OnTaskDecision(kind string, items []*library.Item) {
	for _, it := range items {
		if it == nil {
			continue
		}
		r.agg.Record(kind, it.AlbumArtist, it.Album, TrackRecord{
			Artist: it.AlbumArtist,
			Album:  it.Album,
			Title:  it.Title,
			Path:   library.DisplayablePath(it.Path),
		})
	}
}
