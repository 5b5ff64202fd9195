// Package importresults collects the per-track decisions of one import session
// so they can be reported back to the caller that started it.
package importresults

import "sync"

// TrackRecord is the fact sheet kept for one decided track.
type TrackRecord struct {
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Title  string `json:"title"`
	Path   string `json:"path"`
}

// Details maps decision kind to artist to album to the tracks in call order.
type Details map[string]map[string]map[string][]TrackRecord

// Summary maps decision kind to the number of tracks recorded under it.
type Summary map[string]int

// Aggregator accumulates decisions for one import run. It is safe for
// concurrent use; every method holds the lock for its whole duration so a
// snapshot never sees a half-applied Record.
type Aggregator struct {
	mu      sync.Mutex
	details Details
	counts  Summary
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		details: make(Details),
		counts:  make(Summary),
	}
}

// Reset discards all recorded state.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.details = make(Details)
	a.counts = make(Summary)
}

// Record appends track to the (kind, artist, album) bucket and counts it.
// Empty artist or album are ordinary keys.
func (a *Aggregator) Record(kind, artist, album string, track TrackRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()

	byArtist, ok := a.details[kind]
	if !ok {
		byArtist = make(map[string]map[string][]TrackRecord)
		a.details[kind] = byArtist
	}
	byAlbum, ok := byArtist[artist]
	if !ok {
		byAlbum = make(map[string][]TrackRecord)
		byArtist[artist] = byAlbum
	}
	byAlbum[album] = append(byAlbum[album], track)
	a.counts[kind]++
}

// Snapshot returns deep copies of the recorded details and counts. The result
// is never nil and is not affected by later calls.
func (a *Aggregator) Snapshot() (Details, Summary) {
	a.mu.Lock()
	defer a.mu.Unlock()

	details := make(Details, len(a.details))
	for kind, byArtist := range a.details {
		artists := make(map[string]map[string][]TrackRecord, len(byArtist))
		for artist, byAlbum := range byArtist {
			albums := make(map[string][]TrackRecord, len(byAlbum))
			for album, tracks := range byAlbum {
				albums[album] = append([]TrackRecord(nil), tracks...)
			}
			artists[artist] = albums
		}
		details[kind] = artists
	}

	summary := make(Summary, len(a.counts))
	for kind, n := range a.counts {
		summary[kind] = n
	}
	return details, summary
}

// Count returns the number of tracks recorded under kind. Unknown kinds are zero.
func (a *Aggregator) Count(kind string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counts[kind]
}
