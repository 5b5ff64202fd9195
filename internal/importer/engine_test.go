// internal/importer/engine_test.go
package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/musicd/internal/events"
	"github.com/vmunix/musicd/internal/library"
	"github.com/vmunix/musicd/internal/media"
	"github.com/vmunix/musicd/internal/media/mocks"
)

// decision is one captured listener call.
type decision struct {
	kind  string
	paths []string
	album string
}

type captureListener struct {
	mu        sync.Mutex
	decisions []decision
}

func (c *captureListener) OnTaskDecision(kind string, items []*library.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := decision{kind: kind}
	for _, it := range items {
		d.paths = append(d.paths, it.Path)
		d.album = it.Album
	}
	c.decisions = append(c.decisions, d)
}

type engineFixture struct {
	engine   *Engine
	lib      *library.Store
	log      *events.EventLog
	listener *captureListener
	src      string
	dest     string
	tags     map[string]*media.Tags
}

func newEngineFixture(t *testing.T, cfg Config) *engineFixture {
	t.Helper()
	db := setupTestDB(t)
	ctrl := gomock.NewController(t)

	f := &engineFixture{
		lib:      library.NewStore(db),
		log:      events.NewEventLog(db),
		listener: &captureListener{},
		src:      t.TempDir(),
		dest:     t.TempDir(),
		tags:     make(map[string]*media.Tags),
	}

	reader := mocks.NewMockReader(ctrl)
	reader.EXPECT().ReadTags(gomock.Any()).DoAndReturn(func(path string) (*media.Tags, error) {
		tags, ok := f.tags[path]
		if !ok {
			return nil, media.ErrUnsupported
		}
		cp := *tags
		return &cp, nil
	}).AnyTimes()

	if cfg.LibraryDir == "" {
		cfg.LibraryDir = f.dest
	}
	bus := events.NewBus(f.log, nil)
	t.Cleanup(func() { _ = bus.Close() })

	f.engine = New(db, reader, bus, cfg, nil)
	f.engine.AddListener(f.listener)
	return f
}

// addTrack creates an audio file under src and registers its tags.
func (f *engineFixture) addTrack(t *testing.T, rel string, tags media.Tags) string {
	t.Helper()
	path := filepath.Join(f.src, rel)
	touch(t, path)
	f.tags[path] = &tags
	return path
}

func (f *engineFixture) options(t *testing.T, args ...string) Options {
	t.Helper()
	opts, _, err := ParseArgs(append([]string{"-q"}, args...), f.engine.DefaultOptions())
	require.NoError(t, err)
	return opts
}

func TestEngine_RunMissingPath(t *testing.T) {
	f := newEngineFixture(t, Config{})

	err := f.engine.Run(context.Background(), f.lib, f.options(t), []string{"/nonexistent/path"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSuchPath))
	assert.Empty(t, f.listener.decisions)
}

func TestEngine_RunNoPaths(t *testing.T) {
	f := newEngineFixture(t, Config{})

	err := f.engine.Run(context.Background(), f.lib, f.options(t), nil)
	assert.True(t, errors.Is(err, ErrNoSuchPath))
}

func TestEngine_RunAlbumsInPlace(t *testing.T) {
	f := newEngineFixture(t, Config{})
	a1 := f.addTrack(t, "Abbey Road/01.mp3", media.Tags{Artist: "The Beatles", AlbumArtist: "The Beatles", Album: "Abbey Road", Title: "Come Together", Track: 1})
	a2 := f.addTrack(t, "Abbey Road/02.mp3", media.Tags{Artist: "The Beatles", AlbumArtist: "The Beatles", Album: "Abbey Road", Title: "Something", Track: 2})
	b1 := f.addTrack(t, "Post/01.flac", media.Tags{Artist: "Björk", AlbumArtist: "Björk", Album: "Post", Title: "Army of Me", Track: 1})

	err := f.engine.Run(context.Background(), f.lib, f.options(t), []string{f.src})
	require.NoError(t, err)

	require.Len(t, f.listener.decisions, 2)
	assert.Equal(t, ChoiceAsIs, f.listener.decisions[0].kind)
	assert.Equal(t, []string{a1, a2}, f.listener.decisions[0].paths)
	assert.Equal(t, []string{b1}, f.listener.decisions[1].paths)

	albums, err := f.lib.Albums("")
	require.NoError(t, err)
	require.Len(t, albums, 2)
	assert.Equal(t, "Abbey Road", albums[0].Album)

	items, err := f.lib.ItemsForAlbum(albums[0].ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, a1, items[0].Path, "files stay in place without copy")
	assert.Equal(t, "Come Together", items[0].Title)
}

func TestEngine_RunSkipsUnreadable(t *testing.T) {
	f := newEngineFixture(t, Config{})
	good := f.addTrack(t, "Mixed/01.mp3", media.Tags{Artist: "A", AlbumArtist: "A", Album: "Mixed", Title: "Good"})
	touch(t, filepath.Join(f.src, "Mixed", "02.mp3")) // no tags registered
	touch(t, filepath.Join(f.src, "Broken", "01.mp3"))

	err := f.engine.Run(context.Background(), f.lib, f.options(t), []string{f.src})
	require.NoError(t, err)

	require.Len(t, f.listener.decisions, 1, "task without readable tracks is dropped")
	assert.Equal(t, []string{good}, f.listener.decisions[0].paths)
}

func TestEngine_RunSingletons(t *testing.T) {
	f := newEngineFixture(t, Config{})
	f.addTrack(t, "loose/a.mp3", media.Tags{Artist: "Nina Simone", Title: "Sinnerman"})
	f.addTrack(t, "loose/b.mp3", media.Tags{Artist: "Nina Simone", Title: "Feeling Good"})

	err := f.engine.Run(context.Background(), f.lib, f.options(t, "-s"), []string{f.src})
	require.NoError(t, err)

	require.Len(t, f.listener.decisions, 2)
	albums, err := f.lib.Albums("")
	require.NoError(t, err)
	assert.Empty(t, albums)

	items, err := f.lib.Items("")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Nil(t, items[0].AlbumID)
}

func TestEngine_DuplicateActions(t *testing.T) {
	tests := []struct {
		action     string
		wantKind   string
		wantAlbums int
	}{
		{DuplicateSkip, ChoiceSkip, 1},
		{DuplicateKeep, ChoiceAsIs, 2},
		{DuplicateRemove, ChoiceAsIs, 1},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			f := newEngineFixture(t, Config{})
			f.addTrack(t, "Kind of Blue/01.mp3", media.Tags{Artist: "Miles Davis", AlbumArtist: "Miles Davis", Album: "Kind of Blue", Title: "So What"})

			existing := &library.Album{AlbumArtist: "Miles Davis", Album: "Kind of Blue"}
			require.NoError(t, f.lib.AddAlbum(existing))
			require.NoError(t, f.lib.AddItem(&library.Item{Path: "/old/so-what.mp3", AlbumID: &existing.ID, Title: "So What"}))

			err := f.engine.Run(context.Background(), f.lib, f.options(t, "--duplicate-action", tt.action), []string{f.src})
			require.NoError(t, err)

			require.Len(t, f.listener.decisions, 1)
			assert.Equal(t, tt.wantKind, f.listener.decisions[0].kind)

			albums, err := f.lib.Albums("")
			require.NoError(t, err)
			assert.Len(t, albums, tt.wantAlbums)

			if tt.action == DuplicateRemove {
				_, err := f.lib.GetAlbum(existing.ID)
				assert.True(t, errors.Is(err, library.ErrNotFound))
				_, err = f.lib.FindItemByPath("/old/so-what.mp3")
				assert.True(t, errors.Is(err, library.ErrNotFound))
			}
		})
	}
}

func TestEngine_SamePathIsDuplicate(t *testing.T) {
	f := newEngineFixture(t, Config{})
	f.addTrack(t, "EP/01.mp3", media.Tags{Artist: "X", AlbumArtist: "X", Album: "EP", Title: "One"})

	require.NoError(t, f.engine.Run(context.Background(), f.lib, f.options(t), []string{f.src}))
	require.NoError(t, f.engine.Run(context.Background(), f.lib, f.options(t), []string{f.src}))

	require.Len(t, f.listener.decisions, 2)
	assert.Equal(t, ChoiceAsIs, f.listener.decisions[0].kind)
	assert.Equal(t, ChoiceSkip, f.listener.decisions[1].kind)

	items, err := f.lib.Items("")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestEngine_RunCopy(t *testing.T) {
	f := newEngineFixture(t, Config{})
	src := f.addTrack(t, "in/01.mp3", media.Tags{Artist: "Radiohead", AlbumArtist: "Radiohead", Album: "OK Computer", Title: "Airbag", Track: 1})
	touch(t, filepath.Join(f.src, "in", "cover.jpg"))

	err := f.engine.Run(context.Background(), f.lib, f.options(t, "-c"), []string{f.src})
	require.NoError(t, err)

	want := filepath.Join(f.dest, "Radiohead", "OK Computer", "01 Airbag.mp3")
	_, err = os.Stat(want)
	require.NoError(t, err, "file copied into library")
	_, err = os.Stat(src)
	require.NoError(t, err, "source kept on copy")

	items, err := f.lib.Items("")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, want, items[0].Path)

	// Listener saw the source path, before the copy.
	assert.Equal(t, []string{src}, f.listener.decisions[0].paths)

	albums, err := f.lib.Albums("")
	require.NoError(t, err)
	require.Len(t, albums, 1)
	assert.Equal(t, filepath.Join(f.dest, "Radiohead", "OK Computer", "cover.jpg"), albums[0].ArtPath)
}

func TestEngine_RunMove(t *testing.T) {
	f := newEngineFixture(t, Config{})
	src := f.addTrack(t, "in/01.mp3", media.Tags{Artist: "Nina Simone", Title: "Sinnerman"})

	err := f.engine.Run(context.Background(), f.lib, f.options(t, "-m", "-s"), []string{f.src})
	require.NoError(t, err)

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err), "source removed on move")
	_, err = os.Stat(filepath.Join(f.dest, "Non-Album", "Nina Simone", "Sinnerman.mp3"))
	assert.NoError(t, err)
}

func TestEngine_RunSetFields(t *testing.T) {
	f := newEngineFixture(t, Config{})
	f.addTrack(t, "in/01.mp3", media.Tags{Artist: "A", AlbumArtist: "A", Album: "B", Title: "C"})

	err := f.engine.Run(context.Background(), f.lib, f.options(t, "--set", "genre=Jazz", "--set", "mood=calm"), []string{f.src})
	require.NoError(t, err)

	items, err := f.lib.Items("")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Jazz", items[0].Genre)
	assert.Equal(t, "calm", items[0].Attributes["mood"])
}

func TestEngine_RunIncremental(t *testing.T) {
	f := newEngineFixture(t, Config{WriteHistory: true})
	f.addTrack(t, "A/01.mp3", media.Tags{Artist: "A", AlbumArtist: "A", Album: "A", Title: "1"})

	require.NoError(t, f.engine.Run(context.Background(), f.lib, f.options(t, "-i"), []string{f.src}))
	require.Len(t, f.listener.decisions, 1)

	f.addTrack(t, "B/01.mp3", media.Tags{Artist: "B", AlbumArtist: "B", Album: "B", Title: "1"})
	require.NoError(t, f.engine.Run(context.Background(), f.lib, f.options(t, "-i"), []string{f.src}))

	require.Len(t, f.listener.decisions, 2, "previously imported directory is skipped")
	assert.Equal(t, "B", f.listener.decisions[1].album)

	entries, err := f.engine.History().List(HistoryFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestEngine_RunPublishesEvents(t *testing.T) {
	f := newEngineFixture(t, Config{})
	f.addTrack(t, "A/01.mp3", media.Tags{Artist: "A", AlbumArtist: "A", Album: "A", Title: "1"})

	require.NoError(t, f.engine.Run(context.Background(), f.lib, f.options(t), []string{f.src}))

	raw, _, err := f.log.Recent(events.Filter{}, 100, 0)
	require.NoError(t, err)
	var types []string
	for i := len(raw) - 1; i >= 0; i-- {
		types = append(types, raw[i].EventType)
	}
	assert.Equal(t, []string{
		events.EventImportStarted,
		events.EventImportTaskChosen,
		events.EventAlbumAdded,
		events.EventItemAdded,
		events.EventImportCompleted,
	}, types)
}

func TestEngine_RunCancelled(t *testing.T) {
	f := newEngineFixture(t, Config{})
	f.addTrack(t, "A/01.mp3", media.Tags{Artist: "A", Title: "1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.engine.Run(ctx, f.lib, f.options(t), []string{f.src})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, f.listener.decisions)
}

func TestEngine_ListenerFunc(t *testing.T) {
	f := newEngineFixture(t, Config{})
	f.addTrack(t, "A/01.mp3", media.Tags{Artist: "A", AlbumArtist: "A", Album: "A", Title: "1"})

	var kinds []string
	f.engine.AddListener(ChoiceListenerFunc(func(kind string, items []*library.Item) {
		kinds = append(kinds, kind)
	}))

	require.NoError(t, f.engine.Run(context.Background(), f.lib, f.options(t), []string{f.src}))
	assert.Equal(t, []string{ChoiceAsIs}, kinds)
}

func TestEngine_ImportLog(t *testing.T) {
	tests := []struct {
		action string
		want   string
	}{
		{DuplicateSkip, "skip"},
		{DuplicateKeep, "duplicate-keep"},
		{DuplicateRemove, "duplicate-replace"},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			f := newEngineFixture(t, Config{})
			f.addTrack(t, "Blue Train/01.mp3", media.Tags{Artist: "John Coltrane", AlbumArtist: "John Coltrane", Album: "Blue Train", Title: "Blue Train"})
			f.addTrack(t, "Kind of Blue/01.mp3", media.Tags{Artist: "Miles Davis", AlbumArtist: "Miles Davis", Album: "Kind of Blue", Title: "So What"})

			existing := &library.Album{AlbumArtist: "Miles Davis", Album: "Kind of Blue"}
			require.NoError(t, f.lib.AddAlbum(existing))
			require.NoError(t, f.lib.AddItem(&library.Item{Path: "/old/so-what.mp3", AlbumID: &existing.ID, Title: "So What"}))

			logPath := filepath.Join(t.TempDir(), "import.log")
			err := f.engine.Run(context.Background(), f.lib, f.options(t, "-l", logPath, "--duplicate-action", tt.action), []string{f.src})
			require.NoError(t, err)

			data, err := os.ReadFile(logPath)
			require.NoError(t, err)
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			require.Len(t, lines, 2)
			assert.True(t, strings.HasPrefix(lines[0], "import started "))
			assert.Equal(t, tt.want+" "+filepath.Join(f.src, "Kind of Blue"), lines[1])
		})
	}
}

func TestEngine_ImportLogUnwritable(t *testing.T) {
	f := newEngineFixture(t, Config{})
	f.addTrack(t, "A/01.mp3", media.Tags{Artist: "A", Title: "1"})

	logPath := filepath.Join(t.TempDir(), "missing-dir", "import.log")
	err := f.engine.Run(context.Background(), f.lib, f.options(t, "-l", logPath), []string{f.src})
	require.ErrorIs(t, err, ErrInvalidOption)
	assert.Empty(t, f.listener.decisions)
}
