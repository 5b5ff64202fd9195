// Package importer scans directories of audio files, decides what to do with
// each group of tracks and adds them to the library.
package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/musicd/internal/events"
	"github.com/vmunix/musicd/internal/library"
	"github.com/vmunix/musicd/internal/media"
)

// artFilenames are image files picked up as album art, in order of preference.
var artFilenames = []string{"cover.jpg", "cover.png", "folder.jpg", "folder.png", "front.jpg", "album.jpg"}

// Config for the engine.
type Config struct {
	LibraryDir        string
	AlbumTemplate     string
	SingletonTemplate string
	Workers           int
	WriteHistory      bool

	// Defaults applied before per-request arguments.
	Copy            bool
	Move            bool
	Incremental     bool
	DuplicateAction string
}

// Engine runs import sessions.
type Engine struct {
	reader  media.Reader
	history *HistoryStore
	renamer *Renamer
	bus     *events.Bus // nil disables events
	cfg     Config
	log     *slog.Logger

	mu        sync.RWMutex
	listeners []ChoiceListener
}

// New creates an engine. bus may be nil.
func New(db *sql.DB, reader media.Reader, bus *events.Bus, cfg Config, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.DuplicateAction == "" {
		cfg.DuplicateAction = DuplicateSkip
	}
	return &Engine{
		reader:  reader,
		history: NewHistoryStore(db),
		renamer: NewRenamer(cfg.AlbumTemplate, cfg.SingletonTemplate),
		bus:     bus,
		cfg:     cfg,
		log:     log.With("component", "importer"),
	}
}

// AddListener registers l for every subsequent task decision.
func (e *Engine) AddListener(l ChoiceListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// DefaultOptions returns the configured option defaults.
func (e *Engine) DefaultOptions() Options {
	return Options{
		Quiet:           true,
		Copy:            e.cfg.Copy && !e.cfg.Move,
		Move:            e.cfg.Move,
		Incremental:     e.cfg.Incremental,
		Set:             map[string]string{},
		DuplicateAction: e.cfg.DuplicateAction,
	}
}

// History returns the engine's history store.
func (e *Engine) History() *HistoryStore {
	return e.history
}

// task is a scanned task with its tags read.
type task struct {
	scanTask
	singleton bool
	items     []*library.Item
}

// key identifies the task in import history.
func (t *task) key() string {
	if t.singleton {
		return t.files[0]
	}
	return t.dir
}

// sessionStats accumulates per-session counters.
type sessionStats struct {
	tasks   int
	added   int
	choices map[string]int
}

// Run imports paths into lib. It blocks until every task has been decided and
// applied. Paths that do not exist fail the whole run with ErrNoSuchPath before
// anything is changed.
func (e *Engine) Run(ctx context.Context, lib *library.Store, opts Options, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("%w: no paths given", ErrNoSuchPath)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("%w: %s", ErrNoSuchPath, library.DisplayablePath(p))
		}
	}
	if opts.DuplicateAction == "" {
		opts.DuplicateAction = e.cfg.DuplicateAction
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	session := uuid.NewString()
	log := e.log.With("session", session)
	log.Info("import started", "paths", len(paths), "copy", opts.Copy, "move", opts.Move,
		"singletons", opts.Singletons, "incremental", opts.Incremental)

	display := make([]string, len(paths))
	for i, p := range paths {
		display[i] = library.DisplayablePath(p)
	}
	e.publish(ctx, &events.ImportStarted{
		BaseEvent: events.NewImportEvent(events.EventImportStarted),
		SessionID: session,
		Paths:     display,
		Copy:      opts.Copy,
		Move:      opts.Move,
	})

	stats, err := e.run(ctx, lib, opts, paths, session, log)
	if err != nil {
		log.Error("import failed", "error", err)
		e.publish(ctx, &events.ImportFailed{
			BaseEvent: events.NewImportEvent(events.EventImportFailed),
			SessionID: session,
			Reason:    err.Error(),
		})
		return err
	}

	log.Info("import complete", "tasks", stats.tasks, "added", stats.added)
	e.publish(ctx, &events.ImportCompleted{
		BaseEvent: events.NewImportEvent(events.EventImportCompleted),
		SessionID: session,
		Tasks:     stats.tasks,
		Choices:   stats.choices,
		Added:     stats.added,
	})
	return nil
}

func (e *Engine) run(ctx context.Context, lib *library.Store, opts Options, paths []string, session string, log *slog.Logger) (*sessionStats, error) {
	stats := &sessionStats{choices: make(map[string]int)}

	ilog, err := openImportLog(opts.LogPath, session)
	if err != nil {
		return stats, err
	}
	defer func() {
		if err := ilog.Close(); err != nil {
			log.Warn("close import log", "error", err)
		}
	}()

	var scanned []scanTask
	for _, p := range paths {
		files, err := FindAudioFiles(p)
		if err != nil {
			return stats, err
		}
		scanned = append(scanned, groupTasks(files, opts.Singletons)...)
	}
	log.Debug("scan complete", "tasks", len(scanned))

	for _, st := range scanned {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		t := &task{scanTask: st, singleton: opts.Singletons}
		if opts.Incremental {
			seen, err := e.history.Seen(t.key())
			if err != nil {
				return stats, err
			}
			if seen {
				log.Debug("skipping previously imported", "path", library.DisplayablePath(t.key()))
				continue
			}
		}

		items, err := e.readItems(ctx, t.files, log)
		if err != nil {
			return stats, err
		}
		if len(items) == 0 {
			log.Warn("no readable tracks", "path", library.DisplayablePath(t.key()))
			continue
		}
		t.items = items

		kind, dups, err := e.decide(lib, t, opts)
		if err != nil {
			return stats, err
		}
		stats.tasks++
		stats.choices[kind] += len(items)
		ilog.record(kind, dups, opts.DuplicateAction, t.key())

		e.notify(kind, items)
		e.publish(ctx, &events.ImportTaskChosen{
			BaseEvent: events.NewImportEvent(events.EventImportTaskChosen),
			SessionID: session,
			Choice:    kind,
			Path:      library.DisplayablePath(t.key()),
			Artist:    items[0].AlbumArtist,
			Album:     items[0].Album,
			Items:     len(items),
		})

		action := ActionSkipped
		added := 0
		if kind == ChoiceAsIs {
			added, err = e.apply(ctx, lib, t, opts, dups, log)
			if err != nil {
				// One bad task must not abort the whole session.
				log.Error("task failed", "path", library.DisplayablePath(t.key()), "error", err)
				action = ActionFailed
			} else {
				action = ActionImported
			}
			stats.added += added
		}

		if e.cfg.WriteHistory {
			if err := e.history.Add(&HistoryEntry{
				Path:      t.key(),
				Action:    action,
				Items:     added,
				SessionID: session,
			}); err != nil {
				log.Warn("record history failed", "error", err)
			}
		}
	}

	return stats, nil
}

// readItems reads tags for files concurrently, preserving file order.
// Unreadable files are logged and dropped.
func (e *Engine) readItems(ctx context.Context, files []string, log *slog.Logger) ([]*library.Item, error) {
	results := make([]*library.Item, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for idx, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tags, err := e.reader.ReadTags(path)
			if err != nil {
				log.Warn("unreadable file", "path", library.DisplayablePath(path), "error", err)
				return nil
			}
			var mtime int64
			if info, err := os.Stat(path); err == nil {
				mtime = info.ModTime().Unix()
			}
			results[idx] = itemFromTags(path, tags, mtime)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]*library.Item, 0, len(results))
	for _, it := range results {
		if it != nil {
			items = append(items, it)
		}
	}
	return items, nil
}

func itemFromTags(path string, t *media.Tags, mtime int64) *library.Item {
	return &library.Item{
		Path:        path,
		Title:       t.Title,
		Artist:      t.Artist,
		AlbumArtist: t.AlbumArtist,
		Album:       t.Album,
		Genre:       t.Genre,
		Composer:    t.Composer,
		Year:        t.Year,
		Track:       t.Track,
		TrackTotal:  t.TrackTotal,
		Disc:        t.Disc,
		DiscTotal:   t.DiscTotal,
		Format:      t.Format,
		Comp:        t.Comp,
		MTime:       mtime,
	}
}

// duplicates are existing library entries that collide with a task.
type duplicates struct {
	album *library.Album
	items []*library.Item
}

func (d *duplicates) empty() bool {
	return d.album == nil && len(d.items) == 0
}

// decide picks the task's decision kind. Tasks that collide with the library
// follow the duplicate action; everything else is imported as-is.
func (e *Engine) decide(lib *library.Store, t *task, opts Options) (string, *duplicates, error) {
	dups, err := findDuplicates(lib, t)
	if err != nil {
		return "", nil, err
	}
	if dups.empty() {
		return ChoiceAsIs, dups, nil
	}

	e.log.Debug("duplicate found", "path", library.DisplayablePath(t.key()), "action", opts.DuplicateAction)
	if opts.DuplicateAction == DuplicateSkip {
		return ChoiceSkip, dups, nil
	}
	return ChoiceAsIs, dups, nil
}

func findDuplicates(lib *library.Store, t *task) (*duplicates, error) {
	dups := &duplicates{}
	first := t.items[0]

	if t.singleton {
		if first.Artist != "" || first.Title != "" {
			it, err := lib.FindSingleton(first.Artist, first.Title)
			switch {
			case err == nil:
				dups.items = append(dups.items, it)
			case !errors.Is(err, library.ErrNotFound):
				return nil, err
			}
		}
	} else if first.AlbumArtist != "" || first.Album != "" {
		a, err := lib.FindAlbum(first.AlbumArtist, first.Album)
		switch {
		case err == nil:
			dups.album = a
		case !errors.Is(err, library.ErrNotFound):
			return nil, err
		}
	}

	seen := make(map[int64]bool, len(dups.items))
	for _, it := range dups.items {
		seen[it.ID] = true
	}
	for _, it := range t.items {
		existing, err := lib.FindItemByPath(it.Path)
		if errors.Is(err, library.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !seen[existing.ID] {
			seen[existing.ID] = true
			dups.items = append(dups.items, existing)
		}
	}
	return dups, nil
}

// apply moves or copies the task's files into the library directory when
// enabled, then writes the album and items in one transaction.
func (e *Engine) apply(ctx context.Context, lib *library.Store, t *task, opts Options, dups *duplicates, log *slog.Logger) (int, error) {
	for _, field := range opts.SetFields() {
		for _, it := range t.items {
			if err := it.Set(field, opts.Set[field]); err != nil {
				return 0, fmt.Errorf("%w: %v", ErrInvalidOption, err)
			}
		}
	}

	artPath := findArt(t)
	if opts.Copy || opts.Move {
		var err error
		artPath, err = e.transfer(t, opts, artPath, log)
		if err != nil {
			return 0, err
		}
	}

	tx, err := lib.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var removed []*library.Item
	if opts.DuplicateAction == DuplicateRemove {
		removed, err = removeDuplicates(tx, dups)
		if err != nil {
			return 0, err
		}
	}

	var album *library.Album
	if !t.singleton {
		first := t.items[0]
		album = &library.Album{
			AlbumArtist: first.AlbumArtist,
			Album:       first.Album,
			Genre:       first.Genre,
			Year:        first.Year,
			Comp:        first.Comp,
			ArtPath:     artPath,
		}
		if err := tx.AddAlbum(album); err != nil {
			return 0, fmt.Errorf("add album: %w", err)
		}
	}

	var added []*library.Item
	for _, it := range t.items {
		if album != nil {
			it.AlbumID = &album.ID
		}
		if err := tx.AddItem(it); err != nil {
			if errors.Is(err, library.ErrDuplicate) {
				log.Debug("item already in library", "path", library.DisplayablePath(it.Path))
				continue
			}
			return 0, fmt.Errorf("add item: %w", err)
		}
		added = append(added, it)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	e.pruneFiles(removed, t.items, log)

	for _, it := range removed {
		e.publish(ctx, &events.ItemRemoved{
			BaseEvent: events.NewBaseEvent(events.EventItemRemoved, events.EntityItem, it.ID),
			ItemID:    it.ID,
			Path:      library.DisplayablePath(it.Path),
		})
	}
	if album != nil {
		e.publish(ctx, &events.AlbumAdded{
			BaseEvent:   events.NewBaseEvent(events.EventAlbumAdded, events.EntityAlbum, album.ID),
			AlbumID:     album.ID,
			AlbumArtist: album.AlbumArtist,
			Album:       album.Album,
			Tracks:      len(added),
		})
	}
	for _, it := range added {
		e.publish(ctx, &events.ItemAdded{
			BaseEvent: events.NewBaseEvent(events.EventItemAdded, events.EntityItem, it.ID),
			ItemID:    it.ID,
			AlbumID:   it.AlbumID,
			Path:      library.DisplayablePath(it.Path),
			Artist:    it.Artist,
			Title:     it.Title,
		})
	}

	log.Debug("task applied", "path", library.DisplayablePath(t.key()), "items", len(added))
	return len(added), nil
}

// transfer copies or moves files and art into the library directory and
// rewrites item paths to their destinations. Returns the new art path.
func (e *Engine) transfer(t *task, opts Options, artPath string, log *slog.Logger) (string, error) {
	root := e.cfg.LibraryDir
	if root == "" {
		return "", fmt.Errorf("%w: library directory not configured", ErrCopyFailed)
	}

	var albumDir string
	for _, it := range t.items {
		rel := e.renamer.ItemPath(it, t.singleton, filepath.Ext(it.Path))
		dest := filepath.Join(root, rel)
		if err := ValidatePath(dest, root); err != nil {
			return "", err
		}
		if filepath.Clean(dest) != filepath.Clean(it.Path) {
			dest = uniquePath(dest)
			var err error
			if opts.Move {
				_, err = MoveFile(it.Path, dest)
			} else {
				_, err = CopyFile(it.Path, dest)
			}
			if err != nil {
				return "", fmt.Errorf("%s: %w", library.DisplayablePath(it.Path), err)
			}
			log.Debug("file transferred", "src", library.DisplayablePath(it.Path), "dest", library.DisplayablePath(dest), "move", opts.Move)
		}
		it.Path = dest
		if albumDir == "" {
			albumDir = filepath.Dir(dest)
		}
	}

	if artPath == "" || t.singleton {
		return artPath, nil
	}
	dest := filepath.Join(albumDir, "cover"+strings.ToLower(filepath.Ext(artPath)))
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}
	var err error
	if opts.Move {
		_, err = MoveFile(artPath, dest)
	} else {
		_, err = CopyFile(artPath, dest)
	}
	if err != nil {
		log.Warn("art transfer failed", "src", library.DisplayablePath(artPath), "error", err)
		return "", nil
	}
	return dest, nil
}

// uniquePath appends " (N)" before the extension until path does not exist.
func uniquePath(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, n, ext)
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}

// pruneFiles deletes files of removed duplicates that live inside the library
// directory. Files outside it belong to the user and are left alone.
func (e *Engine) pruneFiles(removed, kept []*library.Item, log *slog.Logger) {
	if e.cfg.LibraryDir == "" {
		return
	}
	keep := make(map[string]bool, len(kept))
	for _, it := range kept {
		keep[filepath.Clean(it.Path)] = true
	}
	for _, it := range removed {
		p := filepath.Clean(it.Path)
		if keep[p] || ValidatePath(p, e.cfg.LibraryDir) != nil {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			log.Warn("remove replaced file failed", "path", library.DisplayablePath(p), "error", err)
		}
	}
}

func removeDuplicates(tx *library.Tx, dups *duplicates) ([]*library.Item, error) {
	var removed []*library.Item
	if dups.album != nil {
		items, err := tx.ItemsForAlbum(dups.album.ID)
		if err != nil {
			return nil, err
		}
		removed = append(removed, items...)
		if err := tx.DeleteAlbum(dups.album.ID); err != nil {
			return nil, err
		}
	}
	removed = append(removed, dups.items...)
	for _, it := range removed {
		if err := tx.DeleteItem(it.ID); err != nil {
			return nil, err
		}
	}
	return removed, nil
}

// findArt returns an image file sitting next to an album's tracks.
func findArt(t *task) string {
	if t.singleton {
		return ""
	}
	for _, name := range artFilenames {
		p := filepath.Join(t.dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

func (e *Engine) notify(kind string, items []*library.Item) {
	e.mu.RLock()
	listeners := make([]ChoiceListener, len(e.listeners))
	copy(listeners, e.listeners)
	e.mu.RUnlock()

	for _, l := range listeners {
		l.OnTaskDecision(kind, items)
	}
}

func (e *Engine) publish(ctx context.Context, ev events.Event) {
	if e.bus == nil {
		return
	}
	if err := e.bus.Publish(ctx, ev); err != nil {
		e.log.Warn("publish event failed", "type", ev.EventType(), "error", err)
	}
}
