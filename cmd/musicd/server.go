package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	v1 "github.com/vmunix/musicd/internal/api/v1"
	"github.com/vmunix/musicd/internal/config"
	"github.com/vmunix/musicd/internal/events"
	"github.com/vmunix/musicd/internal/importer"
	"github.com/vmunix/musicd/internal/importresults"
	"github.com/vmunix/musicd/internal/library"
	"github.com/vmunix/musicd/internal/media"
	"github.com/vmunix/musicd/internal/migrations"
	"github.com/vmunix/musicd/internal/server"
)

// errAlreadyRunning is returned when another daemon holds the database lock.
var errAlreadyRunning = errors.New("another musicd instance is using this database")

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadConfig resolves the config path, loads the optional .env file and
// parses the config.
func loadConfig(configPath, envFile string) (*config.Config, string, error) {
	if envFile != "" {
		if err := config.LoadDotenv(envFile, envFile != ".env"); err != nil {
			return nil, "", err
		}
	}
	if configPath == "" {
		p, err := config.Discover()
		if err != nil {
			return nil, "", err
		}
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("config: %w", err)
	}
	return cfg, configPath, nil
}

// lockDatabase takes an exclusive lock next to the database file.
func lockDatabase(dbPath string) (*flock.Flock, error) {
	lock := flock.New(dbPath + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, errAlreadyRunning
	}
	return lock, nil
}

// openDB opens the SQLite database and brings its schema up to date.
func openDB(path string, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	applied, err := migrations.Apply(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if applied > 0 {
		logger.Info("applied migrations", "count", applied, "path", path)
	}
	return db, nil
}

func runServer(configPath, envFile string) error {
	cfg, configPath, err := loadConfig(configPath, envFile)
	if err != nil {
		return err
	}

	// Create logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))
	slog.SetDefault(logger)
	logger.Info("starting musicd", "version", version, "config", configPath)
	for _, w := range cfg.Warnings() {
		logger.Warn("config warning", "detail", w)
	}

	// Ensure database directory exists
	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	lock, err := lockDatabase(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	db, err := openDB(cfg.Database.Path, logger)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	// === Stores ===
	libraryStore := library.NewStore(db)
	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, logger.With("component", "bus"))
	defer func() { _ = bus.Close() }()

	// === Import ===
	results := importresults.NewAggregator()
	reader := media.NewTagReader()
	engine := importer.New(db, reader, bus, importer.Config{
		LibraryDir:        cfg.Library.Directory,
		AlbumTemplate:     cfg.Library.PathTemplate,
		SingletonTemplate: cfg.Library.SingletonTemplate,
		Workers:           cfg.Import.Workers,
		WriteHistory:      cfg.Import.WriteHistory,
		Copy:              cfg.Import.Copy,
		Move:              cfg.Import.Move,
		Incremental:       cfg.Import.Incremental,
		DuplicateAction:   cfg.Import.DuplicateAction,
	}, logger)
	engine.AddListener(importresults.NewRecorder(results))

	// === HTTP ===
	api, err := v1.New(v1.ServerDeps{
		Library:     libraryStore,
		Media:       reader,
		Thumbnailer: media.NewThumbnailer(logger),
		Results:     results,
		Importer:    engine,
		EventLog:    eventLog,
		Logger:      logger,
	}, v1.Config{
		MaxThumbnail: cfg.Art.MaxThumbnail,
		Version:      version,
		RateLimit:    cfg.Server.RateLimit,
		RateBurst:    cfg.Server.RateBurst,
	})
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}

	runner := server.NewRunner(api.Handler(), eventLog, bus, server.Config{
		Addr:          cfg.Addr(),
		Retention:     cfg.Events.Retention,
		PruneInterval: cfg.Events.PruneInterval,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("stopped")
	return nil
}
