package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"github.com/dori/naehbuch/internal/config"
	"github.com/dori/naehbuch/internal/db"
	"github.com/dori/naehbuch/internal/db/jsonfile"
	"github.com/dori/naehbuch/internal/db/postgres"
	"github.com/dori/naehbuch/internal/logging"
	"github.com/dori/naehbuch/internal/model"
	"github.com/dori/naehbuch/internal/notify"
	"github.com/dori/naehbuch/internal/prefs"
	"github.com/dori/naehbuch/internal/store"
	"github.com/dori/naehbuch/internal/ui/theme"
)

const openTimeout = 10 * time.Second

// App holds the application state and dependencies
type App struct {
	Config   *config.Config
	Store    *store.Store
	Prefs    *prefs.File
	Notifier *notify.Notifier
	Logger   *zap.Logger
	ViewMode model.ViewMode
	lockFile *flock.Flock
}

// Options controls how the application is opened
type Options struct {
	// SingleInstance takes the data directory lock. The TUI sets it;
	// one-shot CLI commands do not.
	SingleInstance bool
}

// New opens the configured backend and wires everything around it
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New("missing configuration")
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	logger, err := logging.New(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		Logger: logger,
		Prefs:  prefs.NewFile(cfg.PrefsPath()),
	}

	if opts.SingleInstance {
		if err := app.acquireLock(); err != nil {
			_ = logger.Sync()
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		logger.Error("failed to open backend",
			zap.String("backend", cfg.Backend),
			zap.String("error", logging.SanitizeError(err)))
		app.releaseLock()
		_ = logger.Sync()
		return nil, err
	}
	app.Store = store.New(backend, logger)

	if err := app.Store.Ping(ctx); err != nil {
		app.Close()
		return nil, err
	}

	p, err := app.Prefs.Load()
	if err != nil {
		logger.Warn("failed to load preferences", zap.Error(err))
	}
	app.ViewMode = p.ViewMode

	app.Notifier = notify.NewNotifier()
	app.Notifier.SetEnabled(cfg.NotificationsEnabled() && app.Notifier.IsEnabled())

	if t, ok := theme.ByName(cfg.Theme); ok {
		theme.SetTheme(t)
	} else {
		logger.Warn("unknown theme, keeping default", zap.String("theme", cfg.Theme))
	}

	logger.Info("naehbuch started",
		zap.String("backend", cfg.Backend),
		zap.String("view_mode", string(app.ViewMode)))

	return app, nil
}

func openBackend(ctx context.Context, cfg *config.Config) (store.Backend, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		database, err := db.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return database, nil
	case config.BackendPostgres:
		database, err := postgres.Open(ctx, postgres.Config{URL: cfg.DatabaseURL})
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return database, nil
	case config.BackendJSON:
		file, err := jsonfile.Open(cfg.JSONPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", cfg.JSONPath, err)
		}
		return file, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	a.lockFile = flock.New(a.Config.LockPath())

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance of naehbuch is already running")
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		}
	}

	a.releaseLock()

	if a.Logger != nil {
		_ = a.Logger.Sync()
	}

	return errors.Join(errs...)
}
