package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fredcamaral/marpview/internal/adapters/secondary/config"
	"github.com/fredcamaral/marpview/internal/adapters/secondary/extractor"
	"github.com/fredcamaral/marpview/internal/adapters/secondary/i18n"
	"github.com/fredcamaral/marpview/internal/adapters/secondary/logging"
	"github.com/fredcamaral/marpview/internal/adapters/secondary/monitoring"
	"github.com/fredcamaral/marpview/internal/adapters/secondary/preferences"
	"github.com/fredcamaral/marpview/internal/adapters/secondary/renderer"
	"github.com/fredcamaral/marpview/internal/adapters/secondary/watcher"
	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
	"github.com/fredcamaral/marpview/internal/domain/services"
)

// app holds the wired components shared by every command
type app struct {
	config   *entities.Config
	logger   *logrus.Logger
	renderer *renderer.MarpRenderer
	loader   *services.DeckLoader
	session  *services.Session
	monitor  *monitoring.Monitor
	closers  []io.Closer
}

// flagOverrides collects the flags the user actually set, keyed the way the
// config merger expects them
func flagOverrides(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	fs := cmd.Flags()

	for _, name := range []string{"host", "theme", "language", "log-level"} {
		if fs.Changed(name) {
			if v, err := fs.GetString(name); err == nil {
				flags[name] = v
			}
		}
	}
	for _, name := range []string{"no-browser", "watch", "allow-txt", "verbose"} {
		if fs.Changed(name) {
			if v, err := fs.GetBool(name); err == nil {
				flags[name] = v
			}
		}
	}
	if fs.Changed("port") {
		if v, err := fs.GetInt("port"); err == nil {
			flags["port"] = v
		}
	}

	return flags
}

// configLoader reads the global file from --config when given
func configLoader(cmd *cobra.Command) *config.TOMLLoader {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.NewTOMLLoaderWithPath(path)
	}
	return config.NewTOMLLoader()
}

// loadConfig resolves defaults, global and local files, environment and flags
func loadConfig(cmd *cobra.Command, deckPath string) (*entities.Config, error) {
	svc := services.NewConfigService(configLoader(cmd), config.NewConfigMerger())
	cfg, err := svc.LoadConfig(cmd.Context(), deckPath, flagOverrides(cmd))
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

// newApp wires configuration, logging and the viewer session
func newApp(cmd *cobra.Command, deckPath string) (*app, error) {
	cfg, err := loadConfig(cmd, deckPath)
	if err != nil {
		return nil, err
	}

	logger, logCloser, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	a := &app{
		config:  cfg,
		logger:  logger,
		monitor: monitoring.NewMonitor(),
		closers: []io.Closer{logCloser},
	}

	var prefs ports.PreferenceStore
	store, err := preferences.NewFileStore()
	if err != nil {
		logger.WithError(err).Warn("Theme preference will not persist")
		prefs = preferences.NewMemoryStore()
	} else {
		prefs = store
	}

	a.renderer = renderer.NewMarpRenderer(cfg.Renderer)
	a.loader = services.NewDeckLoader(a.renderer, extractor.NewHTMLExtractor(), cfg.Viewer, logger)
	a.session = services.NewSession(a.loader,
		services.WithLocalizer(i18n.New(cfg.Viewer.Language)),
		services.WithPreferences(prefs),
		services.WithLogger(logger),
		services.WithDefaultTheme(entities.ThemePreference(cfg.Viewer.Theme)),
		services.WithObserver(a.monitor),
	)

	return a, nil
}

// open loads the deck at path into the session. Failures are also shown by
// the session, so callers may keep running after one.
func (a *app) open(ctx context.Context, path string) error {
	var r io.Reader
	file, err := os.Open(path) // #nosec G304 - user supplied deck path
	if err != nil {
		r = failingReader{err: err}
	} else {
		defer file.Close()
		r = file
	}

	_, err = a.session.Load(ctx, filepath.Base(path), r)
	return err
}

// present opens the deck at path and, with watching enabled, reloads it on
// every change. The watcher also runs after a failed first load so fixing the
// file brings the deck up.
func (a *app) present(ctx context.Context, path string) (*services.LiveReloadService, error) {
	if err := a.open(ctx, path); err != nil {
		a.logger.WithError(err).WithField("deck", path).Warn("Initial deck failed to load")
	}

	if !a.config.Watcher.Enabled {
		return nil, nil
	}
	if a.loader.CheckName(path) != nil {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		a.logger.WithError(err).WithField("deck", path).Warn("Not watching a missing deck")
		return nil, nil
	}
	return a.watch(ctx, path)
}

// watch reloads the deck whenever the file at path changes
func (a *app) watch(ctx context.Context, path string) (*services.LiveReloadService, error) {
	live := services.NewLiveReloadService(watcher.New(a.config.Watcher, a.logger), a.session, a.logger)
	if err := live.Start(ctx, path); err != nil {
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}
	return live, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
}

// failingReader surfaces an open error through the session's read path
type failingReader struct {
	err error
}

func (r failingReader) Read([]byte) (int, error) {
	return 0, r.err
}
