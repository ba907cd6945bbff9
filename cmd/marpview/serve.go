package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	httpadapter "github.com/fredcamaral/marpview/internal/adapters/primary/http"
	"github.com/fredcamaral/marpview/internal/adapters/secondary/browser"
	"github.com/fredcamaral/marpview/internal/adapters/secondary/export"
	"github.com/fredcamaral/marpview/internal/adapters/secondary/renderer"
	"github.com/fredcamaral/marpview/internal/domain/entities"
)

var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Present a deck in the browser",
	Long: `Start a local HTTP server with the browser viewer.

With a file argument the deck is shown right away; without one the viewer
opens on the file picker. --watch reloads the deck when the file changes.

Example:
  marpview serve talk.md
  marpview serve talk.md --port 8080 --no-browser --watch
  marpview serve`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Defaults come from the configuration; only flags the user sets override it
	serveCmd.Flags().IntP("port", "p", 0, "Port to serve on (overrides config)")
	serveCmd.Flags().String("host", "", "Host to bind to (overrides config)")
	serveCmd.Flags().Bool("no-browser", false, "Don't open the browser (overrides config)")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload the deck when the file changes (overrides config)")
}

// validateServeConfig checks what the server needs beyond config validation
func validateServeConfig(cfg *entities.Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", cfg.Server.Port)
	}
	if cfg.Server.Host == "" {
		return errors.New("host cannot be empty")
	}
	return nil
}

func deckArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	deckPath := deckArg(args)

	a, err := newApp(cmd, deckPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := validateServeConfig(a.config); err != nil {
		return err
	}

	srv, err := newServer(a)
	if err != nil {
		return err
	}

	if deckPath != "" {
		live, err := a.present(ctx, deckPath)
		if err != nil {
			return err
		}
		if live != nil {
			defer live.Stop() //nolint:errcheck // best effort on shutdown
		}
	}

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	a.logger.WithField("url", srv.URL()).Info("Viewer running")

	launcher := browser.NewLauncher(a.config.Browser)
	if err := launcher.Launch(srv.URL(), !a.config.Browser.AutoOpen); err != nil {
		a.logger.WithError(err).Warn("Failed to open browser")
	}

	<-ctx.Done()
	a.logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.GetShutdownTimeout())
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("stopping server: %w", err)
	}
	return nil
}

// newServer builds the browser surface over the app's session
func newServer(a *app) (*httpadapter.Server, error) {
	pages, err := renderer.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("creating page renderer: %w", err)
	}

	printer, err := export.NewPrintRenderer(export.PrintOptions{
		AutoPrint:   true,
		ThemeSource: a.session.Theme,
	})
	if err != nil {
		return nil, fmt.Errorf("creating print renderer: %w", err)
	}

	srv := httpadapter.NewServer(a.session, pages, a.config, a.logger)
	srv.SetPrintSink(printer)
	srv.SetThemeLister(a.renderer.Themes())
	srv.SetVersion(Version)
	srv.SetMonitor(a.monitor)
	return srv, nil
}
