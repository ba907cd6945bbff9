package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/marpview/internal/adapters/primary/tui"
)

var showCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Present a deck in the terminal",
	Long: `Present a deck in the terminal.

Without a file argument the viewer starts on the file prompt. Use the arrow
keys, space, Home and End to move between slides and ? for help.

Example:
  marpview show talk.md
  marpview show --watch talk.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolP("watch", "w", false, "Reload the deck when the file changes (overrides config)")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	deckPath := deckArg(args)

	a, err := newApp(cmd, deckPath)
	if err != nil {
		return err
	}
	defer a.Close()

	// Logging to the terminal would draw over the program
	if a.config.Logging.File == "" {
		a.logger.SetOutput(io.Discard)
	}

	if deckPath != "" {
		// A failed load leaves the session on its error screen
		live, err := a.present(ctx, deckPath)
		if err != nil {
			return err
		}
		if live != nil {
			defer live.Stop() //nolint:errcheck // best effort on shutdown
		}
	}

	return tui.Run(ctx, a.session, a.loader.Extensions())
}
