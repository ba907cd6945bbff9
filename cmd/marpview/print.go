package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/marpview/internal/adapters/secondary/export"
)

var printCmd = &cobra.Command{
	Use:   "print <file>",
	Short: "Write every slide of a deck as one printable HTML page",
	Long: `Render every slide of a deck into a single HTML document, one slide per
printed page, in deck order.

Example:
  marpview print talk.md -o talk.html
  marpview print talk.md --auto-print > talk.html`,
	Args: cobra.ExactArgs(1),
	RunE: runPrint,
}

func init() {
	rootCmd.AddCommand(printCmd)

	printCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	printCmd.Flags().Bool("auto-print", false, "Open the print dialog when the page loads")
}

func runPrint(cmd *cobra.Command, args []string) error {
	deckPath := args[0]

	a, err := newApp(cmd, deckPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.open(cmd.Context(), deckPath); err != nil {
		return err
	}

	autoPrint, _ := cmd.Flags().GetBool("auto-print")
	printer, err := export.NewPrintRenderer(export.PrintOptions{
		AutoPrint: autoPrint,
		Theme:     a.session.Theme(),
	})
	if err != nil {
		return fmt.Errorf("creating print renderer: %w", err)
	}

	out, closeOut, err := printOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOut()

	if err := printer.Print(out, a.session.Deck()); err != nil {
		return fmt.Errorf("printing %s: %w", deckPath, err)
	}
	return nil
}

// printOutput opens the -o file, or the command's stdout when none is given
func printOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	file, err := os.Create(path) // #nosec G304 - user supplied output path
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return file, func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: closing %s: %v\n", path, err)
		}
	}, nil
}
