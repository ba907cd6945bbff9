package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Version is set during build
	Version = "dev"
	// BuildDate is set during build
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "marpview",
	Short: "A viewer for Markdown slide decks",
	Long: `marpview renders Marp-flavoured Markdown decks and presents them
one slide at a time, in the browser or in the terminal.

Supported files are .md, .marp and .markdown (.txt with --allow-txt).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("marpview version %s (built %s)\n", Version, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file path (default: ~/.config/marpview/config.toml)")
	rootCmd.PersistentFlags().Bool("allow-txt", false, "Accept .txt files as decks")
	rootCmd.PersistentFlags().StringP("theme", "t", "", "Slide theme used when a deck selects none")
	rootCmd.PersistentFlags().String("language", "", "Message language (en, ja)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}
