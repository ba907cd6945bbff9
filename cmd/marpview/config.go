package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/fredcamaral/marpview/internal/adapters/secondary/config"
	"github.com/fredcamaral/marpview/internal/domain/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and create configuration files",
}

var configPathCmd = &cobra.Command{
	Use:   "path [dir]",
	Short: "Print the global and local configuration file paths",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		loader := configLoader(cmd)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "global: %s\n", loader.GetGlobalPath())
		fmt.Fprintf(out, "local:  %s\n", loader.GetLocalPath(dir))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default global configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := configLoader(cmd)
		path := loader.GetGlobalPath()

		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", path, err)
		}

		svc := services.NewConfigService(loader, config.NewConfigMerger())
		if err := svc.CreateGlobalConfig(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Print the effective configuration for a deck",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, deckArg(args))
		if err != nil {
			return err
		}
		enc := toml.NewEncoder(cmd.OutOrStdout())
		enc.Indent = "  "
		return enc.Encode(cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configInitCmd, configShowCmd)

	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
}
