package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

// LocalConfigName is the per-directory configuration file looked up next to a deck
const LocalConfigName = "marpview.toml"

// TOMLLoader implements the ConfigLoader interface using TOML files
type TOMLLoader struct {
	globalPath string
	localName  string
}

// NewTOMLLoader creates a new TOML configuration loader
func NewTOMLLoader() *TOMLLoader {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}

	return &TOMLLoader{
		globalPath: filepath.Join(configDir, "marpview", "config.toml"),
		localName:  LocalConfigName,
	}
}

// NewTOMLLoaderWithPath creates a loader reading the global file from path
func NewTOMLLoaderWithPath(path string) *TOMLLoader {
	return &TOMLLoader{
		globalPath: path,
		localName:  LocalConfigName,
	}
}

// LoadGlobal loads the global configuration file, writing defaults on first run
func (l *TOMLLoader) LoadGlobal(ctx context.Context) (*entities.Config, error) {
	if _, err := os.Stat(l.globalPath); os.IsNotExist(err) {
		if err := l.CreateDefaults(ctx, l.globalPath); err != nil {
			return nil, fmt.Errorf("creating defaults: %w", err)
		}
	}

	return l.loadConfig(l.globalPath)
}

// LoadLocal loads marpview.toml from dir; a missing file is not an error
func (l *TOMLLoader) LoadLocal(ctx context.Context, dir string) (*entities.Config, error) {
	localPath := filepath.Join(dir, l.localName)

	if _, err := os.Stat(localPath); os.IsNotExist(err) {
		return nil, nil
	}

	return l.loadConfig(localPath)
}

// CreateDefaults creates a default configuration file at the specified path
func (l *TOMLLoader) CreateDefaults(ctx context.Context, path string) error {
	if err := l.ensureConfigDir(path); err != nil {
		return err
	}

	defaults := GetDefaultConfig()

	file, err := os.Create(path) // #nosec G304 - global config path
	if err != nil {
		return fmt.Errorf("creating config file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	encoder := toml.NewEncoder(file)
	encoder.Indent = "  "

	if err := encoder.Encode(defaults); err != nil {
		return fmt.Errorf("encoding config to %s: %w", path, err)
	}

	return nil
}

// GetGlobalPath returns the path to the global configuration file
func (l *TOMLLoader) GetGlobalPath() string {
	return l.globalPath
}

// GetLocalPath returns the path to the local configuration file for a directory
func (l *TOMLLoader) GetLocalPath(dir string) string {
	return filepath.Join(dir, l.localName)
}

// loadConfig loads and validates a configuration file. Boolean keys the
// file leaves out keep their default values so merging cannot reset them.
func (l *TOMLLoader) loadConfig(path string) (*entities.Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 - global/local config
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var config entities.Config
	meta, err := toml.Decode(string(data), &config)
	if err != nil {
		return nil, fmt.Errorf("parsing TOML from %s: %w", path, err)
	}
	fillUndefinedBools(meta, &config, GetDefaultConfig())

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %s: %w", path, err)
	}

	return &config, nil
}

func fillUndefinedBools(meta toml.MetaData, cfg, defaults *entities.Config) {
	fields := []struct {
		key   []string
		value *bool
		def   bool
	}{
		{[]string{"viewer", "allow_txt"}, &cfg.Viewer.AllowTxt, defaults.Viewer.AllowTxt},
		{[]string{"renderer", "emoji"}, &cfg.Renderer.Emoji, defaults.Renderer.Emoji},
		{[]string{"renderer", "breaks"}, &cfg.Renderer.Breaks, defaults.Renderer.Breaks},
		{[]string{"renderer", "sanitize"}, &cfg.Renderer.Sanitize, defaults.Renderer.Sanitize},
		{[]string{"renderer", "strict_themes"}, &cfg.Renderer.StrictThemes, defaults.Renderer.StrictThemes},
		{[]string{"browser", "auto_open"}, &cfg.Browser.AutoOpen, defaults.Browser.AutoOpen},
		{[]string{"watcher", "enabled"}, &cfg.Watcher.Enabled, defaults.Watcher.Enabled},
		{[]string{"watcher", "poll"}, &cfg.Watcher.Poll, defaults.Watcher.Poll},
		{[]string{"logging", "verbose"}, &cfg.Logging.Verbose, defaults.Logging.Verbose},
		{[]string{"logging", "json_format"}, &cfg.Logging.JSONFormat, defaults.Logging.JSONFormat},
	}

	for _, f := range fields {
		if !meta.IsDefined(f.key...) {
			*f.value = f.def
		}
	}
}

// ensureConfigDir ensures the configuration directory exists
func (l *TOMLLoader) ensureConfigDir(path string) error {
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	return nil
}

// Ensure TOMLLoader implements ports.ConfigLoader
var _ ports.ConfigLoader = (*TOMLLoader)(nil)
