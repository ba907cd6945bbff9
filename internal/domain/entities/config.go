package entities

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Viewer   ViewerConfig   `toml:"viewer"`
	Renderer RendererConfig `toml:"renderer"`
	Browser  BrowserConfig  `toml:"browser"`
	Watcher  WatcherConfig  `toml:"watcher"`
	Logging  LoggingConfig  `toml:"logging"`
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Viewer.Validate(); err != nil {
		return fmt.Errorf("viewer config: %w", err)
	}

	if err := c.Renderer.Validate(); err != nil {
		return fmt.Errorf("renderer config: %w", err)
	}

	if err := c.Watcher.Validate(); err != nil {
		return fmt.Errorf("watcher config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	ReadTimeout     int      `toml:"read_timeout"`
	WriteTimeout    int      `toml:"write_timeout"`
	ShutdownTimeout int      `toml:"shutdown_timeout"`
	Environment     string   `toml:"environment"`
	CORSOrigins     []string `toml:"cors_origins"`
}

// Validate validates server configuration
func (s ServerConfig) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return errors.New("port must be between 0 and 65535")
	}

	if s.Host != "" && strings.ContainsAny(s.Host, " !/") {
		return fmt.Errorf("invalid host: %s", s.Host)
	}

	if s.ReadTimeout < 0 {
		return errors.New("read timeout must be non-negative")
	}

	if s.WriteTimeout < 0 {
		return errors.New("write timeout must be non-negative")
	}

	if s.ShutdownTimeout < 0 {
		return errors.New("shutdown timeout must be non-negative")
	}

	for _, origin := range s.CORSOrigins {
		if origin == "" {
			return errors.New("CORS origin cannot be empty")
		}
		if origin == "*" {
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("invalid CORS origin format: %s (must start with http:// or https://)", origin)
		}
	}

	return nil
}

// Address returns host:port for listening
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, fmt.Sprintf("%d", s.Port))
}

// GetReadTimeout returns the read timeout as a duration
func (s ServerConfig) GetReadTimeout() time.Duration {
	if s.ReadTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.ReadTimeout) * time.Second
}

// GetWriteTimeout returns the write timeout as a duration
func (s ServerConfig) GetWriteTimeout() time.Duration {
	if s.WriteTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.WriteTimeout) * time.Second
}

// GetShutdownTimeout returns the shutdown timeout as a duration
func (s ServerConfig) GetShutdownTimeout() time.Duration {
	if s.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// GetCORSOrigins returns CORS origins with defaults if empty
func (s ServerConfig) GetCORSOrigins() []string {
	if len(s.CORSOrigins) == 0 {
		return []string{
			"http://localhost:8080",
			"http://127.0.0.1:8080",
		}
	}
	return s.CORSOrigins
}

// IsDevelopment returns true if the server is running in development mode
func (s ServerConfig) IsDevelopment() bool {
	return s.Environment == "development" || s.Environment == ""
}

// DefaultExtensions is the deck file extension allow-list
var DefaultExtensions = []string{".md", ".marp", ".markdown"}

// ViewerConfig controls file intake and the display surfaces
type ViewerConfig struct {
	AllowTxt    bool   `toml:"allow_txt"`
	MaxFileSize int64  `toml:"max_file_size"` // bytes
	Language    string `toml:"language"`      // en, ja
	Theme       string `toml:"theme"`         // light, dark
}

// Validate validates viewer configuration
func (v ViewerConfig) Validate() error {
	if v.MaxFileSize < 0 {
		return errors.New("max file size must be non-negative")
	}

	switch v.Language {
	case "", "en", "ja":
	default:
		return fmt.Errorf("unsupported language: %s (must be en or ja)", v.Language)
	}

	if v.Theme != "" && !ThemePreference(v.Theme).Valid() {
		return fmt.Errorf("invalid theme preference: %s (must be light or dark)", v.Theme)
	}

	return nil
}

// Extensions returns the allowed deck file extensions
func (v ViewerConfig) Extensions() []string {
	exts := append([]string{}, DefaultExtensions...)
	if v.AllowTxt {
		exts = append(exts, ".txt")
	}
	return exts
}

// GetMaxFileSize returns the read limit with a 10MB default
func (v ViewerConfig) GetMaxFileSize() int64 {
	if v.MaxFileSize <= 0 {
		return 10 << 20
	}
	return v.MaxFileSize
}

// GetLanguage returns the message language with default
func (v ViewerConfig) GetLanguage() string {
	if v.Language == "" {
		return "en"
	}
	return v.Language
}

// GetTheme returns the default theme preference
func (v ViewerConfig) GetTheme() ThemePreference {
	if v.Theme == "" {
		return ThemeLight
	}
	return ThemePreference(v.Theme)
}

// RendererConfig controls the markdown rendering engine
type RendererConfig struct {
	Theme        string `toml:"theme"`
	Emoji        bool   `toml:"emoji"`
	Breaks       bool   `toml:"breaks"`
	Sanitize     bool   `toml:"sanitize"`
	StrictThemes bool   `toml:"strict_themes"`
}

// Validate validates renderer configuration
func (r RendererConfig) Validate() error {
	if strings.ContainsAny(r.Theme, " /\\") {
		return fmt.Errorf("invalid theme name: %s", r.Theme)
	}
	return nil
}

// GetTheme returns the default slide theme
func (r RendererConfig) GetTheme() string {
	if r.Theme == "" {
		return "default"
	}
	return r.Theme
}

// BrowserConfig contains browser launch configuration
type BrowserConfig struct {
	AutoOpen bool   `toml:"auto_open"`
	Browser  string `toml:"browser"`
}

// WatcherConfig contains file watcher configuration
type WatcherConfig struct {
	Enabled    bool `toml:"enabled"`
	DebounceMs int  `toml:"debounce_ms"`
	Poll       bool `toml:"poll"`        // poll instead of filesystem notifications
	IntervalMs int  `toml:"interval_ms"` // polling interval
}

// Validate validates watcher configuration
func (w WatcherConfig) Validate() error {
	if w.DebounceMs < 0 {
		return errors.New("debounce time must be non-negative")
	}
	if w.IntervalMs < 0 {
		return errors.New("poll interval must be non-negative")
	}
	return nil
}

// GetInterval returns the polling interval as a duration
func (w WatcherConfig) GetInterval() time.Duration {
	if w.IntervalMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(w.IntervalMs) * time.Millisecond
}

// GetDebounce returns the debounce time as a duration
func (w WatcherConfig) GetDebounce() time.Duration {
	if w.DebounceMs <= 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// LogLevel represents logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `toml:"level"`       // debug, info, warn, error
	Verbose    bool   `toml:"verbose"`     // Enable verbose logging
	JSONFormat bool   `toml:"json_format"` // Output logs in JSON format
	File       string `toml:"file"`        // Log to file (optional)
}

// Validate validates logging configuration
func (l LoggingConfig) Validate() error {
	switch LogLevel(l.Level) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	case "":
		// Empty is okay, will use default
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", l.Level)
	}

	if l.File != "" {
		if !filepath.IsAbs(l.File) {
			return errors.New("log file path must be absolute")
		}

		dir := filepath.Dir(l.File)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("log file directory does not exist: %s", dir)
		}
	}

	return nil
}

// GetLevel returns the log level with default
func (l LoggingConfig) GetLevel() LogLevel {
	if l.Level == "" {
		return LogLevelInfo
	}
	return LogLevel(l.Level)
}
