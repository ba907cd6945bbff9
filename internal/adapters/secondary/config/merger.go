package config

import (
	"os"
	"strconv"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

// ConfigMerger implements the ConfigMerger interface
type ConfigMerger struct{}

// NewConfigMerger creates a new configuration merger
func NewConfigMerger() *ConfigMerger {
	return &ConfigMerger{}
}

// Merge merges multiple configurations with later configs taking precedence
func (m *ConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	if len(configs) == 0 {
		return GetDefaultConfig()
	}

	result := deepCopy(configs[0])
	if result == nil {
		result = GetDefaultConfig()
	}

	for i := 1; i < len(configs); i++ {
		if configs[i] != nil {
			m.mergeInto(result, configs[i])
		}
	}

	return result
}

// ApplyFlags applies CLI flag overrides to a configuration
func (m *ConfigMerger) ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config {
	result := deepCopy(config)

	if port, ok := flags["port"].(int); ok && port > 0 {
		result.Server.Port = port
	}

	if host, ok := flags["host"].(string); ok && host != "" {
		result.Server.Host = host
	}

	if noBrowser, ok := flags["no-browser"].(bool); ok {
		result.Browser.AutoOpen = !noBrowser
	}

	if theme, ok := flags["theme"].(string); ok && theme != "" {
		result.Renderer.Theme = theme
	}

	if watch, ok := flags["watch"].(bool); ok {
		result.Watcher.Enabled = watch
	}

	if allowTxt, ok := flags["allow-txt"].(bool); ok {
		result.Viewer.AllowTxt = allowTxt
	}

	if lang, ok := flags["language"].(string); ok && lang != "" {
		result.Viewer.Language = lang
	}

	if level, ok := flags["log-level"].(string); ok && level != "" {
		result.Logging.Level = level
	}

	if verbose, ok := flags["verbose"].(bool); ok && verbose {
		result.Logging.Verbose = true
		result.Logging.Level = string(entities.LogLevelDebug)
	}

	return result
}

// ApplyEnvVars applies environment variable overrides to a configuration
func (m *ConfigMerger) ApplyEnvVars(config *entities.Config) *entities.Config {
	result := deepCopy(config)

	if host := os.Getenv("MARPVIEW_HOST"); host != "" {
		result.Server.Host = host
	}

	if portStr := os.Getenv("MARPVIEW_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			result.Server.Port = port
		}
	}

	if theme := os.Getenv("MARPVIEW_THEME"); theme != "" {
		result.Renderer.Theme = theme
	}

	if lang := os.Getenv("MARPVIEW_LANGUAGE"); lang != "" {
		result.Viewer.Language = lang
	}

	if allowStr := os.Getenv("MARPVIEW_ALLOW_TXT"); allowStr != "" {
		if allow, err := strconv.ParseBool(allowStr); err == nil {
			result.Viewer.AllowTxt = allow
		}
	}

	if noBrowserStr := os.Getenv("MARPVIEW_NO_BROWSER"); noBrowserStr != "" {
		if noBrowser, err := strconv.ParseBool(noBrowserStr); err == nil {
			result.Browser.AutoOpen = !noBrowser
		}
	}

	if browser := os.Getenv("MARPVIEW_BROWSER"); browser != "" {
		result.Browser.Browser = browser
	}

	if debounceStr := os.Getenv("MARPVIEW_WATCH_DEBOUNCE"); debounceStr != "" {
		if debounce, err := strconv.Atoi(debounceStr); err == nil && debounce >= 0 {
			result.Watcher.DebounceMs = debounce
		}
	}

	if level := os.Getenv("MARPVIEW_LOG_LEVEL"); level != "" {
		result.Logging.Level = level
	}

	return result
}

// mergeInto merges source configuration into target configuration
func (m *ConfigMerger) mergeInto(target, source *entities.Config) {
	// Server config
	if source.Server.Port != 0 {
		target.Server.Port = source.Server.Port
	}
	if source.Server.Host != "" {
		target.Server.Host = source.Server.Host
	}
	if source.Server.ReadTimeout != 0 {
		target.Server.ReadTimeout = source.Server.ReadTimeout
	}
	if source.Server.WriteTimeout != 0 {
		target.Server.WriteTimeout = source.Server.WriteTimeout
	}
	if source.Server.ShutdownTimeout != 0 {
		target.Server.ShutdownTimeout = source.Server.ShutdownTimeout
	}
	if source.Server.Environment != "" {
		target.Server.Environment = source.Server.Environment
	}
	if len(source.Server.CORSOrigins) > 0 {
		target.Server.CORSOrigins = append([]string(nil), source.Server.CORSOrigins...)
	}

	// Viewer config
	target.Viewer.AllowTxt = source.Viewer.AllowTxt
	if source.Viewer.MaxFileSize != 0 {
		target.Viewer.MaxFileSize = source.Viewer.MaxFileSize
	}
	if source.Viewer.Language != "" {
		target.Viewer.Language = source.Viewer.Language
	}
	if source.Viewer.Theme != "" {
		target.Viewer.Theme = source.Viewer.Theme
	}

	// Renderer config; loaded files keep defaults for keys they omit,
	// so booleans always merge
	if source.Renderer.Theme != "" {
		target.Renderer.Theme = source.Renderer.Theme
	}
	target.Renderer.Emoji = source.Renderer.Emoji
	target.Renderer.Breaks = source.Renderer.Breaks
	target.Renderer.Sanitize = source.Renderer.Sanitize
	target.Renderer.StrictThemes = source.Renderer.StrictThemes

	// Browser config
	if source.Browser.Browser != "" {
		target.Browser.Browser = source.Browser.Browser
	}
	target.Browser.AutoOpen = source.Browser.AutoOpen

	// Watcher config
	target.Watcher.Enabled = source.Watcher.Enabled
	target.Watcher.Poll = source.Watcher.Poll
	if source.Watcher.DebounceMs != 0 {
		target.Watcher.DebounceMs = source.Watcher.DebounceMs
	}
	if source.Watcher.IntervalMs != 0 {
		target.Watcher.IntervalMs = source.Watcher.IntervalMs
	}

	// Logging config
	if source.Logging.Level != "" {
		target.Logging.Level = source.Logging.Level
	}
	if source.Logging.File != "" {
		target.Logging.File = source.Logging.File
	}
	target.Logging.Verbose = source.Logging.Verbose
	target.Logging.JSONFormat = source.Logging.JSONFormat
}

// deepCopy creates a deep copy of a configuration
func deepCopy(src *entities.Config) *entities.Config {
	if src == nil {
		return nil
	}

	dst := *src
	if src.Server.CORSOrigins != nil {
		dst.Server.CORSOrigins = make([]string, len(src.Server.CORSOrigins))
		copy(dst.Server.CORSOrigins, src.Server.CORSOrigins)
	}
	return &dst
}

// Ensure ConfigMerger implements ports.ConfigMerger
var _ ports.ConfigMerger = (*ConfigMerger)(nil)
