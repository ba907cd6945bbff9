package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/fredcamaral/marpview/internal/domain/entities"
)

// GetDefaultConfig returns the default configuration with environment overrides
func GetDefaultConfig() *entities.Config {
	return &entities.Config{
		Server: entities.ServerConfig{
			Host:            getEnvOrDefault("MARPVIEW_HOST", "localhost"),
			Port:            getEnvIntOrDefault("MARPVIEW_PORT", 8080),
			ReadTimeout:     getEnvIntOrDefault("MARPVIEW_READ_TIMEOUT", 30),
			WriteTimeout:    getEnvIntOrDefault("MARPVIEW_WRITE_TIMEOUT", 30),
			ShutdownTimeout: getEnvIntOrDefault("MARPVIEW_SHUTDOWN_TIMEOUT", 5),
			CORSOrigins: getEnvSliceOrDefault("MARPVIEW_CORS_ORIGINS", []string{
				"http://localhost:8080",
				"http://127.0.0.1:8080",
			}),
		},
		Viewer: entities.ViewerConfig{
			AllowTxt:    getEnvBoolOrDefault("MARPVIEW_ALLOW_TXT", false),
			MaxFileSize: int64(getEnvIntOrDefault("MARPVIEW_MAX_FILE_SIZE", 10<<20)),
			Language:    getEnvOrDefault("MARPVIEW_LANGUAGE", "en"),
			Theme:       getEnvOrDefault("MARPVIEW_VIEW_THEME", string(entities.ThemeLight)),
		},
		Renderer: entities.RendererConfig{
			Theme:    getEnvOrDefault("MARPVIEW_THEME", "default"),
			Emoji:    true,
			Breaks:   true,
			Sanitize: getEnvBoolOrDefault("MARPVIEW_SANITIZE", false),
		},
		Browser: entities.BrowserConfig{
			AutoOpen: getEnvBoolOrDefault("MARPVIEW_BROWSER_AUTO_OPEN", true),
			Browser:  getEnvOrDefault("MARPVIEW_BROWSER", "default"),
		},
		Watcher: entities.WatcherConfig{
			Enabled:    false,
			DebounceMs: 300,
			Poll:       getEnvBoolOrDefault("MARPVIEW_WATCH_POLL", false),
			IntervalMs: 500,
		},
		Logging: entities.LoggingConfig{
			Level:      getEnvOrDefault("MARPVIEW_LOG_LEVEL", "info"),
			Verbose:    getEnvBoolOrDefault("MARPVIEW_LOG_VERBOSE", false),
			JSONFormat: getEnvBoolOrDefault("MARPVIEW_LOG_JSON", false),
			File:       getEnvOrDefault("MARPVIEW_LOG_FILE", ""),
		},
	}
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns environment variable as int or default
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBoolOrDefault returns environment variable as bool or default
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvSliceOrDefault returns a comma separated environment variable or default
func getEnvSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
