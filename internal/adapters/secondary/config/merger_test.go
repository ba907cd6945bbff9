package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/marpview/internal/domain/entities"
)

func TestConfigMerger_Merge(t *testing.T) {
	m := NewConfigMerger()

	t.Run("no configs returns defaults", func(t *testing.T) {
		config := m.Merge()
		require.NotNil(t, config)
		assert.Equal(t, 8080, config.Server.Port)
	})

	t.Run("later configs win", func(t *testing.T) {
		base := GetDefaultConfig()
		global := GetDefaultConfig()
		global.Server.Port = 3000
		global.Renderer.Theme = "gaia"
		local := GetDefaultConfig()
		local.Renderer.Theme = "uncover"
		local.Server.Port = 0

		config := m.Merge(base, global, nil, local)
		assert.Equal(t, 3000, config.Server.Port)
		assert.Equal(t, "uncover", config.Renderer.Theme)
	})

	t.Run("inputs are not modified", func(t *testing.T) {
		base := GetDefaultConfig()
		other := GetDefaultConfig()
		other.Server.CORSOrigins = []string{"https://example.com"}

		config := m.Merge(base, other)
		config.Server.CORSOrigins[0] = "changed"
		assert.Equal(t, "https://example.com", other.Server.CORSOrigins[0])
		assert.Equal(t, "localhost", base.Server.Host)
	})
}

func TestConfigMerger_ApplyFlags(t *testing.T) {
	m := NewConfigMerger()
	base := GetDefaultConfig()

	config := m.ApplyFlags(base, map[string]interface{}{
		"port":       4000,
		"host":       "0.0.0.0",
		"no-browser": true,
		"theme":      "gaia",
		"watch":      true,
		"allow-txt":  true,
		"language":   "ja",
		"verbose":    true,
	})

	assert.Equal(t, 4000, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.False(t, config.Browser.AutoOpen)
	assert.Equal(t, "gaia", config.Renderer.Theme)
	assert.True(t, config.Watcher.Enabled)
	assert.True(t, config.Viewer.AllowTxt)
	assert.Equal(t, "ja", config.Viewer.Language)
	assert.Equal(t, entities.LogLevelDebug, config.Logging.GetLevel())

	assert.Equal(t, 8080, base.Server.Port, "base config is untouched")

	unchanged := m.ApplyFlags(base, map[string]interface{}{"port": 0, "theme": ""})
	assert.Equal(t, base, unchanged)
}

func TestConfigMerger_ApplyEnvVars(t *testing.T) {
	m := NewConfigMerger()
	base := GetDefaultConfig()

	t.Setenv("MARPVIEW_HOST", "example.local")
	t.Setenv("MARPVIEW_PORT", "not-a-number")
	t.Setenv("MARPVIEW_NO_BROWSER", "true")
	t.Setenv("MARPVIEW_LANGUAGE", "ja")

	config := m.ApplyEnvVars(base)
	assert.Equal(t, "example.local", config.Server.Host)
	assert.Equal(t, base.Server.Port, config.Server.Port)
	assert.False(t, config.Browser.AutoOpen)
	assert.Equal(t, "ja", config.Viewer.Language)
}
