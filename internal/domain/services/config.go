package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

// ConfigService resolves the effective configuration for a deck:
// defaults, global file, local file next to the deck, environment, then flags
type ConfigService struct {
	loader ports.ConfigLoader
	merger ports.ConfigMerger
}

// NewConfigService creates a new configuration service
func NewConfigService(loader ports.ConfigLoader, merger ports.ConfigMerger) *ConfigService {
	return &ConfigService{
		loader: loader,
		merger: merger,
	}
}

// LoadConfig loads the configuration for a deck path. An empty deckPath only
// consults the global file.
func (s *ConfigService) LoadConfig(ctx context.Context, deckPath string, flags map[string]interface{}) (*entities.Config, error) {
	configs := []*entities.Config{s.GetDefaultConfig()}

	globalConfig, err := s.loader.LoadGlobal(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading global config: %w", err)
	}
	if globalConfig != nil {
		configs = append(configs, globalConfig)
	}

	if deckPath != "" {
		localConfig, err := s.loader.LoadLocal(ctx, filepath.Dir(deckPath))
		if err != nil {
			return nil, fmt.Errorf("loading local config: %w", err)
		}
		if localConfig != nil {
			configs = append(configs, localConfig)
		}
	}

	merged := s.merger.Merge(configs...)
	merged = s.merger.ApplyEnvVars(merged)
	final := s.merger.ApplyFlags(merged, flags)

	if err := s.ValidateConfig(final); err != nil {
		return nil, fmt.Errorf("final config validation: %w", err)
	}

	return final, nil
}

// GetDefaultConfig returns the default configuration
func (s *ConfigService) GetDefaultConfig() *entities.Config {
	return s.merger.Merge()
}

// ValidateConfig validates a configuration
func (s *ConfigService) ValidateConfig(config *entities.Config) error {
	if config == nil {
		return errors.New("config cannot be nil")
	}
	return config.Validate()
}

// CreateGlobalConfig writes the global configuration file with defaults
func (s *ConfigService) CreateGlobalConfig(ctx context.Context) error {
	return s.loader.CreateDefaults(ctx, s.loader.GetGlobalPath())
}

