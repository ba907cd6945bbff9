package ports

import (
	"context"

	"github.com/fredcamaral/marpview/internal/domain/entities"
)

// ConfigLoader reads the global file and the per-deck marpview.toml.
// A missing local file yields a nil config and no error.
type ConfigLoader interface {
	LoadGlobal(ctx context.Context) (*entities.Config, error)
	LoadLocal(ctx context.Context, dir string) (*entities.Config, error)
	CreateDefaults(ctx context.Context, path string) error
	GetGlobalPath() string
	GetLocalPath(dir string) string
}

// ConfigMerger layers configurations; later sources win
type ConfigMerger interface {
	Merge(configs ...*entities.Config) *entities.Config
	ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config
	ApplyEnvVars(config *entities.Config) *entities.Config
}
