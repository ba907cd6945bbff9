package preferences

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

const fileName = "preferences.json"

type state struct {
	Theme entities.ThemePreference `json:"theme,omitempty"`
}

// FileStore persists viewer preferences as JSON under the XDG state directory
type FileStore struct {
	path string
	data state
	mu   sync.RWMutex
}

// NewFileStore creates or loads preferences from XDG_STATE_HOME/marpview/
func NewFileStore() (*FileStore, error) {
	return NewFileStoreAt(filepath.Join(stateDir(), fileName))
}

// NewFileStoreAt creates or loads preferences from path. An unreadable or
// corrupt file starts from empty preferences.
func NewFileStoreAt(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	store := &FileStore{path: path}
	if err := store.load(); err != nil {
		store.data = state{}
	}
	return store, nil
}

// stateDir returns XDG_STATE_HOME/marpview or ~/.local/state/marpview
func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "marpview")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "marpview")
}

// Path returns the backing file
func (s *FileStore) Path() string {
	return s.path
}

// Theme returns the stored theme preference, if any
func (s *FileStore) Theme() (entities.ThemePreference, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.data.Theme.Valid() {
		return "", false
	}
	return s.data.Theme, true
}

// SetTheme stores the theme preference
func (s *FileStore) SetTheme(theme entities.ThemePreference) error {
	if !theme.Valid() {
		return fmt.Errorf("invalid theme preference %q", theme)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Theme = theme
	return s.save()
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.data)
}

func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// MemoryStore keeps preferences for the lifetime of the process
type MemoryStore struct {
	mu    sync.RWMutex
	theme entities.ThemePreference
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Theme returns the stored theme preference, if any
func (s *MemoryStore) Theme() (entities.ThemePreference, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme, s.theme.Valid()
}

// SetTheme stores the theme preference
func (s *MemoryStore) SetTheme(theme entities.ThemePreference) error {
	if !theme.Valid() {
		return fmt.Errorf("invalid theme preference %q", theme)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	return nil
}

var (
	_ ports.PreferenceStore = (*FileStore)(nil)
	_ ports.PreferenceStore = (*MemoryStore)(nil)
)
