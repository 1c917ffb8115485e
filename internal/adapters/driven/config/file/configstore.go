package file

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/parchment-labs/citeground-cli/internal/core/domain"
	"github.com/parchment-labs/citeground-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// fileConfig is the on-disk TOML layout. Only the grounding table is
// defined today.
type fileConfig struct {
	Grounding domain.GroundingConfig `toml:"grounding"`
}

// ConfigStore is a file-based implementation of driven.ConfigStore using
// TOML. Unset or invalid files fall back to the documented defaults, so a
// missing config is never an error.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	cfg      domain.GroundingConfig
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.citeground/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".citeground")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		cfg:      domain.DefaultGroundingConfig(),
	}

	if err := s.load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	return s, nil
}

// GroundingConfig returns the effective resolver configuration.
func (s *ConfigStore) GroundingConfig() domain.GroundingConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// SaveGroundingConfig validates and persists a resolver configuration.
func (s *ConfigStore) SaveGroundingConfig(cfg domain.GroundingConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(fileConfig{Grounding: cfg})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return err
	}

	s.cfg = cfg
	return nil
}

// load reads the config file, overlaying set values on the defaults.
func (s *ConfigStore) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	parsed := fileConfig{Grounding: domain.DefaultGroundingConfig()}
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return err
	}

	// A file edited into an invalid state falls back to defaults rather
	// than poisoning every grounding run.
	if err := parsed.Grounding.Validate(); err != nil {
		return nil
	}

	s.mu.Lock()
	s.cfg = parsed.Grounding
	s.mu.Unlock()
	return nil
}
