package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parchment-labs/citeground-cli/internal/core/domain"
)

func TestConfigStore_DefaultsWhenMissing(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultGroundingConfig(), store.GroundingConfig())
}

func TestConfigStore_SaveAndReload(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	cfg := domain.DefaultGroundingConfig()
	cfg.DirectThreshold = 0.6
	cfg.MaxCitationsPerConclusion = 5
	require.NoError(t, store.SaveGroundingConfig(cfg))
	assert.Equal(t, cfg, store.GroundingConfig())

	// A fresh store reads the persisted file.
	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded.GroundingConfig())
}

func TestConfigStore_PartialFileOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	content := "[grounding]\ndirect_threshold = 0.7\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	cfg := store.GroundingConfig()
	assert.Equal(t, 0.7, cfg.DirectThreshold)
	// Unset keys keep their documented defaults.
	assert.Equal(t, domain.DefaultSupportingThreshold, cfg.SupportingThreshold)
	assert.Equal(t, domain.DefaultMaxCitationsPerConclusion, cfg.MaxCitationsPerConclusion)
}

func TestConfigStore_InvalidValuesFallBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	// Supporting above direct breaks threshold ordering.
	content := "[grounding]\ndirect_threshold = 0.2\nsupporting_threshold = 0.9\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultGroundingConfig(), store.GroundingConfig())
}

func TestConfigStore_SaveRejectsInvalidConfig(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	cfg := domain.DefaultGroundingConfig()
	cfg.MinThreshold = 0

	err = store.SaveGroundingConfig(cfg)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	// The in-memory config is untouched.
	assert.Equal(t, domain.DefaultGroundingConfig(), store.GroundingConfig())
}

func TestConfigStore_MalformedFileFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not [valid toml"), 0600))

	_, err := NewConfigStore(dir)
	assert.Error(t, err)
}
