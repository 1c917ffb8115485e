package driven

import "github.com/parchment-labs/citeground-cli/internal/core/domain"

// ConfigStore supplies the resolver tunables. Implementations fall back to
// the documented defaults for anything unset.
type ConfigStore interface {
	// GroundingConfig returns the effective resolver configuration.
	GroundingConfig() domain.GroundingConfig

	// SaveGroundingConfig persists a resolver configuration.
	SaveGroundingConfig(cfg domain.GroundingConfig) error
}
