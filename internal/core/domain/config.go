package domain

// Default resolver tunables. Exposed as named configuration so tuning does
// not require touching the matching logic.
const (
	// DefaultDirectThreshold is the minimum overlap score for a direct
	// citation.
	DefaultDirectThreshold = 0.5

	// DefaultSupportingThreshold is the minimum overlap score for a
	// supporting citation.
	DefaultSupportingThreshold = 0.25

	// DefaultMinThreshold is the minimum overlap score for any citation at
	// all. Below this a chunk is not cited.
	DefaultMinThreshold = 0.1

	// DefaultMaxCitationsPerConclusion caps citations per conclusion across
	// all referenced form versions combined.
	DefaultMaxCitationsPerConclusion = 3

	// DefaultMaxExcerptLength is the maximum excerpt length in bytes.
	// Excerpts are trimmed at a word boundary, never mid-token.
	DefaultMaxExcerptLength = 280
)

// GroundingConfig carries the citation resolver tunables.
// Threshold semantics are load-bearing (direct > supporting > minimum);
// the exact overlap formula is a tunable detail.
type GroundingConfig struct {
	// DirectThreshold is the minimum score for relevance=direct.
	DirectThreshold float64 `toml:"direct_threshold" json:"directThreshold"`

	// SupportingThreshold is the minimum score for relevance=supporting.
	SupportingThreshold float64 `toml:"supporting_threshold" json:"supportingThreshold"`

	// MinThreshold is the minimum score for a chunk to be cited.
	MinThreshold float64 `toml:"min_threshold" json:"minThreshold"`

	// MaxCitationsPerConclusion caps citations per conclusion.
	MaxCitationsPerConclusion int `toml:"max_citations_per_conclusion" json:"maxCitationsPerConclusion"`

	// MaxExcerptLength caps excerpt length in bytes.
	MaxExcerptLength int `toml:"max_excerpt_length" json:"maxExcerptLength"`
}

// DefaultGroundingConfig returns the documented default configuration.
func DefaultGroundingConfig() GroundingConfig {
	return GroundingConfig{
		DirectThreshold:           DefaultDirectThreshold,
		SupportingThreshold:       DefaultSupportingThreshold,
		MinThreshold:              DefaultMinThreshold,
		MaxCitationsPerConclusion: DefaultMaxCitationsPerConclusion,
		MaxExcerptLength:          DefaultMaxExcerptLength,
	}
}

// Validate checks threshold ordering and bounds.
func (c GroundingConfig) Validate() error {
	if c.MinThreshold <= 0 || c.MinThreshold > 1 {
		return ErrInvalidInput
	}
	if c.SupportingThreshold < c.MinThreshold || c.DirectThreshold < c.SupportingThreshold {
		return ErrInvalidInput
	}
	if c.MaxCitationsPerConclusion <= 0 || c.MaxExcerptLength <= 0 {
		return ErrInvalidInput
	}
	return nil
}
