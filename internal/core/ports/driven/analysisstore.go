package driven

import (
	"context"

	"github.com/parchment-labs/citeground-cli/internal/core/domain"
)

// AnalysisStore persists analysis records and their grounded fields.
// The grounded fields of an analysis are written as one unit: the write
// either fully replaces the prior blob or fails and leaves it untouched.
type AnalysisStore interface {
	// SaveAnalysis stores or updates an analysis record.
	SaveAnalysis(ctx context.Context, analysis *domain.Analysis) error

	// GetAnalysis retrieves an analysis by org and id.
	// Returns domain.ErrNotFound if it does not exist.
	GetAnalysis(ctx context.Context, orgID, id string) (*domain.Analysis, error)

	// ListAnalyses returns all analyses for an org.
	ListAnalyses(ctx context.Context, orgID string) ([]domain.Analysis, error)

	// SaveGroundedFields atomically replaces the grounded fields of an
	// analysis. Array ordering must round-trip exactly as produced.
	SaveGroundedFields(ctx context.Context, orgID, analysisID string, fields *domain.ClauseGroundedFields) error

	// GetGroundedFields retrieves the grounded fields of an analysis.
	// Returns domain.ErrNotFound if the analysis has never been grounded.
	GetGroundedFields(ctx context.Context, orgID, analysisID string) (*domain.ClauseGroundedFields, error)
}
