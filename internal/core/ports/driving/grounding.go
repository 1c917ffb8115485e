package driving

import (
	"context"

	"github.com/parchment-labs/citeground-cli/internal/core/domain"
)

// GroundOptions configures a grounding run.
type GroundOptions struct {
	// PriorAnalysisID overrides the prior analysis link recorded on the
	// analysis record. The grounded version becomes the prior's version + 1.
	PriorAnalysisID string
}

// GroundingService grounds analyses and manages their review state.
//
// Decision-gate transitions and open-question resolutions are independent
// single-field updates that may race with a concurrent re-grounding; the
// behaviour is last-write-wins at the analysis level, not linearizable.
type GroundingService interface {
	// GroundExistingAnalysis loads the analysis and its referenced
	// ingestion data, computes grounded fields, persists them atomically
	// and returns the result.
	//
	// Returns domain.ErrNotFound if the analysis does not exist and
	// domain.ErrIngestionUnavailable if any referenced form version has no
	// ingested sections or chunks. No partial result is written on error.
	GroundExistingAnalysis(ctx context.Context, orgID, analysisID string, opts GroundOptions) (*domain.ClauseGroundedFields, error)

	// GetGroundedAnalysis returns the analysis with its grounded fields.
	// Grounded is nil when the analysis has not been grounded yet.
	GetGroundedAnalysis(ctx context.Context, orgID, analysisID string) (*domain.GroundedAnalysis, error)

	// ResolveOpenQuestion records the resolution of an open question.
	// Returns domain.ErrNotGrounded if the analysis has no grounded fields
	// and domain.ErrUnknownQuestion if the question id is unknown.
	ResolveOpenQuestion(ctx context.Context, orgID, analysisID, questionID, resolution string) error

	// AdvanceDecisionGate transitions a decision gate, recording the actor
	// and transition time. Returns domain.ErrNotGrounded if the analysis
	// has no grounded fields and domain.ErrUnknownGate if the gate id is
	// unknown.
	AdvanceDecisionGate(ctx context.Context, orgID, analysisID, gateID string, status domain.GateStatus, actorID, notes string) error
}

// ComparisonService diffs two grounded analyses.
type ComparisonService interface {
	// CompareGroundedAnalyses compares the groundings of two analyses.
	// Returns domain.ErrNotGrounded if either analysis has no grounded
	// fields.
	CompareGroundedAnalyses(ctx context.Context, orgID, leftID, rightID string) (*domain.AnalysisComparison, error)
}

// ImportService loads analyses and ingested form versions into the stores.
// It stands in for the upstream ingestion pipeline so the engine can be
// exercised end to end.
type ImportService interface {
	// ImportFormVersion stores a form version with its sections and chunks,
	// minting ids where absent and validating that chunk indices form a
	// dense 0-based sequence.
	ImportFormVersion(ctx context.Context, version domain.FormVersion,
		sections []domain.FormSection, chunks []domain.FormChunk) (*domain.FormVersion, error)

	// ImportAnalysis stores an analysis record, minting an id if absent.
	ImportAnalysis(ctx context.Context, analysis domain.Analysis) (*domain.Analysis, error)
}
