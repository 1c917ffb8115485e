package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parchment-labs/citeground-cli/internal/adapters/driven/storage/memory"
	"github.com/parchment-labs/citeground-cli/internal/core/domain"
	"github.com/parchment-labs/citeground-cli/internal/core/ports/driving"
)

const testOrg = "org-test"

// setupGroundingService wires a grounding service over in-memory stores
// seeded with one ingested form version and one analysis referencing it.
func setupGroundingService(t *testing.T) (*GroundingService, *memory.AnalysisStore, *memory.IngestionStore) {
	t.Helper()
	ctx := context.Background()

	analysisStore := memory.NewAnalysisStore()
	ingestionStore := memory.NewIngestionStore()

	version := domain.FormVersion{ID: "fv-cp0010", Label: "CP 00 10 10 12", IngestedAt: time.Now().UTC()}
	sections := []domain.FormSection{
		{ID: "sec-a", FormVersionID: version.ID, Order: 0, Heading: "Coverage", Path: "Section A / Coverage"},
	}
	chunks := []domain.FormChunk{
		{
			ID: "ch-0", FormVersionID: version.ID, Index: 0, SectionID: "sec-a",
			Text: "We will pay for direct physical loss to Covered Property at the premises described in the Declarations, including the building.",
		},
		{
			ID: "ch-1", FormVersionID: version.ID, Index: 1,
			Text: "Definitions of terms used in this policy appear in the glossary.",
		},
	}
	require.NoError(t, ingestionStore.SaveFormVersion(ctx, version, sections, chunks))

	analysis := &domain.Analysis{
		ID:            "analysis-1",
		OrgID:         testOrg,
		Title:         "Warehouse water loss",
		Determination: domain.DeterminationPartiallyCovered,
		Scenario:      domain.Scenario{Narrative: "Heavy rain flooded the warehouse basement."},
		Fields: domain.StructuredFields{
			ApplicableCoverages: []string{"Building coverage applies to the warehouse"},
			RelevantExclusions:  []string{"The flood exclusion does not apply"},
		},
		Sources: []domain.FormSourceSnapshot{
			{FormVersionID: version.ID, Label: version.Label},
		},
	}
	require.NoError(t, analysisStore.SaveAnalysis(ctx, analysis))

	service := NewGroundingService(analysisStore, ingestionStore, nil)
	service.now = func() time.Time { return time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC) }
	return service, analysisStore, ingestionStore
}

func TestGroundingService_FirstRun(t *testing.T) {
	service, analysisStore, _ := setupGroundingService(t)
	ctx := context.Background()

	grounded, err := service.GroundExistingAnalysis(ctx, testOrg, "analysis-1", driving.GroundOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, grounded.AnalysisVersion)
	assert.Len(t, grounded.Conclusions, 2)
	assert.Len(t, grounded.DecisionGates, 4)

	// The result is persisted as one unit.
	persisted, err := analysisStore.GetGroundedFields(ctx, testOrg, "analysis-1")
	require.NoError(t, err)
	assert.Equal(t, grounded, persisted)
}

func TestGroundingService_UnknownAnalysis(t *testing.T) {
	service, _, _ := setupGroundingService(t)

	_, err := service.GroundExistingAnalysis(context.Background(), testOrg, "analysis-missing", driving.GroundOptions{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGroundingService_WrongOrg(t *testing.T) {
	service, _, _ := setupGroundingService(t)

	_, err := service.GroundExistingAnalysis(context.Background(), "org-other", "analysis-1", driving.GroundOptions{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGroundingService_MissingIngestion(t *testing.T) {
	service, analysisStore, _ := setupGroundingService(t)
	ctx := context.Background()

	analysis, err := analysisStore.GetAnalysis(ctx, testOrg, "analysis-1")
	require.NoError(t, err)
	analysis.Sources = append(analysis.Sources, domain.FormSourceSnapshot{FormVersionID: "fv-never-ingested"})
	require.NoError(t, analysisStore.SaveAnalysis(ctx, analysis))

	_, err = service.GroundExistingAnalysis(ctx, testOrg, "analysis-1", driving.GroundOptions{})

	assert.ErrorIs(t, err, domain.ErrIngestionUnavailable)
}

func TestGroundingService_VersionChainsThroughPrior(t *testing.T) {
	service, analysisStore, _ := setupGroundingService(t)
	ctx := context.Background()

	first, err := service.GroundExistingAnalysis(ctx, testOrg, "analysis-1", driving.GroundOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, first.AnalysisVersion)

	// A follow-up analysis linked to the grounded one continues the chain.
	followUp, err := analysisStore.GetAnalysis(ctx, testOrg, "analysis-1")
	require.NoError(t, err)
	followUp.ID = "analysis-2"
	followUp.PriorAnalysisID = "analysis-1"
	require.NoError(t, analysisStore.SaveAnalysis(ctx, followUp))

	second, err := service.GroundExistingAnalysis(ctx, testOrg, "analysis-2", driving.GroundOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, second.AnalysisVersion)
	assert.Equal(t, "analysis-1", second.PriorAnalysisID)
}

func TestGroundingService_UngroundedPriorStartsAtOne(t *testing.T) {
	service, analysisStore, _ := setupGroundingService(t)
	ctx := context.Background()

	analysis, err := analysisStore.GetAnalysis(ctx, testOrg, "analysis-1")
	require.NoError(t, err)
	analysis.PriorAnalysisID = "analysis-never-grounded"
	require.NoError(t, analysisStore.SaveAnalysis(ctx, analysis))

	grounded, err := service.GroundExistingAnalysis(ctx, testOrg, "analysis-1", driving.GroundOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, grounded.AnalysisVersion)
}

func TestGroundingService_PriorOptionOverridesRecord(t *testing.T) {
	service, analysisStore, _ := setupGroundingService(t)
	ctx := context.Background()

	_, err := service.GroundExistingAnalysis(ctx, testOrg, "analysis-1", driving.GroundOptions{})
	require.NoError(t, err)

	followUp, err := analysisStore.GetAnalysis(ctx, testOrg, "analysis-1")
	require.NoError(t, err)
	followUp.ID = "analysis-2"
	require.NoError(t, analysisStore.SaveAnalysis(ctx, followUp))

	grounded, err := service.GroundExistingAnalysis(ctx, testOrg, "analysis-2",
		driving.GroundOptions{PriorAnalysisID: "analysis-1"})

	require.NoError(t, err)
	assert.Equal(t, 2, grounded.AnalysisVersion)
	assert.Equal(t, "analysis-1", grounded.PriorAnalysisID)
}

func TestGroundingService_RegroundingKeepsGateDecisions(t *testing.T) {
	service, _, _ := setupGroundingService(t)
	ctx := context.Background()

	_, err := service.GroundExistingAnalysis(ctx, testOrg, "analysis-1", driving.GroundOptions{})
	require.NoError(t, err)

	err = service.AdvanceDecisionGate(ctx, testOrg, "analysis-1", "gate-causation",
		domain.GateStatusApproved, "reviewer-1", "rain was the proximate cause")
	require.NoError(t, err)

	// Re-ground with unchanged input.
	regrounded, err := service.GroundExistingAnalysis(ctx, testOrg, "analysis-1", driving.GroundOptions{})
	require.NoError(t, err)

	gate := regrounded.Gate("gate-causation")
	require.NotNil(t, gate)
	assert.Equal(t, domain.GateStatusApproved, gate.Status)
	assert.Equal(t, "reviewer-1", gate.DecidedBy)
	require.NotNil(t, gate.DecidedAt)
	assert.Equal(t, time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC), *gate.DecidedAt)
	assert.Equal(t, "rain was the proximate cause", gate.Notes)
}

func TestGroundingService_RegroundingKeepsQuestionResolutions(t *testing.T) {
	service, _, _ := setupGroundingService(t)
	ctx := context.Background()

	grounded, err := service.GroundExistingAnalysis(ctx, testOrg, "analysis-1", driving.GroundOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, grounded.OpenQuestions)
	questionID := grounded.OpenQuestions[0].ID

	err = service.ResolveOpenQuestion(ctx, testOrg, "analysis-1", questionID, "confirmed by the adjuster")
	require.NoError(t, err)

	regrounded, err := service.GroundExistingAnalysis(ctx, testOrg, "analysis-1", driving.GroundOptions{})
	require.NoError(t, err)

	question := regrounded.Question(questionID)
	require.NotNil(t, question)
	assert.True(t, question.Resolved)
	assert.Equal(t, "confirmed by the adjuster", question.Resolution)
}

func TestGroundingService_ResolveQuestion(t *testing.T) {
	service, analysisStore, _ := setupGroundingService(t)
	ctx := context.Background()

	grounded, err := service.GroundExistingAnalysis(ctx, testOrg, "analysis-1", driving.GroundOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, grounded.OpenQuestions)
	questionID := grounded.OpenQuestions[0].ID

	err = service.ResolveOpenQuestion(ctx, testOrg, "analysis-1", questionID, "policy language reviewed")
	require.NoError(t, err)

	persisted, err := analysisStore.GetGroundedFields(ctx, testOrg, "analysis-1")
	require.NoError(t, err)
	question := persisted.Question(questionID)
	require.NotNil(t, question)
	assert.True(t, question.Resolved)
	assert.Equal(t, "policy language reviewed", question.Resolution)
}

func TestGroundingService_ResolveQuestion_EmptyResolution(t *testing.T) {
	service, _, _ := setupGroundingService(t)

	err := service.ResolveOpenQuestion(context.Background(), testOrg, "analysis-1", "oq-any", "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGroundingService_ResolveQuestion_NotGrounded(t *testing.T) {
	service, _, _ := setupGroundingService(t)

	err := service.ResolveOpenQuestion(context.Background(), testOrg, "analysis-1", "oq-any", "answer")

	assert.ErrorIs(t, err, domain.ErrNotGrounded)
}

func TestGroundingService_ResolveQuestion_UnknownQuestion(t *testing.T) {
	service, _, _ := setupGroundingService(t)
	ctx := context.Background()

	_, err := service.GroundExistingAnalysis(ctx, testOrg, "analysis-1", driving.GroundOptions{})
	require.NoError(t, err)

	err = service.ResolveOpenQuestion(ctx, testOrg, "analysis-1", "oq-0000000000000000", "answer")

	assert.ErrorIs(t, err, domain.ErrUnknownQuestion)
}

func TestGroundingService_AdvanceGate_NotGrounded(t *testing.T) {
	service, _, _ := setupGroundingService(t)

	err := service.AdvanceDecisionGate(context.Background(), testOrg, "analysis-1", "gate-causation",
		domain.GateStatusApproved, "reviewer-1", "")

	assert.ErrorIs(t, err, domain.ErrNotGrounded)
}

func TestGroundingService_AdvanceGate_UnknownGate(t *testing.T) {
	service, _, _ := setupGroundingService(t)
	ctx := context.Background()

	_, err := service.GroundExistingAnalysis(ctx, testOrg, "analysis-1", driving.GroundOptions{})
	require.NoError(t, err)

	err = service.AdvanceDecisionGate(ctx, testOrg, "analysis-1", "gate-unknown",
		domain.GateStatusApproved, "reviewer-1", "")

	assert.ErrorIs(t, err, domain.ErrUnknownGate)
}

func TestGroundingService_AdvanceGate_InvalidStatus(t *testing.T) {
	service, _, _ := setupGroundingService(t)
	ctx := context.Background()

	_, err := service.GroundExistingAnalysis(ctx, testOrg, "analysis-1", driving.GroundOptions{})
	require.NoError(t, err)

	err = service.AdvanceDecisionGate(ctx, testOrg, "analysis-1", "gate-causation",
		domain.GateStatusPending, "reviewer-1", "")

	assert.ErrorIs(t, err, domain.ErrInvalidGateStatus)
}

func TestGroundingService_AdvanceGate_Redecide(t *testing.T) {
	service, analysisStore, _ := setupGroundingService(t)
	ctx := context.Background()

	_, err := service.GroundExistingAnalysis(ctx, testOrg, "analysis-1", driving.GroundOptions{})
	require.NoError(t, err)

	require.NoError(t, service.AdvanceDecisionGate(ctx, testOrg, "analysis-1", "gate-jurisdiction",
		domain.GateStatusNeedsReview, "reviewer-1", "confirm state"))
	require.NoError(t, service.AdvanceDecisionGate(ctx, testOrg, "analysis-1", "gate-jurisdiction",
		domain.GateStatusApproved, "reviewer-2", "endorsement found"))

	persisted, err := analysisStore.GetGroundedFields(ctx, testOrg, "analysis-1")
	require.NoError(t, err)
	gate := persisted.Gate("gate-jurisdiction")
	require.NotNil(t, gate)
	assert.Equal(t, domain.GateStatusApproved, gate.Status)
	assert.Equal(t, "reviewer-2", gate.DecidedBy)
}

func TestGroundingService_GetGroundedAnalysis(t *testing.T) {
	service, _, _ := setupGroundingService(t)
	ctx := context.Background()

	before, err := service.GetGroundedAnalysis(ctx, testOrg, "analysis-1")
	require.NoError(t, err)
	assert.Nil(t, before.Grounded)
	assert.Equal(t, "Warehouse water loss", before.Analysis.Title)

	_, err = service.GroundExistingAnalysis(ctx, testOrg, "analysis-1", driving.GroundOptions{})
	require.NoError(t, err)

	after, err := service.GetGroundedAnalysis(ctx, testOrg, "analysis-1")
	require.NoError(t, err)
	require.NotNil(t, after.Grounded)
	assert.Equal(t, 1, after.Grounded.AnalysisVersion)
}
