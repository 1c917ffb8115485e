package sqlite

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parchment-labs/citeground-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "citeground-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}
	return store, cleanup
}

func testAnalysis(id string) *domain.Analysis {
	return &domain.Analysis{
		ID:            id,
		OrgID:         "org-1",
		Title:         "Warehouse water loss",
		Determination: domain.DeterminationPartiallyCovered,
		Scenario: domain.Scenario{
			Narrative: "Heavy rain flooded the warehouse basement.",
			Location:  "Miami, Florida",
			Facts:     map[string]string{"claimed amount": "$140,000"},
		},
		Fields: domain.StructuredFields{
			Summary:             "Warehouse water loss.",
			ApplicableCoverages: []string{"Building coverage applies to the warehouse"},
			RelevantExclusions:  []string{"The flood exclusion does not apply"},
		},
		Sources: []domain.FormSourceSnapshot{
			{FormVersionID: "fv-1", Label: "CP 00 10 10 12", Jurisdiction: "Florida"},
		},
		ExistingCitations: []domain.Citation{
			{FormVersionID: "fv-1", Excerpt: "prior excerpt", ExcerptHash: "prior-hash", Relevance: domain.RelevanceSupporting},
		},
		OutputMarkdown: "# Analysis\n\nRendered text.",
	}
}

func TestStore_Migrations(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	var count int
	row := store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations")
	require.NoError(t, row.Scan(&count))
	assert.GreaterOrEqual(t, count, 1)
}

func TestStore_ReopenIsIdempotent(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "citeground-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir) //nolint:errcheck

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Migrations already applied; reopening must not fail.
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestAnalysisStore_SQLite_RoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	analysisStore := store.AnalysisStore()
	analysis := testAnalysis("analysis-1")
	require.NoError(t, analysisStore.SaveAnalysis(ctx, analysis))

	got, err := analysisStore.GetAnalysis(ctx, "org-1", "analysis-1")
	require.NoError(t, err)
	assert.Equal(t, analysis.Title, got.Title)
	assert.Equal(t, analysis.Determination, got.Determination)
	assert.Equal(t, analysis.Scenario, got.Scenario)
	assert.Equal(t, analysis.Fields, got.Fields)
	assert.Equal(t, analysis.Sources, got.Sources)
	assert.Equal(t, analysis.ExistingCitations, got.ExistingCitations)
	assert.Equal(t, analysis.OutputMarkdown, got.OutputMarkdown)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestAnalysisStore_SQLite_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.AnalysisStore().GetAnalysis(context.Background(), "org-1", "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnalysisStore_SQLite_Update(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	analysisStore := store.AnalysisStore()
	analysis := testAnalysis("analysis-1")
	require.NoError(t, analysisStore.SaveAnalysis(ctx, analysis))

	analysis.Title = "Amended title"
	analysis.Determination = domain.DeterminationNotCovered
	require.NoError(t, analysisStore.SaveAnalysis(ctx, analysis))

	got, err := analysisStore.GetAnalysis(ctx, "org-1", "analysis-1")
	require.NoError(t, err)
	assert.Equal(t, "Amended title", got.Title)
	assert.Equal(t, domain.DeterminationNotCovered, got.Determination)
}

func TestAnalysisStore_SQLite_OrgScoping(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	analysisStore := store.AnalysisStore()
	require.NoError(t, analysisStore.SaveAnalysis(ctx, testAnalysis("analysis-1")))

	_, err := analysisStore.GetAnalysis(ctx, "org-2", "analysis-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := analysisStore.ListAnalyses(ctx, "org-2")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAnalysisStore_SQLite_ListAnalyses(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	analysisStore := store.AnalysisStore()
	require.NoError(t, analysisStore.SaveAnalysis(ctx, testAnalysis("analysis-1")))
	require.NoError(t, analysisStore.SaveAnalysis(ctx, testAnalysis("analysis-2")))

	list, err := analysisStore.ListAnalyses(ctx, "org-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestAnalysisStore_SQLite_GroundedFields(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	analysisStore := store.AnalysisStore()
	require.NoError(t, analysisStore.SaveAnalysis(ctx, testAnalysis("analysis-1")))

	decidedAt := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	fields := &domain.ClauseGroundedFields{
		AnalysisVersion: 1,
		Conclusions: []domain.CitedConclusion{{
			ID:         "concl-1",
			Type:       domain.ConclusionCoverageGrant,
			Statement:  "Building coverage applies",
			Reasoning:  "Matched policy text in Section A / Coverage.",
			Confidence: domain.ConfidenceHigh,
			Citations: []domain.Citation{{
				FormVersionID: "fv-1",
				FormLabel:     "CP 00 10 10 12",
				SectionPath:   "Section A / Coverage",
				AnchorSlug:    "section-a-coverage",
				Page:          1,
				Excerpt:       "including the building",
				ExcerptHash:   "hash",
				Relevance:     domain.RelevanceDirect,
			}},
		}},
		OpenQuestions: []domain.OpenQuestion{{
			ID: "oq-1", Category: domain.QuestionMissingFact, Question: "What amount?",
			Impact: "Affects the exposure.",
		}},
		DecisionGates: []domain.DecisionGate{{
			ID: "gate-causation", Name: "Causation", Status: domain.GateStatusApproved,
			DecidedBy: "reviewer-1", DecidedAt: &decidedAt, Notes: "confirmed",
		}},
	}
	require.NoError(t, analysisStore.SaveGroundedFields(ctx, "org-1", "analysis-1", fields))

	got, err := analysisStore.GetGroundedFields(ctx, "org-1", "analysis-1")
	require.NoError(t, err)
	assert.Equal(t, fields, got)
}

func TestAnalysisStore_SQLite_GroundedFieldsUpsert(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	analysisStore := store.AnalysisStore()
	require.NoError(t, analysisStore.SaveAnalysis(ctx, testAnalysis("analysis-1")))

	require.NoError(t, analysisStore.SaveGroundedFields(ctx, "org-1", "analysis-1",
		&domain.ClauseGroundedFields{AnalysisVersion: 1}))
	require.NoError(t, analysisStore.SaveGroundedFields(ctx, "org-1", "analysis-1",
		&domain.ClauseGroundedFields{AnalysisVersion: 2}))

	got, err := analysisStore.GetGroundedFields(ctx, "org-1", "analysis-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.AnalysisVersion)
}

func TestAnalysisStore_SQLite_GroundedFieldsRequireAnalysis(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.AnalysisStore().SaveGroundedFields(context.Background(), "org-1", "missing",
		&domain.ClauseGroundedFields{AnalysisVersion: 1})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestionStore_SQLite_RoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	ingestionStore := store.IngestionStore()
	version := domain.FormVersion{
		ID:           "fv-1",
		Label:        "CP 00 10 10 12",
		Jurisdiction: "Florida",
		IngestedAt:   time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC),
	}
	sections := []domain.FormSection{
		{ID: "sec-a", FormVersionID: "fv-1", Order: 0, Heading: "Coverage", Path: "Section A / Coverage"},
		{ID: "sec-b", FormVersionID: "fv-1", Order: 1, Heading: "Exclusions", Path: "Section B / Exclusions"},
	}
	chunks := []domain.FormChunk{
		{ID: "ch-0", FormVersionID: "fv-1", Index: 0, Text: "Coverage text.", SectionID: "sec-a", Page: 1},
		{ID: "ch-1", FormVersionID: "fv-1", Index: 1, Text: "Exclusion text.", SectionID: "sec-b", Page: 2},
		{ID: "ch-2", FormVersionID: "fv-1", Index: 2, Text: "Trailing text."},
	}
	require.NoError(t, ingestionStore.SaveFormVersion(ctx, version, sections, chunks))

	gotVersion, err := ingestionStore.GetFormVersion(ctx, "fv-1")
	require.NoError(t, err)
	assert.Equal(t, "CP 00 10 10 12", gotVersion.Label)
	assert.Equal(t, "Florida", gotVersion.Jurisdiction)

	gotSections, err := ingestionStore.GetSections(ctx, "fv-1")
	require.NoError(t, err)
	assert.Equal(t, sections, gotSections)

	gotChunks, err := ingestionStore.GetChunks(ctx, "fv-1")
	require.NoError(t, err)
	assert.Equal(t, chunks, gotChunks)
}

func TestIngestionStore_SQLite_Immutable(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	ingestionStore := store.IngestionStore()
	version := domain.FormVersion{ID: "fv-1", Label: "CP 00 10", IngestedAt: time.Now().UTC()}
	chunks := []domain.FormChunk{{ID: "ch-0", FormVersionID: "fv-1", Index: 0, Text: "text"}}

	require.NoError(t, ingestionStore.SaveFormVersion(ctx, version, nil, chunks))

	err := ingestionStore.SaveFormVersion(ctx, version, nil, chunks)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	// The failed save must not have disturbed the stored chunks.
	got, err := ingestionStore.GetChunks(ctx, "fv-1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestIngestionStore_SQLite_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	ingestionStore := store.IngestionStore()

	_, err := ingestionStore.GetFormVersion(ctx, "fv-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = ingestionStore.GetSections(ctx, "fv-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = ingestionStore.GetChunks(ctx, "fv-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
