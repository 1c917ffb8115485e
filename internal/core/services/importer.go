package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/parchment-labs/citeground-cli/internal/core/domain"
	"github.com/parchment-labs/citeground-cli/internal/core/ports/driven"
	"github.com/parchment-labs/citeground-cli/internal/core/ports/driving"
	"github.com/parchment-labs/citeground-cli/internal/logger"
)

// Ensure ImportService implements the interface.
var _ driving.ImportService = (*ImportService)(nil)

// ImportService loads analyses and ingested form versions into the stores.
// It stands in for the upstream ingestion pipeline so grounding can be
// exercised end to end.
type ImportService struct {
	analysisStore  driven.AnalysisStore
	ingestionStore driven.IngestionStore

	now func() time.Time
}

// NewImportService creates a new import service.
func NewImportService(analysisStore driven.AnalysisStore, ingestionStore driven.IngestionStore) *ImportService {
	return &ImportService{
		analysisStore:  analysisStore,
		ingestionStore: ingestionStore,
		now:            time.Now,
	}
}

// ImportFormVersion validates and stores one ingested form version.
// Chunk indices must form a dense 0-based sequence; chunk boundaries are
// immutable after this point, so re-ingesting means a new version id.
func (s *ImportService) ImportFormVersion(ctx context.Context, version domain.FormVersion,
	sections []domain.FormSection, chunks []domain.FormChunk) (*domain.FormVersion, error) {
	if strings.TrimSpace(version.Label) == "" {
		return nil, fmt.Errorf("form version label required: %w", domain.ErrInvalidInput)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("form version has no chunks: %w", domain.ErrInvalidInput)
	}

	if version.ID == "" {
		version.ID = uuid.New().String()
	}
	if version.IngestedAt.IsZero() {
		version.IngestedAt = s.now().UTC()
	}

	sectionIDs := make(map[string]struct{}, len(sections))
	for i := range sections {
		if sections[i].ID == "" {
			sections[i].ID = uuid.New().String()
		}
		sections[i].FormVersionID = version.ID
		if sections[i].Path == "" {
			sections[i].Path = sections[i].Heading
		}
		sectionIDs[sections[i].ID] = struct{}{}
	}
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].Order < sections[j].Order })

	sort.SliceStable(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })
	for i := range chunks {
		if chunks[i].Index != i {
			return nil, fmt.Errorf("chunk indices must be dense and 0-based, got %d at position %d: %w",
				chunks[i].Index, i, domain.ErrInvalidInput)
		}
		if chunks[i].ID == "" {
			chunks[i].ID = uuid.New().String()
		}
		chunks[i].FormVersionID = version.ID
		if chunks[i].SectionID != "" {
			if _, ok := sectionIDs[chunks[i].SectionID]; !ok {
				return nil, fmt.Errorf("chunk %d references unknown section %s: %w",
					chunks[i].Index, chunks[i].SectionID, domain.ErrInvalidInput)
			}
		}
	}

	if err := s.ingestionStore.SaveFormVersion(ctx, version, sections, chunks); err != nil {
		return nil, fmt.Errorf("save form version: %w", err)
	}
	logger.Info("Ingested form version %s (%s): %d sections, %d chunks",
		version.ID, version.Label, len(sections), len(chunks))

	return &version, nil
}

// ImportAnalysis validates and stores one analysis record.
func (s *ImportService) ImportAnalysis(ctx context.Context, analysis domain.Analysis) (*domain.Analysis, error) {
	if analysis.OrgID == "" {
		return nil, fmt.Errorf("org id required: %w", domain.ErrInvalidInput)
	}
	if !analysis.Determination.IsValid() {
		return nil, fmt.Errorf("determination %q: %w", analysis.Determination, domain.ErrInvalidInput)
	}
	for _, src := range analysis.Sources {
		if src.FormVersionID == "" {
			return nil, fmt.Errorf("source without form version id: %w", domain.ErrInvalidInput)
		}
	}

	if analysis.ID == "" {
		analysis.ID = uuid.New().String()
	}
	now := s.now().UTC()
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = now
	}
	analysis.UpdatedAt = now

	if err := s.analysisStore.SaveAnalysis(ctx, &analysis); err != nil {
		return nil, fmt.Errorf("save analysis: %w", err)
	}
	logger.Info("Imported analysis %s (%s)", analysis.ID, analysis.Title)

	return &analysis, nil
}
