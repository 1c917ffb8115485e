package services

import (
	"fmt"

	"github.com/parchment-labs/citeground-cli/internal/core/domain"
)

// GroundAnalysis anchors every substantive statement of the analysis to
// excerpts from the referenced form versions and assembles the complete
// grounded result. Pure function, no I/O: called twice with identical
// input and version it produces identical output, citation order included.
//
// Every referenced form version must have chunks present in the input;
// a missing one aborts the whole run with domain.ErrIngestionUnavailable.
// Absence of source data is an explicit engine error, never silently
// downgraded to an ungrounded conclusion.
func GroundAnalysis(input domain.GroundingInput, analysisVersion int, priorAnalysisID string, cfg domain.GroundingConfig) (*domain.ClauseGroundedFields, error) {
	if analysisVersion < 1 {
		return nil, fmt.Errorf("analysis version %d: %w", analysisVersion, domain.ErrInvalidInput)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("grounding config: %w", err)
	}

	indexes := make(map[string]*anchorIndex, len(input.Sources))
	for _, src := range input.Sources {
		chunks := input.ChunksByFormVersion[src.FormVersionID]
		if len(chunks) == 0 {
			return nil, fmt.Errorf("form version %s: %w", src.FormVersionID, domain.ErrIngestionUnavailable)
		}
		sections := input.SectionsByFormVersion[src.FormVersionID]
		indexes[src.FormVersionID] = buildAnchorIndex(src.FormVersionID, sections, chunks)
	}

	resolver := newCitationResolver(cfg, indexes, input.Sources)

	atomic := extractConclusions(input.Fields)
	conclusions := make([]domain.CitedConclusion, 0, len(atomic))
	for _, c := range atomic {
		conclusions = append(conclusions, resolver.resolve(c))
	}

	return &domain.ClauseGroundedFields{
		AnalysisVersion: analysisVersion,
		PriorAnalysisID: priorAnalysisID,
		Conclusions:     conclusions,
		OpenQuestions:   detectOpenQuestions(conclusions, input.Scenario, input.Sources),
		DecisionGates:   newGateSet(),
	}, nil
}
