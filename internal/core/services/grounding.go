package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/parchment-labs/citeground-cli/internal/core/domain"
	"github.com/parchment-labs/citeground-cli/internal/core/ports/driven"
	"github.com/parchment-labs/citeground-cli/internal/core/ports/driving"
	"github.com/parchment-labs/citeground-cli/internal/logger"
)

// Ensure GroundingService implements the interface.
var _ driving.GroundingService = (*GroundingService)(nil)

// GroundingService wraps the pure grounding function with persistence:
// it loads the analysis and its ingestion data, computes the grounded
// fields, and writes them back as one atomic blob.
type GroundingService struct {
	analysisStore  driven.AnalysisStore
	ingestionStore driven.IngestionStore
	configStore    driven.ConfigStore

	// now is the clock for gate transitions, swappable in tests.
	now func() time.Time
}

// NewGroundingService creates a new grounding service.
// The configStore parameter is optional (can be nil); the documented
// default thresholds apply without it.
func NewGroundingService(
	analysisStore driven.AnalysisStore,
	ingestionStore driven.IngestionStore,
	configStore driven.ConfigStore,
) *GroundingService {
	return &GroundingService{
		analysisStore:  analysisStore,
		ingestionStore: ingestionStore,
		configStore:    configStore,
		now:            time.Now,
	}
}

// config returns the effective resolver configuration.
func (s *GroundingService) config() domain.GroundingConfig {
	if s.configStore == nil {
		return domain.DefaultGroundingConfig()
	}
	return s.configStore.GroundingConfig()
}

// GroundExistingAnalysis loads the analysis record and the ingestion data
// of every referenced form version, grounds the analysis, and persists the
// result. Human decisions recorded on a previous grounding of the same
// analysis (gate decisions, question resolutions) are carried over.
func (s *GroundingService) GroundExistingAnalysis(ctx context.Context, orgID, analysisID string, opts driving.GroundOptions) (*domain.ClauseGroundedFields, error) {
	logger.Section("Grounding Run")
	logger.Debug("Analysis: org=%s id=%s", orgID, analysisID)

	analysis, err := s.analysisStore.GetAnalysis(ctx, orgID, analysisID)
	if err != nil {
		return nil, fmt.Errorf("load analysis %s: %w", analysisID, err)
	}

	priorID := analysis.PriorAnalysisID
	if opts.PriorAnalysisID != "" {
		priorID = opts.PriorAnalysisID
	}

	version, err := s.nextVersion(ctx, orgID, priorID)
	if err != nil {
		return nil, err
	}
	logger.Debug("Assigned analysis version %d (prior: %q)", version, priorID)

	sections, chunks, err := s.loadIngestion(ctx, analysis.Sources)
	if err != nil {
		return nil, err
	}

	input := domain.GroundingInput{
		Determination:         analysis.Determination,
		Fields:                analysis.Fields,
		Scenario:              analysis.Scenario,
		ExistingCitations:     analysis.ExistingCitations,
		SectionsByFormVersion: sections,
		ChunksByFormVersion:   chunks,
		Sources:               analysis.Sources,
		OutputMarkdown:        analysis.OutputMarkdown,
	}

	grounded, err := GroundAnalysis(input, version, priorID, s.config())
	if err != nil {
		return nil, fmt.Errorf("ground analysis %s: %w", analysisID, err)
	}
	logger.Info("Grounded %d conclusions, %d open questions", len(grounded.Conclusions), len(grounded.OpenQuestions))

	// Re-grounding is additive with respect to human decisions: carry gate
	// decisions and question resolutions over from the previous grounding.
	prior, err := s.analysisStore.GetGroundedFields(ctx, orgID, analysisID)
	switch {
	case err == nil:
		grounded.DecisionGates = mergeGateDecisions(grounded.DecisionGates, prior.DecisionGates)
		grounded.OpenQuestions = mergeQuestions(grounded.OpenQuestions, prior.OpenQuestions)
		logger.Debug("Carried decisions from prior grounding v%d", prior.AnalysisVersion)
	case errors.Is(err, domain.ErrNotFound):
		// First grounding of this analysis.
	default:
		return nil, fmt.Errorf("load prior grounding: %w", err)
	}

	if err := s.analysisStore.SaveGroundedFields(ctx, orgID, analysisID, grounded); err != nil {
		return nil, fmt.Errorf("%w: saving grounded fields for %s: %v", domain.ErrPersistenceFailure, analysisID, err)
	}

	return grounded, nil
}

// nextVersion computes the monotonic analysis version: prior linked
// analysis's version + 1, or 1 if none (or the prior was never grounded).
func (s *GroundingService) nextVersion(ctx context.Context, orgID, priorID string) (int, error) {
	if priorID == "" {
		return 1, nil
	}
	prior, err := s.analysisStore.GetGroundedFields(ctx, orgID, priorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 1, nil
		}
		return 0, fmt.Errorf("load prior analysis %s: %w", priorID, err)
	}
	return prior.AnalysisVersion + 1, nil
}

// loadIngestion loads sections and chunks for every referenced form
// version. Loads are independent and issued concurrently; all must
// complete before resolution, which scores across versions jointly.
func (s *GroundingService) loadIngestion(ctx context.Context, sources []domain.FormSourceSnapshot) (map[string][]domain.FormSection, map[string][]domain.FormChunk, error) {
	sections := make(map[string][]domain.FormSection, len(sources))
	chunks := make(map[string][]domain.FormChunk, len(sources))

	var mu sync.Mutex
	var wg sync.WaitGroup
	var loadErr error

	for _, src := range sources {
		wg.Add(1)
		go func(versionID string) {
			defer wg.Done()

			secs, err := s.ingestionStore.GetSections(ctx, versionID)
			if err == nil {
				var chs []domain.FormChunk
				chs, err = s.ingestionStore.GetChunks(ctx, versionID)
				if err == nil && len(chs) == 0 {
					err = domain.ErrIngestionUnavailable
				}
				if err == nil {
					mu.Lock()
					sections[versionID] = secs
					chunks[versionID] = chs
					mu.Unlock()
					return
				}
			}

			if errors.Is(err, domain.ErrNotFound) {
				err = domain.ErrIngestionUnavailable
			}
			mu.Lock()
			if loadErr == nil {
				loadErr = fmt.Errorf("form version %s: %w", versionID, err)
			}
			mu.Unlock()
		}(src.FormVersionID)
	}
	wg.Wait()

	if loadErr != nil {
		logger.Warn("Ingestion load failed: %v", loadErr)
		return nil, nil, loadErr
	}
	return sections, chunks, nil
}

// mergeQuestions applies resolutions recorded on prior questions to the
// freshly detected set and appends prior questions no longer detected.
// Open questions are an append-only record of what was asked.
func mergeQuestions(fresh, prior []domain.OpenQuestion) []domain.OpenQuestion {
	priorByID := make(map[string]domain.OpenQuestion, len(prior))
	for _, q := range prior {
		priorByID[q.ID] = q
	}

	merged := make([]domain.OpenQuestion, len(fresh))
	copy(merged, fresh)
	current := make(map[string]struct{}, len(fresh))
	for i := range merged {
		current[merged[i].ID] = struct{}{}
		if pq, ok := priorByID[merged[i].ID]; ok && pq.Resolved {
			merged[i].Resolved = true
			merged[i].Resolution = pq.Resolution
		}
	}

	for _, q := range prior {
		if _, ok := current[q.ID]; !ok {
			merged = append(merged, q)
		}
	}
	return merged
}

// GetGroundedAnalysis returns the analysis record with its grounded
// fields. Grounded is nil when the analysis has never been grounded.
func (s *GroundingService) GetGroundedAnalysis(ctx context.Context, orgID, analysisID string) (*domain.GroundedAnalysis, error) {
	analysis, err := s.analysisStore.GetAnalysis(ctx, orgID, analysisID)
	if err != nil {
		return nil, fmt.Errorf("load analysis %s: %w", analysisID, err)
	}

	grounded, err := s.analysisStore.GetGroundedFields(ctx, orgID, analysisID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.GroundedAnalysis{Analysis: *analysis}, nil
		}
		return nil, fmt.Errorf("load grounded fields: %w", err)
	}

	return &domain.GroundedAnalysis{Analysis: *analysis, Grounded: grounded}, nil
}

// ResolveOpenQuestion records the resolution of one open question.
// Read-modify-write of the single grounded blob: last write wins at the
// analysis level if a re-grounding races this update.
func (s *GroundingService) ResolveOpenQuestion(ctx context.Context, orgID, analysisID, questionID, resolution string) error {
	if resolution == "" {
		return fmt.Errorf("empty resolution: %w", domain.ErrInvalidInput)
	}

	grounded, err := s.loadGroundedForUpdate(ctx, orgID, analysisID)
	if err != nil {
		return err
	}

	question := grounded.Question(questionID)
	if question == nil {
		return fmt.Errorf("question %s: %w", questionID, domain.ErrUnknownQuestion)
	}
	if question.Resolved {
		logger.Warn("Question %s already resolved; overwriting resolution", questionID)
	}
	question.Resolved = true
	question.Resolution = resolution

	if err := s.analysisStore.SaveGroundedFields(ctx, orgID, analysisID, grounded); err != nil {
		return fmt.Errorf("%w: saving question resolution: %v", domain.ErrPersistenceFailure, err)
	}
	logger.Info("Resolved question %s on analysis %s", questionID, analysisID)
	return nil
}

// AdvanceDecisionGate transitions one decision gate, recording the actor
// and the transition time. Same last-write-wins caveat as
// ResolveOpenQuestion.
func (s *GroundingService) AdvanceDecisionGate(ctx context.Context, orgID, analysisID, gateID string, status domain.GateStatus, actorID, notes string) error {
	grounded, err := s.loadGroundedForUpdate(ctx, orgID, analysisID)
	if err != nil {
		return err
	}

	gate := grounded.Gate(gateID)
	if gate == nil {
		return fmt.Errorf("gate %s: %w", gateID, domain.ErrUnknownGate)
	}
	previous := gate.Status
	if err := gate.Decide(status, actorID, notes, s.now().UTC()); err != nil {
		return fmt.Errorf("gate %s: %w", gateID, err)
	}

	if err := s.analysisStore.SaveGroundedFields(ctx, orgID, analysisID, grounded); err != nil {
		return fmt.Errorf("%w: saving gate decision: %v", domain.ErrPersistenceFailure, err)
	}
	logger.Info("Gate %s: %s -> %s by %s", gateID, previous, status, actorID)
	return nil
}

// loadGroundedForUpdate loads the grounded fields of an analysis, mapping
// a missing grounding to ErrNotGrounded.
func (s *GroundingService) loadGroundedForUpdate(ctx context.Context, orgID, analysisID string) (*domain.ClauseGroundedFields, error) {
	if _, err := s.analysisStore.GetAnalysis(ctx, orgID, analysisID); err != nil {
		return nil, fmt.Errorf("load analysis %s: %w", analysisID, err)
	}
	grounded, err := s.analysisStore.GetGroundedFields(ctx, orgID, analysisID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("analysis %s: %w", analysisID, domain.ErrNotGrounded)
		}
		return nil, fmt.Errorf("load grounded fields: %w", err)
	}
	return grounded, nil
}
