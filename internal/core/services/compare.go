package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/parchment-labs/citeground-cli/internal/core/domain"
	"github.com/parchment-labs/citeground-cli/internal/core/ports/driven"
	"github.com/parchment-labs/citeground-cli/internal/core/ports/driving"
	"github.com/parchment-labs/citeground-cli/internal/logger"
)

// conclusionKey matches conclusions between two groundings.
type conclusionKey struct {
	typ       domain.ConclusionType
	statement string
}

// CompareAnalyses diffs two groundings of the same scenario into a
// structured delta. Pure function, no side effects.
//
// Conclusions are matched by (type, statement): present on one side only
// is added/removed; equal statement with a different citation set or
// confidence is changed. Deltas list the left side in order, then
// right-only additions in order.
func CompareAnalyses(left, right domain.GroundedAnalysis) domain.AnalysisComparison {
	comparison := domain.AnalysisComparison{
		DeterminationChanged: left.Analysis.Determination != right.Analysis.Determination,
		LeftDetermination:    left.Analysis.Determination,
		RightDetermination:   right.Analysis.Determination,
	}

	var leftConclusions, rightConclusions []domain.CitedConclusion
	var leftQuestions []domain.OpenQuestion
	if left.Grounded != nil {
		leftConclusions = left.Grounded.Conclusions
		leftQuestions = left.Grounded.OpenQuestions
	}
	var rightQuestions []domain.OpenQuestion
	if right.Grounded != nil {
		rightConclusions = right.Grounded.Conclusions
		rightQuestions = right.Grounded.OpenQuestions
	}

	rightByKey := make(map[conclusionKey]domain.CitedConclusion, len(rightConclusions))
	for _, c := range rightConclusions {
		rightByKey[conclusionKey{c.Type, c.Statement}] = c
	}

	matched := make(map[conclusionKey]struct{}, len(leftConclusions))
	for _, lc := range leftConclusions {
		key := conclusionKey{lc.Type, lc.Statement}
		rc, ok := rightByKey[key]
		if !ok {
			comparison.ConclusionDeltas = append(comparison.ConclusionDeltas, domain.ConclusionDelta{
				Statement:  lc.Statement,
				Type:       lc.Type,
				ChangeType: domain.ChangeRemoved,
			})
			comparison.Stats.ConclusionsRemoved++
			continue
		}
		matched[key] = struct{}{}

		change := domain.ChangeUnchanged
		if conclusionDiffers(lc, rc) {
			change = domain.ChangeChanged
			comparison.Stats.ConclusionsChanged++
		}
		comparison.ConclusionDeltas = append(comparison.ConclusionDeltas, domain.ConclusionDelta{
			Statement:  lc.Statement,
			Type:       lc.Type,
			ChangeType: change,
		})
	}

	for _, rc := range rightConclusions {
		if _, ok := matched[conclusionKey{rc.Type, rc.Statement}]; ok {
			continue
		}
		comparison.ConclusionDeltas = append(comparison.ConclusionDeltas, domain.ConclusionDelta{
			Statement:  rc.Statement,
			Type:       rc.Type,
			ChangeType: domain.ChangeAdded,
		})
		comparison.Stats.ConclusionsAdded++
	}

	comparison.Stats.QuestionsResolved = countResolved(leftQuestions, rightQuestions)

	return comparison
}

// conclusionDiffers reports whether a matched conclusion changed between
// groundings: different confidence or a different citation set.
func conclusionDiffers(left, right domain.CitedConclusion) bool {
	if left.Confidence != right.Confidence {
		return true
	}
	if len(left.Citations) != len(right.Citations) {
		return true
	}
	for i := range left.Citations {
		if left.Citations[i] != right.Citations[i] {
			return true
		}
	}
	return false
}

// countResolved counts questions open on the left that are either absent
// or resolved on the right.
func countResolved(left, right []domain.OpenQuestion) int {
	rightByID := make(map[string]domain.OpenQuestion, len(right))
	for _, q := range right {
		rightByID[q.ID] = q
	}

	resolved := 0
	for _, q := range left {
		if q.Resolved {
			continue
		}
		rq, ok := rightByID[q.ID]
		if !ok || rq.Resolved {
			resolved++
		}
	}
	return resolved
}

// Ensure ComparisonService implements the interface.
var _ driving.ComparisonService = (*ComparisonService)(nil)

// ComparisonService wraps the pure comparison with persistence loads.
type ComparisonService struct {
	analysisStore driven.AnalysisStore
}

// NewComparisonService creates a new comparison service.
func NewComparisonService(analysisStore driven.AnalysisStore) *ComparisonService {
	return &ComparisonService{analysisStore: analysisStore}
}

// CompareGroundedAnalyses loads both analyses with their grounded fields
// and diffs them. Both must already be grounded.
func (s *ComparisonService) CompareGroundedAnalyses(ctx context.Context, orgID, leftID, rightID string) (*domain.AnalysisComparison, error) {
	left, err := s.loadGrounded(ctx, orgID, leftID)
	if err != nil {
		return nil, fmt.Errorf("left analysis %s: %w", leftID, err)
	}
	right, err := s.loadGrounded(ctx, orgID, rightID)
	if err != nil {
		return nil, fmt.Errorf("right analysis %s: %w", rightID, err)
	}

	logger.Debug("Comparing groundings: left=%s v%d, right=%s v%d",
		leftID, left.Grounded.AnalysisVersion, rightID, right.Grounded.AnalysisVersion)

	comparison := CompareAnalyses(*left, *right)
	return &comparison, nil
}

func (s *ComparisonService) loadGrounded(ctx context.Context, orgID, analysisID string) (*domain.GroundedAnalysis, error) {
	analysis, err := s.analysisStore.GetAnalysis(ctx, orgID, analysisID)
	if err != nil {
		return nil, err
	}
	grounded, err := s.analysisStore.GetGroundedFields(ctx, orgID, analysisID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotGrounded
		}
		return nil, err
	}
	return &domain.GroundedAnalysis{Analysis: *analysis, Grounded: grounded}, nil
}
