package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/parchment-labs/citeground-cli/internal/core/domain"
	"github.com/parchment-labs/citeground-cli/internal/core/ports/driven"
)

// Ensure AnalysisStore implements the interface.
var _ driven.AnalysisStore = (*AnalysisStore)(nil)

// analysisKey scopes records by org.
type analysisKey struct {
	orgID string
	id    string
}

// AnalysisStore is an in-memory implementation of driven.AnalysisStore.
type AnalysisStore struct {
	mu       sync.RWMutex
	analyses map[analysisKey]domain.Analysis

	// grounded holds the serialized blob so reads return independent
	// copies, matching the round-trip behaviour of the SQLite store.
	grounded map[analysisKey][]byte
}

// NewAnalysisStore creates a new in-memory analysis store.
func NewAnalysisStore() *AnalysisStore {
	return &AnalysisStore{
		analyses: make(map[analysisKey]domain.Analysis),
		grounded: make(map[analysisKey][]byte),
	}
}

// SaveAnalysis stores or updates an analysis record.
func (s *AnalysisStore) SaveAnalysis(_ context.Context, analysis *domain.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses[analysisKey{analysis.OrgID, analysis.ID}] = *analysis
	return nil
}

// GetAnalysis retrieves an analysis by org and id.
func (s *AnalysisStore) GetAnalysis(_ context.Context, orgID, id string) (*domain.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	analysis, ok := s.analyses[analysisKey{orgID, id}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &analysis, nil
}

// ListAnalyses returns all analyses for an org.
func (s *AnalysisStore) ListAnalyses(_ context.Context, orgID string) ([]domain.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Analysis
	for key := range s.analyses {
		if key.orgID == orgID {
			result = append(result, s.analyses[key])
		}
	}
	return result, nil
}

// SaveGroundedFields atomically replaces the grounded fields blob.
func (s *AnalysisStore) SaveGroundedFields(_ context.Context, orgID, analysisID string, fields *domain.ClauseGroundedFields) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := analysisKey{orgID, analysisID}
	if _, ok := s.analyses[key]; !ok {
		return domain.ErrNotFound
	}
	s.grounded[key] = payload
	return nil
}

// GetGroundedFields retrieves the grounded fields of an analysis.
func (s *AnalysisStore) GetGroundedFields(_ context.Context, orgID, analysisID string) (*domain.ClauseGroundedFields, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.grounded[analysisKey{orgID, analysisID}]
	if !ok {
		return nil, domain.ErrNotFound
	}

	var fields domain.ClauseGroundedFields
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, err
	}
	return &fields, nil
}
