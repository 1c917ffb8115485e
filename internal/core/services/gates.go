package services

import "github.com/parchment-labs/citeground-cli/internal/core/domain"

// defaultGateNames is the fixed set of review checkpoints instantiated on
// every grounding run, in display order.
var defaultGateNames = []string{
	"Coverage Trigger",
	"Exclusion Applicability",
	"Causation",
	"Jurisdiction",
}

// newGateSet creates the fixed gates, all pending. Gate ids are derived
// from the names so they are stable across runs.
func newGateSet() []domain.DecisionGate {
	gates := make([]domain.DecisionGate, 0, len(defaultGateNames))
	for _, name := range defaultGateNames {
		gates = append(gates, domain.DecisionGate{
			ID:     "gate-" + anchorSlug(name),
			Name:   name,
			Status: domain.GateStatusPending,
		})
	}
	return gates
}

// mergeGateDecisions carries human decisions recorded on prior gates into
// a freshly created gate set. Grounding is additive with respect to
// decisions already made: re-grounding must never reset an approved or
// rejected gate.
func mergeGateDecisions(fresh, prior []domain.DecisionGate) []domain.DecisionGate {
	decided := make(map[string]domain.DecisionGate, len(prior))
	for _, g := range prior {
		if g.Status != domain.GateStatusPending {
			decided[g.ID] = g
		}
	}

	merged := make([]domain.DecisionGate, len(fresh))
	copy(merged, fresh)
	for i := range merged {
		if g, ok := decided[merged[i].ID]; ok {
			merged[i].Status = g.Status
			merged[i].DecidedBy = g.DecidedBy
			merged[i].DecidedAt = g.DecidedAt
			merged[i].Notes = g.Notes
		}
	}
	return merged
}
