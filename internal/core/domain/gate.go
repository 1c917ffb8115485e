package domain

import "time"

// GateStatus is the review state of a decision gate.
type GateStatus string

// Available gate statuses.
const (
	// GateStatusPending means no decision has been recorded yet.
	GateStatusPending GateStatus = "pending"

	// GateStatusApproved means a reviewer approved the checkpoint.
	GateStatusApproved GateStatus = "approved"

	// GateStatusRejected means a reviewer rejected the checkpoint.
	GateStatusRejected GateStatus = "rejected"

	// GateStatusNeedsReview means the checkpoint needs another look.
	GateStatusNeedsReview GateStatus = "needs_review"
)

// IsValid returns true if the gate status is recognised.
func (s GateStatus) IsValid() bool {
	switch s {
	case GateStatusPending, GateStatusApproved,
		GateStatusRejected, GateStatusNeedsReview:
		return true
	default:
		return false
	}
}

// IsDecision returns true if the status can be the target of a transition.
// Gates start pending; pending is never re-entered by a decision.
func (s GateStatus) IsDecision() bool {
	switch s {
	case GateStatusApproved, GateStatusRejected, GateStatusNeedsReview:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s GateStatus) String() string {
	return string(s)
}

// DecisionGate is a named human-review checkpoint. The gate set is fixed
// and created pending on first grounding; re-deciding overwrites DecidedBy,
// DecidedAt and Notes (only the last decision is kept).
type DecisionGate struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    GateStatus `json:"status"`
	DecidedBy string     `json:"decidedBy,omitempty"`
	DecidedAt *time.Time `json:"decidedAt,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

// Decide records a transition to the given status. Transitions are not
// one-way: any decided status may be re-entered from any other, modelling
// iterative review rather than a strict pipeline.
func (g *DecisionGate) Decide(status GateStatus, actorID, notes string, at time.Time) error {
	if !status.IsDecision() {
		return ErrInvalidGateStatus
	}
	if actorID == "" {
		return ErrInvalidInput
	}
	g.Status = status
	g.DecidedBy = actorID
	g.DecidedAt = &at
	g.Notes = notes
	return nil
}
