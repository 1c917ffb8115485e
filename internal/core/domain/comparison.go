package domain

// ChangeType classifies how one conclusion differs between two groundings.
type ChangeType string

// Available change types.
const (
	// ChangeAdded means the conclusion appears only on the right side.
	ChangeAdded ChangeType = "added"

	// ChangeRemoved means the conclusion appears only on the left side.
	ChangeRemoved ChangeType = "removed"

	// ChangeChanged means the statement matches but the citation set or
	// confidence differs.
	ChangeChanged ChangeType = "changed"

	// ChangeUnchanged means the conclusion is identical on both sides.
	ChangeUnchanged ChangeType = "unchanged"
)

// IsValid returns true if the change type is recognised.
func (t ChangeType) IsValid() bool {
	switch t {
	case ChangeAdded, ChangeRemoved, ChangeChanged, ChangeUnchanged:
		return true
	default:
		return false
	}
}

// ConclusionDelta is one conclusion-level difference between two groundings.
type ConclusionDelta struct {
	Statement  string     `json:"statement"`
	Type       ConclusionType `json:"type"`
	ChangeType ChangeType `json:"changeType"`
}

// ComparisonStats summarises a comparison numerically.
type ComparisonStats struct {
	ConclusionsAdded   int `json:"conclusionsAdded"`
	ConclusionsRemoved int `json:"conclusionsRemoved"`
	ConclusionsChanged int `json:"conclusionsChanged"`
	QuestionsResolved  int `json:"questionsResolved"`
}

// GroundedAnalysis pairs an analysis record with its grounded fields, the
// unit the comparison engine operates on. Grounded is nil when the
// analysis has not been grounded yet.
type GroundedAnalysis struct {
	Analysis Analysis              `json:"analysis"`
	Grounded *ClauseGroundedFields `json:"grounded,omitempty"`
}

// AnalysisComparison is the structured delta between two groundings of the
// same scenario taken at different times. Derived, never persisted.
type AnalysisComparison struct {
	DeterminationChanged bool              `json:"determinationChanged"`
	LeftDetermination    Determination     `json:"leftDetermination"`
	RightDetermination   Determination     `json:"rightDetermination"`
	ConclusionDeltas     []ConclusionDelta `json:"conclusionDeltas"`
	Stats                ComparisonStats   `json:"stats"`
}
