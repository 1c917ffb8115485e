package domain

// QuestionCategory classifies an open question by what triggered it.
type QuestionCategory string

// Available question categories.
const (
	// QuestionMissingFact means a conclusion references a fact category not
	// present in the scenario.
	QuestionMissingFact QuestionCategory = "missing_fact"

	// QuestionAmbiguousClause means a conclusion could not be grounded with
	// any confidence.
	QuestionAmbiguousClause QuestionCategory = "ambiguous_clause"

	// QuestionConflictingProvisions means conclusions of different types
	// cite overlapping sections with contradictory polarity.
	QuestionConflictingProvisions QuestionCategory = "conflicting_provisions"

	// QuestionJurisdictional means the scenario names a location no cited
	// form version declares jurisdiction coverage for.
	QuestionJurisdictional QuestionCategory = "jurisdictional"
)

// IsValid returns true if the question category is recognised.
func (c QuestionCategory) IsValid() bool {
	switch c {
	case QuestionMissingFact, QuestionAmbiguousClause,
		QuestionConflictingProvisions, QuestionJurisdictional:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c QuestionCategory) String() string {
	return string(c)
}

// OpenQuestion is an outstanding question raised during grounding.
// Questions are append-only: resolving one sets Resolved and Resolution,
// it is never deleted.
type OpenQuestion struct {
	ID         string           `json:"id"`
	Category   QuestionCategory `json:"category"`
	Question   string           `json:"question"`
	Impact     string           `json:"impact"`
	Resolved   bool             `json:"resolved"`
	Resolution string           `json:"resolution,omitempty"`
}
