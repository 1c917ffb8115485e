// Package domain defines the core business entities for Citeground.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Analysis: A coverage analysis awaiting grounding
//   - FormSection / FormChunk: Ingested reference document structure
//   - CitedConclusion / Citation: An anchored statement and its evidence
//   - OpenQuestion: An outstanding question raised during grounding
//   - DecisionGate: A named human-review checkpoint
//   - ClauseGroundedFields: The complete grounded result for one analysis
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
