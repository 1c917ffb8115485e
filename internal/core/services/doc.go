// Package services implements the driving port interfaces.
// Services contain the grounding engine itself: anchor indexing,
// conclusion extraction, citation resolution, open-question detection,
// decision-gate management, orchestration and comparison.
//
// The engine itself is pure computation over already-loaded data; the
// services wrap it with loads and atomic writes through the driven ports.
package services
