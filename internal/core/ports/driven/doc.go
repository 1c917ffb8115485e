// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - AnalysisStore: Analysis record and grounded-fields persistence
//   - IngestionStore: Ingested form version, section and chunk retrieval
//
// # Optional Interfaces
//
//   - ConfigStore: Resolver tunables. When nil, documented defaults apply.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
