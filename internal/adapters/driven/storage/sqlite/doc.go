// Package sqlite provides the SQLite-backed persistence layer.
//
// One Store owns the database handle; per-entity wrapper types expose the
// driven store interfaces. Schema changes ship as embedded, numbered
// migrations applied on open.
//
// The grounded fields of an analysis are persisted as one JSON payload in
// one row, so replacing them is a single atomic write: either the whole
// new blob lands or the prior one stays.
package sqlite
