// Package core defines the shared language of histsync.
//
// This package contains:
//   - Domain entities (HistoryEntry, SourceResult, AggregateStats, Run)
//   - Wire envelopes for the JSON API (ActionResponse, StatsResponse, HistoryResponse)
//   - Service interfaces (Store)
//   - Error classes shared by the backend client and the action coordinator
//
// pkg/core imports only the standard library.
// All other packages depend on core, not the reverse.
package core
