// Package state persists harvested browser history and harvest runs in SQLite.
//
// Note: Core types are defined in pkg/core. This package re-exports the ones
// callers touch most via type aliases.
package state

import (
	"github.com/leapstack-labs/histsync/pkg/core"
)

type (
	// Store is an alias for core.Store.
	Store = core.Store

	// Run is an alias for core.Run.
	Run = core.Run

	// RunStatus is an alias for core.RunStatus.
	RunStatus = core.RunStatus
)

// Re-export status constants from core.
const (
	RunStatusRunning   = core.RunStatusRunning
	RunStatusCompleted = core.RunStatusCompleted
	RunStatusFailed    = core.RunStatusFailed
)
