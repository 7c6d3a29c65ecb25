// Package common provides shared types and helpers for UI features.
package common

import (
	"context"

	"github.com/leapstack-labs/histsync/pkg/core"
)

// HistoryService is the in-process harvest backend the features read from.
type HistoryService interface {
	RunAction(ctx context.Context) (*core.ActionResponse, error)
	Statistics(ctx context.Context) (*core.StatsResponse, error)
	History(ctx context.Context, filter core.HistoryFilter) (*core.HistoryResponse, error)
	Runs(ctx context.Context, limit int) ([]*core.Run, error)
}
