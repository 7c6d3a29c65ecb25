// Package harvest reads browser history and persists it to the state store.
//
// Service is the in-process backend of the page coordinator and the JSON
// API. It produces the same payloads a remote histsync returns over HTTP.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/histsync/internal/history"
	"github.com/leapstack-labs/histsync/pkg/core"
)

// HistoryReader reads every configured browser.
type HistoryReader interface {
	ReadAll(ctx context.Context) ([]history.Result, error)
}

// Service runs harvests against a store.
type Service struct {
	reader HistoryReader
	store  core.Store
	logger *slog.Logger
}

// New creates a harvest Service.
func New(reader HistoryReader, store core.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		reader: reader,
		store:  store,
		logger: logger,
	}
}

// SuccessMessage is the message of a completed harvest.
func SuccessMessage(totalInserted int) string {
	return fmt.Sprintf("Historial leído y guardado. Total insertados: %d", totalInserted)
}

// RunAction reads all browsers, saves what was found and returns the
// per-browser summary in read order. Every call is recorded as a run.
func (s *Service) RunAction(ctx context.Context) (*core.ActionResponse, error) {
	s.logger.Info("starting harvest")

	run, err := s.store.CreateRun(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	s.logger.Debug("created run", "run_id", run.ID)

	summary, total, runErr := s.harvest(ctx)
	if runErr != nil {
		s.logger.Error("harvest failed", "run_id", run.ID, "error", runErr)
		if err := s.store.CompleteRun(ctx, run.ID, core.RunStatusFailed, total, runErr.Error()); err != nil {
			s.logger.Warn("failed to record run", "run_id", run.ID, "error", err)
		}
		return nil, runErr
	}

	if err := s.store.CompleteRun(ctx, run.ID, core.RunStatusCompleted, total, ""); err != nil {
		s.logger.Warn("failed to record run", "run_id", run.ID, "error", err)
	}
	s.logger.Info("harvest completed", "run_id", run.ID, "inserted", total)

	return &core.ActionResponse{
		Success:       true,
		Message:       SuccessMessage(total),
		Summary:       summary,
		TotalInserted: total,
		RunID:         run.ID,
	}, nil
}

func (s *Service) harvest(ctx context.Context) (*core.ResultSummary, int, error) {
	results, err := s.reader.ReadAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read history: %w", err)
	}

	summary := core.NewOrderedMap[core.SourceResult]()
	total := 0
	var errs []error

	for _, res := range results {
		sr := core.SourceResult{Found: res.Found}
		if res.Err != nil {
			sr.Error = res.Err.Error()
		}

		if res.Found && len(res.Entries) > 0 {
			inserted, err := s.store.SaveHistory(ctx, res.Browser, res.Entries)
			if err != nil {
				errs = append(errs, fmt.Errorf("failed to save %s history: %w", res.Browser, err))
				sr.Error = err.Error()
			}
			sr.ReadCount = len(res.Entries)
			sr.InsertedCount = inserted
			total += inserted
		}

		summary.Set(res.Browser, sr)
	}

	return summary, total, errors.Join(errs...)
}

// Statistics returns the aggregate counts of stored history.
func (s *Service) Statistics(ctx context.Context) (*core.StatsResponse, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}
	return &core.StatsResponse{Success: true, Stats: stats}, nil
}

// History lists stored entries matching filter.
func (s *Service) History(ctx context.Context, filter core.HistoryFilter) (*core.HistoryResponse, error) {
	entries, err := s.store.ListHistory(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	if entries == nil {
		entries = []core.HistoryEntry{}
	}
	return &core.HistoryResponse{
		Success: true,
		Entries: entries,
		Count:   len(entries),
	}, nil
}

// Runs lists the most recent harvest runs.
func (s *Service) Runs(ctx context.Context, limit int) ([]*core.Run, error) {
	runs, err := s.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
