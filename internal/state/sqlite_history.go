package state

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/histsync/pkg/core"
)

const upsertHistorySQL = `
INSERT INTO historial (navegador, url, titulo, fecha, fecha_extraccion)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(navegador, url, fecha)
DO UPDATE SET
    titulo = excluded.titulo,
    fecha_extraccion = excluded.fecha_extraccion`

// SaveHistory upserts the entries read for one browser and returns how many
// rows were written. Entries without a URL or visit date are skipped; a row
// that fails to write is logged and does not abort the batch.
func (s *SQLiteStore) SaveHistory(ctx context.Context, browser string, entries []core.HistoryEntry) (int, error) {
	if s.db == nil {
		return 0, errNotOpened
	}

	valid := make([]core.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.URL == "" || e.VisitedAt == "" {
			continue
		}
		valid = append(valid, e)
	}
	if len(valid) == 0 {
		return 0, nil
	}

	extractedAt := s.now().Format(core.TimeLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertHistorySQL)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare history upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	processed, failed := 0, 0
	for _, e := range valid {
		if _, err := stmt.ExecContext(ctx, browser, e.URL, e.Title, e.VisitedAt, extractedAt); err != nil {
			failed++
			s.logger.Warn("failed to save history entry",
				slog.String("browser", browser),
				slog.String("url", e.URL),
				slog.String("error", err.Error()))
			continue
		}
		processed++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit history for %s: %w", browser, err)
	}

	s.logger.Info("history saved",
		slog.String("browser", browser),
		slog.Int("processed", processed),
		slog.Int("failed", failed))

	return processed, nil
}

// Stats returns the total number of stored entries and the count per browser,
// ordered by browser key.
func (s *SQLiteStore) Stats(ctx context.Context) (*core.AggregateStats, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	stats := &core.AggregateStats{}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM historial`).Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("failed to count history: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT navegador, COUNT(*) FROM historial GROUP BY navegador ORDER BY navegador`)
	if err != nil {
		return nil, fmt.Errorf("failed to count history per browser: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var browser string
		var count int
		if err := rows.Scan(&browser, &count); err != nil {
			return nil, fmt.Errorf("failed to scan browser count: %w", err)
		}
		stats.PerSource.Set(browser, count)
	}

	return stats, rows.Err()
}

// ListHistory returns stored entries, newest visit first.
func (s *SQLiteStore) ListHistory(ctx context.Context, filter core.HistoryFilter) ([]core.HistoryEntry, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = core.DefaultHistoryLimit
	}

	query := `SELECT navegador, url, COALESCE(titulo, ''), fecha, fecha_extraccion FROM historial`
	args := []any{}
	if filter.Browser != "" {
		query += ` WHERE navegador = ?`
		args = append(args, filter.Browser)
	}
	query += ` ORDER BY fecha DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []core.HistoryEntry{}
	for rows.Next() {
		var e core.HistoryEntry
		if err := rows.Scan(&e.Browser, &e.URL, &e.Title, &e.VisitedAt, &e.ExtractedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
