package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/leapstack-labs/histsync/pkg/core"
)

// readFirefox reads recent visits from a copy of places.sqlite.
// Firefox stores visit dates as microseconds since the Unix epoch.
func (r *Reader) readFirefox(ctx context.Context, db *sql.DB) ([]core.HistoryEntry, error) {
	cutoff := r.now().Add(-r.lookback).UnixMicro()

	rows, err := db.QueryContext(ctx, `
		SELECT p.url, p.title, hv.visit_date
		FROM moz_places p
		JOIN moz_historyvisits hv ON p.id = hv.place_id
		WHERE hv.visit_date >= ?
		ORDER BY hv.visit_date DESC
		LIMIT ?`, cutoff, r.firefoxLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query moz_places: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []core.HistoryEntry{}
	for rows.Next() {
		var url, title sql.NullString
		var visit sql.NullInt64
		if err := rows.Scan(&url, &title, &visit); err != nil {
			return nil, fmt.Errorf("failed to scan visit row: %w", err)
		}
		if !visit.Valid || visit.Int64 == 0 {
			continue
		}
		entries = append(entries, core.HistoryEntry{
			URL:       url.String,
			Title:     title.String,
			VisitedAt: formatFirefoxTime(visit.Int64),
		})
	}

	return entries, rows.Err()
}

func formatFirefoxTime(us int64) string {
	secs := us / 1_000_000
	if secs < 0 || secs > maxUnixSeconds {
		return core.UnknownTime
	}
	return time.UnixMicro(us).Local().Format(core.TimeLayout)
}
