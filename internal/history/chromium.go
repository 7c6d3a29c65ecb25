package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/leapstack-labs/histsync/pkg/core"
)

// chromiumEpochOffset is the number of seconds between 1601-01-01 and the
// Unix epoch. Chromium stores visit times as microseconds since 1601.
const chromiumEpochOffset = 11644473600

// maxUnixSeconds is 3000-01-01; later timestamps are treated as corrupt.
const maxUnixSeconds = 32503680000

var chromiumRequiredColumns = []string{"url", "title", "last_visit_time"}

// readChromium reads recent visits from a copy of a Chromium History file.
// A database whose urls table lacks the expected columns yields no entries.
func (r *Reader) readChromium(ctx context.Context, db *sql.DB) ([]core.HistoryEntry, error) {
	cols, err := tableColumns(ctx, db, "urls")
	if err != nil {
		return nil, err
	}
	for _, c := range chromiumRequiredColumns {
		if !cols[c] {
			r.logger.Warn("urls table is missing required columns", "column", c)
			return []core.HistoryEntry{}, nil
		}
	}

	rows, err := db.QueryContext(ctx,
		`SELECT url, title, last_visit_time FROM urls ORDER BY last_visit_time DESC LIMIT ?`,
		r.chromiumLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query urls: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cutoff := chromiumTimestamp(r.now().Add(-r.lookback))

	entries := []core.HistoryEntry{}
	for rows.Next() {
		var url, title sql.NullString
		var ts sql.NullInt64
		if err := rows.Scan(&url, &title, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan url row: %w", err)
		}
		if !ts.Valid || ts.Int64 <= 0 || ts.Int64 < cutoff {
			continue
		}
		entries = append(entries, core.HistoryEntry{
			URL:       url.String,
			Title:     title.String,
			VisitedAt: formatChromiumTime(ts.Int64),
		})
	}

	return entries, rows.Err()
}

// chromiumTimestamp converts t to microseconds since 1601-01-01 UTC.
func chromiumTimestamp(t time.Time) int64 {
	return (t.Unix()+chromiumEpochOffset)*1_000_000 + int64(t.Nanosecond()/1000)
}

// formatChromiumTime renders a Chromium timestamp in local time, or
// core.UnknownTime when it is out of range.
func formatChromiumTime(ts int64) string {
	if ts <= 0 {
		return core.UnknownTime
	}
	unix := ts/1_000_000 - chromiumEpochOffset
	if unix < 0 || unix > maxUnixSeconds {
		return core.UnknownTime
	}
	return time.Unix(unix, (ts%1_000_000)*1000).Local().Format(core.TimeLayout)
}

func tableColumns(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}
