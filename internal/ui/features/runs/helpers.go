package runs

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/leapstack-labs/histsync/internal/ui/features/runs/components"
	"github.com/leapstack-labs/histsync/pkg/core"
)

func toRow(run *core.Run) components.RunRow {
	return components.RunRow{
		ID:         truncateID(run.ID),
		Status:     string(run.Status),
		BadgeClass: runStatusBadgeClass(run.Status),
		Inserted:   run.Inserted,
		StartedAt:  humanize.Time(run.StartedAt),
		Duration:   formatRunDuration(run.StartedAt, run.CompletedAt),
		Error:      run.Error,
	}
}

func runStatusBadgeClass(status core.RunStatus) string {
	switch status {
	case core.RunStatusCompleted:
		return "text-bg-success"
	case core.RunStatusRunning:
		return "text-bg-info"
	case core.RunStatusFailed:
		return "text-bg-danger"
	default:
		return "text-bg-secondary"
	}
}

func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatRunDuration formats the time between start and end. A run still
// going is measured up to now.
func formatRunDuration(start time.Time, end *time.Time) string {
	var d time.Duration
	if end != nil {
		d = end.Sub(start)
	} else {
		d = time.Since(start)
	}

	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}
