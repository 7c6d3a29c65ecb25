// Package components holds the fragments of the runs page.
package components

// TableID is the region holding the harvest runs table.
const TableID = "ejecuciones"

// UpdatesURL is the long-lived stream of the runs page.
const UpdatesURL = "/runs/updates"

// RunRow is one harvest run as shown on the runs page.
type RunRow struct {
	ID         string
	Status     string
	BadgeClass string
	Inserted   int
	StartedAt  string
	Duration   string
	Error      string
}
