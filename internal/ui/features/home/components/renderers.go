// Package components holds the fragments of the harvest page. Every fragment
// carries the id of the region it replaces when patched over SSE.
package components

import (
	"fmt"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/histsync/internal/ui/render"
	"github.com/leapstack-labs/histsync/pkg/core"
)

// Region ids on the home page.
const (
	TriggerID     = "btnLeer"
	TriggerTextID = "btnText"
	ResultsID     = "resultados"
	StatsID       = "estadisticas"
	AlertID       = "alerta"
)

// Endpoints the page fragments call back into.
const (
	ActionURL     = "/actions/read"
	StatisticsURL = "/statistics"
	UpdatesURL    = "/updates"
)

// AlertKind selects the styling of a notice.
type AlertKind string

// Alert kinds.
const (
	AlertSuccess AlertKind = "success"
	AlertWarning AlertKind = "warning"
	AlertError   AlertKind = "danger"
)

// ResultsRenderer renders a ResultSummary as one card per browser.
type ResultsRenderer struct {
	catalog *render.Catalog
}

// NewResultsRenderer creates a ResultsRenderer.
func NewResultsRenderer(catalog *render.Catalog) *ResultsRenderer {
	return &ResultsRenderer{catalog: catalog}
}

// Render returns the results region for summary.
func (r *ResultsRenderer) Render(summary *core.ResultSummary) templ.Component {
	return Results(r.catalog, summary)
}

// StatsRenderer renders AggregateStats as a total card plus one card per
// browser.
type StatsRenderer struct {
	catalog *render.Catalog
}

// NewStatsRenderer creates a StatsRenderer.
func NewStatsRenderer(catalog *render.Catalog) *StatsRenderer {
	return &StatsRenderer{catalog: catalog}
}

// Render returns the statistics region for stats.
func (r *StatsRenderer) Render(stats *core.AggregateStats) templ.Component {
	return Stats(r.catalog, stats)
}

func cardState(found bool) string {
	if found {
		return "found"
	}
	return "missing"
}

// Catalog colors are validated hex values, so they are safe to inline.

func borderStyle(meta render.SourceMeta) templ.SafeCSS {
	return templ.SafeCSS("border-color: " + meta.Color)
}

func colorStyle(meta render.SourceMeta) templ.SafeCSS {
	return templ.SafeCSS("color: " + meta.Color)
}

func statStyle(meta render.SourceMeta) templ.SafeCSS {
	return templ.SafeCSS(fmt.Sprintf("border-color: %s; background-color: %s", meta.Color, render.Tint(meta.Color)))
}
