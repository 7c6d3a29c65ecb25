// Package components holds the fragments of the stored-history page.
package components

import (
	"github.com/a-h/templ"

	"github.com/leapstack-labs/histsync/internal/ui/render"
)

// TableID is the region holding the stored-history table.
const TableID = "historial"

// TableURL refreshes the stored-history table.
const TableURL = "/history/table"

func colorStyle(meta render.SourceMeta) templ.SafeCSS {
	return templ.SafeCSS("color: " + meta.Color)
}
