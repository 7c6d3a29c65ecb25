// Package pages holds the stored-history page.
package pages

import (
	"encoding/json"

	"github.com/leapstack-labs/histsync/pkg/core"
)

// View is the data of the stored-history page.
type View struct {
	Filter   core.HistoryFilter
	Browsers []string
	Entries  []core.HistoryEntry
}

// Signals are the datastar signals of the history filter form.
type Signals struct {
	Browser string `json:"navegador"`
	Limit   int    `json:"limite"`
}

// signals seeds the filter form from the current filter.
func (v View) signals() string {
	limit := v.Filter.Limit
	if limit <= 0 {
		limit = core.DefaultHistoryLimit
	}
	b, _ := json.Marshal(Signals{Browser: v.Filter.Browser, Limit: limit})
	return string(b)
}
