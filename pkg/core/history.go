package core

// TimeLayout is the layout used for visit and extraction timestamps.
const TimeLayout = "2006-01-02 15:04:05"

// UnknownTime is stored when a browser timestamp cannot be converted.
const UnknownTime = "N/A"

// HistoryEntry is one visited URL read from a browser profile.
type HistoryEntry struct {
	Browser     string `json:"navegador"`
	URL         string `json:"url"`
	Title       string `json:"titulo"`
	VisitedAt   string `json:"fecha"`
	ExtractedAt string `json:"fecha_extraccion,omitempty"`
}

// SourceResult is the outcome of one harvest for a single browser.
// InsertedCount and ReadCount are only meaningful when Found is true.
type SourceResult struct {
	Found         bool   `json:"encontrado"`
	ReadCount     int    `json:"total_leidos"`
	InsertedCount int    `json:"insertados"`
	Error         string `json:"error,omitempty"`
}

// ResultSummary maps a browser key to its SourceResult, in emission order.
type ResultSummary = OrderedMap[SourceResult]

// SourceCounts maps a browser key to the number of stored entries.
type SourceCounts = OrderedMap[int]

// AggregateStats is the total-plus-per-browser count of stored entries.
type AggregateStats struct {
	Total     int          `json:"total"`
	PerSource SourceCounts `json:"por_navegador"`
}

// HistoryFilter selects stored entries.
type HistoryFilter struct {
	Browser string
	Limit   int
}

// DefaultHistoryLimit is used when a filter carries no limit.
const DefaultHistoryLimit = 100

// ActionResponse is the payload of the harvest action endpoint.
type ActionResponse struct {
	Success       bool           `json:"success"`
	Message       string         `json:"mensaje,omitempty"`
	Summary       *ResultSummary `json:"resumen,omitempty"`
	TotalInserted int            `json:"total_insertados"`
	RunID         string         `json:"run_id,omitempty"`
}

// StatsResponse is the payload of the statistics endpoint.
type StatsResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"mensaje,omitempty"`
	Stats   *AggregateStats `json:"estadisticas,omitempty"`
}

// HistoryResponse is the payload of the history listing endpoint.
type HistoryResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"mensaje,omitempty"`
	Entries []HistoryEntry `json:"historial"`
	Count   int            `json:"cantidad"`
}
