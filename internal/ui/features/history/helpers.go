package history

import (
	"net/http"

	"github.com/leapstack-labs/histsync/pkg/core"
)

const (
	sessionName = "histsync"
	browserKey  = "history_browser"
	limitKey    = "history_limit"
	maxLimit    = 5000
)

// normalizeFilter clamps the limit and drops browsers that are not offered.
func (h *Handlers) normalizeFilter(f core.HistoryFilter) core.HistoryFilter {
	if f.Limit <= 0 {
		f.Limit = core.DefaultHistoryLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Browser != "" && !h.offered(f.Browser) {
		f.Browser = ""
	}
	return f
}

func (h *Handlers) offered(browser string) bool {
	for _, b := range h.browsers {
		if b == browser {
			return true
		}
	}
	return false
}

// loadFilter returns the filter remembered in the session, or the default.
func (h *Handlers) loadFilter(r *http.Request) core.HistoryFilter {
	var f core.HistoryFilter
	session, err := h.sessionStore.Get(r, sessionName)
	if err != nil {
		return h.normalizeFilter(f)
	}
	if v, ok := session.Values[browserKey].(string); ok {
		f.Browser = v
	}
	if v, ok := session.Values[limitKey].(int); ok {
		f.Limit = v
	}
	return h.normalizeFilter(f)
}

// saveFilter remembers f in the session. It must run before the response
// headers are written.
func (h *Handlers) saveFilter(w http.ResponseWriter, r *http.Request, f core.HistoryFilter) error {
	session, _ := h.sessionStore.Get(r, sessionName)
	session.Values[browserKey] = f.Browser
	session.Values[limitKey] = f.Limit
	return session.Save(r, w)
}
