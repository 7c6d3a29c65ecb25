package history

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/histsync/internal/ui/features/common"
	"github.com/leapstack-labs/histsync/internal/ui/features/history/components"
	"github.com/leapstack-labs/histsync/internal/ui/features/history/pages"
	"github.com/leapstack-labs/histsync/internal/ui/render"
	"github.com/leapstack-labs/histsync/pkg/core"
)

// Handlers provides HTTP handlers for the history feature.
type Handlers struct {
	service      common.HistoryService
	sessionStore sessions.Store
	catalog      *render.Catalog
	browsers     []string
	isDev        bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	service common.HistoryService,
	sessionStore sessions.Store,
	catalog *render.Catalog,
	browsers []string,
	isDev bool,
) *Handlers {
	return &Handlers{
		service:      service,
		sessionStore: sessionStore,
		catalog:      catalog,
		browsers:     browsers,
		isDev:        isDev,
	}
}

// HistoryPage renders the stored history using the remembered filter.
func (h *Handlers) HistoryPage(w http.ResponseWriter, r *http.Request) {
	filter := h.loadFilter(r)

	resp, err := h.service.History(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	common.RenderPage(w, r, "Historial", h.isDev, pages.HistoryPage(h.catalog, pages.View{
		Filter:   filter,
		Browsers: h.browsers,
		Entries:  resp.Entries,
	}))
}

// HistoryTable reads the filter signals, remembers them and patches the
// table.
func (h *Handlers) HistoryTable(w http.ResponseWriter, r *http.Request) {
	var signals pages.Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	filter := h.normalizeFilter(core.HistoryFilter{Browser: signals.Browser, Limit: signals.Limit})
	if err := h.saveFilter(w, r, filter); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)

	resp, err := h.service.History(r.Context(), filter)
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElementTempl(components.HistoryTable(h.catalog, resp.Entries)); err != nil {
		_ = sse.ConsoleError(err)
	}
}
