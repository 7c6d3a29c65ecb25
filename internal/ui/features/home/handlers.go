package home

import (
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/histsync/internal/coordinator"
	"github.com/leapstack-labs/histsync/internal/ui/features/common"
	"github.com/leapstack-labs/histsync/internal/ui/features/home/pages"
	"github.com/leapstack-labs/histsync/internal/ui/notifier"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	coord    *coordinator.Coordinator
	notifier *notifier.Notifier
	logger   *slog.Logger
	isDev    bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(coord *coordinator.Coordinator, notify *notifier.Notifier, logger *slog.Logger, isDev bool) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		coord:    coord,
		notifier: notify,
		logger:   logger,
		isDev:    isDev,
	}
}

// HomePage renders the harvest page. Statistics load through the page's
// own request once it initializes.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	common.RenderPage(w, r, "Inicio", h.isDev, pages.HomePage(h.coord.Labels()))
}

// HomePageUpdates is the long-lived SSE endpoint of the harvest page. Each
// broadcast refreshes the statistics region; nothing is sent up front.
func (h *Handlers) HomePageUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	patcher := coordinator.SSEPatcher{SSE: sse}

	updates, cancel := h.notifier.Subscribe()
	defer cancel()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := h.coord.RefreshStatistics(ctx, patcher); err != nil {
				h.logger.Debug("statistics update failed", "error", err)
				_ = sse.ConsoleError(err)
			}
		}
	}
}
