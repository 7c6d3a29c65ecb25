package actions

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/histsync/internal/coordinator"
)

// Handlers provides HTTP handlers for the actions feature.
type Handlers struct {
	coord  *coordinator.Coordinator
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(coord *coordinator.Coordinator, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{coord: coord, logger: logger}
}

// RunAction runs one harvest and streams the page updates back. The
// outcome, including failures, reaches the page as patches.
func (h *Handlers) RunAction(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	err := h.coord.RunAction(r.Context(), coordinator.SSEPatcher{SSE: sse})
	switch {
	case err == nil:
	case errors.Is(err, coordinator.ErrBusy):
		h.logger.Debug("action rejected, another is running")
	default:
		h.logger.Warn("action failed", "error", err)
	}
}

// Statistics refreshes the statistics region once.
func (h *Handlers) Statistics(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	if err := h.coord.RefreshStatistics(r.Context(), coordinator.SSEPatcher{SSE: sse}); err != nil {
		h.logger.Warn("statistics refresh failed", "error", err)
		_ = sse.ConsoleError(err)
	}
}
