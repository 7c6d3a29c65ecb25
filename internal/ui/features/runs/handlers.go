package runs

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/histsync/internal/ui/features/common"
	"github.com/leapstack-labs/histsync/internal/ui/features/runs/components"
	"github.com/leapstack-labs/histsync/internal/ui/features/runs/pages"
	"github.com/leapstack-labs/histsync/internal/ui/notifier"
)

// DefaultLimit is the number of runs shown when no limit is asked for.
const DefaultLimit = 50

// Handlers provides HTTP handlers for the runs feature.
type Handlers struct {
	service  common.HistoryService
	notifier *notifier.Notifier
	logger   *slog.Logger
	isDev    bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service common.HistoryService, notify *notifier.Notifier, logger *slog.Logger, isDev bool) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		service:  service,
		notifier: notify,
		logger:   logger,
		isDev:    isDev,
	}
}

// RunsPage renders the runs page with the most recent runs.
func (h *Handlers) RunsPage(w http.ResponseWriter, r *http.Request) {
	rows, err := h.rows(r.Context(), DefaultLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	common.RenderPage(w, r, "Ejecuciones", h.isDev, pages.RunsPage(rows))
}

// RunsPageUpdates is the long-lived SSE endpoint of the runs page. Each
// broadcast re-renders the table; the initial state comes with the page.
func (h *Handlers) RunsPageUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates, cancel := h.notifier.Subscribe()
	defer cancel()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := h.sendTable(ctx, sse, DefaultLimit); err != nil {
				h.logger.Debug("runs update failed", "error", err)
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// RunsTable patches the table once. A positive limit query parameter
// overrides the default.
func (h *Handlers) RunsTable(w http.ResponseWriter, r *http.Request) {
	limit := DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	sse := datastar.NewSSE(w, r)
	if err := h.sendTable(r.Context(), sse, limit); err != nil {
		_ = sse.ConsoleError(err)
	}
}

func (h *Handlers) sendTable(ctx context.Context, sse *datastar.ServerSentEventGenerator, limit int) error {
	rows, err := h.rows(ctx, limit)
	if err != nil {
		return err
	}
	return sse.PatchElementTempl(components.RunsTable(rows))
}

func (h *Handlers) rows(ctx context.Context, limit int) ([]components.RunRow, error) {
	runs, err := h.service.Runs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	rows := make([]components.RunRow, len(runs))
	for i, run := range runs {
		rows[i] = toRow(run)
	}
	return rows, nil
}
