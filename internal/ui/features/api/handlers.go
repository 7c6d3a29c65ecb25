package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/leapstack-labs/histsync/internal/coordinator"
	"github.com/leapstack-labs/histsync/internal/ui/features/common"
	"github.com/leapstack-labs/histsync/pkg/core"
)

// HistoryPath lists stored visits.
const HistoryPath = "/api/historial"

// Guard admits one harvest at a time, shared with the page action.
type Guard interface {
	TryAcquire() bool
	Release()
}

// Broadcaster tells open pages that stored data changed.
type Broadcaster interface {
	Broadcast()
}

// Handlers provides HTTP handlers for the api feature.
type Handlers struct {
	service  common.HistoryService
	guard    Guard
	limiter  *rate.Limiter
	notifier Broadcaster
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service common.HistoryService, guard Guard, limiter *rate.Limiter, notifier Broadcaster, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{service: service, guard: guard, limiter: limiter, notifier: notifier, logger: logger}
}

// RunAction reads every browser and stores the history. A request made while
// another harvest runs, from the page or the API, is answered 409.
func (h *Handlers) RunAction(w http.ResponseWriter, r *http.Request) {
	if !h.guard.TryAcquire() {
		common.WriteFailure(w, http.StatusConflict, coordinator.BusyNotice)
		return
	}
	defer h.guard.Release()

	if !h.limiter.Allow() {
		common.WriteFailure(w, http.StatusTooManyRequests, "Demasiadas solicitudes, espere antes de volver a leer el historial")
		return
	}

	resp, err := h.service.RunAction(r.Context())
	if err != nil {
		h.logger.Error("harvest failed", "error", err)
		common.WriteFailure(w, http.StatusInternalServerError, coordinator.FailurePrefix+err.Error())
		return
	}
	if resp.Success && h.notifier != nil {
		h.notifier.Broadcast()
	}
	common.WriteJSON(w, http.StatusOK, resp)
}

// Statistics returns the aggregate counts.
func (h *Handlers) Statistics(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Statistics(r.Context())
	if err != nil {
		h.logger.Error("statistics failed", "error", err)
		common.WriteFailure(w, http.StatusInternalServerError, "Error al obtener estadísticas: "+err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, resp)
}

// History returns stored visits filtered by the navegador and limite query
// parameters.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := core.HistoryFilter{
		Browser: q.Get("navegador"),
		Limit:   core.DefaultHistoryLimit,
	}
	if raw := q.Get("limite"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			common.WriteFailure(w, http.StatusBadRequest, "Parámetro limite inválido: "+raw)
			return
		}
		filter.Limit = n
	}

	resp, err := h.service.History(r.Context(), filter)
	if err != nil {
		h.logger.Error("history listing failed", "error", err)
		common.WriteFailure(w, http.StatusInternalServerError, "Error al obtener historial: "+err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, resp)
}
