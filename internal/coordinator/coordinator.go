// Package coordinator drives the harvest action from the page: it owns the
// trigger state, calls the backend, and keeps the results and statistics
// regions in step with each other.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/histsync/internal/ui/features/home/components"
	"github.com/leapstack-labs/histsync/internal/ui/render"
	"github.com/leapstack-labs/histsync/pkg/core"
)

// ErrBusy is returned when an action is requested while another is running.
var ErrBusy = errors.New("an action is already running")

// Notices shown in the alert region.
const (
	BusyNotice       = "Ya hay una lectura de historial en curso. Espere a que termine."
	TransportNotice  = "No se pudo conectar con el servidor."
	MalformedNotice  = "El servidor devolvió una respuesta inválida."
	FailurePrefix    = "Error al leer historial: "
	UnexpectedNotice = "Error inesperado al leer historial."
)

// Backend performs the harvest and reports statistics.
type Backend interface {
	RunAction(ctx context.Context) (*core.ActionResponse, error)
	Statistics(ctx context.Context) (*core.StatsResponse, error)
}

// Patcher replaces page regions with rendered fragments.
type Patcher interface {
	Patch(c templ.Component) error
}

// ResultRenderer renders a harvest summary.
type ResultRenderer interface {
	Render(summary *core.ResultSummary) templ.Component
}

// StatsRenderer renders aggregate statistics.
type StatsRenderer interface {
	Render(stats *core.AggregateStats) templ.Component
}

// Broadcaster tells other open pages that stored data changed.
type Broadcaster interface {
	Broadcast()
}

// Config holds the collaborators of a Coordinator.
type Config struct {
	Backend  Backend
	Results  ResultRenderer
	Stats    StatsRenderer
	Labels   render.Labels
	Notifier Broadcaster
	Logger   *slog.Logger
}

// Coordinator runs at most one action at a time, process-wide.
type Coordinator struct {
	backend  Backend
	results  ResultRenderer
	stats    StatsRenderer
	labels   render.Labels
	notifier Broadcaster
	logger   *slog.Logger

	inFlight atomic.Bool
}

// New creates a Coordinator.
func New(cfg Config) *Coordinator {
	c := &Coordinator{
		backend:  cfg.Backend,
		results:  cfg.Results,
		stats:    cfg.Stats,
		labels:   cfg.Labels,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
	}
	if c.labels.Idle == "" {
		c.labels.Idle = render.DefaultLabels.Idle
	}
	if c.labels.Busy == "" {
		c.labels.Busy = render.DefaultLabels.Busy
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Busy reports whether an action is running.
func (c *Coordinator) Busy() bool {
	return c.inFlight.Load()
}

// TryAcquire claims the action slot for a harvest started outside the page,
// such as the JSON API. It reports false while another harvest runs. A
// successful claim must be paired with Release.
func (c *Coordinator) TryAcquire() bool {
	return c.inFlight.CompareAndSwap(false, true)
}

// Release frees the action slot.
func (c *Coordinator) Release() {
	c.inFlight.Store(false)
}

// Labels returns the trigger texts.
func (c *Coordinator) Labels() render.Labels {
	return c.labels
}

// RunAction runs one harvest and patches its outcome through p.
//
// The trigger is disabled for the duration and is re-enabled on every exit
// path, panics included. The backend call ignores cancellation of ctx so a
// harvest that started always completes. On success the results are
// rendered before the statistics are fetched.
func (c *Coordinator) RunAction(ctx context.Context, p Patcher) (err error) {
	if !c.TryAcquire() {
		c.patch(p, components.Alert(components.AlertWarning, BusyNotice))
		return ErrBusy
	}

	defer func() {
		rec := recover()
		if rec != nil {
			c.logger.Error("action panicked", "panic", rec)
			c.patch(p, components.Alert(components.AlertError, UnexpectedNotice))
			err = fmt.Errorf("action panicked: %v", rec)
		}
		c.patch(p, components.Trigger(c.labels, false))
		c.Release()
	}()

	c.patch(p, components.Trigger(c.labels, true))
	c.patch(p, components.ClearedResults())
	c.patch(p, components.EmptyAlert())

	c.logger.Debug("running action")
	resp, err := c.backend.RunAction(context.WithoutCancel(ctx))
	if err == nil {
		err = checkAction(resp)
	}
	if err != nil {
		c.logger.Warn("action failed", "error", err)
		c.patch(p, components.Alert(components.AlertError, failureNotice(resp, err)))
		return err
	}

	c.patch(p, c.results.Render(resp.Summary))

	if err := c.RefreshStatistics(ctx, p); err != nil {
		c.logger.Warn("statistics refresh after action failed", "error", err)
	}

	c.patch(p, components.Alert(components.AlertSuccess, resp.Message))

	if c.notifier != nil {
		c.notifier.Broadcast()
	}

	c.logger.Info("action completed", "inserted", resp.TotalInserted, "run_id", resp.RunID)
	return nil
}

// RefreshStatistics fetches statistics once and replaces the statistics
// region. On failure the region is left as it was.
func (c *Coordinator) RefreshStatistics(ctx context.Context, p Patcher) error {
	resp, err := c.backend.Statistics(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch statistics: %w", err)
	}
	if resp == nil || resp.Stats == nil {
		return fmt.Errorf("failed to fetch statistics: %w", core.ErrMalformedResponse)
	}
	if !resp.Success {
		return fmt.Errorf("failed to fetch statistics: %w: %s", core.ErrActionFailed, resp.Message)
	}
	return p.Patch(c.stats.Render(resp.Stats))
}

func (c *Coordinator) patch(p Patcher, comp templ.Component) {
	if err := p.Patch(comp); err != nil {
		c.logger.Debug("patch failed", "error", err)
	}
}

func checkAction(resp *core.ActionResponse) error {
	if resp == nil {
		return core.ErrMalformedResponse
	}
	if !resp.Success {
		return fmt.Errorf("%w: %s", core.ErrActionFailed, resp.Message)
	}
	return nil
}

func failureNotice(resp *core.ActionResponse, err error) string {
	switch {
	case errors.Is(err, core.ErrActionFailed):
		if resp != nil && resp.Message != "" {
			return resp.Message
		}
		return FailurePrefix + "el servidor no pudo completar la lectura."
	case errors.Is(err, core.ErrMalformedResponse):
		return MalformedNotice
	case errors.Is(err, core.ErrTransport):
		var remote *core.RemoteError
		if errors.As(err, &remote) && remote.Message != "" {
			return remote.Message
		}
		return TransportNotice
	default:
		return FailurePrefix + err.Error()
	}
}
