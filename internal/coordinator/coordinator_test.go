package coordinator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/histsync/internal/testutil"
	"github.com/leapstack-labs/histsync/internal/ui/features/home/components"
	"github.com/leapstack-labs/histsync/internal/ui/render"
	"github.com/leapstack-labs/histsync/pkg/core"
)

// eventLog records backend calls and patches in the order they happen.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

type recordPatcher struct {
	log *eventLog
	mu  sync.Mutex
	out []string
}

func (p *recordPatcher) Patch(c templ.Component) error {
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		return err
	}
	html := buf.String()
	p.mu.Lock()
	p.out = append(p.out, html)
	p.mu.Unlock()
	if p.log != nil {
		p.log.add("patch " + regionOf(html))
	}
	return nil
}

func (p *recordPatcher) patches() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.out...)
}

func (p *recordPatcher) last() string {
	all := p.patches()
	if len(all) == 0 {
		return ""
	}
	return all[len(all)-1]
}

func regionOf(html string) string {
	for _, id := range []string{components.TriggerID, components.ResultsID, components.StatsID, components.AlertID} {
		if strings.Contains(html, `id="`+id+`"`) {
			return id
		}
	}
	return "?"
}

type fakeBackend struct {
	log       *eventLog
	action    func(ctx context.Context) (*core.ActionResponse, error)
	stats     func(ctx context.Context) (*core.StatsResponse, error)
	statCalls int
	mu        sync.Mutex
}

func (b *fakeBackend) RunAction(ctx context.Context) (*core.ActionResponse, error) {
	b.log.add("action start")
	resp, err := b.action(ctx)
	b.log.add("action done")
	return resp, err
}

func (b *fakeBackend) Statistics(ctx context.Context) (*core.StatsResponse, error) {
	b.mu.Lock()
	b.statCalls++
	b.mu.Unlock()
	b.log.add("stats")
	if b.stats == nil {
		return okStats(), nil
	}
	return b.stats(ctx)
}

type countingNotifier struct{ n int }

func (c *countingNotifier) Broadcast() { c.n++ }

func okStats() *core.StatsResponse {
	stats := &core.AggregateStats{Total: 500}
	stats.PerSource.Set("chrome", 300)
	stats.PerSource.Set("edge", 200)
	return &core.StatsResponse{Success: true, Stats: stats}
}

func okAction() *core.ActionResponse {
	summary := core.NewOrderedMap[core.SourceResult]()
	summary.Set("chrome", core.SourceResult{Found: true, InsertedCount: 12, ReadCount: 50})
	summary.Set("opera", core.SourceResult{Found: false})
	return &core.ActionResponse{
		Success:       true,
		Message:       "Historial leído y guardado. Total insertados: 12",
		Summary:       summary,
		TotalInserted: 12,
	}
}

type harness struct {
	coord    *Coordinator
	backend  *fakeBackend
	patcher  *recordPatcher
	log      *eventLog
	notifier *countingNotifier
}

func newHarness(t *testing.T, action func(ctx context.Context) (*core.ActionResponse, error)) *harness {
	t.Helper()
	log := &eventLog{}
	backend := &fakeBackend{log: log, action: action}
	notifier := &countingNotifier{}
	catalog := render.DefaultCatalog()
	coord := New(Config{
		Backend:  backend,
		Results:  components.NewResultsRenderer(catalog),
		Stats:    components.NewStatsRenderer(catalog),
		Notifier: notifier,
		Logger:   testutil.NewTestLogger(t),
	})
	return &harness{
		coord:    coord,
		backend:  backend,
		patcher:  &recordPatcher{log: log},
		log:      log,
		notifier: notifier,
	}
}

func assertTriggerIdle(t *testing.T, h *harness) {
	t.Helper()
	last := h.patcher.last()
	assert.Contains(t, last, `id="btnLeer"`)
	assert.Contains(t, last, render.DefaultLabels.Idle)
	assert.NotContains(t, last, "disabled")
	assert.False(t, h.coord.Busy())
}

func TestRunAction_Success(t *testing.T) {
	h := newHarness(t, func(context.Context) (*core.ActionResponse, error) {
		return okAction(), nil
	})

	require.NoError(t, h.coord.RunAction(context.Background(), h.patcher))

	assert.Equal(t, []string{
		"patch btnLeer",
		"patch resultados",
		"patch alerta",
		"action start",
		"action done",
		"patch resultados",
		"stats",
		"patch estadisticas",
		"patch alerta",
		"patch btnLeer",
	}, h.log.all())

	patches := h.patcher.patches()
	assert.Contains(t, patches[0], "disabled")
	assert.Contains(t, patches[0], render.DefaultLabels.Busy)
	assert.Contains(t, patches[1], "hidden")

	results := patches[3]
	assert.Equal(t, 2, strings.Count(results, `class="result-card`))
	assert.Contains(t, results, "12 insertados")
	assert.Contains(t, results, "50 leídos")
	assert.Contains(t, results, "No disponible")

	stats := patches[4]
	assert.Equal(t, 3, strings.Count(stats, `class="stat-card`))
	assert.Contains(t, stats, ">500</div>")

	assert.Contains(t, patches[5], "alert-success")
	assert.Contains(t, patches[5], "Total insertados: 12")

	assertTriggerIdle(t, h)
	assert.Equal(t, 1, h.notifier.n)
	assert.Equal(t, 1, h.backend.statCalls)
}

func TestRunAction_Failures(t *testing.T) {
	tests := []struct {
		name       string
		resp       *core.ActionResponse
		err        error
		wantErr    error
		wantNotice string
	}{
		{
			name:       "backend reports failure",
			resp:       &core.ActionResponse{Success: false, Message: "Error al leer historial: permiso denegado"},
			wantErr:    core.ErrActionFailed,
			wantNotice: "permiso denegado",
		},
		{
			name:       "client reports failure",
			resp:       &core.ActionResponse{Success: false},
			err:        fmt.Errorf("%w: ", core.ErrActionFailed),
			wantErr:    core.ErrActionFailed,
			wantNotice: FailurePrefix,
		},
		{
			name:       "transport failure",
			err:        fmt.Errorf("%w: connection refused", core.ErrTransport),
			wantErr:    core.ErrTransport,
			wantNotice: TransportNotice,
		},
		{
			name:       "backend answered with an error status",
			err:        &core.RemoteError{Status: "500 Internal Server Error", Message: "Error al leer historial: disco lleno"},
			wantErr:    core.ErrTransport,
			wantNotice: "Error al leer historial: disco lleno",
		},
		{
			name:       "error status without message",
			err:        &core.RemoteError{Status: "502 Bad Gateway"},
			wantErr:    core.ErrTransport,
			wantNotice: TransportNotice,
		},
		{
			name:       "malformed response",
			err:        fmt.Errorf("%w: invalid character '<'", core.ErrMalformedResponse),
			wantErr:    core.ErrMalformedResponse,
			wantNotice: MalformedNotice,
		},
		{
			name:       "nil response",
			wantErr:    core.ErrMalformedResponse,
			wantNotice: MalformedNotice,
		},
		{
			name:       "in-process error",
			err:        errors.New("disk full"),
			wantNotice: FailurePrefix + "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, func(context.Context) (*core.ActionResponse, error) {
				return tt.resp, tt.err
			})

			err := h.coord.RunAction(context.Background(), h.patcher)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			events := h.log.all()
			assert.NotContains(t, events, "stats")
			assert.Equal(t, []string{
				"patch btnLeer",
				"patch resultados",
				"patch alerta",
				"action start",
				"action done",
				"patch alerta",
				"patch btnLeer",
			}, events)

			patches := h.patcher.patches()
			notice := patches[len(patches)-2]
			assert.Contains(t, notice, "alert-danger")
			assert.Contains(t, notice, templ.EscapeString(tt.wantNotice))

			assertTriggerIdle(t, h)
			assert.Zero(t, h.notifier.n)
		})
	}
}

func TestRunAction_PanicRestoresTrigger(t *testing.T) {
	h := newHarness(t, func(context.Context) (*core.ActionResponse, error) {
		panic("boom")
	})

	err := h.coord.RunAction(context.Background(), h.patcher)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	patches := h.patcher.patches()
	assert.Contains(t, patches[len(patches)-2], UnexpectedNotice)
	assertTriggerIdle(t, h)

	// The coordinator accepts new work afterwards.
	h.backend.action = func(context.Context) (*core.ActionResponse, error) { return okAction(), nil }
	assert.NoError(t, h.coord.RunAction(context.Background(), h.patcher))
}

func TestRunAction_RejectsOverlap(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	h := newHarness(t, func(context.Context) (*core.ActionResponse, error) {
		close(started)
		<-release
		return okAction(), nil
	})

	done := make(chan error, 1)
	go func() {
		done <- h.coord.RunAction(context.Background(), h.patcher)
	}()
	<-started
	assert.True(t, h.coord.Busy())

	second := &recordPatcher{}
	err := h.coord.RunAction(context.Background(), second)
	assert.ErrorIs(t, err, ErrBusy)
	require.Len(t, second.patches(), 1)
	assert.Contains(t, second.patches()[0], `id="alerta"`)
	assert.Contains(t, second.patches()[0], "alert-warning")

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("first action did not finish")
	}

	assertTriggerIdle(t, h)
	assert.Equal(t, 1, strings.Count(strings.Join(h.log.all(), ","), "action start"))
}

func TestRunAction_IgnoresRequestCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var backendErr error
	h := newHarness(t, func(ctx context.Context) (*core.ActionResponse, error) {
		cancel()
		backendErr = ctx.Err()
		return okAction(), nil
	})

	require.NoError(t, h.coord.RunAction(ctx, h.patcher))
	assert.NoError(t, backendErr)
	assertTriggerIdle(t, h)
}

func TestRunAction_StatisticsFailureKeepsResults(t *testing.T) {
	h := newHarness(t, func(context.Context) (*core.ActionResponse, error) {
		return okAction(), nil
	})
	h.backend.stats = func(context.Context) (*core.StatsResponse, error) {
		return nil, fmt.Errorf("%w: timeout", core.ErrTransport)
	}

	require.NoError(t, h.coord.RunAction(context.Background(), h.patcher))

	events := h.log.all()
	assert.NotContains(t, events, "patch estadisticas")
	assert.Contains(t, events, "stats")
	assertTriggerIdle(t, h)
}

func TestRefreshStatistics(t *testing.T) {
	tests := []struct {
		name      string
		resp      *core.StatsResponse
		err       error
		wantErr   error
		wantPatch bool
	}{
		{name: "ok", resp: okStats(), wantPatch: true},
		{name: "transport", err: core.ErrTransport, wantErr: core.ErrTransport},
		{name: "missing payload", resp: &core.StatsResponse{Success: true}, wantErr: core.ErrMalformedResponse},
		{name: "success false", resp: &core.StatsResponse{Success: false, Stats: &core.AggregateStats{}}, wantErr: core.ErrActionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			h.backend.stats = func(context.Context) (*core.StatsResponse, error) { return tt.resp, tt.err }

			err := h.coord.RefreshStatistics(context.Background(), h.patcher)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantPatch, len(h.patcher.patches()) == 1)
		})
	}
}

func TestRefreshStatistics_Idempotent(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.coord.RefreshStatistics(context.Background(), h.patcher))
	require.NoError(t, h.coord.RefreshStatistics(context.Background(), h.patcher))

	patches := h.patcher.patches()
	require.Len(t, patches, 2)
	assert.Equal(t, patches[0], patches[1])
}

func TestNew_DefaultLabels(t *testing.T) {
	c := New(Config{Labels: render.Labels{Idle: "Leer"}})
	assert.Equal(t, "Leer", c.Labels().Idle)
	assert.Equal(t, render.DefaultLabels.Busy, c.Labels().Busy)
}
