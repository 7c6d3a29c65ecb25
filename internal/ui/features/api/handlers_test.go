package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/histsync/internal/client"
	"github.com/leapstack-labs/histsync/internal/coordinator"
	"github.com/leapstack-labs/histsync/internal/history"
	"github.com/leapstack-labs/histsync/internal/testutil"
	"github.com/leapstack-labs/histsync/internal/ui/features"
	"github.com/leapstack-labs/histsync/pkg/core"
)

func setupServer(t *testing.T, minInterval time.Duration, visits ...features.TestVisit) (*httptest.Server, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t, visits...)
	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, fixture.Service, fixture.Coordinator, fixture.Notifier, minInterval, testutil.NewTestLogger(t)))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, fixture
}

func TestRunAction_WireFormat(t *testing.T) {
	srv, fixture := setupServer(t, 0)
	fixture.Reader.Results = []history.Result{
		features.Found("chrome", "https://a", "https://b", "https://c"),
		features.Missing("edge"),
		features.Found("firefox"),
		features.Missing("opera"),
	}

	res, err := http.Post(srv.URL+"/api/leer-historial", "application/json", nil)
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()

	assert.Equal(t, http.StatusOK, res.StatusCode)

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(res.Body).Decode(&raw))
	assert.JSONEq(t, `true`, string(raw["success"]))
	assert.JSONEq(t, `3`, string(raw["total_insertados"]))
	assert.JSONEq(t, `"Historial leído y guardado. Total insertados: 3"`, string(raw["mensaje"]))
	assert.JSONEq(t, `{
		"chrome": {"encontrado": true, "total_leidos": 3, "insertados": 3},
		"edge": {"encontrado": false, "total_leidos": 0, "insertados": 0},
		"firefox": {"encontrado": true, "total_leidos": 0, "insertados": 0},
		"opera": {"encontrado": false, "total_leidos": 0, "insertados": 0}
	}`, string(raw["resumen"]))
	assert.NotEmpty(t, raw["run_id"])
}

func TestRunAction_ThroughClient(t *testing.T) {
	srv, fixture := setupServer(t, 0)
	fixture.Reader.Results = []history.Result{
		features.Missing("opera"),
		features.Found("edge", "https://x"),
	}

	c := client.New(srv.URL)

	resp, err := c.RunAction(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"opera", "edge"}, resp.Summary.Keys())

	stats, err := c.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Stats.Total)
}

func TestRunAction_Failure(t *testing.T) {
	srv, fixture := setupServer(t, 0)
	fixture.Reader.Err = errors.New("access denied")

	_, err := client.New(srv.URL).RunAction(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTransport)
	assert.Contains(t, err.Error(), "Error al leer historial")
	assert.Contains(t, err.Error(), "access denied")
}

func TestRunAction_RateLimited(t *testing.T) {
	srv, _ := setupServer(t, time.Hour)

	first, err := http.Post(srv.URL+"/api/leer-historial", "application/json", nil)
	require.NoError(t, err)
	_ = first.Body.Close()
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second, err := http.Post(srv.URL+"/api/leer-historial", "application/json", nil)
	require.NoError(t, err)
	defer func() { _ = second.Body.Close() }()
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(second.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
}

type discardPatcher struct{}

func (discardPatcher) Patch(templ.Component) error { return nil }

func postAction(t *testing.T, srv *httptest.Server) (int, core.ActionResponse) {
	t.Helper()
	res, err := http.Post(srv.URL+"/api/leer-historial", "application/json", nil)
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()

	var body core.ActionResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return res.StatusCode, body
}

func TestRunAction_WaitsForPageAction(t *testing.T) {
	srv, fixture := setupServer(t, 0)
	fixture.Reader.Results = []history.Result{features.Found("chrome", "https://a")}
	fixture.Reader.Gate = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		done <- fixture.Coordinator.RunAction(context.Background(), discardPatcher{})
	}()
	require.Eventually(t, func() bool { return fixture.Reader.Calls() == 1 }, 2*time.Second, 5*time.Millisecond)
	require.True(t, fixture.Coordinator.Busy())

	status, body := postAction(t, srv)
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, body.Success)
	assert.Equal(t, coordinator.BusyNotice, body.Message)
	assert.Equal(t, 1, fixture.Reader.Calls(), "a second harvest must not start")

	close(fixture.Reader.Gate)
	require.NoError(t, <-done)
	assert.False(t, fixture.Coordinator.Busy())

	status, body = postAction(t, srv)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.Success)
	assert.Equal(t, 2, fixture.Reader.Calls())
}

func TestRunAction_BlocksPageAction(t *testing.T) {
	srv, fixture := setupServer(t, 0)
	fixture.Reader.Results = []history.Result{features.Found("edge", "https://x")}
	fixture.Reader.Gate = make(chan struct{})

	type result struct {
		status int
		body   core.ActionResponse
	}
	done := make(chan result, 1)
	go func() {
		status, body := postAction(t, srv)
		done <- result{status, body}
	}()
	require.Eventually(t, func() bool { return fixture.Reader.Calls() == 1 }, 2*time.Second, 5*time.Millisecond)

	err := fixture.Coordinator.RunAction(context.Background(), discardPatcher{})
	assert.ErrorIs(t, err, coordinator.ErrBusy)

	close(fixture.Reader.Gate)
	got := <-done
	assert.Equal(t, http.StatusOK, got.status)
	assert.Equal(t, 1, got.body.TotalInserted)
	assert.Equal(t, 1, fixture.Reader.Calls())
	assert.False(t, fixture.Coordinator.Busy())
}

func TestRunAction_BroadcastsOnSuccess(t *testing.T) {
	srv, fixture := setupServer(t, 0)
	fixture.Reader.Results = []history.Result{features.Found("firefox", "https://a")}

	updates, cancel := fixture.Notifier.Subscribe()
	defer cancel()

	status, _ := postAction(t, srv)
	require.Equal(t, http.StatusOK, status)

	select {
	case <-updates:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a broadcast after the harvest")
	}
}

func TestRunAction_FailureDoesNotBroadcast(t *testing.T) {
	srv, fixture := setupServer(t, 0)
	fixture.Reader.Err = errors.New("locked")

	updates, cancel := fixture.Notifier.Subscribe()
	defer cancel()

	status, body := postAction(t, srv)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.False(t, body.Success)
	assert.Contains(t, body.Message, "locked")
	assert.Empty(t, updates)
	assert.False(t, fixture.Coordinator.Busy())
}

func TestStatistics_WireFormat(t *testing.T) {
	srv, _ := setupServer(t, 0,
		features.TestVisit{Browser: "firefox", URL: "https://a"},
		features.TestVisit{Browser: "chrome", URL: "https://b"},
		features.TestVisit{Browser: "chrome", URL: "https://c"},
	)

	res, err := http.Get(srv.URL + "/api/estadisticas")
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(res.Body).Decode(&raw))
	assert.JSONEq(t, `{"total": 3, "por_navegador": {"chrome": 2, "firefox": 1}}`, string(raw["estadisticas"]))
}

func TestHistory(t *testing.T) {
	srv, _ := setupServer(t, 0,
		features.TestVisit{Browser: "firefox", URL: "https://a", Date: "2025-03-01 10:00:00"},
		features.TestVisit{Browser: "chrome", URL: "https://b", Date: "2025-03-02 10:00:00"},
		features.TestVisit{Browser: "chrome", URL: "https://c", Date: "2025-03-03 10:00:00"},
	)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantURLs   []string
	}{
		{name: "all", query: "", wantStatus: http.StatusOK, wantURLs: []string{"https://c", "https://b", "https://a"}},
		{name: "by browser", query: "?navegador=chrome", wantStatus: http.StatusOK, wantURLs: []string{"https://c", "https://b"}},
		{name: "limit", query: "?limite=1", wantStatus: http.StatusOK, wantURLs: []string{"https://c"}},
		{name: "no match", query: "?navegador=opera", wantStatus: http.StatusOK, wantURLs: []string{}},
		{name: "bad limit", query: "?limite=abc", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := http.Get(srv.URL + "/api/historial" + tt.query)
			require.NoError(t, err)
			defer func() { _ = res.Body.Close() }()

			assert.Equal(t, tt.wantStatus, res.StatusCode)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp core.HistoryResponse
			require.NoError(t, json.NewDecoder(res.Body).Decode(&resp))
			assert.True(t, resp.Success)
			assert.Equal(t, len(tt.wantURLs), resp.Count)
			urls := make([]string, 0, len(resp.Entries))
			for _, e := range resp.Entries {
				urls = append(urls, e.URL)
			}
			assert.Equal(t, tt.wantURLs, urls)
		})
	}
}
