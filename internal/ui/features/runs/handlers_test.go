package runs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/histsync/internal/history"
	"github.com/leapstack-labs/histsync/internal/testutil"
	"github.com/leapstack-labs/histsync/internal/ui/features"
	"github.com/leapstack-labs/histsync/pkg/core"
)

func setupRouter(t *testing.T) (chi.Router, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t)
	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, fixture.Service, fixture.Notifier, testutil.NewTestLogger(t), false))
	return r, fixture
}

func harvest(t *testing.T, fixture *features.TestFixture, results ...history.Result) {
	t.Helper()
	fixture.Reader.Results = results
	_, err := fixture.Service.RunAction(context.Background())
	require.NoError(t, err)
}

func TestRunsPage_Empty(t *testing.T) {
	r, _ := setupRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Ejecuciones · histsync</title>")
	assert.Contains(t, body, `data-init="@get(&#39;/runs/updates&#39;)"`)
	assert.Contains(t, body, "Sin ejecuciones.")
}

func TestRunsPage_ListsRuns(t *testing.T) {
	r, fixture := setupRouter(t)

	harvest(t, fixture, features.Found("chrome", "https://go.dev", "https://pkg.go.dev"))
	fixture.Reader.Err = errors.New("disk unplugged")
	_, err := fixture.Service.RunAction(context.Background())
	require.Error(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 2, strings.Count(body, "<tr data-run="))
	assert.Contains(t, body, `<span class="badge text-bg-success">completed</span>`)
	assert.Contains(t, body, `<span class="badge text-bg-danger">failed</span>`)
	assert.Contains(t, body, "disk unplugged")

	// Newest first.
	assert.Less(t, strings.Index(body, "failed"), strings.Index(body, "completed"))
}

func TestRunsTable_Limit(t *testing.T) {
	r, fixture := setupRouter(t)
	for range 3 {
		harvest(t, fixture, features.Missing("opera"))
	}

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"default", "", 3},
		{"limited", "?limit=2", 2},
		{"invalid falls back", "?limit=abc", 3},
		{"non-positive falls back", "?limit=0", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/table"+tt.query, nil))

			body := rec.Body.String()
			assert.Contains(t, body, "event: datastar-patch-elements")
			assert.Equal(t, tt.want, strings.Count(body, "<tr data-run="))
		})
	}
}

func TestRunsPageUpdates_SendsTableOnBroadcast(t *testing.T) {
	_, fixture := setupRouter(t)
	h := NewHandlers(fixture.Service, fixture.Notifier, nil, false)
	harvest(t, fixture, features.Found("firefox", "https://mozilla.org"))

	req := httptest.NewRequest(http.MethodGet, "/runs/updates", nil)
	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		h.RunsPageUpdates(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return fixture.Notifier.Len() > 0
	}, time.Second, 5*time.Millisecond)
	fixture.Notifier.Broadcast()

	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	assert.Contains(t, body, `id="ejecuciones"`)
	assert.Contains(t, body, "completed")
	assert.Equal(t, 0, fixture.Notifier.Len())
}

func TestHelpers(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		end := start.Add(d)
		return &end
	}

	assert.Equal(t, "250ms", formatRunDuration(start, at(250*time.Millisecond)))
	assert.Equal(t, "1.5s", formatRunDuration(start, at(1500*time.Millisecond)))
	assert.Equal(t, "2m5s", formatRunDuration(start, at(2*time.Minute+5*time.Second)))

	assert.Equal(t, "0123abcd", truncateID("0123abcd-ffff-4000-8000-000000000000"))
	assert.Equal(t, "short", truncateID("short"))

	assert.Equal(t, "text-bg-secondary", runStatusBadgeClass(core.RunStatus("unknown")))
}
