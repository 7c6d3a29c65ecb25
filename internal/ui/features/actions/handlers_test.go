package actions

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/histsync/internal/history"
	"github.com/leapstack-labs/histsync/internal/testutil"
	"github.com/leapstack-labs/histsync/internal/ui/features"
)

func setupRouter(t *testing.T, visits ...features.TestVisit) (chi.Router, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t, visits...)
	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, fixture.Coordinator, testutil.NewTestLogger(t)))

	return r, fixture
}

func TestRunAction_Success(t *testing.T) {
	r, fixture := setupRouter(t)
	fixture.Reader.Results = []history.Result{
		features.Found("chrome", "https://go.dev", "https://pkg.go.dev"),
		features.Missing("edge"),
		features.Missing("firefox"),
		features.Missing("opera"),
	}

	updates, cancel := fixture.Notifier.Subscribe()
	defer cancel()

	req := httptest.NewRequest(http.MethodPost, "/actions/read", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/event-stream")

	body := rec.Body.String()
	assert.Contains(t, body, "Extrayendo historial de navegadores ...")
	assert.Contains(t, body, "2 insertados")
	assert.Contains(t, body, "2 leídos")
	assert.Equal(t, 3, strings.Count(body, "No disponible"))
	assert.Contains(t, body, "Historial leído y guardado. Total insertados: 2")
	assert.Contains(t, body, `id="estadisticas"`)

	// The final patch re-enables the trigger.
	last := body[strings.LastIndex(body, "event:"):]
	assert.Contains(t, last, `id="btnLeer"`)
	assert.Contains(t, last, "Leer Historial de Navegadores")
	assert.NotContains(t, last, "disabled")

	// Results are patched before statistics.
	assert.Less(t, strings.Index(body, "2 insertados"), strings.Index(body, `id="estadisticas"`))

	select {
	case <-updates:
	default:
		t.Error("expected a broadcast after a successful action")
	}

	stats, err := fixture.Store.Stats(req.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
}

func TestRunAction_Failure(t *testing.T) {
	r, fixture := setupRouter(t)
	fixture.Reader.Err = errors.New("permission denied")

	req := httptest.NewRequest(http.MethodPost, "/actions/read", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, "alert-danger")
	assert.Contains(t, body, "permission denied")
	assert.NotContains(t, body, "insertados")

	last := body[strings.LastIndex(body, "event:"):]
	assert.Contains(t, last, `id="btnLeer"`)
	assert.NotContains(t, last, "disabled")
	assert.False(t, fixture.Coordinator.Busy())
}

func TestStatistics(t *testing.T) {
	r, _ := setupRouter(t,
		features.TestVisit{Browser: "chrome", URL: "https://a"},
		features.TestVisit{Browser: "edge", URL: "https://b"},
		features.TestVisit{Browser: "edge", URL: "https://c"},
	)

	req := httptest.NewRequest(http.MethodGet, "/statistics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Equal(t, 1, strings.Count(body, "event:"))
	assert.Contains(t, body, `id="estadisticas"`)
	assert.Equal(t, 3, strings.Count(body, `class="stat-card`))
	assert.Contains(t, body, "Microsoft Edge")
}

func TestStatistics_StoreClosed(t *testing.T) {
	r, fixture := setupRouter(t)
	require.NoError(t, fixture.Store.Close())

	req := httptest.NewRequest(http.MethodGet, "/statistics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.NotContains(t, body, `id="estadisticas"`)
	assert.Contains(t, body, "console.error")
}
