// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/histsync/internal/coordinator"
	"github.com/leapstack-labs/histsync/internal/harvest"
	"github.com/leapstack-labs/histsync/internal/history"
	"github.com/leapstack-labs/histsync/internal/state"
	"github.com/leapstack-labs/histsync/internal/testutil"
	"github.com/leapstack-labs/histsync/internal/ui/features/home/components"
	"github.com/leapstack-labs/histsync/internal/ui/notifier"
	"github.com/leapstack-labs/histsync/internal/ui/render"
	"github.com/leapstack-labs/histsync/pkg/core"
)

// TestVisit is a helper to create history entries with minimal boilerplate.
type TestVisit struct {
	Browser string
	URL     string
	Title   string
	Date    string
}

// StaticReader is a history reader that returns fixed results.
type StaticReader struct {
	Results []history.Result
	Err     error
	// Gate, when set, holds every read until it is closed.
	Gate chan struct{}

	calls atomic.Int32
}

// ReadAll returns the fixed results.
func (r *StaticReader) ReadAll(context.Context) ([]history.Result, error) {
	r.calls.Add(1)
	if r.Gate != nil {
		<-r.Gate
	}
	return r.Results, r.Err
}

// Calls returns how many reads have started.
func (r *StaticReader) Calls() int {
	return int(r.calls.Load())
}

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Store        *state.SQLiteStore
	Reader       *StaticReader
	Service      *harvest.Service
	Coordinator  *coordinator.Coordinator
	Catalog      *render.Catalog
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
}

// SetupTestFixture creates an in-memory store holding visits, a harvest
// service whose reader returns nothing until Reader.Results is set, and a
// coordinator wired to both.
func SetupTestFixture(t *testing.T, visits ...TestVisit) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)

	store := state.NewSQLiteStore(logger)
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })

	byBrowser := make(map[string][]core.HistoryEntry)
	var order []string
	for _, v := range visits {
		if _, ok := byBrowser[v.Browser]; !ok {
			order = append(order, v.Browser)
		}
		date := v.Date
		if date == "" {
			date = "2025-03-10 10:00:00"
		}
		byBrowser[v.Browser] = append(byBrowser[v.Browser], core.HistoryEntry{
			Browser:   v.Browser,
			URL:       v.URL,
			Title:     v.Title,
			VisitedAt: date,
		})
	}
	for _, b := range order {
		_, err := store.SaveHistory(context.Background(), b, byBrowser[b])
		require.NoError(t, err)
	}

	reader := &StaticReader{}
	service := harvest.New(reader, store, logger)
	catalog := render.DefaultCatalog()
	notify := notifier.New()

	coord := coordinator.New(coordinator.Config{
		Backend:  service,
		Results:  components.NewResultsRenderer(catalog),
		Stats:    components.NewStatsRenderer(catalog),
		Labels:   render.DefaultLabels,
		Notifier: notify,
		Logger:   logger,
	})

	return &TestFixture{
		Store:        store,
		Reader:       reader,
		Service:      service,
		Coordinator:  coord,
		Catalog:      catalog,
		Notifier:     notify,
		SessionStore: sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!")),
	}
}

// Found is a history.Result for a browser with the given entries.
func Found(browser string, urls ...string) history.Result {
	entries := make([]core.HistoryEntry, len(urls))
	for i, u := range urls {
		entries[i] = core.HistoryEntry{Browser: browser, URL: u, Title: u, VisitedAt: "2025-03-11 09:00:00"}
	}
	return history.Result{Browser: browser, Found: true, Entries: entries}
}

// Missing is a history.Result for a browser that is not installed.
func Missing(browser string) history.Result {
	return history.Result{Browser: browser}
}
