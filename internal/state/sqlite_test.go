package state

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/histsync/internal/testutil"
	"github.com/leapstack-labs/histsync/pkg/core"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func entry(url, title, visited string) core.HistoryEntry {
	return core.HistoryEntry{URL: url, Title: title, VisitedAt: visited}
}

func TestSQLiteStore_OpenClose(t *testing.T) {
	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(":memory:"))
	assert.Equal(t, ":memory:", store.Path())
	require.NoError(t, store.Close())
}

func TestSQLiteStore_OpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "historial.db")

	store := NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(path))
	defer func() { _ = store.Close() }()
	require.NoError(t, store.Migrate())

	version, err := store.GetMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore(nil)
	ctx := context.Background()

	_, err := store.SaveHistory(ctx, "chrome", []core.HistoryEntry{entry("https://a", "", "2024-01-01 10:00:00")})
	assert.ErrorIs(t, err, errNotOpened)

	_, err = store.Stats(ctx)
	assert.ErrorIs(t, err, errNotOpened)

	_, err = store.ListHistory(ctx, core.HistoryFilter{})
	assert.ErrorIs(t, err, errNotOpened)

	_, err = store.CreateRun(ctx)
	assert.ErrorIs(t, err, errNotOpened)

	assert.ErrorIs(t, store.Migrate(), errNotOpened)
}

func TestSQLiteStore_SaveHistory(t *testing.T) {
	tests := []struct {
		name      string
		entries   []core.HistoryEntry
		wantSaved int
		wantTotal int
	}{
		{
			name:      "empty batch",
			entries:   nil,
			wantSaved: 0,
			wantTotal: 0,
		},
		{
			name: "skips entries without url or date",
			entries: []core.HistoryEntry{
				entry("https://go.dev", "Go", "2024-05-01 09:00:00"),
				entry("", "no url", "2024-05-01 09:00:00"),
				entry("https://no-date.example", "no date", ""),
			},
			wantSaved: 1,
			wantTotal: 1,
		},
		{
			name: "duplicate visit upserts",
			entries: []core.HistoryEntry{
				entry("https://go.dev", "Go", "2024-05-01 09:00:00"),
				entry("https://go.dev", "Go (updated)", "2024-05-01 09:00:00"),
				entry("https://go.dev", "Go", "2024-05-02 09:00:00"),
			},
			wantSaved: 3,
			wantTotal: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupTestStore(t)
			ctx := context.Background()

			saved, err := store.SaveHistory(ctx, "chrome", tt.entries)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSaved, saved)

			stats, err := store.Stats(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, stats.Total)
		})
	}
}

func TestSQLiteStore_UpsertUpdatesTitleAndExtraction(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	store.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local) }
	_, err := store.SaveHistory(ctx, "firefox", []core.HistoryEntry{entry("https://go.dev", "old", "2024-05-01 09:00:00")})
	require.NoError(t, err)

	store.now = func() time.Time { return time.Date(2024, 5, 2, 12, 0, 0, 0, time.Local) }
	_, err = store.SaveHistory(ctx, "firefox", []core.HistoryEntry{entry("https://go.dev", "new", "2024-05-01 09:00:00")})
	require.NoError(t, err)

	entries, err := store.ListHistory(ctx, core.HistoryFilter{Browser: "firefox"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new", entries[0].Title)
	assert.Equal(t, "2024-05-02 12:00:00", entries[0].ExtractedAt)
	assert.Equal(t, "firefox", entries[0].Browser)
}

func TestSQLiteStore_Stats(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.SaveHistory(ctx, "edge", []core.HistoryEntry{
		entry("https://a", "", "2024-05-01 09:00:00"),
	})
	require.NoError(t, err)
	_, err = store.SaveHistory(ctx, "chrome", []core.HistoryEntry{
		entry("https://a", "", "2024-05-01 09:00:00"),
		entry("https://b", "", "2024-05-01 09:00:01"),
	})
	require.NoError(t, err)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, []string{"chrome", "edge"}, stats.PerSource.Keys())

	chrome, _ := stats.PerSource.Get("chrome")
	edge, _ := stats.PerSource.Get("edge")
	assert.Equal(t, 2, chrome)
	assert.Equal(t, 1, edge)
}

func TestSQLiteStore_ListHistory(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.SaveHistory(ctx, "chrome", []core.HistoryEntry{
		entry("https://old", "old", "2024-01-01 00:00:00"),
		entry("https://new", "new", "2024-03-01 00:00:00"),
		entry("https://mid", "mid", "2024-02-01 00:00:00"),
	})
	require.NoError(t, err)
	_, err = store.SaveHistory(ctx, "opera", []core.HistoryEntry{
		entry("https://opera", "", "2024-04-01 00:00:00"),
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		filter   core.HistoryFilter
		wantURLs []string
	}{
		{
			name:     "all browsers newest first",
			filter:   core.HistoryFilter{},
			wantURLs: []string{"https://opera", "https://new", "https://mid", "https://old"},
		},
		{
			name:     "filtered by browser",
			filter:   core.HistoryFilter{Browser: "chrome"},
			wantURLs: []string{"https://new", "https://mid", "https://old"},
		},
		{
			name:     "limited",
			filter:   core.HistoryFilter{Browser: "chrome", Limit: 2},
			wantURLs: []string{"https://new", "https://mid"},
		},
		{
			name:     "unknown browser",
			filter:   core.HistoryFilter{Browser: "netscape"},
			wantURLs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := store.ListHistory(ctx, tt.filter)
			require.NoError(t, err)

			urls := make([]string, len(entries))
			for i, e := range entries {
				urls[i] = e.URL
			}
			assert.Equal(t, tt.wantURLs, urls)
		})
	}
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	run, err := store.CreateRun(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, RunStatusRunning, run.Status)

	require.NoError(t, store.CompleteRun(ctx, run.ID, RunStatusCompleted, 42, ""))

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, got.Status)
	assert.Equal(t, 42, got.Inserted)
	assert.NotNil(t, got.CompletedAt)
	assert.Empty(t, got.Error)

	failed, err := store.CreateRun(ctx)
	require.NoError(t, err)
	require.NoError(t, store.CompleteRun(ctx, failed.ID, RunStatusFailed, 0, "disk full"))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, failed.ID, runs[0].ID, "newest run first")
	assert.Equal(t, "disk full", runs[0].Error)

	_, err = store.GetRun(ctx, "nonexistent-id")
	assert.Error(t, err)
	assert.Error(t, store.CompleteRun(ctx, "nonexistent-id", RunStatusFailed, 0, ""))
}

func TestSQLiteStore_SaveHistoryCommitFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	store := NewSQLiteStoreWithDB(db, testutil.NewTestLogger(t))

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO historial")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit().WillReturnError(errors.New("disk I/O error"))

	saved, err := store.SaveHistory(context.Background(), "chrome", []core.HistoryEntry{
		entry("https://go.dev", "Go", "2024-05-01 09:00:00"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.Equal(t, 0, saved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_SaveHistoryRowFailureContinues(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	store := NewSQLiteStoreWithDB(db, testutil.NewTestLogger(t))

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO historial")
	prep.ExpectExec().WillReturnError(errors.New("constraint failed"))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	saved, err := store.SaveHistory(context.Background(), "edge", []core.HistoryEntry{
		entry("https://bad", "", "2024-05-01 09:00:00"),
		entry("https://good", "", "2024-05-01 09:00:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, saved)
	assert.NoError(t, mock.ExpectationsWereMet())
}
