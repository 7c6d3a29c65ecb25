package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/histsync/internal/testutil"
	"github.com/leapstack-labs/histsync/pkg/core"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithLogger(testutil.NewTestLogger(t)))
}

func TestRunAction_Success(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, ActionPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, int64(0), r.ContentLength)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"mensaje":"ok","resumen":{"firefox":{"encontrado":false,"total_leidos":0,"insertados":0},"chrome":{"encontrado":true,"total_leidos":50,"insertados":12}},"total_insertados":12}`))
	})

	resp, err := c.RunAction(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 12, resp.TotalInserted)
	assert.Equal(t, []string{"firefox", "chrome"}, resp.Summary.Keys())

	chrome, ok := resp.Summary.Get("chrome")
	require.True(t, ok)
	assert.Equal(t, core.SourceResult{Found: true, ReadCount: 50, InsertedCount: 12}, chrome)
}

func TestRunAction_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{
			name:    "success false",
			status:  http.StatusOK,
			body:    `{"success":false,"mensaje":"sin permisos"}`,
			wantErr: core.ErrActionFailed,
			wantMsg: "sin permisos",
		},
		{
			name:    "server error with message",
			status:  http.StatusInternalServerError,
			body:    `{"success":false,"mensaje":"Error al leer historial: disco lleno"}`,
			wantErr: core.ErrTransport,
			wantMsg: "disco lleno",
		},
		{
			name:    "server error without body",
			status:  http.StatusBadGateway,
			wantErr: core.ErrTransport,
			wantMsg: "502",
		},
		{
			name:    "not json",
			status:  http.StatusOK,
			body:    `<html>oops</html>`,
			wantErr: core.ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.RunAction(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestRunAction_RemoteMessage(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"success":false,"mensaje":"Ya hay una lectura en curso"}`))
	})

	_, err := c.RunAction(context.Background())
	require.Error(t, err)

	var remote *core.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "409 Conflict", remote.Status)
	assert.Equal(t, "Ya hay una lectura en curso", remote.Message)
	assert.ErrorIs(t, err, core.ErrTransport)
}

func TestRunAction_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).RunAction(context.Background())
	assert.ErrorIs(t, err, core.ErrTransport)
}

func TestStatistics(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, StatisticsPath, r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"estadisticas":{"total":500,"por_navegador":{"chrome":300,"firefox":200}}}`))
	})

	resp, err := c.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 500, resp.Stats.Total)
	assert.Equal(t, []string{"chrome", "firefox"}, resp.Stats.PerSource.Keys())
}

func TestStatistics_MissingPayload(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	_, err := c.Statistics(context.Background())
	assert.ErrorIs(t, err, core.ErrMalformedResponse)
}
