package pages

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/histsync/internal/ui/render"
	"github.com/leapstack-labs/histsync/pkg/core"
)

func renderPage(t *testing.T, view View) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, HistoryPage(render.DefaultCatalog(), view).Render(context.Background(), &buf))
	return buf.String()
}

func TestHistoryPage(t *testing.T) {
	view := View{
		Filter:   core.HistoryFilter{Browser: "firefox", Limit: 10},
		Browsers: []string{"chrome", "firefox"},
		Entries: []core.HistoryEntry{
			{Browser: "firefox", URL: "https://go.dev", Title: "Go", VisitedAt: "2025-03-10 10:00:00"},
			{Browser: "firefox", URL: "javascript:alert(1)", Title: "bad", VisitedAt: core.UnknownTime},
		},
	}

	html := renderPage(t, view)

	assert.Contains(t, html, `<option value="firefox" selected>Mozilla Firefox</option>`)
	assert.Contains(t, html, `<option value="chrome">Google Chrome</option>`)
	assert.Contains(t, html, `&#34;navegador&#34;:&#34;firefox&#34;`)
	assert.Contains(t, html, `&#34;limite&#34;:10`)
	assert.Contains(t, html, `data-on:click="@get(&#39;/history/table&#39;)"`)
	assert.Contains(t, html, "2 registros")
	assert.Contains(t, html, `href="https://go.dev"`)
	assert.NotContains(t, html, `href="javascript:`)
}

func TestView_Signals(t *testing.T) {
	tests := []struct {
		name   string
		filter core.HistoryFilter
		want   string
	}{
		{name: "defaults", want: `{"navegador":"","limite":100}`},
		{name: "explicit", filter: core.HistoryFilter{Browser: "edge", Limit: 5}, want: `{"navegador":"edge","limite":5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, View{Filter: tt.filter}.signals())
		})
	}
}

func TestHistoryPage_Empty(t *testing.T) {
	html := renderPage(t, View{})
	assert.Contains(t, html, "Sin registros.")
	assert.Contains(t, html, `<option value="">Todos</option>`)
}
