package pages

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/histsync/internal/ui/render"
)

func TestHomePage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HomePage(render.DefaultLabels).Render(context.Background(), &buf))
	html := buf.String()

	assert.Contains(t, html, `<div data-init="@get(&#39;/updates&#39;)">`)
	assert.Contains(t, html, `id="btnLeer"`)
	assert.Contains(t, html, render.DefaultLabels.Idle)
	assert.Contains(t, html, `<div id="alerta"></div>`)
	assert.Contains(t, html, `<div id="resultados" class="results row g-3" hidden></div>`)
	assert.Contains(t, html, `data-init="@get(&#39;/statistics&#39;)"`)
	assert.NotContains(t, html, "disabled")
}
