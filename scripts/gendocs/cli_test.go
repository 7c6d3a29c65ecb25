package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCLIDocs(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "cli")
	require.NoError(t, generateCLIDocs(outDir))

	index, err := os.ReadFile(filepath.Join(outDir, "index.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(index), "---\ntitle: \"CLI Reference\""))
	assert.Contains(t, string(index), generatedHeader)
	assert.Contains(t, string(index), "[`read`](/cli/read)")
	assert.Contains(t, string(index), "HISTSYNC_UI_PORT")
	assert.Contains(t, string(index), "`--config`")

	for _, name := range []string{"serve", "read", "stats", "history", "runs", "init", "version", "completion"} {
		assert.FileExists(t, filepath.Join(outDir, name+".md"))
	}

	history, err := os.ReadFile(filepath.Join(outDir, "history.md"))
	require.NoError(t, err)
	assert.Contains(t, string(history), "histsync history")
	assert.Contains(t, string(history), "`historial`")
	assert.Contains(t, string(history), "`--browser`")
	assert.Contains(t, string(history), "## Examples")
}

func TestCleanExample(t *testing.T) {
	in := "  # Run once\n  histsync read\n\n    indented"
	assert.Equal(t, "# Run once\nhistsync read\n\n  indented", cleanExample(in))
}

func TestMarkdownWriter(t *testing.T) {
	w := NewMarkdownWriter()
	w.Header(0, "Title")
	w.Table([]string{"A", "B"}, nil)
	w.Table([]string{"A", "B"}, [][]string{{"1", "x"}})
	w.BulletList([]string{"one"})

	out := w.String()
	assert.Contains(t, out, "# Title\n")
	assert.Equal(t, 1, strings.Count(out, "| A | B |"))
	assert.Contains(t, out, "- one\n")
	assert.Equal(t, "too many spaces", cleanDescription("too   many\n spaces"))
}
