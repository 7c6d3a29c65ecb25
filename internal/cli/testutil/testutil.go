// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite" // register "sqlite" driver

	"github.com/leapstack-labs/histsync/internal/cli/output"
)

// Visit is one row written into a fake Chrome profile.
type Visit struct {
	URL   string
	Title string
	Ago   time.Duration
}

// chromeHistoryPath is where the locator looks for Chrome in home.
func chromeHistoryPath(t *testing.T, home string) string {
	t.Helper()
	switch runtime.GOOS {
	case "linux":
		return filepath.Join(home, ".config", "google-chrome", "Default", "History")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Google", "Chrome", "Default", "History")
	default:
		t.Skipf("no home-relative Chrome profile on %s", runtime.GOOS)
		return ""
	}
}

// SetupTestHome creates a temporary home directory holding a Chrome profile
// with the given visits and a histsync.yaml that reads only Chrome from it.
// It returns the project directory containing the config file.
func SetupTestHome(t *testing.T, visits ...Visit) string {
	t.Helper()

	dir := t.TempDir()
	home := filepath.Join(dir, "home")
	path := chromeHistoryPath(t, home)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create profile directory: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open history: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(`CREATE TABLE urls (id INTEGER PRIMARY KEY, url TEXT, title TEXT, last_visit_time INTEGER)`); err != nil {
		t.Fatalf("failed to create urls table: %v", err)
	}
	for _, v := range visits {
		ts := (time.Now().Add(-v.Ago).Unix() + 11644473600) * 1_000_000
		if _, err := db.Exec(`INSERT INTO urls (url, title, last_visit_time) VALUES (?, ?, ?)`, v.URL, v.Title, ts); err != nil {
			t.Fatalf("failed to insert visit: %v", err)
		}
	}

	cfg := `state_path: state/historial.db
reader:
  browsers: [chrome]
  home: home
`
	if err := os.WriteFile(filepath.Join(dir, "histsync.yaml"), []byte(cfg), 0644); err != nil {
		t.Fatalf("failed to write histsync.yaml: %v", err)
	}

	return dir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode without a terminal.
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown checks that headers have content and code fences are balanced.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if n := strings.Count(md, "```"); n%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", n)
	}

	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
