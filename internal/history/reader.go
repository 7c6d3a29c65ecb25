// Package history locates and reads local browser history databases.
//
// Browsers keep their history files locked while running, so every read
// works on a temporary copy of the database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/leapstack-labs/histsync/pkg/core"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Defaults for Options.
const (
	DefaultLookback      = 30 * 24 * time.Hour
	DefaultChromiumLimit = 3000
	DefaultFirefoxLimit  = 2000
)

// Options configures a Reader.
type Options struct {
	Browsers      []string
	Lookback      time.Duration
	ChromiumLimit int
	FirefoxLimit  int
	Locator       *Locator
	TempDir       string
	Now           func() time.Time
	Logger        *slog.Logger
}

// Result is the outcome of reading one browser.
type Result struct {
	Browser string
	Found   bool
	Path    string
	Entries []core.HistoryEntry
	Err     error
}

// Reader reads history from a fixed, ordered set of browsers.
type Reader struct {
	sources       []Source
	lookback      time.Duration
	chromiumLimit int
	firefoxLimit  int
	locator       Locator
	tempDir       string
	now           func() time.Time
	logger        *slog.Logger
}

// NewReader validates opts and returns a Reader.
func NewReader(opts Options) (*Reader, error) {
	keys := opts.Browsers
	if len(keys) == 0 {
		keys = DefaultBrowsers
	}

	seen := make(map[string]bool, len(keys))
	sources := make([]Source, 0, len(keys))
	for _, k := range keys {
		src, ok := LookupSource(k)
		if !ok {
			return nil, fmt.Errorf("unknown browser %q (supported: %v)", k, SourceKeys())
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		sources = append(sources, src)
	}

	r := &Reader{
		sources:       sources,
		lookback:      opts.Lookback,
		chromiumLimit: opts.ChromiumLimit,
		firefoxLimit:  opts.FirefoxLimit,
		tempDir:       opts.TempDir,
		now:           opts.Now,
		logger:        opts.Logger,
	}
	if r.lookback <= 0 {
		r.lookback = DefaultLookback
	}
	if r.chromiumLimit <= 0 {
		r.chromiumLimit = DefaultChromiumLimit
	}
	if r.firefoxLimit <= 0 {
		r.firefoxLimit = DefaultFirefoxLimit
	}
	if opts.Locator != nil {
		r.locator = *opts.Locator
	} else {
		r.locator = DefaultLocator()
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r, nil
}

// Browsers returns the configured browser keys in read order.
func (r *Reader) Browsers() []string {
	keys := make([]string, len(r.sources))
	for i, s := range r.sources {
		keys[i] = s.Key
	}
	return keys
}

// ReadAll reads every configured browser in order. A failure in one browser
// is recorded in its Result and does not stop the others.
func (r *Reader) ReadAll(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, len(r.sources))
	for _, src := range r.sources {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, r.Read(ctx, src))
	}
	return results, nil
}

// Read reads a single browser.
func (r *Reader) Read(ctx context.Context, src Source) Result {
	res := Result{Browser: src.Key}

	path := src.Locate(r.locator)
	if path == "" {
		r.logger.Debug("history database not found", "browser", src.Key)
		return res
	}
	res.Found = true
	res.Path = path

	entries, err := r.readFile(ctx, src, path)
	if err != nil {
		r.logger.Warn("failed to read history", "browser", src.Key, "path", path, "error", err)
		res.Err = err
		res.Entries = []core.HistoryEntry{}
		return res
	}
	for i := range entries {
		entries[i].Browser = src.Key
	}
	res.Entries = entries

	r.logger.Debug("read history", "browser", src.Key, "entries", len(entries))
	return res
}

func (r *Reader) readFile(ctx context.Context, src Source, path string) ([]core.HistoryEntry, error) {
	tmp, err := copyToTemp(path, r.tempDir, src.Key)
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.Remove(tmp) }()

	db, err := sql.Open("sqlite", tmp)
	if err != nil {
		return nil, fmt.Errorf("failed to open history copy: %w", err)
	}
	defer func() { _ = db.Close() }()

	switch src.Kind {
	case KindFirefox:
		return r.readFirefox(ctx, db)
	default:
		return r.readChromium(ctx, db)
	}
}

func copyToTemp(path, dir, prefix string) (string, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open history database: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.CreateTemp(dir, "histsync-"+prefix+"-*.sqlite")
	if err != nil {
		return "", fmt.Errorf("failed to create temp copy: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(out.Name())
		return "", fmt.Errorf("failed to copy history database: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(out.Name())
		return "", fmt.Errorf("failed to copy history database: %w", err)
	}
	return out.Name(), nil
}
