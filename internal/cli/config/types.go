// Package config provides configuration management for the histsync CLI.
//
// Values are layered with koanf: built-in defaults, then histsync.yaml, then
// HISTSYNC_ environment variables, then explicitly set command-line flags.
package config

import (
	"time"

	"github.com/leapstack-labs/histsync/internal/history"
	"github.com/leapstack-labs/histsync/internal/ui/render"
)

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port          int    `koanf:"port" yaml:"port"`
	AutoOpen      bool   `koanf:"auto_open" yaml:"auto_open"`
	Watch         bool   `koanf:"watch" yaml:"watch"`
	Dev           bool   `koanf:"dev" yaml:"dev"`
	SessionSecret string `koanf:"session_secret" yaml:"session_secret"`
	// BackendURL points the page at a remote histsync. Empty runs the
	// harvest in-process.
	BackendURL string `koanf:"backend_url" yaml:"backend_url"`
	IdleLabel  string `koanf:"idle_label" yaml:"idle_label"`
	BusyLabel  string `koanf:"busy_label" yaml:"busy_label"`
}

// ReaderConfig selects which browsers are read and how much.
type ReaderConfig struct {
	Browsers      []string      `koanf:"browsers" yaml:"browsers"`
	Lookback      time.Duration `koanf:"lookback" yaml:"lookback"`
	ChromiumLimit int           `koanf:"chromium_limit" yaml:"chromium_limit"`
	FirefoxLimit  int           `koanf:"firefox_limit" yaml:"firefox_limit"`
	// Home overrides the home directory profiles are looked up in.
	Home string `koanf:"home" yaml:"home,omitempty"`
}

// ActionConfig throttles the JSON harvest endpoint.
type ActionConfig struct {
	MinInterval time.Duration `koanf:"min_interval" yaml:"min_interval"`
}

// Config holds all CLI configuration options.
type Config struct {
	StatePath    string                       `koanf:"state_path" yaml:"state_path"`
	Verbose      bool                         `koanf:"verbose" yaml:"verbose"`
	OutputFormat string                       `koanf:"output" yaml:"output"`
	UI           UIConfig                     `koanf:"ui" yaml:"ui"`
	Reader       ReaderConfig                 `koanf:"reader" yaml:"reader"`
	Action       ActionConfig                 `koanf:"action" yaml:"action"`
	Sources      map[string]render.SourceMeta `koanf:"sources" yaml:"sources"`
}

// Default configuration values.
const (
	DefaultStateFile   = ".histsync/historial.db"
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultPort        = 5000
	DefaultMinInterval = 2 * time.Second
	ConfigFileName     = "histsync.yaml"
)

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		StatePath:    DefaultStateFile,
		OutputFormat: DefaultOutput,
		UI: UIConfig{
			Port:      DefaultPort,
			Watch:     true,
			IdleLabel: render.DefaultLabels.Idle,
			BusyLabel: render.DefaultLabels.Busy,
		},
		Reader: ReaderConfig{
			Browsers:      append([]string(nil), history.DefaultBrowsers...),
			Lookback:      history.DefaultLookback,
			ChromiumLimit: history.DefaultChromiumLimit,
			FirefoxLimit:  history.DefaultFirefoxLimit,
		},
		Action: ActionConfig{
			MinInterval: DefaultMinInterval,
		},
		Sources: render.DefaultSources(),
	}
}

// Labels returns the trigger labels, falling back to the defaults.
func (c *Config) Labels() render.Labels {
	labels := render.Labels{Idle: c.UI.IdleLabel, Busy: c.UI.BusyLabel}
	if labels.Idle == "" {
		labels.Idle = render.DefaultLabels.Idle
	}
	if labels.Busy == "" {
		labels.Busy = render.DefaultLabels.Busy
	}
	return labels
}

// Catalog builds the source catalog. Configured entries replace the
// built-in ones key by key.
func (c *Config) Catalog() (*render.Catalog, error) {
	sources := render.DefaultSources()
	for key, meta := range c.Sources {
		if base, ok := sources[key]; ok {
			if meta.DisplayName == "" {
				meta.DisplayName = base.DisplayName
			}
			if meta.IconID == "" {
				meta.IconID = base.IconID
			}
			if meta.Color == "" {
				meta.Color = base.Color
			}
		}
		sources[key] = meta
	}
	return render.NewCatalog(sources, render.DefaultFallback)
}

// ReaderOptions converts the reader section into history.Options.
func (c *Config) ReaderOptions() history.Options {
	opts := history.Options{
		Browsers:      c.Reader.Browsers,
		Lookback:      c.Reader.Lookback,
		ChromiumLimit: c.Reader.ChromiumLimit,
		FirefoxLimit:  c.Reader.FirefoxLimit,
	}
	if c.Reader.Home != "" {
		loc := history.DefaultLocator()
		loc.Home = c.Reader.Home
		opts.Locator = &loc
	}
	return opts
}
