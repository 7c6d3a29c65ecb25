package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"

	"github.com/leapstack-labs/histsync/internal/history"
)

// OutputModes are the accepted values of the output setting.
var OutputModes = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.StatePath == "" {
		errs = append(errs, errors.New("state_path is required"))
	}
	if c.OutputFormat != "" && !slices.Contains(OutputModes, c.OutputFormat) {
		errs = append(errs, fmt.Errorf("output must be one of %v, got %q", OutputModes, c.OutputFormat))
	}
	if c.UI.Port < 0 || c.UI.Port > 65535 {
		errs = append(errs, fmt.Errorf("ui.port out of range: %d", c.UI.Port))
	}
	if c.UI.BackendURL != "" {
		u, err := url.Parse(c.UI.BackendURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("ui.backend_url must be an http(s) URL, got %q", c.UI.BackendURL))
		}
	}
	for _, b := range c.Reader.Browsers {
		if _, ok := history.LookupSource(b); !ok {
			errs = append(errs, fmt.Errorf("reader.browsers: unknown browser %q (supported: %v)", b, history.SourceKeys()))
		}
	}
	if c.Reader.Lookback < 0 {
		errs = append(errs, fmt.Errorf("reader.lookback must not be negative, got %s", c.Reader.Lookback))
	}
	if c.Action.MinInterval < 0 {
		errs = append(errs, fmt.Errorf("action.min_interval must not be negative, got %s", c.Action.MinInterval))
	}
	if _, err := c.Catalog(); err != nil {
		errs = append(errs, fmt.Errorf("sources: %w", err))
	}

	return errors.Join(errs...)
}
