// Package render holds the presentation data shared by the page and the CLI:
// the browser catalog, trigger labels and color helpers.
package render

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SourceMeta is how a browser is presented on the page.
type SourceMeta struct {
	DisplayName string `koanf:"name" yaml:"name"`
	IconID      string `koanf:"icon" yaml:"icon"`
	Color       string `koanf:"color" yaml:"color"`
}

// IconClass is the Bootstrap Icons class of the source.
func (m SourceMeta) IconClass() string {
	return "bi bi-" + m.IconID
}

// Catalog resolves browser keys to display metadata. Keys it does not know
// resolve to the fallback record.
type Catalog struct {
	sources  map[string]SourceMeta
	fallback SourceMeta
}

// DefaultSources is the built-in presentation of the supported browsers.
func DefaultSources() map[string]SourceMeta {
	return map[string]SourceMeta{
		"chrome":  {DisplayName: "Google Chrome", IconID: "browser-chrome", Color: "#4285F4"},
		"edge":    {DisplayName: "Microsoft Edge", IconID: "browser-edge", Color: "#0078D7"},
		"firefox": {DisplayName: "Mozilla Firefox", IconID: "browser-firefox", Color: "#FF7139"},
		"opera":   {DisplayName: "Opera", IconID: "globe2", Color: "#FF1B2D"},
		"brave":   {DisplayName: "Brave", IconID: "shield-fill", Color: "#FB542B"},
	}
}

// DefaultFallback is used for keys missing from the catalog.
var DefaultFallback = SourceMeta{IconID: "globe", Color: "#6C757D"}

// NewCatalog validates every color and returns a Catalog. Entries with an
// empty icon or color inherit them from the fallback.
func NewCatalog(sources map[string]SourceMeta, fallback SourceMeta) (*Catalog, error) {
	if fallback.IconID == "" {
		fallback.IconID = DefaultFallback.IconID
	}
	if fallback.Color == "" {
		fallback.Color = DefaultFallback.Color
	}
	if _, err := colorful.Hex(fallback.Color); err != nil {
		return nil, fmt.Errorf("invalid fallback color %q: %w", fallback.Color, err)
	}

	c := &Catalog{
		sources:  make(map[string]SourceMeta, len(sources)),
		fallback: fallback,
	}
	for key, meta := range sources {
		if meta.IconID == "" {
			meta.IconID = fallback.IconID
		}
		if meta.Color == "" {
			meta.Color = fallback.Color
		}
		if _, err := colorful.Hex(meta.Color); err != nil {
			return nil, fmt.Errorf("invalid color %q for source %s: %w", meta.Color, key, err)
		}
		c.sources[key] = meta
	}
	return c, nil
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultSources(), DefaultFallback)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the metadata for key. Unknown keys get the fallback record,
// named after the key when the fallback has no name of its own.
func (c *Catalog) Lookup(key string) SourceMeta {
	if meta, ok := c.sources[key]; ok {
		if meta.DisplayName == "" {
			meta.DisplayName = displayName(key)
		}
		return meta
	}
	meta := c.fallback
	if meta.DisplayName == "" {
		meta.DisplayName = displayName(key)
	}
	return meta
}

// Known reports whether key has its own catalog entry.
func (c *Catalog) Known(key string) bool {
	_, ok := c.sources[key]
	return ok
}

func displayName(key string) string {
	name := strings.NewReplacer("_", " ", "-", " ").Replace(key)
	return cases.Title(language.Spanish).String(name)
}

// Tint returns a light background derived from a hex color.
func Tint(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "#F8F9FA"
	}
	white := colorful.Color{R: 1, G: 1, B: 1}
	return c.BlendLab(white, 0.85).Clamped().Hex()
}
