package history

import (
	"sort"
)

// Kind identifies the on-disk history format of a browser.
type Kind int

// History database formats.
const (
	KindChromium Kind = iota
	KindFirefox
)

func (k Kind) String() string {
	switch k {
	case KindChromium:
		return "chromium"
	case KindFirefox:
		return "firefox"
	default:
		return "unknown"
	}
}

// Source describes a browser histsync knows how to read.
type Source struct {
	Key    string
	Kind   Kind
	Locate func(Locator) string
}

var knownSources = map[string]Source{
	"chrome": {
		Key:    "chrome",
		Kind:   KindChromium,
		Locate: func(l Locator) string { return l.Chromium("Chrome", "Google") },
	},
	"edge": {
		Key:    "edge",
		Kind:   KindChromium,
		Locate: func(l Locator) string { return l.Chromium("Edge", "Microsoft") },
	},
	"brave": {
		Key:    "brave",
		Kind:   KindChromium,
		Locate: Locator.Brave,
	},
	"opera": {
		Key:    "opera",
		Kind:   KindChromium,
		Locate: Locator.Opera,
	},
	"firefox": {
		Key:    "firefox",
		Kind:   KindFirefox,
		Locate: Locator.Firefox,
	},
}

// DefaultBrowsers is the harvest order used when none is configured.
var DefaultBrowsers = []string{"chrome", "edge", "firefox", "opera"}

// LookupSource returns the Source registered under key.
func LookupSource(key string) (Source, bool) {
	s, ok := knownSources[key]
	return s, ok
}

// SourceKeys returns every supported browser key, sorted.
func SourceKeys() []string {
	keys := make([]string, 0, len(knownSources))
	for k := range knownSources {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
