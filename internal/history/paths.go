package history

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Locator finds browser history databases for one operating system and
// home directory.
type Locator struct {
	GOOS   string
	Home   string
	Getenv func(string) string
}

// DefaultLocator returns a Locator for the running process.
func DefaultLocator() Locator {
	home, _ := os.UserHomeDir()
	return Locator{
		GOOS:   runtime.GOOS,
		Home:   home,
		Getenv: os.Getenv,
	}
}

func (l Locator) env(key string) string {
	if l.Getenv == nil {
		return ""
	}
	return l.Getenv(key)
}

// chromiumProfiles lists the profile directories searched, in order.
func chromiumProfiles() []string {
	profiles := []string{"Default"}
	for i := 0; i < 10; i++ {
		profiles = append(profiles, "Profile "+strconv.Itoa(i))
	}
	return profiles
}

// Chromium returns the History file of the first profile found for a
// Chromium-based browser, or "" when none exists.
func (l Locator) Chromium(app, vendor string) string {
	var base string
	switch l.GOOS {
	case "windows":
		base = filepath.Join(l.env("LOCALAPPDATA"), vendor, app, "User Data")
	case "darwin":
		base = filepath.Join(l.Home, "Library", "Application Support", vendor, app)
	default:
		switch {
		case vendor == "Google" && app == "Chrome":
			base = filepath.Join(l.Home, ".config", "google-chrome")
		case vendor == "Microsoft" && app == "Edge":
			base = filepath.Join(l.Home, ".config", "microsoft-edge")
		default:
			base = filepath.Join(l.Home, ".config", strings.ToLower(app))
		}
	}
	return firstProfileHistory(base)
}

// Brave returns the Brave History file, or "".
func (l Locator) Brave() string {
	var base string
	switch l.GOOS {
	case "windows":
		base = filepath.Join(l.env("LOCALAPPDATA"), "BraveSoftware", "Brave-Browser", "User Data")
	case "darwin":
		base = filepath.Join(l.Home, "Library", "Application Support", "BraveSoftware", "Brave-Browser")
	default:
		base = filepath.Join(l.Home, ".config", "BraveSoftware", "Brave-Browser")
	}
	return firstProfileHistory(base)
}

// Opera returns the History file of Opera or Opera GX, or "".
func (l Locator) Opera() string {
	var base string
	switch l.GOOS {
	case "windows":
		base = filepath.Join(l.env("APPDATA"), "Opera Software")
	case "darwin":
		base = filepath.Join(l.Home, "Library", "Application Support", "com.operasoftware.Opera")
	default:
		base = filepath.Join(l.Home, ".config", "opera")
	}

	for _, dir := range []string{"Opera Stable", "Opera GX Stable", "Opera", "Opera GX"} {
		if h := filepath.Join(base, dir, "History"); fileExists(h) {
			return h
		}
	}

	// On Linux the profile may live directly in ~/.config/opera.
	if l.GOOS != "windows" && l.GOOS != "darwin" {
		if h := filepath.Join(base, "History"); fileExists(h) {
			return h
		}
	}
	return ""
}

// Firefox returns places.sqlite of the first profile that has one, or "".
func (l Locator) Firefox() string {
	var root string
	switch l.GOOS {
	case "windows":
		root = filepath.Join(l.env("APPDATA"), "Mozilla", "Firefox", "Profiles")
	case "darwin":
		root = filepath.Join(l.Home, "Library", "Application Support", "Firefox", "Profiles")
	default:
		root = filepath.Join(l.Home, ".mozilla", "firefox")
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if p := filepath.Join(root, e.Name(), "places.sqlite"); fileExists(p) {
			return p
		}
	}
	return ""
}

func firstProfileHistory(base string) string {
	for _, profile := range chromiumProfiles() {
		if h := filepath.Join(base, profile, "History"); fileExists(h) {
			return h
		}
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
