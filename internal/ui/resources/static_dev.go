//go:build dev

package resources

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
)

const cacheControl = "no-cache"

// staticFiles reads the assets from the source tree next to this file, so
// stylesheet edits show up on the next reload.
func staticFiles() fs.FS {
	dir := StaticDirectoryPath
	if _, file, _, ok := runtime.Caller(0); ok {
		dir = filepath.Join(filepath.Dir(file), "static")
	}
	slog.Info("static assets served from filesystem", "path", dir)
	return os.DirFS(dir)
}
