// Package resources serves the UI's static assets.
package resources

import "net/http"

// StaticDirectoryPath is the path to static assets from the project root.
const StaticDirectoryPath = "internal/ui/resources/static"

// StaticPath returns the URL path for a static asset.
func StaticPath(path string) string {
	return "/static/" + path
}

// Handler serves the assets mounted under /static/.
func Handler() http.Handler {
	files := http.StripPrefix("/static/", http.FileServer(http.FS(staticFiles())))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", cacheControl)
		files.ServeHTTP(w, r)
	})
}
