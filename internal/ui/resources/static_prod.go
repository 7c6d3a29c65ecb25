//go:build !dev

package resources

import (
	"embed"
	"io/fs"
)

//go:embed static
var embedded embed.FS

// Asset paths are not fingerprinted, so a release can change them in place.
const cacheControl = "public, max-age=3600"

func staticFiles() fs.FS {
	sub, err := fs.Sub(embedded, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
