// Package web embeds the browser client.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// Assets returns the client files rooted at the static directory.
func Assets() fs.FS {
	assets, err := fs.Sub(static, "static")

	if err != nil {
		panic(err)
	}

	return assets
}
