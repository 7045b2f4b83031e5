// Package assets embeds the browser client served at "/".
package assets

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed web/index.html web/styles.css web/script.js
var files embed.FS

// FS is the client root (index.html, styles.css, script.js).
var FS = mustSub(files, "web")

func mustSub(f fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(f, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// Handler serves the embedded client files.
func Handler() http.Handler {
	return http.FileServerFS(FS)
}
