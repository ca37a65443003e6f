// Package client embeds the browser script of the live view.
package client

import (
	"embed"
	"io/fs"
	"net/http"
)

// Script is the file name of the live view script.
const Script = "museum.js"

//go:embed src/*.js
var assets embed.FS

// Assets returns the embedded scripts rooted at src.
func Assets() fs.FS {
	fsys, err := fs.Sub(assets, "src")
	if err != nil {
		panic(err)
	}
	return fsys
}

// Handler serves the embedded scripts.
func Handler() http.Handler {
	return http.FileServer(http.FS(Assets()))
}

// File returns the contents of an embedded script.
func File(name string) ([]byte, error) {
	return assets.ReadFile("src/" + name)
}
