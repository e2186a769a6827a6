// Package web serves the embedded single-page UI.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var assets embed.FS

// staticFS fails at init if the embedded tree is missing, instead of
// silently serving an empty root.
var staticFS = func() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic("web: embedded static assets missing: " + err.Error())
	}
	return sub
}()

// Handler returns an http.Handler that serves the embedded UI.
func Handler() http.Handler {
	return http.FileServer(http.FS(staticFS))
}
