// Package site serves the static assets shared by every skin.
package site

import (
	"context"
	"net/http"
)

// Prefix is the URL path the assets are mounted under.
const Prefix = "/static/"

// cacheControl lets browsers keep assets for an hour.
const cacheControl = "public, max-age=3600"

// Register attaches the static asset routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle(Prefix, Handler())
}

// Handler serves the embedded assets below Prefix. Directory listings are
// not exposed.
func Handler() http.Handler {
	files := http.StripPrefix(Prefix, http.FileServer(FS()))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}
		if r.URL.Path == Prefix || r.URL.Path[len(r.URL.Path)-1] == '/' {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", cacheControl)
		files.ServeHTTP(w, r)
	})
}
