package http

import (
	_ "embed"
	"net/http"
)

// DefaultContentType is the content-type returned for the index page.
const DefaultContentType = "text/html; charset=utf-8"

//go:embed assets/index.html
var indexHTML []byte

// IndexHandler serves the field builder page.
func IndexHandler() http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", DefaultContentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(indexHTML)
	}
	return http.HandlerFunc(fn)
}
