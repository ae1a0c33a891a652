// Package httpserver builds the http.Server hosting the match API.
package httpserver

import (
	"net/http"
	"time"
)

// New returns a server with timeouts sized for this API: headers and request
// bodies are bounded tightly, while the write timeout leaves room for a large
// batch request to fan out across the search backend before responding.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       time.Minute,
	}
}
