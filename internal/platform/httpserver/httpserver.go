// Package httpserver constructs the HTTP server fronting the validation API.
package httpserver

import (
	"net/http"
	"time"
)

// readHeaderTimeout bounds slow-header clients. Per-request deadlines come
// from the middleware chain, not the server, so crisis-path latency stays
// under the handlers' control.
const readHeaderTimeout = 5 * time.Second

// New returns the server for the given address and routed handler.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}
