package api

import (
	"fmt"
	"net/http"
	"time"
)

// NewServer creates a configured *http.Server for the admin API.
func NewServer(port uint16, h *HandlerProvider) *http.Server {
	mux := NewRouter(h)

	addr := fmt.Sprintf(":%d", port)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
