package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter constructs the admin router: health plus read-only views
// over user stats and the leaderboards.
func NewRouter(h *HandlerProvider) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/user/{userId}/stats", h.GetUserStatsHandler)
	r.Get("/top/{board}", h.GetBoardHandler)

	return r
}
