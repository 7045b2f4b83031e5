// internal/httpserver/routes_stats.go
//
// HTTP routes for the finished-game log.
// Exposes two endpoints under /stats:
//   - GET /stats        → win counts per player
//   - GET /stats/recent → latest finished games (?limit=N, default 20, max 100)

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/Shak2000/ChompSolver/internal/results"
)

const maxRecentLimit = 100

// statsServer wraps dependencies for /stats endpoints.
type statsServer struct {
	results *results.Store
}

// mountStats registers all /stats routes.
func (s *Server) mountStats(r chi.Router) {
	ss := &statsServer{results: s.results}
	r.Route("/stats", func(r chi.Router) {
		r.Use(jsonContentType)
		r.Get("/", ss.handleSummary)
		r.Get("/recent", ss.handleRecent)
	})
}

func (ss *statsServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := ss.results.Summary(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("stats summary")
		http.Error(w, "stats unavailable", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(sum)
}

func (ss *statsServer) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxRecentLimit)
	}
	rows, err := ss.results.Recent(r.Context(), limit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("stats recent")
		http.Error(w, "stats unavailable", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(rows)
}
