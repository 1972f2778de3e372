// internal/httpserver/routes_leaderboard.go
//
// GET /leaderboard?disks=N&limit=L
// Shortest recorded solves for a disk count (default: the configured count).

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/hlog"

	"github.com/akonno/HanoiSimulator/internal/records"
)

const (
	defaultLeaderboardLimit = 20
	maxLeaderboardLimit     = 100
)

// lbRes is returned by /leaderboard.
type lbRes struct {
	Disks   int           `json:"disks"`
	Optimal int           `json:"optimalMoves"`
	Top     []records.Row `json:"top"`
}

func (s *Server) mountLeaderboard() {
	s.r.Get("/leaderboard", s.handleLeaderboard)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	disks := s.cfg.Disks
	if v := q.Get("disks"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > s.cfg.MaxDisks {
			writeError(w, http.StatusBadRequest, "disks_out_of_range")
			return
		}
		disks = n
	}
	limit := defaultLeaderboardLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_limit")
			return
		}
		limit = min(n, maxLeaderboardLimit)
	}

	rows, err := s.records.Leaderboard(r.Context(), disks, limit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Disks: disks, Optimal: (1 << disks) - 1, Top: rows})
}
