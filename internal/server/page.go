package server

//go:generate templ generate

import (
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/vovakirdan/cyberfish/internal/leaderboard"
)

// medals mark the top three ranks.
var medals = [...]string{"🥇", "🥈", "🥉"}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	records, err := s.ledger.ListScores(r.Context())
	if err != nil {
		s.logger.Error("list scores for page", "err", err)
		http.Error(w, "failed to load scores", http.StatusInternalServerError)
		return
	}
	player := leaderboard.NormalizeName(r.URL.Query().Get("player"))
	render(w, r, ScoreboardPage(records, player))
}

func render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		http.Error(w, "failed to render", http.StatusInternalServerError)
	}
}

// rankLabel is the medal for the top three, the 1-based rank otherwise.
func rankLabel(i int) string {
	if i < len(medals) {
		return medals[i]
	}
	return strconv.Itoa(i + 1)
}
