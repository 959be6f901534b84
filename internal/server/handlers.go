package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vovakirdan/cyberfish/internal/leaderboard"
)

const maxBodyBytes = 4 << 10

// submitRequest is the POST /api/scores body. The date is accepted for
// compatibility but the stored date always comes from the server clock.
type submitRequest struct {
	Name  string          `json:"name"`
	Score *int            `json:"score"`
	Date  json.RawMessage `json:"date,omitempty"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := s.ledger.ListScores(r.Context())
	if err != nil {
		s.logger.Error("list scores", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch scores")
		return
	}
	if records == nil {
		records = []leaderboard.ScoreRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := leaderboard.NormalizeName(req.Name)
	if !leaderboard.ValidName(name) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Name must be 1-%d characters", leaderboard.MaxNameLength))
		return
	}
	if req.Score == nil || *req.Score < 0 {
		writeError(w, http.StatusBadRequest, "Score must be a non-negative integer")
		return
	}

	rec := leaderboard.ScoreRecord{Name: name, Score: *req.Score, Date: s.now().UTC()}
	written, err := s.ledger.UpsertScore(r.Context(), rec)
	if err != nil {
		s.logger.Error("save score", "name", name, "score", rec.Score, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to save score")
		return
	}

	if written {
		s.logger.Info("score saved", "name", name, "score", rec.Score)
		s.publish(r)
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Score saved successfully"})
}

func (s *Server) handleCheckName(w http.ResponseWriter, r *http.Request) {
	name := leaderboard.NormalizeName(r.URL.Query().Get("name"))
	if name == "" {
		writeJSON(w, http.StatusOK, map[string]bool{"exists": false})
		return
	}

	exists, err := s.ledger.NameExists(r.Context(), name)
	if err != nil {
		s.logger.Error("check name", "name", name, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to check name")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.ledger.Stats(r.Context())
	if err != nil {
		s.logger.Error("stats", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// publish pushes a fresh snapshot of the ledger to feed subscribers.
func (s *Server) publish(r *http.Request) {
	if s.feed.Len() == 0 {
		return
	}
	records, err := s.ledger.ListScores(r.Context())
	if err != nil {
		s.logger.Warn("snapshot for feed", "err", err)
		return
	}
	s.feed.Publish(records)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
