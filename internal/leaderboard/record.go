// Package leaderboard defines the shared best-score ledger record and the
// HTTP client game hosts use to talk to the leaderboard service.
package leaderboard

import (
	"strings"
	"time"
)

// MaxNameLength bounds player names accepted by the service.
const MaxNameLength = 32

// ScoreRecord is one row of the ledger: a player's best score and when it
// was set. Names are unique.
type ScoreRecord struct {
	Name  string    `json:"name" msgpack:"name"`
	Score int       `json:"score" msgpack:"score"`
	Date  time.Time `json:"date" msgpack:"date"`
}

// Stats summarises the whole ledger.
type Stats struct {
	Players    int       `json:"players"`
	Best       int       `json:"best"`
	Average    float64   `json:"average"`
	LastPlayed time.Time `json:"lastPlayed"`
}

// NormalizeName trims surrounding whitespace from a player name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// ValidName reports whether name (already normalized) may be stored.
func ValidName(name string) bool {
	return name != "" && len([]rune(name)) <= MaxNameLength
}

// Rank returns the 1-based position of name in records, or 0 if absent.
// records must already be ordered by score descending.
func Rank(records []ScoreRecord, name string) int {
	for i, r := range records {
		if r.Name == name {
			return i + 1
		}
	}
	return 0
}
