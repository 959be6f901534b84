// Package storage provides SQLite-based persistence for the score ledger.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/cyberfish/internal/leaderboard"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store manages the SQLite database connection for the ledger.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if dbPath != MemoryPath {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// A single connection serialises writers and keeps :memory: databases
	// from splitting across connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	if dbPath != MemoryPath {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: cannot enable WAL: %w", err)
		}
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			name TEXT PRIMARY KEY,
			score INTEGER NOT NULL,
			date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ListScores returns every record ordered by score descending. Ties are
// broken by the earlier date, then by name.
func (s *Store) ListScores(ctx context.Context) ([]leaderboard.ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, score, date
		 FROM scores
		 ORDER BY score DESC, date ASC, name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	records := make([]leaderboard.ScoreRecord, 0)
	for rows.Next() {
		var r leaderboard.ScoreRecord
		var date any
		if err := rows.Scan(&r.Name, &r.Score, &date); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Date = parseTime(date)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// UpsertScore stores r if the name is new or r.Score is strictly greater
// than the stored score. It reports whether a row was written; a lower or
// equal score leaves the ledger untouched.
func (s *Store) UpsertScore(ctx context.Context, r leaderboard.ScoreRecord) (bool, error) {
	if r.Date.IsZero() {
		r.Date = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (name, score, date) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET score = excluded.score, date = excluded.date
		 WHERE excluded.score > scores.score`,
		r.Name, r.Score, r.Date.UTC().Format(timeLayout),
	)
	if err != nil {
		return false, fmt.Errorf("storage: cannot save score: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot get affected rows: %w", err)
	}

	return n > 0, nil
}

// NameExists reports whether the ledger has a record for name.
func (s *Store) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM scores WHERE name = ?)",
		name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("storage: cannot check name: %w", err)
	}
	return exists, nil
}

// Stats retrieves aggregated statistics for the ledger.
func (s *Store) Stats(ctx context.Context) (leaderboard.Stats, error) {
	var stats leaderboard.Stats
	var lastPlayed any

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), MAX(date)
		 FROM scores`,
	).Scan(&stats.Players, &stats.Best, &stats.Average, &lastPlayed)
	if err != nil {
		return stats, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// timeLayout is how dates are written; it sorts lexically in time order.
const timeLayout = "2006-01-02 15:04:05.000"

// parseTime handles the representations the driver may hand back for a
// DATETIME column.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		for _, layout := range []string{timeLayout, "2006-01-02 15:04:05", time.RFC3339Nano} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	case []byte:
		return parseTime(string(t))
	case int64:
		return time.Unix(t, 0).UTC()
	}
	return time.Time{}
}
