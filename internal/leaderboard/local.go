package leaderboard

import (
	"context"
	"fmt"
	"time"
)

// Board is what a game host needs from a leaderboard. *Client talks to the
// HTTP service; *Local reads and writes a ledger in-process.
type Board interface {
	Scores(ctx context.Context) ([]ScoreRecord, error)
	Submit(ctx context.Context, r ScoreRecord) error
	CheckName(ctx context.Context, name string) (bool, error)
}

var (
	_ Board = (*Client)(nil)
	_ Board = (*Local)(nil)
)

// ReserveName returns ErrNameTaken if name is already on b.
func ReserveName(ctx context.Context, b Board, name string) error {
	exists, err := b.CheckName(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("leaderboard: %q: %w", name, ErrNameTaken)
	}
	return nil
}

// Store is the subset of the ledger store used by Local.
type Store interface {
	ListScores(ctx context.Context) ([]ScoreRecord, error)
	UpsertScore(ctx context.Context, r ScoreRecord) (bool, error)
	NameExists(ctx context.Context, name string) (bool, error)
}

// Local serves a Board straight from a Store, applying the same rules as
// the HTTP service: trimmed names, non-negative scores, dates from the
// local clock.
type Local struct {
	store Store
	now   func() time.Time
}

// NewLocal wraps store.
func NewLocal(store Store) *Local {
	return &Local{store: store, now: time.Now}
}

// Scores returns the ledger ordered by score descending.
func (l *Local) Scores(ctx context.Context) ([]ScoreRecord, error) {
	records, err := l.store.ListScores(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: fetch scores: %w: %v", ErrServer, err)
	}
	return records, nil
}

// Submit stores r if it beats the player's best.
func (l *Local) Submit(ctx context.Context, r ScoreRecord) error {
	r.Name = NormalizeName(r.Name)
	if !ValidName(r.Name) || r.Score < 0 {
		return fmt.Errorf("leaderboard: submit score: %w: invalid record", ErrServer)
	}
	r.Date = l.now().UTC()
	if _, err := l.store.UpsertScore(ctx, r); err != nil {
		return fmt.Errorf("leaderboard: submit score: %w: %v", ErrServer, err)
	}
	return nil
}

// CheckName reports whether name already has a ledger record.
func (l *Local) CheckName(ctx context.Context, name string) (bool, error) {
	exists, err := l.store.NameExists(ctx, NormalizeName(name))
	if err != nil {
		return false, fmt.Errorf("leaderboard: check name: %w: %v", ErrServer, err)
	}
	return exists, nil
}
