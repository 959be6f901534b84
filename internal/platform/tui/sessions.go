package tui

import (
	"context"
	"sync"

	"github.com/vovakirdan/cyberfish/internal/leaderboard"
)

// SessionID identifies one live SSH session.
type SessionID string

// SessionRegistry tracks which player name each live session has claimed.
// A name only reaches the ledger once its owner scores, so without this two
// concurrent sessions could both register the same new name.
// Thread-safe for concurrent access.
type SessionRegistry struct {
	mu     sync.RWMutex
	byID   map[SessionID]string
	byName map[string]SessionID
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		byID:   make(map[SessionID]string),
		byName: make(map[string]SessionID),
	}
}

// Claim reserves name for id, dropping any name id held before. It fails
// if another live session holds name.
func (r *SessionRegistry) Claim(id SessionID, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.byName[name]; ok && owner != id {
		return false
	}
	if old, ok := r.byID[id]; ok {
		delete(r.byName, old)
	}
	r.byID[id] = name
	r.byName[name] = id
	return true
}

// Release frees the name held by id, if any.
func (r *SessionRegistry) Release(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name, ok := r.byID[id]; ok {
		delete(r.byName, name)
		delete(r.byID, id)
	}
}

// Holder returns the session holding name.
func (r *SessionRegistry) Holder(name string) (SessionID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[name]
	return id, ok
}

// Count returns the number of claimed names.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// nameClaimer is implemented by boards that reserve a name for the
// session once the player is identified under it.
type nameClaimer interface {
	ClaimName(name string) bool
	ReleaseName()
}

// sessionBoard is the Board seen by one SSH session: names held by other
// live sessions count as taken. CheckName never claims; the host claims
// the name when it accepts the current check result.
type sessionBoard struct {
	leaderboard.Board
	id       SessionID
	sessions *SessionRegistry
}

var _ nameClaimer = sessionBoard{}

func (b sessionBoard) CheckName(ctx context.Context, name string) (bool, error) {
	name = leaderboard.NormalizeName(name)
	if owner, ok := b.sessions.Holder(name); ok && owner != b.id {
		return true, nil
	}
	return b.Board.CheckName(ctx, name)
}

// ClaimName reserves name for this session. It fails if another live
// session got there first.
func (b sessionBoard) ClaimName(name string) bool {
	return b.sessions.Claim(b.id, leaderboard.NormalizeName(name))
}

// ReleaseName frees the session's name.
func (b sessionBoard) ReleaseName() {
	b.sessions.Release(b.id)
}
