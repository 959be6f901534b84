package leaderboard

import (
	"context"
	"sync"
)

// Kind identifies a class of leaderboard call. A newer call of a kind
// supersedes any older one still in flight.
type Kind int

const (
	KindNameCheck Kind = iota
	KindSubmit
	KindRefresh
)

// Token identifies one tracked call.
type Token struct {
	Kind Kind
	Seq  uint64
}

// Tracker hands out cancellable contexts for leaderboard calls so that only
// the newest call of each kind is honoured. Hosts check Current before
// applying a result.
type Tracker struct {
	mu      sync.Mutex
	parent  context.Context
	seq     uint64
	current map[Kind]Token
	cancels map[Kind]context.CancelFunc
}

// NewTracker creates a tracker whose contexts derive from parent.
func NewTracker(parent context.Context) *Tracker {
	return &Tracker{
		parent:  parent,
		current: make(map[Kind]Token),
		cancels: make(map[Kind]context.CancelFunc),
	}
}

// Begin starts a call of the given kind, cancelling the previous one.
func (t *Tracker) Begin(kind Kind) (context.Context, Token) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cancel, ok := t.cancels[kind]; ok {
		cancel()
	}

	t.seq++
	tok := Token{Kind: kind, Seq: t.seq}
	ctx, cancel := context.WithCancel(t.parent)
	t.current[kind] = tok
	t.cancels[kind] = cancel
	return ctx, tok
}

// Current reports whether tok is the newest call of its kind.
func (t *Tracker) Current(tok Token) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current[tok.Kind] == tok
}

// Done releases the resources of tok if it is still current.
func (t *Tracker) Done(tok Token) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current[tok.Kind] != tok {
		return
	}
	if cancel, ok := t.cancels[tok.Kind]; ok {
		cancel()
		delete(t.cancels, tok.Kind)
	}
}

// Cancel aborts every in-flight call.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for kind, cancel := range t.cancels {
		cancel()
		delete(t.cancels, kind)
	}
	t.current = make(map[Kind]Token)
}
