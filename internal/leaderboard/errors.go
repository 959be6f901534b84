package leaderboard

import (
	"context"
	"errors"
)

// Failure taxonomy for leaderboard calls. Every error returned by Client
// wraps exactly one of these.
var (
	// ErrTransient covers network failures and timeouts. The call may be
	// retried.
	ErrTransient = errors.New("leaderboard unreachable")

	// ErrServer means the service answered with a failure status.
	ErrServer = errors.New("leaderboard error")

	// ErrNameTaken means the requested player name is already on the ledger.
	ErrNameTaken = errors.New("name already taken")
)

// Outcome is the UI-facing result of a leaderboard call.
type Outcome int

const (
	OutcomeOK       Outcome = iota
	OutcomeRetry            // Transient; offer a retry
	OutcomeConflict         // Pick another name
	OutcomeFailed           // Server-side failure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeRetry:
		return "retry"
	case OutcomeConflict:
		return "conflict"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Classify maps an error from Client to an Outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrNameTaken):
		return OutcomeConflict
	case errors.Is(err, ErrTransient),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return OutcomeRetry
	default:
		return OutcomeFailed
	}
}
