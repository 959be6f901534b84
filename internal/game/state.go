package game

import (
	"time"

	"github.com/vovakirdan/cyberfish/internal/config"
	"github.com/vovakirdan/cyberfish/internal/core"
)

// Phase is the lifecycle stage of a session.
type Phase int

const (
	PhaseAwaitingIdentity Phase = iota // No player name registered yet
	PhaseIdle                          // Ready to start (or arming)
	PhasePlaying                       // Physics and obstacles live
	PhaseTerminated                    // Crashed; waiting for reset or a new start
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingIdentity:
		return "AwaitingIdentity"
	case PhaseIdle:
		return "Idle"
	case PhasePlaying:
		return "Playing"
	case PhaseTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// NameCheck is the host's answer to "is this name already on the ledger?".
type NameCheck int

const (
	NameUnchecked   NameCheck = iota // No leaderboard configured; accept as-is
	NameAvailable                    // Ledger has no record for the name
	NameTaken                        // Ledger already has the name
	NameCheckFailed                  // The check could not be completed
)

// SubmitStatus tracks the once-per-session score submission.
type SubmitStatus int

const (
	SubmitNone    SubmitStatus = iota // Nothing sent this session
	SubmitPending                     // Sent, waiting for the host to report back
	SubmitDone                        // Ledger accepted the score
	SubmitFailed                      // Ledger rejected or unreachable; retry allowed
)

func (s SubmitStatus) String() string {
	switch s {
	case SubmitNone:
		return "none"
	case SubmitPending:
		return "pending"
	case SubmitDone:
		return "saved"
	case SubmitFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Record is a final score handed to the host for persistence.
type Record struct {
	Name  string
	Score int
	Date  time.Time
}

// Playfield is the simulation area in playfield units.
type Playfield struct {
	Width, Height float64
}

// Input is one event delivered to Engine.Step.
type Input struct {
	Action core.Action
	Now    time.Time // Wall clock; drives the jump cooldown and activation delay
	Name   string    // ActionIdentify
	Check  NameCheck // ActionIdentify
	Width  float64   // ActionResize
	Height float64   // ActionResize
}

// State is the complete session state. It is a value: Step returns a new
// State and never mutates memory reachable from the one it was given.
type State struct {
	Phase      Phase
	PlayerName string
	Score      int
	Best       int // Best score since the player was identified
	Entity     Entity
	Obstacles  []Obstacle
	Difficulty config.Difficulty
	Playfield  Playfield

	Tick  int // Ticks spent playing; drives obstacle spawning
	Frame int // Every animation tick; drives the idle hover

	Armed       bool      // Start accepted, waiting for ArmedUntil
	ArmedUntil  time.Time
	LastImpulse time.Time

	Submit    SubmitStatus
	Submitted Record // Last record handed to the host, kept for retries

	Seed uint64
}

// Ready reports whether a start input would arm the session.
func (s State) Ready() bool {
	return (s.Phase == PhaseIdle && !s.Armed) || s.Phase == PhaseTerminated
}
