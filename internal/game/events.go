package game

import "time"

// Event describes something the host may need to react to after a Step.
type Event interface {
	gameEvent()
}

// EventIdentified is emitted when a name is accepted.
type EventIdentified struct {
	Name string
}

func (EventIdentified) gameEvent() {}

// EventNameConflict is emitted when the name is already on the ledger.
type EventNameConflict struct {
	Name string
}

func (EventNameConflict) gameEvent() {}

// EventNameCheckFailed is emitted when uniqueness could not be verified.
// The player stays unidentified and may try again.
type EventNameCheckFailed struct {
	Name string
}

func (EventNameCheckFailed) gameEvent() {}

// EventNameRequired is emitted when a start is attempted, or an empty name
// submitted, before a player is registered.
type EventNameRequired struct{}

func (EventNameRequired) gameEvent() {}

// EventArmed is emitted when a start is accepted.
type EventArmed struct {
	Until time.Time
}

func (EventArmed) gameEvent() {}

// EventStarted is emitted when the activation delay has elapsed.
type EventStarted struct{}

func (EventStarted) gameEvent() {}

// EventScored is emitted when the score increases.
type EventScored struct {
	Score int
	Best  int
}

func (EventScored) gameEvent() {}

// EventTerminated is emitted once when the entity crashes.
type EventTerminated struct {
	Score int
	Best  int
}

func (EventTerminated) gameEvent() {}

// EventSubmitScore asks the host to persist Record. The host must answer
// with ActionSubmitSucceeded or ActionSubmitFailed.
type EventSubmitScore struct {
	Record Record
}

func (EventSubmitScore) gameEvent() {}

// EventReset is emitted when a fresh round is prepared.
type EventReset struct{}

func (EventReset) gameEvent() {}

// EventPlayerCleared is emitted when the registered name is dropped.
type EventPlayerCleared struct{}

func (EventPlayerCleared) gameEvent() {}
