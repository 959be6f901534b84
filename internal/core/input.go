package core

// Action represents a semantic input event, abstracted from physical key presses,
// taps and timers. The host translates whatever it receives into one of these.
type Action int

const (
	ActionNone            Action = iota
	ActionTick                   // One animation frame elapsed
	ActionActivate               // Click, tap or space: start when ready, jump when playing
	ActionStart                  // Explicit start request
	ActionJump                   // Explicit jump request
	ActionIdentify               // Player submitted a name
	ActionReset                  // Return to the ready state after game over
	ActionChangePlayer           // Forget the current name and ask for a new one
	ActionResize                 // Playfield dimensions changed
	ActionSubmitSucceeded        // Leaderboard accepted the final score
	ActionSubmitFailed           // Leaderboard submission failed
	ActionRetrySubmit            // Player asked to resend a failed submission
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionTick:
		return "Tick"
	case ActionActivate:
		return "Activate"
	case ActionStart:
		return "Start"
	case ActionJump:
		return "Jump"
	case ActionIdentify:
		return "Identify"
	case ActionReset:
		return "Reset"
	case ActionChangePlayer:
		return "ChangePlayer"
	case ActionResize:
		return "Resize"
	case ActionSubmitSucceeded:
		return "SubmitSucceeded"
	case ActionSubmitFailed:
		return "SubmitFailed"
	case ActionRetrySubmit:
		return "RetrySubmit"
	default:
		return "Unknown"
	}
}
