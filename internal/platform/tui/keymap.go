package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/cyberfish/internal/core"
	"github.com/vovakirdan/cyberfish/internal/game"
)

// KeyMap defines the key bindings for a Cyber Fish session.
type KeyMap struct {
	Activate     key.Binding
	Confirm      key.Binding
	Reset        key.Binding
	ChangePlayer key.Binding
	Retry        key.Binding
	Refresh      key.Binding
	Screenshot   key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Activate: key.NewBinding(
			key.WithKeys(" ", "up", "w", "k"),
			key.WithHelp("space", "swim"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm name"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		ChangePlayer: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "change player"),
		),
		Retry: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "retry save"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "refresh scores"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "screenshot"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Activate, k.Reset, k.Retry, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Confirm, k.Activate, k.Reset, k.ChangePlayer},
		{k.Retry, k.Refresh, k.Screenshot},
		{k.Help, k.Quit},
	}
}

// For enables only the bindings that do something in s, so the help view
// tracks the session phase.
func (k KeyMap) For(s game.State) KeyMap {
	naming := s.Phase == game.PhaseAwaitingIdentity
	idle := s.Phase == game.PhaseIdle
	over := s.Phase == game.PhaseTerminated

	k.Confirm.SetEnabled(naming)
	k.Activate.SetEnabled(!naming)
	k.Reset.SetEnabled(over)
	k.ChangePlayer.SetEnabled(idle || over)
	k.Retry.SetEnabled(over && s.Submit == game.SubmitFailed)
	k.Screenshot.SetEnabled(!naming)
	k.Help.SetEnabled(!naming)
	// q is a valid name character.
	if naming {
		k.Quit.SetKeys("ctrl+c")
		k.Quit.SetHelp("C-c", "quit")
	}
	return k
}

// Action translates a key press to an engine action. Keys with no game
// meaning map to core.ActionNone.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Activate):
		return core.ActionActivate
	case key.Matches(msg, k.Reset):
		return core.ActionReset
	case key.Matches(msg, k.ChangePlayer):
		return core.ActionChangePlayer
	case key.Matches(msg, k.Retry):
		return core.ActionRetrySubmit
	}
	return core.ActionNone
}
