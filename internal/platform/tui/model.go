package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/cyberfish/internal/config"
	"github.com/vovakirdan/cyberfish/internal/core"
	"github.com/vovakirdan/cyberfish/internal/game"
	"github.com/vovakirdan/cyberfish/internal/leaderboard"
)

// Rows reserved around the playfield.
const (
	hudRows    = 1 // Status bar
	footerRows = 2 // Notice or name input, then help
)

// Options configures a session Model.
type Options struct {
	// Board is the leaderboard. Nil plays without one: names are accepted
	// unchecked and scores are not submitted anywhere.
	Board leaderboard.Board

	// Player prefills the name input.
	Player string

	// Clock overrides time.Now for key-driven inputs.
	Clock func() time.Time
}

// Result messages from leaderboard commands. Each carries the token it was
// issued under; results whose token is no longer current are dropped.
type (
	nameCheckedMsg struct {
		token leaderboard.Token
		name  string
		check game.NameCheck
		err   error
	}
	submittedMsg struct {
		token leaderboard.Token
		err   error
	}
	scoresMsg struct {
		token   leaderboard.Token
		records []leaderboard.ScoreRecord
		err     error
	}
)

// Model is the Bubble Tea model for one Cyber Fish session.
type Model struct {
	cfg     config.Config
	runtime core.RuntimeConfig
	engine  *game.Engine
	state   game.State
	screen  *core.Screen
	board   leaderboard.Board
	tracker *leaderboard.Tracker
	now     func() time.Time

	input textinput.Model
	panel LeaderboardPanel
	keys  KeyMap
	help  help.Model

	notice      string
	noticeErr   bool
	showSidebar bool
	quitting    bool
}

// NewModel creates a session sized from rt.
func NewModel(cfg config.Config, rt core.RuntimeConfig, opts Options) Model {
	def := core.DefaultConfig()
	if rt.ScreenW <= 0 || rt.ScreenH <= 0 {
		rt.ScreenW, rt.ScreenH = def.ScreenW, def.ScreenH
	}
	// Use time-based seed if not specified
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}
	if rt.TickRate <= 0 {
		rt.TickRate = cfg.Display.TickRate
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	ti := textinput.New()
	ti.Prompt = "name> "
	ti.Placeholder = "your name"
	ti.CharLimit = leaderboard.MaxNameLength
	ti.Width = leaderboard.MaxNameLength
	ti.SetValue(opts.Player)
	ti.Focus()

	h := help.New()
	h.ShowAll = false

	m := Model{
		cfg:     cfg,
		runtime: rt,
		engine:  game.NewEngine(cfg, uint64(rt.Seed)),
		screen:  core.NewScreen(1, 1),
		board:   opts.Board,
		tracker: leaderboard.NewTracker(context.Background()),
		now:     now,
		input:   ti,
		keys:    DefaultKeyMap(),
		help:    h,
	}

	cols, rows := m.layout(rt.ScreenW, rt.ScreenH)
	m.screen.Resize(cols, rows)
	m.panel = NewLeaderboardPanel(rt.ScreenH - hudRows - footerRows)
	m.state = m.engine.NewState(m.playfield(cols, rows))
	if m.board == nil {
		m.panel.SetStatus("offline")
	}
	return m
}

// State returns the current session state.
func (m Model) State() game.State {
	return m.state
}

// Notice returns the message shown under the playfield.
func (m Model) Notice() string {
	return m.notice
}

// Init starts the tick loop and the first leaderboard fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.runtime.TickRate), textinput.Blink, m.refreshCmd())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft &&
			m.state.Phase != game.PhaseAwaitingIdentity {
			return m, m.apply(game.Input{Action: core.ActionActivate, Now: m.now()})
		}
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		cmd := m.apply(game.Input{Action: core.ActionTick, Now: time.Time(msg)})
		return m, tea.Batch(cmd, tickCmd(m.runtime.TickRate))

	case nameCheckedMsg:
		if !m.tracker.Current(msg.token) {
			return m, nil
		}
		if c, ok := m.board.(nameClaimer); ok && msg.check == game.NameAvailable &&
			m.state.Phase == game.PhaseAwaitingIdentity && !c.ClaimName(msg.name) {
			msg.check = game.NameTaken
		}
		cmd := m.apply(game.Input{Action: core.ActionIdentify, Name: msg.name, Check: msg.check})
		if leaderboard.Classify(msg.err) == leaderboard.OutcomeFailed {
			m.setError("the leaderboard rejected the check, press enter to try again")
		}
		return m, cmd

	case submittedMsg:
		if !m.tracker.Current(msg.token) {
			return m, nil
		}
		if msg.err != nil {
			return m, m.apply(game.Input{Action: core.ActionSubmitFailed, Now: m.now()})
		}
		return m, tea.Batch(
			m.apply(game.Input{Action: core.ActionSubmitSucceeded, Now: m.now()}),
			m.refreshCmd(),
		)

	case scoresMsg:
		if !m.tracker.Current(msg.token) {
			return m, nil
		}
		if msg.err != nil {
			m.panel.SetStatus(outcomeText(leaderboard.Classify(msg.err)))
			return m, nil
		}
		m.panel.SetRecords(msg.records, m.state.PlayerName)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys.For(m.state)
	if key.Matches(msg, keys.Quit) {
		m.quitting = true
		m.tracker.Cancel()
		return m, tea.Quit
	}

	if m.state.Phase == game.PhaseAwaitingIdentity {
		return m.handleNameKey(msg, keys)
	}

	switch {
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, keys.Refresh):
		return m, m.refreshCmd()
	case key.Matches(msg, keys.Screenshot):
		if path, err := m.saveScreenshot(); err != nil {
			m.setError("screenshot failed: " + err.Error())
		} else {
			m.setNotice("screenshot saved to " + path)
		}
		return m, nil
	}

	if action := keys.Action(msg); action != core.ActionNone {
		return m, m.apply(game.Input{Action: action, Now: m.now()})
	}
	return m, nil
}

// handleNameKey feeds the name input until the player confirms.
func (m Model) handleNameKey(msg tea.KeyMsg, keys KeyMap) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, keys.Confirm) {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	name := leaderboard.NormalizeName(m.input.Value())
	if name == "" || m.board == nil {
		return m, m.apply(game.Input{Action: core.ActionIdentify, Name: name, Check: game.NameUnchecked})
	}
	m.setNotice(fmt.Sprintf("checking %q...", name))
	return m, m.checkNameCmd(name)
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.runtime.ScreenW = msg.Width
	m.runtime.ScreenH = msg.Height
	cols, rows := m.layout(msg.Width, msg.Height)
	m.screen.Resize(cols, rows)
	m.panel.SetHeight(msg.Height - hudRows - footerRows)
	m.help.Width = msg.Width

	w, h := m.playfield(cols, rows)
	return m, m.apply(game.Input{Action: core.ActionResize, Width: w, Height: h})
}

// layout decides whether the leaderboard panel fits and returns the
// playfield size in cells.
func (m *Model) layout(width, height int) (cols, rows int) {
	m.showSidebar = m.board != nil && width >= minWidthForSidebar
	cols = width
	if m.showSidebar {
		cols -= sidebarWidth
	}
	rows = height - hudRows - footerRows
	return max(1, cols), max(1, rows)
}

// playfield converts a cell grid to playfield units.
func (m Model) playfield(cols, rows int) (float64, float64) {
	return float64(cols) * m.cfg.Display.CellWidth, float64(rows) * m.cfg.Display.CellHeight
}

// apply runs one engine step and reacts to the events it emits.
func (m *Model) apply(in game.Input) tea.Cmd {
	var events []game.Event
	m.state, events = m.engine.Step(m.state, in)

	var cmds []tea.Cmd
	for _, ev := range events {
		if cmd := m.react(ev); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

func (m *Model) react(ev game.Event) tea.Cmd {
	switch ev := ev.(type) {
	case game.EventIdentified:
		m.input.Blur()
		m.panel.SetPlayer(ev.Name)
		m.setNotice(fmt.Sprintf("welcome, %s! press space to swim", ev.Name))
	case game.EventNameConflict:
		m.setError(fmt.Sprintf("%q is already on the leaderboard, pick another name", ev.Name))
	case game.EventNameCheckFailed:
		m.setError("could not reach the leaderboard, press enter to try again")
	case game.EventNameRequired:
		m.setError("enter a name first")
	case game.EventArmed:
		m.setNotice("get ready...")
	case game.EventStarted, game.EventReset:
		m.setNotice("")
	case game.EventScored:
		if ev.Score == ev.Best {
			m.setNotice(fmt.Sprintf("new best: %d", ev.Best))
		}
	case game.EventTerminated:
		m.setNotice(fmt.Sprintf("game over with %d, space to play again, r to reset", ev.Score))
	case game.EventSubmitScore:
		if m.board == nil {
			return nil
		}
		return m.submitCmd(ev.Record)
	case game.EventPlayerCleared:
		if c, ok := m.board.(nameClaimer); ok {
			c.ReleaseName()
		}
		m.input.Reset()
		m.panel.SetPlayer("")
		m.setNotice("")
		return m.input.Focus()
	}
	return nil
}

func (m *Model) setNotice(s string) {
	m.notice, m.noticeErr = s, false
}

func (m *Model) setError(s string) {
	m.notice, m.noticeErr = s, true
}

func (m Model) checkNameCmd(name string) tea.Cmd {
	ctx, tok := m.tracker.Begin(leaderboard.KindNameCheck)
	board, tracker := m.board, m.tracker
	return func() tea.Msg {
		defer tracker.Done(tok)
		exists, err := board.CheckName(ctx, name)
		msg := nameCheckedMsg{token: tok, name: name, err: err}
		switch {
		case err != nil:
			msg.check = game.NameCheckFailed
		case exists:
			msg.check = game.NameTaken
		default:
			msg.check = game.NameAvailable
		}
		return msg
	}
}

func (m Model) submitCmd(r game.Record) tea.Cmd {
	ctx, tok := m.tracker.Begin(leaderboard.KindSubmit)
	board, tracker := m.board, m.tracker
	rec := leaderboard.ScoreRecord{Name: r.Name, Score: r.Score, Date: r.Date}
	return func() tea.Msg {
		defer tracker.Done(tok)
		return submittedMsg{token: tok, err: board.Submit(ctx, rec)}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	if m.board == nil {
		return nil
	}
	ctx, tok := m.tracker.Begin(leaderboard.KindRefresh)
	board, tracker := m.board, m.tracker
	return func() tea.Msg {
		defer tracker.Done(tok)
		records, err := board.Scores(ctx)
		return scoresMsg{token: tok, records: records, err: err}
	}
}

func outcomeText(o leaderboard.Outcome) string {
	if o == leaderboard.OutcomeRetry {
		return "unreachable, tab to retry"
	}
	return "unavailable"
}

// saveScreenshot writes the current playfield as plain text.
func (m Model) saveScreenshot() (string, error) {
	DrawState(m.screen, m.state, m.cfg.Display)

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".cyberfish", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("cyberfish_%s.txt", m.now().Format("20060102_150405"))
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	DrawState(m.screen, m.state, m.cfg.Display)
	body := RenderScreen(m.screen)
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.panel.View())
	}

	var footer string
	switch {
	case m.state.Phase == game.PhaseAwaitingIdentity && m.notice != "":
		footer = m.input.View() + "  " + m.noticeView()
	case m.state.Phase == game.PhaseAwaitingIdentity:
		footer = m.input.View()
	default:
		footer = m.noticeView()
	}

	return strings.Join([]string{
		hudLine(m.state, m.runtime.ScreenW),
		body,
		footer,
		m.help.View(m.keys.For(m.state)),
	}, "\n")
}

func (m Model) noticeView() string {
	if m.noticeErr {
		return errorStyle.Render(m.notice)
	}
	return noticeStyle.Render(m.notice)
}

// Run starts the Bubble Tea program with the given model.
func Run(cfg config.Config, rt core.RuntimeConfig, opts Options) error {
	model := NewModel(cfg, rt, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Left click swims
	)

	_, err := p.Run()
	return err
}
