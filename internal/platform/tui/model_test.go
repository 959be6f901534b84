package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/cyberfish/internal/config"
	"github.com/vovakirdan/cyberfish/internal/core"
	"github.com/vovakirdan/cyberfish/internal/game"
	"github.com/vovakirdan/cyberfish/internal/leaderboard"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fakeBoard struct {
	mu        sync.Mutex
	taken     map[string]bool
	records   []leaderboard.ScoreRecord
	submitted []leaderboard.ScoreRecord
	checkErr  error
	submitErr error
}

func (b *fakeBoard) Scores(context.Context) ([]leaderboard.ScoreRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.records, nil
}

func (b *fakeBoard) Submit(_ context.Context, r leaderboard.ScoreRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.submitErr != nil {
		return b.submitErr
	}
	b.submitted = append(b.submitted, r)
	return nil
}

func (b *fakeBoard) CheckName(_ context.Context, name string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.checkErr != nil {
		return false, b.checkErr
	}
	return b.taken[name], nil
}

func newTestModel(board leaderboard.Board) Model {
	opts := Options{Clock: func() time.Time { return t0 }}
	if board != nil {
		opts.Board = board
	}
	rt := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}
	return NewModel(config.Default(), rt, opts)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewModelPlayfield(t *testing.T) {
	m := newTestModel(nil)
	s := m.State()

	if s.Phase != game.PhaseAwaitingIdentity {
		t.Errorf("Phase = %v, want AwaitingIdentity", s.Phase)
	}
	// 80x24 terminal, one HUD row and two footer rows, 10x20 cells.
	if s.Playfield.Width != 800 || s.Playfield.Height != 420 {
		t.Errorf("Playfield = %+v, want 800x420", s.Playfield)
	}
	if m.showSidebar {
		t.Error("sidebar shown without a leaderboard")
	}
}

func TestOfflineIdentify(t *testing.T) {
	m := newTestModel(nil)
	m = typeText(t, m, "Rexq")
	if m.quitting {
		t.Fatal("q quit while typing a name")
	}

	m, cmd := update(t, m, enterKey)
	if cmd != nil {
		t.Error("offline identify issued a command")
	}
	s := m.State()
	if s.Phase != game.PhaseIdle || s.PlayerName != "Rexq" {
		t.Errorf("state = %v %q, want Idle Rexq", s.Phase, s.PlayerName)
	}
}

func TestEmptyNameRequired(t *testing.T) {
	m := newTestModel(nil)
	m, _ = update(t, m, enterKey)

	if m.State().Phase != game.PhaseAwaitingIdentity {
		t.Errorf("Phase = %v", m.State().Phase)
	}
	if !m.noticeErr || m.Notice() == "" {
		t.Errorf("notice = %q (err %v), want an error", m.Notice(), m.noticeErr)
	}
}

func TestPrefilledPlayer(t *testing.T) {
	rt := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1}
	m := NewModel(config.Default(), rt, Options{Player: "ssh-user"})
	m, _ = update(t, m, enterKey)

	if m.State().PlayerName != "ssh-user" {
		t.Errorf("PlayerName = %q, want ssh-user", m.State().PlayerName)
	}
}

func TestNameCheck(t *testing.T) {
	tests := []struct {
		name      string
		board     *fakeBoard
		wantPhase game.Phase
		wantText  string
	}{
		{
			name:      "available",
			board:     &fakeBoard{},
			wantPhase: game.PhaseIdle,
			wantText:  "welcome",
		},
		{
			name:      "taken",
			board:     &fakeBoard{taken: map[string]bool{"Rex": true}},
			wantPhase: game.PhaseAwaitingIdentity,
			wantText:  "already",
		},
		{
			name:      "unreachable",
			board:     &fakeBoard{checkErr: leaderboard.ErrTransient},
			wantPhase: game.PhaseAwaitingIdentity,
			wantText:  "could not reach",
		},
		{
			name:      "server error",
			board:     &fakeBoard{checkErr: leaderboard.ErrServer},
			wantPhase: game.PhaseAwaitingIdentity,
			wantText:  "rejected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(tt.board)
			m = typeText(t, m, " Rex ")

			m, cmd := update(t, m, enterKey)
			if cmd == nil {
				t.Fatal("no name check command")
			}
			if m.State().Phase != game.PhaseAwaitingIdentity {
				t.Fatal("identified before the check finished")
			}

			m, _ = update(t, m, cmd())
			if m.State().Phase != tt.wantPhase {
				t.Errorf("Phase = %v, want %v", m.State().Phase, tt.wantPhase)
			}
			if !strings.Contains(m.Notice(), tt.wantText) {
				t.Errorf("notice = %q, want it to contain %q", m.Notice(), tt.wantText)
			}
		})
	}
}

func TestStaleNameCheckDropped(t *testing.T) {
	board := &fakeBoard{}
	m := newTestModel(board)
	m = typeText(t, m, "Rex")

	m, first := update(t, m, enterKey)
	m, second := update(t, m, enterKey)

	m, _ = update(t, m, first())
	if m.State().Phase != game.PhaseAwaitingIdentity {
		t.Fatal("superseded check result was applied")
	}
	m, _ = update(t, m, second())
	if m.State().Phase != game.PhaseIdle {
		t.Errorf("Phase = %v, want Idle", m.State().Phase)
	}
}

func TestActivationDelay(t *testing.T) {
	m := newTestModel(nil)
	m = typeText(t, m, "Rex")
	m, _ = update(t, m, enterKey)

	m, _ = update(t, m, spaceKey)
	if !m.State().Armed {
		t.Fatal("space did not arm the round")
	}

	m, _ = update(t, m, TickMsg(t0.Add(100*time.Millisecond)))
	if m.State().Phase != game.PhaseIdle {
		t.Fatalf("Phase = %v before the delay elapsed", m.State().Phase)
	}

	m, _ = update(t, m, TickMsg(t0.Add(300*time.Millisecond)))
	if m.State().Phase != game.PhasePlaying {
		t.Errorf("Phase = %v, want Playing", m.State().Phase)
	}
}

func TestMouseClickActivates(t *testing.T) {
	m := newTestModel(nil)

	click := tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m, _ = update(t, m, click)
	if m.State().Armed {
		t.Fatal("click armed a round before a name was entered")
	}

	m = typeText(t, m, "Rex")
	m, _ = update(t, m, enterKey)
	m, _ = update(t, m, click)
	if !m.State().Armed {
		t.Error("click did not arm the round")
	}
}

// terminated puts m in a finished round whose submission is pending.
func terminated(m Model, score int) (Model, game.Record) {
	rec := game.Record{Name: "Rex", Score: score, Date: t0}
	m.state.Phase = game.PhaseTerminated
	m.state.PlayerName = "Rex"
	m.state.Score = score
	m.state.Submit = game.SubmitPending
	m.state.Submitted = rec
	return m, rec
}

func TestSubmitSucceeded(t *testing.T) {
	board := &fakeBoard{}
	m := newTestModel(board)
	m, rec := terminated(m, 7)

	cmd := m.react(game.EventSubmitScore{Record: rec})
	if cmd == nil {
		t.Fatal("no submit command")
	}
	m, refresh := update(t, m, cmd())

	if m.State().Submit != game.SubmitDone {
		t.Errorf("Submit = %v, want saved", m.State().Submit)
	}
	if refresh == nil {
		t.Error("no leaderboard refresh after a saved score")
	}
	if len(board.submitted) != 1 || board.submitted[0].Score != 7 || board.submitted[0].Name != "Rex" {
		t.Errorf("submitted = %+v", board.submitted)
	}
}

func TestSubmitFailedAndRetry(t *testing.T) {
	board := &fakeBoard{submitErr: leaderboard.ErrTransient}
	m := newTestModel(board)
	m, rec := terminated(m, 3)

	m, _ = update(t, m, m.react(game.EventSubmitScore{Record: rec})())
	if m.State().Submit != game.SubmitFailed {
		t.Fatalf("Submit = %v, want failed", m.State().Submit)
	}

	board.submitErr = nil
	m, cmd := update(t, m, runeKey('t'))
	if cmd == nil {
		t.Fatal("retry issued no command")
	}
	if m.State().Submit != game.SubmitPending {
		t.Fatalf("Submit = %v, want pending", m.State().Submit)
	}

	m, _ = update(t, m, cmd())
	if m.State().Submit != game.SubmitDone {
		t.Errorf("Submit = %v, want saved", m.State().Submit)
	}
}

func TestOfflineSubmitIsSilent(t *testing.T) {
	m := newTestModel(nil)
	m, rec := terminated(m, 3)

	if cmd := m.react(game.EventSubmitScore{Record: rec}); cmd != nil {
		t.Error("offline session issued a submit command")
	}
}

func TestScoresRefresh(t *testing.T) {
	board := &fakeBoard{records: []leaderboard.ScoreRecord{
		{Name: "Ana", Score: 12},
		{Name: "Rex", Score: 9},
	}}
	m := newTestModel(board)
	m = typeText(t, m, "Rex")
	m, check := update(t, m, enterKey)
	m, _ = update(t, m, check())
	if m.State().PlayerName != "Rex" {
		t.Fatalf("PlayerName = %q", m.State().PlayerName)
	}

	stale := m.refreshCmd()
	fresh := m.refreshCmd()

	m, _ = update(t, m, stale())
	if len(m.panel.Records()) != 0 {
		t.Fatal("superseded refresh was applied")
	}
	m, _ = update(t, m, fresh())
	if got := m.panel.Records(); len(got) != 2 {
		t.Errorf("records = %+v", got)
	}
	if m.panel.table.Cursor() != 1 {
		t.Errorf("cursor = %d, want the current player's row", m.panel.table.Cursor())
	}
}

func TestResize(t *testing.T) {
	m := newTestModel(&fakeBoard{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if !m.showSidebar {
		t.Error("sidebar hidden on a wide terminal")
	}
	s := m.State()
	wantW := float64(120-sidebarWidth) * 10
	if s.Playfield.Width != wantW || s.Playfield.Height != 740 {
		t.Errorf("Playfield = %+v, want %vx740", s.Playfield, wantW)
	}
	if m.screen.Width() != 120-sidebarWidth || m.screen.Height() != 37 {
		t.Errorf("screen = %dx%d", m.screen.Width(), m.screen.Height())
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(nil)
	m = typeText(t, m, "Rex")
	m, _ = update(t, m, enterKey)

	m, cmd := update(t, m, runeKey('q'))
	if !m.quitting || cmd == nil {
		t.Error("q did not quit outside name entry")
	}
	if m.View() != "" {
		t.Error("View not empty after quitting")
	}
}

func TestView(t *testing.T) {
	m := newTestModel(nil)
	if v := m.View(); !strings.Contains(v, "CYBER FISH") || !strings.Contains(v, "name>") {
		t.Errorf("name entry view missing title or prompt:\n%s", v)
	}

	m = typeText(t, m, "Rex")
	m, _ = update(t, m, enterKey)
	if v := m.View(); !strings.Contains(v, "PRESS SPACE TO SWIM") || !strings.Contains(v, "player Rex") {
		t.Errorf("idle view:\n%s", v)
	}
}

func TestChangePlayerRefocusesInput(t *testing.T) {
	m := newTestModel(nil)
	m = typeText(t, m, "Rex")
	m, _ = update(t, m, enterKey)

	m, _ = update(t, m, runeKey('n'))
	if m.State().Phase != game.PhaseAwaitingIdentity {
		t.Fatalf("Phase = %v, want AwaitingIdentity", m.State().Phase)
	}
	if m.input.Value() != "" || !m.input.Focused() {
		t.Errorf("input = %q focused=%v", m.input.Value(), m.input.Focused())
	}
}

func TestSessionPlayer(t *testing.T) {
	long := strings.Repeat("x", leaderboard.MaxNameLength+5)
	if got := sessionPlayer(long); len(got) != leaderboard.MaxNameLength {
		t.Errorf("len = %d", len(got))
	}
	if got := sessionPlayer("  bob "); got != "bob" {
		t.Errorf("sessionPlayer = %q", got)
	}
}
