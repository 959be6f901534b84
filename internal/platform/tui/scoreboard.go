package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/cyberfish/internal/leaderboard"
)

// Leaderboard panel layout constants
const (
	minWidthForSidebar = 96 // Minimum terminal width to show the panel
	sidebarWidth       = 36 // Width of the panel including its border
	panelChrome        = 4  // Title line, header border and panel border
)

var medals = []string{"🥇", "🥈", "🥉"}

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Width(sidebarWidth - 2)
	panelTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))
)

// LeaderboardPanel shows the ledger next to the playfield. The current
// player's row is selected when present.
type LeaderboardPanel struct {
	table   table.Model
	records []leaderboard.ScoreRecord
	player  string
	status  string
	styles  table.Styles // With a highlighted selection
	plain   table.Styles // Selection rendered like any other row
}

// NewLeaderboardPanel creates an empty panel height rows tall.
func NewLeaderboardPanel(height int) LeaderboardPanel {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Player", Width: 16},
		{Title: "Score", Width: 7},
	}

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	plain := s
	plain.Selected = lipgloss.NewStyle()

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
		table.WithHeight(max(1, height-panelChrome)),
		table.WithStyles(plain),
	)

	return LeaderboardPanel{
		table:  t,
		status: "loading...",
		styles: s,
		plain:  plain,
	}
}

// SetHeight resizes the panel.
func (p *LeaderboardPanel) SetHeight(height int) {
	p.table.SetHeight(max(1, height-panelChrome))
}

// SetRecords replaces the ledger and highlights player's row.
func (p *LeaderboardPanel) SetRecords(records []leaderboard.ScoreRecord, player string) {
	p.records = records
	p.status = ""
	p.table.SetRows(leaderboardRows(records))
	p.SetPlayer(player)
}

// SetPlayer moves the highlight to player, or clears it when player has
// no row.
func (p *LeaderboardPanel) SetPlayer(player string) {
	p.player = player
	rank := leaderboard.Rank(p.records, player)
	if rank == 0 {
		p.table.SetStyles(p.plain)
		p.table.GotoTop()
		return
	}
	p.table.SetStyles(p.styles)
	p.table.SetCursor(rank - 1)
}

// SetStatus shows a one-line message in place of the title hint.
func (p *LeaderboardPanel) SetStatus(status string) {
	p.status = status
}

// Records returns the rows currently shown.
func (p LeaderboardPanel) Records() []leaderboard.ScoreRecord {
	return p.records
}

// View renders the panel.
func (p LeaderboardPanel) View() string {
	var b strings.Builder
	b.WriteString(panelTitle.Render("HIGH SCORES"))
	switch {
	case p.status != "":
		b.WriteString("  " + hudDim.Render(p.status))
	case len(p.records) == 0:
		b.WriteString("  " + hudDim.Render("no scores yet"))
	}
	b.WriteString("\n")
	b.WriteString(p.table.View())
	return panelStyle.Render(b.String())
}

// leaderboardRows renders records in ledger order. The top three ranks
// get medals.
func leaderboardRows(records []leaderboard.ScoreRecord) []table.Row {
	rows := make([]table.Row, len(records))
	for i, r := range records {
		rank := strconv.Itoa(i + 1)
		if i < len(medals) {
			rank = medals[i]
		}
		rows[i] = table.Row{rank, r.Name, strconv.Itoa(r.Score)}
	}
	return rows
}
