package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/cyberfish/internal/config"
	"github.com/vovakirdan/cyberfish/internal/core"
	"github.com/vovakirdan/cyberfish/internal/game"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorGray:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

var (
	hudStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	hudDim      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// DrawState rasterises s onto scr. Playfield units are converted to cells
// with the display cell size.
func DrawState(scr *core.Screen, s game.State, display config.DisplayConfig) {
	scr.Clear()
	cw, ch := display.CellWidth, display.CellHeight
	rows := scr.Height()

	for _, o := range s.Obstacles {
		x0 := int(math.Floor(o.X / cw))
		w := int(math.Ceil(o.Right()/cw)) - x0
		top := int(math.Ceil(o.GapTop / ch))
		bottom := int(math.Floor(o.GapBottom() / ch))

		scr.FillRect(x0, 0, w, top, '█', core.ColorGreen)
		scr.FillRect(x0, bottom, w, rows-bottom, '█', core.ColorGreen)
		if top > 0 {
			scr.DrawHLine(x0, top-1, w, '▀', core.ColorGreen)
		}
		scr.DrawHLine(x0, bottom, w, '▄', core.ColorGreen)
	}

	drawFish(scr, s, cw, ch)
	drawOverlay(scr, s)
}

func drawFish(scr *core.Screen, s game.State, cw, ch float64) {
	e := s.Entity
	cells := max(1, int(math.Round(e.Width/cw)))
	sprite := fishSprite(cells)
	color := core.ColorCyan
	switch {
	case s.Phase == game.PhaseTerminated:
		sprite = strings.Replace(sprite, "°", "x", 1)
		color = core.ColorRed
	case s.Armed:
		color = core.ColorMagenta
	}
	x := int(math.Floor(e.X / cw))
	y := int(math.Floor((e.Y + e.Height/2) / ch))
	scr.DrawText(x, core.Clamp(y, 0, scr.Height()-1), sprite, color)
}

// fishSprite returns a right-facing fish exactly cells runes wide.
func fishSprite(cells int) string {
	switch {
	case cells <= 1:
		return ">"
	case cells == 2:
		return "°>"
	case cells == 3:
		return "<°>"
	default:
		return "><" + strings.Repeat(")", cells-4) + "°>"
	}
}

func drawOverlay(scr *core.Screen, s game.State) {
	mid := scr.Height() / 2
	switch {
	case s.Phase == game.PhaseAwaitingIdentity:
		scr.DrawTextCentered(mid-2, "C Y B E R   F I S H", core.ColorMagenta)
		scr.DrawTextCentered(mid+2, "Who's swimming? Enter a name below", core.ColorGray)
	case s.Phase == game.PhaseIdle && s.Armed:
		scr.DrawTextCentered(mid-2, "GET READY", core.ColorMagenta)
	case s.Phase == game.PhaseIdle:
		scr.DrawTextCentered(mid-2, "PRESS SPACE TO SWIM", core.ColorYellow)
	case s.Phase == game.PhaseTerminated:
		const boxW, boxH = 38, 8
		scr.DrawBox((scr.Width()-boxW)/2, mid-4, boxW, boxH, core.ColorRed)
		scr.DrawTextCentered(mid-3, "GAME OVER", core.ColorRed)
		scr.DrawTextCentered(mid-2, fmt.Sprintf("Score %d  Best %d", s.Score, s.Best), core.ColorWhite)
		scr.DrawTextCentered(mid+2, submitLine(s.Submit), core.ColorGray)
	}
}

func submitLine(st game.SubmitStatus) string {
	switch st {
	case game.SubmitPending:
		return "saving score..."
	case game.SubmitDone:
		return "score saved"
	case game.SubmitFailed:
		return "score not saved, press t to retry"
	default:
		return ""
	}
}

// hudLine renders the status bar shown above the playfield.
func hudLine(s game.State, width int) string {
	player := s.PlayerName
	if player == "" {
		player = "-"
	}
	left := hudStyle.Render("CYBER FISH")
	right := hudDim.Render(fmt.Sprintf("player %s  score %d  best %d  speed %.1f",
		player, s.Score, s.Best, s.Difficulty.Speed))
	gap := max(1, width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}
