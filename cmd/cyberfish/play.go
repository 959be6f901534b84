package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/cyberfish/internal/core"
	"github.com/vovakirdan/cyberfish/internal/platform/tui"
)

var (
	flagOffline bool
	flagLocal   bool
	flagName    string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Cyber Fish",
	Long: `Start a Cyber Fish session in this terminal.

Enter a player name first. The name must not already be on the
leaderboard. Scores above zero are submitted when the round ends, and
only a player's best score is kept.

Controls:
  Space/Up/Click - Start, then swim up
  R              - Reset after game over
  N              - Change player
  T              - Retry a failed score submission
  Tab            - Refresh the leaderboard
  Ctrl+S         - Save a text screenshot
  Q/Ctrl+C       - Quit

Leaderboard:
  default    - the service at client.api_url (or --api)
  --local    - the SQLite database at server.db_path (or --db)
  --offline  - no leaderboard; names are not checked

Examples:
  cyberfish play
  cyberfish play --name Rex
  cyberfish play --local --db ./scores.db
  cyberfish play --offline --seed 42`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagOffline, "offline", false, "Play without a leaderboard")
	playCmd.Flags().BoolVar(&flagLocal, "local", false, "Use the local scores database instead of the service")
	playCmd.Flags().StringVar(&flagName, "name", "", "Prefill the player name")
}

func runPlay(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rt := core.DefaultConfig()
	rt.TickRate = cfg.Display.TickRate
	rt.Seed = flagSeed
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		rt.ScreenW = w
		rt.ScreenH = h
	}

	opts := tui.Options{Player: flagName}
	var l *ledger
	if !flagOffline {
		l, err = openLedger(cfg, flagLocal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: playing without a leaderboard: %v\n", err)
			// Continue offline - the game still works
		} else {
			opts.Board = l.board
		}
	}

	runErr := tui.Run(cfg, rt, opts)

	// Close the ledger before a potential exit
	if l != nil {
		l.close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
