package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cyberfish/internal/leaderboard"
)

var (
	flagScoresLocal bool
	flagLimit       int
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard",
	Long: `Display the leaderboard, best score first, followed by ledger statistics.

Examples:
  cyberfish scores
  cyberfish scores --limit 3
  cyberfish scores --local --db ./scores.db`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresLocal, "local", false, "Read the local scores database instead of the service")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of rows to show (0 = all)")
}

func runScores(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	l, err := openLedger(cfg, flagScoresLocal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer l.close()

	ctx := context.Background()
	records, err := l.board.Scores(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores from %s: %v\n", l.where, err)
		os.Exit(1)
	}

	fmt.Printf("Cyber Fish High Scores - %s\n\n", l.where)
	printScores(os.Stdout, records, flagLimit)

	if len(records) == 0 {
		fmt.Println()
		fmt.Println("Play 'cyberfish play' to set the first high score!")
		return
	}

	stats, err := l.stats.Stats(ctx)
	if err != nil {
		// Stats are a nice-to-have; the table is already printed
		fmt.Fprintf(os.Stderr, "Warning: could not load stats: %v\n", err)
		return
	}
	fmt.Println()
	printStats(os.Stdout, stats)
}

// printScores writes up to limit records as a table.
func printScores(w io.Writer, records []leaderboard.ScoreRecord, limit int) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No scores recorded yet.")
		return
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	fmt.Fprintf(w, "  %-4s  %-*s  %-7s  %s\n", "Rank", leaderboard.MaxNameLength, "Name", "Score", "Date")
	fmt.Fprintf(w, "  %-4s  %-*s  %-7s  %s\n", "----", leaderboard.MaxNameLength, "----", "-----", "----")
	for i, r := range records {
		fmt.Fprintf(w, "  %-4d  %-*s  %-7d  %s\n",
			i+1, leaderboard.MaxNameLength, r.Name, r.Score, r.Date.Local().Format("2006-01-02 15:04"))
	}
}

func printStats(w io.Writer, s leaderboard.Stats) {
	fmt.Fprintf(w, "Players: %d  Best: %d  Average: %.1f", s.Players, s.Best, s.Average)
	if !s.LastPlayed.IsZero() {
		fmt.Fprintf(w, "  Last played: %s", s.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(w)
}
