package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cyberfish/internal/leaderboard"
)

var flagCheckLocal bool

var checkNameCmd = &cobra.Command{
	Use:   "check-name <name>",
	Short: "Check whether a player name is taken",
	Long: `Report whether a name already has a leaderboard record. Taken names
cannot be used to start a new session. Exits with status 2 when taken.

Examples:
  cyberfish check-name Rex
  cyberfish check-name "Neon Koi" --local`,
	Args: cobra.ExactArgs(1),
	Run:  runCheckName,
}

func init() {
	checkNameCmd.Flags().BoolVar(&flagCheckLocal, "local", false, "Check the local scores database instead of the service")
}

func runCheckName(cmd *cobra.Command, args []string) {
	name := leaderboard.NormalizeName(args[0])
	if !leaderboard.ValidName(name) {
		fmt.Fprintf(os.Stderr, "Error: names must be 1-%d characters\n", leaderboard.MaxNameLength)
		os.Exit(1)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	l, err := openLedger(cfg, flagCheckLocal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = leaderboard.ReserveName(context.Background(), l.board, name)
	l.close()
	if errors.Is(err, leaderboard.ErrNameTaken) {
		fmt.Printf("%q is taken\n", name)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error checking name (%s): %v\n", leaderboard.Classify(err), err)
		os.Exit(1)
	}
	fmt.Printf("%q is available\n", name)
}
