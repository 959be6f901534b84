// cyberfish is a flappy-style terminal game with a shared leaderboard.
//
// Usage:
//
//	cyberfish play              - Play in this terminal
//	cyberfish serve             - Run the leaderboard HTTP service
//	cyberfish ssh               - Serve the game over SSH
//	cyberfish scores            - Show the leaderboard
//	cyberfish check-name <name> - Check whether a name is taken
//	cyberfish config            - Print the effective configuration
//
// Global flags:
//
//	--config <path> - Config file (default search: ~/.cyberfish/config.yaml, ./configs/cyberfish.yaml)
//	--api <url>     - Leaderboard service URL (default: http://localhost:3000)
//	--db <path>     - Scores database (default: ~/.cyberfish/scores.db)
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible obstacle layouts
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/cyberfish/internal/config"
)

var (
	// Global flags
	flagConfig  string
	flagAPI     string
	flagDBPath  string
	flagFPS     int
	flagSeed    int64
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cyberfish",
	Short: "Cyber Fish - swim between the pipes in your terminal",
	Long: `Cyber Fish is a one-button game: keep the fish between the pipes.
Every pipe passed scores a point, and the pipes speed up as you go.
Scores land on a shared leaderboard, one best score per player name.

Available commands:
  play        - Play in this terminal
  serve       - Run the leaderboard HTTP service
  ssh         - Serve the game over SSH
  scores      - Show the leaderboard
  check-name  - Check whether a player name is taken
  config      - Print the effective configuration

Examples:
  cyberfish serve
  cyberfish play
  cyberfish play --local
  cyberfish ssh --listen :2222
  cyberfish scores --api http://scores.example.com`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagAPI, "api", "", "Leaderboard service URL (overrides client.api_url)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (overrides server.db_path)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sshCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(checkNameCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads the config file and applies flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("api") {
		cfg.Client.APIURL = flagAPI
	}
	if flags.Changed("db") {
		cfg.Server.DBPath = config.ExpandHome(flagDBPath)
	}
	if flags.Changed("fps") {
		cfg.Display.TickRate = flagFPS
	}
	return cfg, cfg.Validate()
}

// newLogger returns the stderr logger used by the long-running commands.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
