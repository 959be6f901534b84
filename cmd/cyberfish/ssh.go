package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cyberfish/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagRemote      bool
)

var sshCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Serve Cyber Fish over SSH",
	Long: `Start an SSH server that runs a Cyber Fish session for every connection.

The SSH user name prefills the player name. All sessions share one
leaderboard: the local scores database by default, or the leaderboard
service with --remote.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.cyberfish/host_key

Examples:
  cyberfish ssh                             # Listen on :23234 with a local leaderboard
  cyberfish ssh --listen :2222              # Listen on port 2222
  cyberfish ssh --remote --api http://localhost:3000

Players can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runSSH,
}

func init() {
	sshCmd.Flags().StringVar(&flagSSHAddr, "listen", ":23234", "SSH server address (host:port)")
	sshCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	sshCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	sshCmd.Flags().BoolVar(&flagRemote, "remote", false, "Use the leaderboard service instead of the local database")
}

func runSSH(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger("cyberfish-ssh")

	l, err := openLedger(cfg, !flagRemote)
	if err != nil {
		logger.Error("could not open leaderboard", "err", err)
		os.Exit(1)
	}
	defer l.close()

	sshCfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
	}

	server, err := tui.NewSSHServer(sshCfg, cfg, l.board, logger)
	if err != nil {
		logger.Error("could not create SSH server", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("leaderboard", "source", l.where)
	if err := server.ListenAndServe(ctx); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
