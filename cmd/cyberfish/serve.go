package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/cyberfish/internal/config"
	"github.com/vovakirdan/cyberfish/internal/server"
	"github.com/vovakirdan/cyberfish/internal/storage"
)

var (
	flagAddr      string
	flagQR        bool
	flagPublicURL string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the leaderboard HTTP service",
	Long: `Start the leaderboard service backed by a SQLite database.

Endpoints:
  GET  /                        - HTML scoreboard (?player=<name> highlights a row)
  GET  /api/scores              - All records, best score first
  POST /api/scores              - Submit {name, score}; keeps the higher score
  GET  /api/scores/check-name   - {exists} for ?name=<name>
  GET  /api/scores/stats        - Player count, best and average score
  GET  /api/scores/stream       - Live ledger over websocket (?codec=msgpack for binary frames)

Examples:
  cyberfish serve
  cyberfish serve --addr :8080 --db ./scores.db
  cyberfish serve --qr --public-url http://192.168.1.10:3000`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides server.address)")
	serveCmd.Flags().BoolVar(&flagQR, "qr", false, "Print a QR code linking to the scoreboard page")
	serveCmd.Flags().StringVar(&flagPublicURL, "public-url", "", "Scoreboard URL for the QR code (default derived from the address)")
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Address = flagAddr
	}

	logger := newLogger("cyberfish")

	qrURL := ""
	if flagQR {
		qrURL = flagPublicURL
		if qrURL == "" {
			qrURL = publicURL(cfg.Server.Address)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, logger, qrURL, os.Stdout); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

// serve runs the leaderboard service until ctx is cancelled. A non-empty
// qrURL is printed to out as a QR code first.
func serve(ctx context.Context, cfg config.Config, logger *log.Logger, qrURL string, out io.Writer) error {
	store, err := storage.Open(cfg.Server.DBPath)
	if err != nil {
		return fmt.Errorf("open scores database: %w", err)
	}
	defer store.Close()
	logger.Info("scores database open", "path", cfg.Server.DBPath)

	srv := server.New(store, logger,
		server.WithAddress(cfg.Server.Address),
		server.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.RequestTimeout),
	)

	if qrURL != "" {
		if err := printQR(out, qrURL); err != nil {
			logger.Warn("could not render QR code", "err", err)
		}
	}

	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}
	logger.Info("leaderboard stopped")
	return nil
}

// publicURL guesses a browsable URL for a listen address.
func publicURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// printQR writes url as a terminal QR code followed by the URL itself.
func printQR(w io.Writer, url string) error {
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return err
	}
	fmt.Fprint(w, q.ToSmallString(false))
	fmt.Fprintln(w, url)
	return nil
}
