package main

import (
	"context"
	"errors"

	"github.com/vovakirdan/cyberfish/internal/config"
	"github.com/vovakirdan/cyberfish/internal/leaderboard"
	"github.com/vovakirdan/cyberfish/internal/storage"
)

// statsSource is implemented by both the HTTP client and the SQLite store.
type statsSource interface {
	Stats(ctx context.Context) (leaderboard.Stats, error)
}

var errNoLeaderboard = errors.New("no leaderboard configured: set client.api_url, pass --api or use --local")

// ledger is the leaderboard a command talks to.
type ledger struct {
	board leaderboard.Board
	stats statsSource
	where string
	close func() error
}

// openLedger opens the local SQLite ledger when local is set, otherwise
// a client for the configured service.
func openLedger(cfg config.Config, local bool) (*ledger, error) {
	if local {
		store, err := storage.Open(cfg.Server.DBPath)
		if err != nil {
			return nil, err
		}
		return &ledger{
			board: leaderboard.NewLocal(store),
			stats: store,
			where: cfg.Server.DBPath,
			close: store.Close,
		}, nil
	}

	if cfg.Client.APIURL == "" {
		return nil, errNoLeaderboard
	}
	client := leaderboard.NewClient(cfg.Client.APIURL, cfg.Client.Timeout)
	return &ledger{
		board: client,
		stats: client,
		where: client.BaseURL(),
		close: func() error { return nil },
	}, nil
}
