package app

import (
	"context"
	"fmt"

	"github.com/pavelc4/tgxfer/config"
	"github.com/pavelc4/tgxfer/internal/stats"
	"github.com/pavelc4/tgxfer/internal/telegram"
	"github.com/pavelc4/tgxfer/internal/transfer"
	"github.com/pavelc4/tgxfer/pkg/logger"
)

// App connects the Telegram client to a transfer coordinator.
type App struct {
	Cfg    *config.Config
	Client *telegram.Client
	Stats  *stats.Recorder
}

func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if cfg.Debug {
		_ = logger.SetLevel("debug")
	}

	client, err := telegram.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("Application initialized successfully",
		"download_dir", cfg.DownloadDir,
		"poll_interval", cfg.PollInterval,
		"max_transfers", cfg.MaxConcurrentTransfers,
	)
	return &App{
		Cfg:    cfg,
		Client: client,
		Stats:  stats.NewRecorder(),
	}, nil
}

// Run logs in as the bot and hands fn a coordinator bound to the live
// connection. The connection closes when fn returns.
func (a *App) Run(ctx context.Context, fn func(ctx context.Context, c *transfer.Coordinator) error) error {
	return a.Client.Run(ctx, a.Cfg.BotToken, func(ctx context.Context) error {
		sys := telegram.NewSubsystem(a.Client.API())
		return fn(ctx, a.Coordinator(sys))
	})
}

// Coordinator builds a coordinator over sys with the configured options.
func (a *App) Coordinator(sys transfer.Subsystem) *transfer.Coordinator {
	return transfer.New(sys,
		transfer.WithPollInterval(a.Cfg.PollInterval),
		transfer.WithDownloadDir(a.Cfg.DownloadDir),
		transfer.WithRecorder(a.Stats),
	)
}
