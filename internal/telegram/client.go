package telegram

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"

	"github.com/pavelc4/tgxfer/config"
	"github.com/pavelc4/tgxfer/pkg/logger"
)

type Client struct {
	client *telegram.Client
	api    *tg.Client
	me     *tg.User
}

// NewClient keeps the MTProto session under cfg.SessionDir. The gotd logger is
// only enabled in debug mode.
func NewClient(cfg *config.Config) (*Client, error) {
	log := zap.NewNop()
	if cfg.Debug {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("create gotd logger: %w", err)
		}
		log = l.Named("gotd")
	}

	client := telegram.NewClient(cfg.AppID, cfg.AppHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: filepath.Join(cfg.SessionDir, "session.json")},
		Logger:         log,
	})

	return &Client{
		client: client,
		api:    client.API(),
	}, nil
}

// Run connects, logs in as a bot when the stored session is not authorized and
// calls fn. The connection is closed when fn returns.
func (c *Client) Run(ctx context.Context, botToken string, fn func(ctx context.Context) error) error {
	return c.client.Run(ctx, func(ctx context.Context) error {
		status, err := c.client.Auth().Status(ctx)
		if err != nil {
			return fmt.Errorf("auth status failed: %w", err)
		}

		if !status.Authorized {
			if _, err := c.client.Auth().Bot(ctx, botToken); err != nil {
				return fmt.Errorf("bot login failed: %w", err)
			}
		}

		me, err := c.client.Self(ctx)
		if err != nil {
			return fmt.Errorf("get self failed: %w", err)
		}
		c.me = me

		logger.Info("Telegram client connected", "username", me.Username, "id", me.ID)
		return fn(ctx)
	})
}

func (c *Client) API() *tg.Client {
	return c.api
}

func (c *Client) Me() *tg.User {
	return c.me
}
