package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pavelc4/tgxfer/config"
	"github.com/pavelc4/tgxfer/internal/app"
	"github.com/pavelc4/tgxfer/internal/progress"
	"github.com/pavelc4/tgxfer/internal/telegram"
	"github.com/pavelc4/tgxfer/internal/transfer"
	"github.com/pavelc4/tgxfer/internal/ui"
)

type rootFlags struct {
	ConfigPath string
	Quiet      bool
}

type peerFlags struct {
	Kind       string
	ID         int64
	AccessHash int64
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "tgxfer",
		Short:         "Download and upload Telegram files with progress reporting",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "", "Config file (yaml, toml or json)")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Log progress instead of drawing a bar")

	// Bound to the config keys of the same name, see config.LoadWithFlags.
	pf := cmd.PersistentFlags()
	pf.String("session-dir", "", "Directory holding the MTProto session")
	pf.String("download-dir", "", "Directory downloads are written to")
	pf.Duration("poll-interval", 0, "Progress poll interval")
	pf.Int("max-transfers", 0, "Concurrent downloads for batch")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.Bool("debug", false, "Enable debug logging, including the MTProto client")

	cmd.AddCommand(
		newDownloadCmd(flags),
		newBatchCmd(flags),
		newUploadCmd(flags),
	)
	return cmd
}

func addPeerFlags(cmd *cobra.Command, p *peerFlags) {
	cmd.Flags().StringVar(&p.Kind, "peer-kind", "user", "Peer kind: user, chat or channel")
	cmd.Flags().Int64Var(&p.ID, "peer-id", 0, "Peer id (required)")
	cmd.Flags().Int64Var(&p.AccessHash, "access-hash", 0, "Peer access hash for users and channels")
	_ = cmd.MarkFlagRequired("peer-id")
}

func parsePeer(p peerFlags) (telegram.Peer, error) {
	if p.ID == 0 {
		return telegram.Peer{}, fmt.Errorf("peer id is required")
	}
	switch p.Kind {
	case "user":
		return telegram.UserPeer(p.ID, p.AccessHash), nil
	case "chat":
		return telegram.ChatPeer(p.ID), nil
	case "channel":
		return telegram.ChannelPeer(p.ID, p.AccessHash), nil
	default:
		return telegram.Peer{}, fmt.Errorf("unknown peer kind %q", p.Kind)
	}
}

func newSink(flags *rootFlags, out io.Writer, action string) progress.Sink {
	if flags.Quiet {
		return progress.LogSink{Action: action}
	}
	return ui.NewBarSink(out, action)
}

func runApp(cmd *cobra.Command, flags *rootFlags, fn func(ctx context.Context, a *app.App, c *transfer.Coordinator) error) error {
	cfg, err := config.LoadWithFlags(flags.ConfigPath, cmd.Flags())
	if err != nil {
		return err
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	return a.Run(cmd.Context(), func(ctx context.Context, c *transfer.Coordinator) error {
		return fn(ctx, a, c)
	})
}
