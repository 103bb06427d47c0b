package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pavelc4/tgxfer/internal/app"
	"github.com/pavelc4/tgxfer/internal/progress"
	"github.com/pavelc4/tgxfer/internal/telegram"
	"github.com/pavelc4/tgxfer/internal/transfer"
)

type downloadFlags struct {
	Peer  peerFlags
	MsgID int
	Name  string
}

func newDownloadCmd(root *rootFlags) *cobra.Command {
	flags := &downloadFlags{}
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the file attached to a message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			peer, err := parsePeer(flags.Peer)
			if err != nil {
				return err
			}
			ref := telegram.MessageRef{Peer: peer, MsgID: flags.MsgID}

			return runApp(cmd, root, func(ctx context.Context, _ *app.App, c *transfer.Coordinator) error {
				path, err := c.DownloadFile(ctx, ref, flags.Name, newSink(root, cmd.ErrOrStderr(), "Downloading"))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}
	addPeerFlags(cmd, &flags.Peer)
	cmd.Flags().IntVar(&flags.MsgID, "msg", 0, "Message id (required)")
	cmd.Flags().StringVar(&flags.Name, "name", "", "Label shown in progress output")
	_ = cmd.MarkFlagRequired("msg")
	return cmd
}

type batchFlags struct {
	Peer   peerFlags
	MsgIDs []int
}

func newBatchCmd(root *rootFlags) *cobra.Command {
	flags := &batchFlags{}
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Download the files attached to several messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			peer, err := parsePeer(flags.Peer)
			if err != nil {
				return err
			}
			if len(flags.MsgIDs) == 0 {
				return fmt.Errorf("at least one --msg is required")
			}

			return runApp(cmd, root, func(ctx context.Context, a *app.App, c *transfer.Coordinator) error {
				reqs := make([]transfer.DownloadRequest, 0, len(flags.MsgIDs))
				for _, id := range flags.MsgIDs {
					reqs = append(reqs, transfer.DownloadRequest{
						Ref:  telegram.MessageRef{Peer: peer, MsgID: id},
						Sink: progress.LogSink{Action: "Downloading"},
					})
				}

				var errs []error
				for _, res := range c.DownloadAll(ctx, reqs, a.Cfg.MaxConcurrentTransfers) {
					if res.Err != nil {
						errs = append(errs, res.Err)
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\terror: %v\n", res.Request.Ref, res.Err)
						continue
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", res.Request.Ref, res.Path)
				}
				return errors.Join(errs...)
			})
		},
	}
	addPeerFlags(cmd, &flags.Peer)
	cmd.Flags().IntSliceVar(&flags.MsgIDs, "msg", nil, "Message ids, repeat or comma separate")
	return cmd
}
