package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pavelc4/tgxfer/internal/app"
	"github.com/pavelc4/tgxfer/internal/transfer"
)

type uploadFlags struct {
	Peer     peerFlags
	FilePath string
	Kind     string
	Caption  string
	Thumb    string
	Duration time.Duration
	Width    int
	Height   int
}

func (f *uploadFlags) metadata() transfer.Metadata {
	return transfer.Metadata{
		Caption:   f.Caption,
		Kind:      transfer.ParseMediaKind(f.Kind),
		ThumbPath: f.Thumb,
		Duration:  f.Duration,
		Width:     f.Width,
		Height:    f.Height,
	}
}

func newUploadCmd(root *rootFlags) *cobra.Command {
	flags := &uploadFlags{}
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a local file and send it to a chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			peer, err := parsePeer(flags.Peer)
			if err != nil {
				return err
			}

			return runApp(cmd, root, func(ctx context.Context, _ *app.App, c *transfer.Coordinator) error {
				ref, err := c.UploadFile(ctx, peer, flags.FilePath, flags.metadata(), newSink(root, cmd.ErrOrStderr(), "Uploading"))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "message %d media %d\n", ref.MessageID, ref.MediaID)
				return nil
			})
		},
	}
	addPeerFlags(cmd, &flags.Peer)
	cmd.Flags().StringVarP(&flags.FilePath, "file", "f", "", "Path to the file to upload (required)")
	cmd.Flags().StringVar(&flags.Kind, "kind", "document", "Media kind: document, photo, video or audio")
	cmd.Flags().StringVar(&flags.Caption, "caption", "", "Message caption")
	cmd.Flags().StringVar(&flags.Thumb, "thumb", "", "Thumbnail image for videos and documents")
	cmd.Flags().DurationVar(&flags.Duration, "duration", 0, "Duration for video and audio")
	cmd.Flags().IntVar(&flags.Width, "width", 0, "Video width")
	cmd.Flags().IntVar(&flags.Height, "height", 0, "Video height")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
