package telegram

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gotd/td/tg"

	"github.com/pavelc4/tgxfer/internal/transfer"
	"github.com/pavelc4/tgxfer/pkg/utils"
)

var errForeignSession = errors.New("session was not started by this subsystem")

// Subsystem implements transfer.Subsystem on top of the gotd MTProto client.
type Subsystem struct {
	api *tg.Client
}

var _ transfer.Subsystem = (*Subsystem)(nil)

func NewSubsystem(api *tg.Client) *Subsystem {
	return &Subsystem{api: api}
}

func (s *Subsystem) Resolve(ctx context.Context, ref transfer.FileRef) (transfer.RemoteFile, error) {
	switch r := ref.(type) {
	case DocumentRef:
		if r.ID == 0 {
			return transfer.RemoteFile{}, fmt.Errorf("document id is empty")
		}
		return transfer.RemoteFile{
			Name: r.Name,
			Size: r.Size,
			MIME: r.MIME,
			Location: &tg.InputDocumentFileLocation{
				ID:            r.ID,
				AccessHash:    r.AccessHash,
				FileReference: r.FileReference,
			},
		}, nil
	case PhotoRef:
		if r.ID == 0 || r.ThumbSize == "" {
			return transfer.RemoteFile{}, fmt.Errorf("photo id and size type are required")
		}
		return transfer.RemoteFile{
			Name: photoName(r.ID),
			Size: r.Size,
			MIME: "image/jpeg",
			Location: &tg.InputPhotoFileLocation{
				ID:            r.ID,
				AccessHash:    r.AccessHash,
				FileReference: r.FileReference,
				ThumbSize:     r.ThumbSize,
			},
		}, nil
	case MessageRef:
		if r.Peer.Input == nil || r.MsgID <= 0 {
			return transfer.RemoteFile{}, fmt.Errorf("message reference needs a peer and a positive id")
		}
		msg, err := fetchMessage(ctx, s.api, r)
		if err != nil {
			return transfer.RemoteFile{}, err
		}
		return fileFromMessage(msg)
	default:
		return transfer.RemoteFile{}, fmt.Errorf("unsupported reference %T", ref)
	}
}

func (s *Subsystem) BeginDownload(ctx context.Context, file transfer.RemoteFile, dir string) (transfer.Session, error) {
	loc, ok := file.Location.(tg.InputFileLocationClass)
	if !ok {
		return nil, fmt.Errorf("unsupported location %T", file.Location)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}

	path := filepath.Join(dir, utils.SanitizeFileName(file.Name, defaultDocumentName))
	return startDownload(ctx, s.api, loc, path, file.Size)
}

func (s *Subsystem) BeginUpload(ctx context.Context, localPath string, size int64) (transfer.Session, error) {
	return startUpload(ctx, s.api, localPath, size), nil
}

func (s *Subsystem) Publish(ctx context.Context, dest transfer.Destination, sess transfer.Session, meta transfer.Metadata) (transfer.RemoteRef, error) {
	peer, ok := dest.(Peer)
	if !ok || peer.Input == nil {
		return transfer.RemoteRef{}, fmt.Errorf("unsupported destination %v", dest)
	}
	us, ok := sess.(*uploadSession)
	if !ok {
		return transfer.RemoteRef{}, errForeignSession
	}
	file, ok := us.uploaded()
	if !ok {
		return transfer.RemoteRef{}, fmt.Errorf("upload of %s has not finished", us.path)
	}

	media := buildMedia(file, meta, uploadThumb(ctx, s.api, meta.ThumbPath))
	updates, err := sendMedia(ctx, s.api, peer.Input, media, meta.Caption)
	if err != nil {
		return transfer.RemoteRef{}, err
	}
	return refFromUpdates(updates)
}
