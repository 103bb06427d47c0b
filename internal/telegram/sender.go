package telegram

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"

	"github.com/pavelc4/tgxfer/internal/transfer"
	"github.com/pavelc4/tgxfer/pkg/logger"
)

const (
	defaultVideoWidth  = 1280
	defaultVideoHeight = 720
)

func sendMedia(ctx context.Context, api *tg.Client, peer tg.InputPeerClass, media tg.InputMediaClass, caption string) (tg.UpdatesClass, error) {
	updates, err := api.MessagesSendMedia(ctx, &tg.MessagesSendMediaRequest{
		Peer:     peer,
		Media:    media,
		Message:  caption,
		RandomID: time.Now().UnixNano(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send media: %w", err)
	}
	return updates, nil
}

func uploadThumb(ctx context.Context, api *tg.Client, path string) tg.InputFileClass {
	if path == "" {
		return nil
	}
	thumb, err := uploader.NewUploader(api).FromPath(ctx, path)
	if err != nil {
		logger.Warn("Thumbnail upload failed, sending without it", "path", path, "error", err)
		return nil
	}
	return thumb
}

func mimeFor(meta transfer.Metadata) string {
	if meta.MIME != "" {
		return meta.MIME
	}
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(meta.FileName))); t != "" {
		return t
	}
	switch meta.Kind {
	case transfer.KindVideo:
		return "video/mp4"
	case transfer.KindAudio:
		return "audio/mpeg"
	case transfer.KindPhoto:
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

// buildMedia maps an uploaded file and its metadata to the input media Telegram
// expects for the kind. Photos uploaded as big files can only be sent as
// documents.
func buildMedia(file tg.InputFileClass, meta transfer.Metadata, thumb tg.InputFileClass) tg.InputMediaClass {
	kind := transfer.ParseMediaKind(string(meta.Kind))
	mimeType := mimeFor(meta)
	filename := &tg.DocumentAttributeFilename{FileName: meta.FileName}

	if kind == transfer.KindPhoto {
		if _, big := file.(*tg.InputFileBig); !big {
			return &tg.InputMediaUploadedPhoto{File: file}
		}
		logger.Warn("Photo too large for photo upload, sending as document", "file", meta.FileName)
		kind = transfer.KindDocument
	}

	doc := &tg.InputMediaUploadedDocument{
		File:       file,
		MimeType:   mimeType,
		Attributes: []tg.DocumentAttributeClass{filename},
	}
	if thumb != nil {
		doc.Thumb = thumb
	}

	switch kind {
	case transfer.KindVideo:
		w, h := meta.Width, meta.Height
		if w == 0 || h == 0 {
			w, h = defaultVideoWidth, defaultVideoHeight
			logger.Debug("Missing video dimensions, using default", "file", meta.FileName)
		}
		doc.Attributes = append([]tg.DocumentAttributeClass{&tg.DocumentAttributeVideo{
			SupportsStreaming: true,
			Duration:          meta.Duration.Seconds(),
			W:                 w,
			H:                 h,
		}}, doc.Attributes...)
	case transfer.KindAudio:
		doc.Attributes = append([]tg.DocumentAttributeClass{&tg.DocumentAttributeAudio{
			Duration: int(meta.Duration / time.Second),
			Title:    strings.TrimSuffix(meta.FileName, filepath.Ext(meta.FileName)),
		}}, doc.Attributes...)
	default:
		doc.ForceFile = true
	}
	return doc
}

func sentMessage(updates tg.UpdatesClass) (id int, msg *tg.Message) {
	switch u := updates.(type) {
	case *tg.UpdateShortSentMessage:
		return u.ID, nil
	case *tg.Updates:
		for _, update := range u.Updates {
			var m tg.MessageClass
			switch nu := update.(type) {
			case *tg.UpdateNewMessage:
				m = nu.Message
			case *tg.UpdateNewChannelMessage:
				m = nu.Message
			default:
				continue
			}
			if mm, ok := m.(*tg.Message); ok {
				return mm.ID, mm
			}
		}
	}
	return 0, nil
}

// refFromUpdates extracts the sent message and the stored media from the
// response to MessagesSendMedia.
func refFromUpdates(updates tg.UpdatesClass) (transfer.RemoteRef, error) {
	id, msg := sentMessage(updates)
	if id == 0 {
		return transfer.RemoteRef{}, fmt.Errorf("no sent message in %T", updates)
	}

	ref := transfer.RemoteRef{MessageID: id}
	if msg == nil {
		return ref, nil
	}
	switch m := msg.Media.(type) {
	case *tg.MessageMediaPhoto:
		if photo, ok := m.Photo.(*tg.Photo); ok {
			ref.MediaID, ref.AccessHash, ref.FileReference = photo.ID, photo.AccessHash, photo.FileReference
		}
	case *tg.MessageMediaDocument:
		if doc, ok := m.Document.(*tg.Document); ok {
			ref.MediaID, ref.AccessHash, ref.FileReference = doc.ID, doc.AccessHash, doc.FileReference
		}
	}
	return ref, nil
}
