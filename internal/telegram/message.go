package telegram

import (
	"context"
	"errors"
	"fmt"

	"github.com/gotd/td/tg"

	"github.com/pavelc4/tgxfer/internal/transfer"
)

var (
	errNoMedia         = errors.New("message has no downloadable media")
	errMessageNotFound = errors.New("message not found")
)

const (
	defaultDocumentName = "document"
	defaultVideoName    = "video.mp4"
	defaultAudioName    = "audio.mp3"
)

func fetchMessage(ctx context.Context, api *tg.Client, ref MessageRef) (*tg.Message, error) {
	ids := []tg.InputMessageClass{&tg.InputMessageID{ID: ref.MsgID}}

	var (
		res tg.MessagesMessagesClass
		err error
	)
	if ch, ok := ref.Peer.Input.(*tg.InputPeerChannel); ok {
		res, err = api.ChannelsGetMessages(ctx, &tg.ChannelsGetMessagesRequest{
			Channel: &tg.InputChannel{ChannelID: ch.ChannelID, AccessHash: ch.AccessHash},
			ID:      ids,
		})
	} else {
		res, err = api.MessagesGetMessages(ctx, ids)
	}
	if err != nil {
		return nil, fmt.Errorf("get message %d: %w", ref.MsgID, err)
	}

	for _, m := range messagesOf(res) {
		if msg, ok := m.(*tg.Message); ok && msg.ID == ref.MsgID {
			return msg, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", errMessageNotFound, ref)
}

func messagesOf(res tg.MessagesMessagesClass) []tg.MessageClass {
	switch r := res.(type) {
	case *tg.MessagesMessages:
		return r.Messages
	case *tg.MessagesMessagesSlice:
		return r.Messages
	case *tg.MessagesChannelMessages:
		return r.Messages
	default:
		return nil
	}
}

// fileFromMessage picks the media of msg. Names fall back to fixed defaults
// when the document carries no file name.
func fileFromMessage(msg *tg.Message) (transfer.RemoteFile, error) {
	switch m := msg.Media.(type) {
	case *tg.MessageMediaDocument:
		doc, ok := m.Document.(*tg.Document)
		if !ok {
			return transfer.RemoteFile{}, errNoMedia
		}
		return fileFromDocument(doc), nil
	case *tg.MessageMediaPhoto:
		photo, ok := m.Photo.(*tg.Photo)
		if !ok {
			return transfer.RemoteFile{}, errNoMedia
		}
		return fileFromPhoto(photo, photoName(int64(msg.ID)))
	default:
		return transfer.RemoteFile{}, errNoMedia
	}
}

func fileFromDocument(doc *tg.Document) transfer.RemoteFile {
	name := ""
	fallback := defaultDocumentName
	for _, attr := range doc.Attributes {
		switch a := attr.(type) {
		case *tg.DocumentAttributeFilename:
			name = a.FileName
		case *tg.DocumentAttributeVideo:
			fallback = defaultVideoName
		case *tg.DocumentAttributeAudio:
			fallback = defaultAudioName
		}
	}
	if name == "" {
		name = fallback
	}

	return transfer.RemoteFile{
		Name: name,
		Size: doc.Size,
		MIME: doc.MimeType,
		Location: &tg.InputDocumentFileLocation{
			ID:            doc.ID,
			AccessHash:    doc.AccessHash,
			FileReference: doc.FileReference,
		},
	}
}

func fileFromPhoto(photo *tg.Photo, name string) (transfer.RemoteFile, error) {
	size, ok := largestPhotoSize(photo.Sizes)
	if !ok {
		return transfer.RemoteFile{}, fmt.Errorf("%w: photo %d has no sizes", errNoMedia, photo.ID)
	}

	return transfer.RemoteFile{
		Name: name,
		Size: size.Bytes,
		MIME: "image/jpeg",
		Location: &tg.InputPhotoFileLocation{
			ID:            photo.ID,
			AccessHash:    photo.AccessHash,
			FileReference: photo.FileReference,
			ThumbSize:     size.Type,
		},
	}, nil
}

func photoName(id int64) string {
	return fmt.Sprintf("photo_%d.jpg", id)
}

type photoSize struct {
	Type  string
	Bytes int64
}

// largestPhotoSize ignores cached and stripped sizes, which are inlined in the
// message and cannot be downloaded.
func largestPhotoSize(sizes []tg.PhotoSizeClass) (photoSize, bool) {
	var (
		best  photoSize
		found bool
	)
	for _, s := range sizes {
		var cur photoSize
		switch ps := s.(type) {
		case *tg.PhotoSize:
			cur = photoSize{Type: ps.Type, Bytes: int64(ps.Size)}
		case *tg.PhotoSizeProgressive:
			if len(ps.Sizes) == 0 {
				continue
			}
			cur = photoSize{Type: ps.Type, Bytes: int64(ps.Sizes[len(ps.Sizes)-1])}
		default:
			continue
		}
		if !found || cur.Bytes > best.Bytes {
			best, found = cur, true
		}
	}
	return best, found
}
