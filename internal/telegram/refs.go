package telegram

import (
	"fmt"

	"github.com/gotd/td/tg"
)

// DocumentRef points at a document the caller already knows the location of.
type DocumentRef struct {
	ID            int64
	AccessHash    int64
	FileReference []byte
	Name          string
	Size          int64
	MIME          string
}

func (r DocumentRef) String() string {
	return fmt.Sprintf("document:%d", r.ID)
}

// PhotoRef points at one size of a photo. ThumbSize is the size type as
// listed in tg.Photo.Sizes and must be set.
type PhotoRef struct {
	ID            int64
	AccessHash    int64
	FileReference []byte
	ThumbSize     string
	Size          int64
}

func (r PhotoRef) String() string {
	return fmt.Sprintf("photo:%d", r.ID)
}

// MessageRef is resolved by fetching the message and taking its media.
type MessageRef struct {
	Peer  Peer
	MsgID int
}

func (r MessageRef) String() string {
	return fmt.Sprintf("message:%s/%d", r.Peer, r.MsgID)
}

// Peer is a chat files are fetched from or published to.
type Peer struct {
	Input tg.InputPeerClass
}

func UserPeer(id, accessHash int64) Peer {
	return Peer{Input: &tg.InputPeerUser{UserID: id, AccessHash: accessHash}}
}

func ChatPeer(id int64) Peer {
	return Peer{Input: &tg.InputPeerChat{ChatID: id}}
}

func ChannelPeer(id, accessHash int64) Peer {
	return Peer{Input: &tg.InputPeerChannel{ChannelID: id, AccessHash: accessHash}}
}

func (p Peer) String() string {
	switch in := p.Input.(type) {
	case *tg.InputPeerUser:
		return fmt.Sprintf("user%d", in.UserID)
	case *tg.InputPeerChat:
		return fmt.Sprintf("chat%d", in.ChatID)
	case *tg.InputPeerChannel:
		return fmt.Sprintf("channel%d", in.ChannelID)
	case *tg.InputPeerSelf:
		return "self"
	case nil:
		return "none"
	default:
		return fmt.Sprintf("%T", in)
	}
}
