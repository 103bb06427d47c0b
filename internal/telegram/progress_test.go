package telegram

import (
	"bytes"
	"context"
	"testing"

	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelc4/tgxfer/internal/transfer"
)

func TestCountingWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &countingWriter{w: &buf}

	_, err := w.Write([]byte("hello "))
	require.NoError(t, err)
	_, err = w.Write([]byte("world"))
	require.NoError(t, err)

	assert.Equal(t, int64(11), w.Written())
	assert.Equal(t, "hello world", buf.String())
}

func TestUploadProgress(t *testing.T) {
	p := &uploadProgress{}

	uploaded, total := p.snapshot(100)
	assert.Zero(t, uploaded)
	assert.Equal(t, int64(100), total)

	require.NoError(t, p.Chunk(context.Background(), uploader.ProgressState{Uploaded: 40, Total: 120}))
	uploaded, total = p.snapshot(100)
	assert.Equal(t, int64(40), uploaded)
	assert.Equal(t, int64(120), total)
}

func TestPeerString(t *testing.T) {
	assert.Equal(t, "user1", UserPeer(1, 2).String())
	assert.Equal(t, "chat3", ChatPeer(3).String())
	assert.Equal(t, "channel4", ChannelPeer(4, 5).String())
	assert.Equal(t, "self", Peer{Input: &tg.InputPeerSelf{}}.String())
	assert.Equal(t, "none", Peer{}.String())
	assert.Equal(t, "message:channel4/9", MessageRef{Peer: ChannelPeer(4, 5), MsgID: 9}.String())
}

func TestResolveDirectRefs(t *testing.T) {
	s := NewSubsystem(nil)
	ctx := context.Background()

	file, err := s.Resolve(ctx, DocumentRef{ID: 1, AccessHash: 2, Name: "a.zip", Size: 10})
	require.NoError(t, err)
	assert.Equal(t, "a.zip", file.Name)
	assert.IsType(t, &tg.InputDocumentFileLocation{}, file.Location)

	file, err = s.Resolve(ctx, PhotoRef{ID: 3, ThumbSize: "x"})
	require.NoError(t, err)
	assert.Equal(t, "photo_3.jpg", file.Name)

	_, err = s.Resolve(ctx, PhotoRef{ID: 3})
	assert.Error(t, err)
	_, err = s.Resolve(ctx, DocumentRef{})
	assert.Error(t, err)
	_, err = s.Resolve(ctx, MessageRef{MsgID: 1})
	assert.Error(t, err)
}

func TestPublishRejectsForeignSession(t *testing.T) {
	s := NewSubsystem(nil)

	_, err := s.Publish(context.Background(), ChatPeer(1), nil, transfer.Metadata{})
	assert.ErrorIs(t, err, errForeignSession)
}
