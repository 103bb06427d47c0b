package telegram

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelc4/tgxfer/internal/progress"
	"github.com/pavelc4/tgxfer/internal/transfer"
)

func newTestDownload(total int64) *downloadSession {
	s := &downloadSession{
		handle: transfer.NewHandle(transfer.DirectionDownload),
		path:   "/tmp/a.bin",
		total:  total,
		w:      &countingWriter{w: &bytes.Buffer{}},
		done:   make(chan struct{}),
	}
	s.cancel = func() { close(s.done) }
	return s
}

func TestDownloadSessionPoll(t *testing.T) {
	s := newTestDownload(100)
	_, err := s.w.Write(make([]byte, 40))
	require.NoError(t, err)

	st, err := s.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, progress.InProgress(40, 100), st)

	close(s.done)
	st, err = s.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, progress.Completed(40, "/tmp/a.bin"), st)
}

func TestDownloadSessionPollFailed(t *testing.T) {
	cause := errors.New("FILE_REFERENCE_EXPIRED")
	s := newTestDownload(100)
	s.err = cause
	close(s.done)

	st, err := s.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, progress.KindFailed, st.Kind)
	assert.ErrorIs(t, st.Err, cause)
}

func TestDownloadSessionReleaseWaits(t *testing.T) {
	s := newTestDownload(100)

	s.Release()
	s.Release()

	select {
	case <-s.done:
	default:
		t.Fatal("release returned before the download goroutine finished")
	}
}

func newTestUpload(size int64) *uploadSession {
	s := &uploadSession{
		handle: transfer.NewHandle(transfer.DirectionUpload),
		path:   "/tmp/b.bin",
		size:   size,
		prog:   &uploadProgress{},
		done:   make(chan struct{}),
	}
	s.cancel = func() { close(s.done) }
	return s
}

func TestUploadSessionPoll(t *testing.T) {
	s := newTestUpload(300)
	require.NoError(t, s.prog.Chunk(context.Background(), uploader.ProgressState{Uploaded: 120, Total: 300}))

	st, err := s.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, progress.InProgress(120, 300), st)
	_, ok := s.uploaded()
	assert.False(t, ok)

	file := &tg.InputFile{ID: 9, Parts: 1, Name: "b.bin"}
	s.file = file
	close(s.done)

	st, err = s.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, progress.Completed(300, ""), st)
	got, ok := s.uploaded()
	require.True(t, ok)
	assert.Same(t, file, got)
}

func TestUploadSessionPollFailed(t *testing.T) {
	cause := errors.New("FLOOD_WAIT")
	s := newTestUpload(300)
	s.err = cause
	close(s.done)

	st, err := s.Poll(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, st.Err, cause)
	_, ok := s.uploaded()
	assert.False(t, ok)
}
