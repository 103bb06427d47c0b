package telegram

import (
	"context"
	"sync"

	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"

	"github.com/pavelc4/tgxfer/internal/progress"
	"github.com/pavelc4/tgxfer/internal/transfer"
)

type uploadSession struct {
	handle transfer.Handle
	path   string
	size   int64
	prog   *uploadProgress

	cancel context.CancelFunc
	once   sync.Once

	done chan struct{}
	file tg.InputFileClass
	err  error
}

func startUpload(ctx context.Context, api *tg.Client, path string, size int64) *uploadSession {
	ctx, cancel := context.WithCancel(ctx)
	s := &uploadSession{
		handle: transfer.NewHandle(transfer.DirectionUpload),
		path:   path,
		size:   size,
		prog:   &uploadProgress{},
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		s.file, s.err = uploader.NewUploader(api).
			WithProgress(s.prog).
			FromPath(ctx, path)
	}()
	return s
}

func (s *uploadSession) Handle() transfer.Handle {
	return s.handle
}

func (s *uploadSession) Poll(context.Context) (progress.Status, error) {
	select {
	case <-s.done:
		if s.err != nil {
			return progress.Failed(s.err), nil
		}
		return progress.Completed(s.size, ""), nil
	default:
		uploaded, total := s.prog.snapshot(s.size)
		return progress.InProgress(uploaded, total), nil
	}
}

// uploaded returns the file handle once the upload has finished.
func (s *uploadSession) uploaded() (tg.InputFileClass, bool) {
	select {
	case <-s.done:
		return s.file, s.err == nil
	default:
		return nil, false
	}
}

// Release cancels the transfer and waits for its goroutine to finish cleanup.
func (s *uploadSession) Release() {
	s.once.Do(s.cancel)
	<-s.done
}
