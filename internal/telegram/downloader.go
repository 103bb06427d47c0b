package telegram

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/gotd/td/telegram/downloader"
	"github.com/gotd/td/tg"

	"github.com/pavelc4/tgxfer/internal/progress"
	"github.com/pavelc4/tgxfer/internal/transfer"
	"github.com/pavelc4/tgxfer/pkg/logger"
)

type downloadSession struct {
	handle transfer.Handle
	path   string
	total  int64
	w      *countingWriter

	cancel context.CancelFunc
	once   sync.Once

	done chan struct{}
	err  error
}

func startDownload(ctx context.Context, api *tg.Client, loc tg.InputFileLocationClass, path string, total int64) (*downloadSession, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &downloadSession{
		handle: transfer.NewHandle(transfer.DirectionDownload),
		path:   path,
		total:  total,
		w:      &countingWriter{w: f},
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		_, err := downloader.NewDownloader().
			Download(api, loc).
			Stream(ctx, s.w)
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
		if err != nil {
			if rerr := os.Remove(path); rerr != nil {
				logger.Warn("Failed to remove partial download", "path", path, "error", rerr)
			}
			s.err = err
		}
	}()
	return s, nil
}

func (s *downloadSession) Handle() transfer.Handle {
	return s.handle
}

func (s *downloadSession) Poll(context.Context) (progress.Status, error) {
	select {
	case <-s.done:
		if s.err != nil {
			return progress.Failed(s.err), nil
		}
		return progress.Completed(s.w.Written(), s.path), nil
	default:
		return progress.InProgress(s.w.Written(), s.total), nil
	}
}

// Release cancels the transfer and waits for its goroutine to finish cleanup.
func (s *downloadSession) Release() {
	s.once.Do(s.cancel)
	<-s.done
}
