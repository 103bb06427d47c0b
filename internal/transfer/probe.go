package transfer

import (
	"context"
	"os"
	"sync"

	"github.com/pavelc4/tgxfer/internal/progress"
)

// SizeProbeSession wraps a blocking upload call for subsystems that expose no
// progress handle. Progress is approximated by the size of the local file,
// which says nothing about bytes actually sent over the network.
func SizeProbeSession(ctx context.Context, localPath string, upload func(ctx context.Context) error) Session {
	ctx, cancel := context.WithCancel(ctx)
	s := &probeSession{
		handle: NewHandle(DirectionUpload),
		path:   localPath,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		s.err = upload(ctx)
	}()
	return s
}

type probeSession struct {
	handle Handle
	path   string
	cancel context.CancelFunc
	once   sync.Once

	done chan struct{}
	err  error
}

func (s *probeSession) Handle() Handle {
	return s.handle
}

func (s *probeSession) Poll(context.Context) (progress.Status, error) {
	select {
	case <-s.done:
		if s.err != nil {
			return progress.Failed(s.err), nil
		}
		return progress.Completed(s.size(), ""), nil
	default:
		return progress.InProgress(s.size(), 0), nil
	}
}

func (s *probeSession) size() int64 {
	info, err := os.Stat(s.path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func (s *probeSession) Release() {
	s.once.Do(s.cancel)
}
