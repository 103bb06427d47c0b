package transfer_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pavelc4/tgxfer/internal/progress"
	"github.com/pavelc4/tgxfer/internal/transfer"
)

type nameRef string

func (r nameRef) String() string { return string(r) }

type chat string

func (c chat) String() string { return string(c) }

// scriptedSession replays statuses in order and repeats the last one.
type scriptedSession struct {
	handle transfer.Handle

	mu       sync.Mutex
	statuses []progress.Status
	polls    int
	released int
}

func newScriptedSession(dir transfer.Direction, statuses ...progress.Status) *scriptedSession {
	return &scriptedSession{handle: transfer.NewHandle(dir), statuses: statuses}
}

func (s *scriptedSession) Handle() transfer.Handle { return s.handle }

func (s *scriptedSession) Poll(context.Context) (progress.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls++
	i := s.polls - 1
	if i >= len(s.statuses) {
		i = len(s.statuses) - 1
	}
	return s.statuses[i], nil
}

func (s *scriptedSession) Release() {
	s.mu.Lock()
	s.released++
	s.mu.Unlock()
}

func (s *scriptedSession) releaseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

type fakeSubsystem struct {
	mu sync.Mutex

	files      map[string]transfer.RemoteFile
	download   func(file transfer.RemoteFile, dir string) (transfer.Session, error)
	upload     func(localPath string, size int64) (transfer.Session, error)
	publishErr error

	published []transfer.Metadata
	publishTo []string
}

func (f *fakeSubsystem) Resolve(_ context.Context, ref transfer.FileRef) (transfer.RemoteFile, error) {
	file, ok := f.files[ref.String()]
	if !ok {
		return transfer.RemoteFile{}, fmt.Errorf("unknown file %q", ref)
	}
	return file, nil
}

func (f *fakeSubsystem) BeginDownload(_ context.Context, file transfer.RemoteFile, dir string) (transfer.Session, error) {
	if f.download == nil {
		return nil, errors.New("downloads disabled")
	}
	return f.download(file, dir)
}

func (f *fakeSubsystem) BeginUpload(_ context.Context, localPath string, size int64) (transfer.Session, error) {
	if f.upload == nil {
		return nil, errors.New("uploads disabled")
	}
	return f.upload(localPath, size)
}

func (f *fakeSubsystem) Publish(_ context.Context, dest transfer.Destination, _ transfer.Session, meta transfer.Metadata) (transfer.RemoteRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return transfer.RemoteRef{}, f.publishErr
	}
	f.published = append(f.published, meta)
	f.publishTo = append(f.publishTo, dest.String())
	return transfer.RemoteRef{MessageID: len(f.published), MediaID: 77}, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []progress.Event
	err    error
	panic  bool
}

func (r *recordingSink) OnProgress(_ context.Context, ev progress.Event) error {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	if r.panic {
		panic("sink exploded")
	}
	return r.err
}

func (r *recordingSink) percents() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Percent)
	}
	return out
}

// slowSession takes a while to answer each poll and records whether it was
// released while a poll was still running.
type slowSession struct {
	handle transfer.Handle
	delay  time.Duration

	mu               sync.Mutex
	polling         bool
	releasedMidPoll bool
	released        bool
}

func (s *slowSession) Handle() transfer.Handle { return s.handle }

func (s *slowSession) Poll(context.Context) (progress.Status, error) {
	s.mu.Lock()
	s.polling = true
	s.mu.Unlock()

	time.Sleep(s.delay)

	s.mu.Lock()
	s.polling = false
	s.mu.Unlock()
	return progress.InProgress(1, 1000), nil
}

func (s *slowSession) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = true
	s.releasedMidPoll = s.releasedMidPoll || s.polling
}
