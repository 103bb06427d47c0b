package progress

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const DefaultInterval = 500 * time.Millisecond

var (
	ErrInvalidInterval = errors.New("poll interval must be positive")
	ErrNilSource       = errors.New("progress source is nil")
	ErrStopped         = errors.New("monitor stopped")
)

// Kind tags the result of one poll.
type Kind uint8

const (
	KindInProgress Kind = iota
	KindCompleted
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindInProgress:
		return "in_progress"
	case KindCompleted:
		return "completed"
	case KindFailed:
		return "failed"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Status is what a Source reports on every poll. Total is zero while unknown.
// Path is set by completed downloads, Err by failed transfers.
type Status struct {
	Kind        Kind
	Transferred int64
	Total       int64
	Path        string
	Err         error
}

func InProgress(transferred, total int64) Status {
	return Status{Kind: KindInProgress, Transferred: transferred, Total: total}
}

func Completed(total int64, path string) Status {
	return Status{Kind: KindCompleted, Transferred: total, Total: total, Path: path}
}

func Failed(err error) Status {
	return Status{Kind: KindFailed, Err: err}
}

// Source is polled by the monitor for the current state of one transfer.
type Source interface {
	Poll(ctx context.Context) (Status, error)
}

// Sample is the snapshot taken on one tick.
type Sample struct {
	Transferred int64
	Total       int64
	At          time.Time
}

// Event is handed to a Sink. Percent is always defined because ticks with an
// unknown total are never reported. ETAKnown is false while the rate is zero.
type Event struct {
	Label       string
	Transferred int64
	Total       int64
	Percent     float64
	Rate        float64 // bytes per second
	ETA         time.Duration
	ETAKnown    bool
	Final       bool
}

// Sink receives progress events. Returned errors and panics are logged and dropped.
type Sink interface {
	OnProgress(ctx context.Context, ev Event) error
}

type SinkFunc func(ctx context.Context, ev Event) error

func (f SinkFunc) OnProgress(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

type SinkError struct {
	Label string
	Err   error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("progress sink for %q: %v", e.Label, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}
