package progress

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pavelc4/tgxfer/pkg/logger"
)

type Options struct {
	Label string
	// TotalHint is used while the source reports a zero total.
	TotalHint int64
	// Interval between ticks. Zero selects DefaultInterval.
	Interval time.Duration
	// Sink may be nil.
	Sink Sink
}

// Monitor polls one transfer until it completes, fails or is stopped.
type Monitor struct {
	src  Source
	opts Options
	now  func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	result Status
	err    error
}

// Start launches the monitor goroutine and returns immediately.
func Start(ctx context.Context, src Source, opts Options) (*Monitor, error) {
	return start(ctx, src, opts, time.Now)
}

func start(ctx context.Context, src Source, opts Options, now func() time.Time) (*Monitor, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if opts.Interval < 0 {
		return nil, ErrInvalidInterval
	}
	if opts.Interval == 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Sink == nil {
		opts.Sink = Nop
	}

	m := &Monitor{
		src:  src,
		opts: opts,
		now:  now,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go m.run(ctx)
	return m, nil
}

// Stop halts future ticks. A tick already running is allowed to finish.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// Done is closed once the monitor goroutine has exited.
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

// Wait blocks until the monitor exits and returns the terminal status.
func (m *Monitor) Wait(ctx context.Context) (Status, error) {
	select {
	case <-m.done:
		return m.result, m.err
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	st := monitorState{lastAt: m.now()}
	ticker := time.NewTicker(m.opts.Interval)
	defer ticker.Stop()

	for {
		if m.stopped() {
			m.err = ErrStopped
			return
		}

		terminal := m.tick(ctx, &st)
		if terminal {
			return
		}

		select {
		case <-ticker.C:
		case <-m.stop:
			m.err = ErrStopped
			return
		case <-ctx.Done():
			m.err = ctx.Err()
			return
		}
	}
}

func (m *Monitor) stopped() bool {
	select {
	case <-m.stop:
		return true
	default:
		return false
	}
}

func (m *Monitor) tick(ctx context.Context, st *monitorState) bool {
	status, err := m.src.Poll(ctx)
	if err != nil {
		m.result = Failed(err)
		m.err = fmt.Errorf("poll %s: %w", m.opts.Label, err)
		return true
	}

	total := status.Total
	if total <= 0 {
		total = m.opts.TotalHint
	}

	switch status.Kind {
	case KindCompleted:
		total = max(total, st.lastTransferred)
		status.Total = total
		status.Transferred = total
		m.result = status
		if total > 0 {
			m.emit(ctx, finalEvent(m.opts.Label, total))
		}
		return true
	case KindFailed:
		m.result = status
		m.err = status.Err
		if m.err == nil {
			m.err = fmt.Errorf("transfer %s failed", m.opts.Label)
		}
		return true
	}

	ev, next, ok := derive(m.opts.Label, *st, Sample{
		Transferred: status.Transferred,
		Total:       total,
		At:          m.now(),
	})
	if !ok {
		return false
	}
	*st = next
	m.emit(ctx, ev)
	return false
}

func (m *Monitor) emit(ctx context.Context, ev Event) {
	if err := invoke(ctx, m.opts.Sink, ev); err != nil {
		logger.Warn("Progress sink failed",
			"label", ev.Label,
			"percent", fmt.Sprintf("%.1f", ev.Percent),
			"error", err,
		)
	}
}

func invoke(ctx context.Context, sink Sink, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &SinkError{Label: ev.Label, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if serr := sink.OnProgress(ctx, ev); serr != nil {
		return &SinkError{Label: ev.Label, Err: serr}
	}
	return nil
}
