package transfer

import (
	"fmt"
	"sync"

	"github.com/pavelc4/tgxfer/pkg/logger"
)

type State uint8

const (
	StateIdle State = iota
	StateRequesting
	StateTransferring
	StateFinalizing
	StateComplete
	StateFailed
)

var stateNames = [...]string{
	StateIdle:         "idle",
	StateRequesting:   "requesting",
	StateTransferring: "transferring",
	StateFinalizing:   "finalizing",
	StateComplete:     "complete",
	StateFailed:       "failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Requesting may fail when the subsystem refuses to begin the transfer.
var transitions = map[State][]State{
	StateIdle:         {StateRequesting},
	StateRequesting:   {StateTransferring, StateFailed},
	StateTransferring: {StateFinalizing, StateFailed},
	StateFinalizing:   {StateComplete, StateFailed},
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// StateObserver is notified after every accepted transition.
type StateObserver func(h Handle, from, to State)

type stateTracker struct {
	mu       sync.Mutex
	state    State
	handle   Handle
	observer StateObserver
}

func newStateTracker(dir Direction, observer StateObserver) *stateTracker {
	return &stateTracker{
		handle:   Handle{Direction: dir},
		observer: observer,
	}
}

func (t *stateTracker) setHandle(h Handle) {
	t.mu.Lock()
	t.handle = h
	t.mu.Unlock()
}

func (t *stateTracker) current() (State, Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state, t.handle
}

func (t *stateTracker) to(next State) error {
	t.mu.Lock()
	from, h := t.state, t.handle
	if !canTransition(from, next) {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, next)
	}
	t.state = next
	t.mu.Unlock()

	logger.Debug("Transfer state changed", "handle", h.String(), "from", from.String(), "to", next.String())
	if t.observer != nil {
		t.observer(h, from, next)
	}
	return nil
}
