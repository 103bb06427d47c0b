package transfer

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInvalidReference  = errors.New("invalid file reference")
	ErrFileNotFound      = errors.New("file not found")
	ErrTransferFailed    = errors.New("transfer failed")
	ErrInvalidTransition = errors.New("invalid state transition")
)

// Error carries the operation and state a transfer failed in. errors.Is
// matches both the category sentinel and the underlying cause.
type Error struct {
	Op       string
	Handle   Handle
	State    State
	Category error
	Err      error
}

func (e *Error) Error() string {
	if e.Handle.ID == uuid.Nil {
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Category, e.Err)
	}
	return fmt.Sprintf("%s %s (%s): %v: %v", e.Op, e.Handle, e.State, e.Category, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Category, e.Err}
}

func IsInvalidReference(err error) bool {
	return errors.Is(err, ErrInvalidReference)
}

func IsFileNotFound(err error) bool {
	return errors.Is(err, ErrFileNotFound)
}

func IsTransferFailed(err error) bool {
	return errors.Is(err, ErrTransferFailed)
}
