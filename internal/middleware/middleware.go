package middleware

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/pavelc4/tgxfer/pkg/logger"
)

var ErrPanic = errors.New("job panicked")

// Job is one unit of work run by a batch.
type Job func() error

// Recover turns a panic inside next into an ErrPanic error.
func Recover(next Job) Job {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic recovered", "error", r, "stack", string(debug.Stack()))
				err = fmt.Errorf("%w: %v", ErrPanic, r)
			}
		}()
		return next()
	}
}

// Logger reports how long next took and whether it failed.
func Logger(name string, next Job) Job {
	return func() error {
		start := time.Now()
		err := next()
		if err != nil {
			logger.Warn("Job failed", "name", name, "duration", time.Since(start), "error", err)
		} else {
			logger.Debug("Job completed", "name", name, "duration", time.Since(start))
		}
		return err
	}
}

// Chain applies middlewares so that the first one is outermost.
func Chain(f Job, middlewares ...func(Job) Job) Job {
	for i := len(middlewares) - 1; i >= 0; i-- {
		f = middlewares[i](f)
	}
	return f
}
