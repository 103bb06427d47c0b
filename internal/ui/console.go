package ui

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/pavelc4/tgxfer/internal/progress"
	"github.com/pavelc4/tgxfer/pkg/utils"
)

// BarSink renders transfer progress as a terminal bar. One BarSink serves one
// transfer.
type BarSink struct {
	Operation string

	mu  sync.Mutex
	out io.Writer
	bar *progressbar.ProgressBar
	max int64
}

func NewBarSink(out io.Writer, operation string) *BarSink {
	return &BarSink{Operation: operation, out: out}
}

func (s *BarSink) OnProgress(_ context.Context, ev progress.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bar == nil {
		s.bar = progressbar.NewOptions64(ev.Total,
			progressbar.OptionSetWriter(s.out),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowBytes(false),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionShowElapsedTimeOnFinish(),
		)
		s.max = ev.Total
	}
	if ev.Total != s.max {
		s.bar.ChangeMax64(ev.Total)
		s.max = ev.Total
	}

	s.bar.Describe(s.describe(ev))
	if err := s.bar.Set64(ev.Transferred); err != nil {
		return fmt.Errorf("render progress: %w", err)
	}
	if ev.Final {
		if err := s.bar.Finish(); err != nil {
			return fmt.Errorf("finish progress: %w", err)
		}
		_, _ = fmt.Fprintln(s.out)
	}
	return nil
}

func (s *BarSink) describe(ev progress.Event) string {
	eta := "--"
	if ev.ETAKnown {
		eta = utils.FormatDuration(ev.ETA)
	}
	return fmt.Sprintf("%s %s %s/%s %s eta %s",
		s.Operation,
		ev.Label,
		utils.FormatFileSize(ev.Transferred),
		utils.FormatFileSize(ev.Total),
		utils.FormatSpeed(ev.Rate),
		eta,
	)
}
