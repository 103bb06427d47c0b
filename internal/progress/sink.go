package progress

import (
	"context"

	"github.com/pavelc4/tgxfer/pkg/logger"
	"github.com/pavelc4/tgxfer/pkg/utils"
)

// Nop discards every event.
var Nop Sink = SinkFunc(func(context.Context, Event) error { return nil })

// LogSink writes one human readable line per event to the package logger.
type LogSink struct {
	// Action prefixes the line, e.g. "Downloading".
	Action string
}

func (s LogSink) OnProgress(_ context.Context, ev Event) error {
	eta := "--"
	if ev.ETAKnown {
		eta = utils.FormatDuration(ev.ETA)
	}
	action := s.Action
	if action == "" {
		action = "Transferring"
	}

	logger.Info(action+" "+ev.Label,
		"progress", utils.FormatProgressBar(ev.Percent),
		"size", utils.FormatFileSize(ev.Transferred)+" / "+utils.FormatFileSize(ev.Total),
		"speed", utils.FormatSpeed(ev.Rate),
		"eta", eta,
	)
	return nil
}
