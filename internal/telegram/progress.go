package telegram

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/gotd/td/telegram/uploader"
)

// countingWriter counts bytes as the downloader streams them to disk.
type countingWriter struct {
	w io.Writer
	n atomic.Int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n.Add(int64(n))
	return n, err
}

func (c *countingWriter) Written() int64 {
	return c.n.Load()
}

// uploadProgress turns the uploader's per-part callback into counters the
// monitor can poll.
type uploadProgress struct {
	uploaded atomic.Int64
	total    atomic.Int64
}

var _ uploader.Progress = (*uploadProgress)(nil)

func (p *uploadProgress) Chunk(_ context.Context, state uploader.ProgressState) error {
	p.uploaded.Store(state.Uploaded)
	if state.Total > 0 {
		p.total.Store(state.Total)
	}
	return nil
}

func (p *uploadProgress) snapshot(fallbackTotal int64) (uploaded, total int64) {
	total = p.total.Load()
	if total <= 0 {
		total = fallbackTotal
	}
	return p.uploaded.Load(), total
}
