package transfer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pavelc4/tgxfer/internal/middleware"
	"github.com/pavelc4/tgxfer/internal/progress"
)

type DownloadRequest struct {
	Ref         FileRef
	DisplayName string
	Sink        progress.Sink
}

type DownloadResult struct {
	Request DownloadRequest
	Path    string
	Err     error
}

// DownloadAll runs independent downloads with at most limit in flight. Results
// keep the order of reqs. A failed or panicking item never cancels its siblings.
func (c *Coordinator) DownloadAll(ctx context.Context, reqs []DownloadRequest, limit int) []DownloadResult {
	results := make([]DownloadResult, len(reqs))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, req := range reqs {
		g.Go(func() error {
			var path string
			job := middleware.Chain(func() error {
				var err error
				path, err = c.DownloadFile(ctx, req.Ref, req.DisplayName, req.Sink)
				return err
			}, middleware.Recover, func(next middleware.Job) middleware.Job {
				return middleware.Logger(fmt.Sprintf("download %v", req.Ref), next)
			})
			err := job()
			results[i] = DownloadResult{Request: req, Path: path, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
