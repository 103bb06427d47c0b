package transfer

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pavelc4/tgxfer/internal/progress"
	"github.com/pavelc4/tgxfer/internal/stats"
	"github.com/pavelc4/tgxfer/pkg/logger"
	"github.com/pavelc4/tgxfer/pkg/utils"
)

const DefaultDownloadDir = "downloads"

// Coordinator drives single downloads and uploads through a Subsystem while a
// progress monitor reports to the caller's sink.
type Coordinator struct {
	sys         Subsystem
	interval    time.Duration
	downloadDir string
	recorder    *stats.Recorder
	observer    StateObserver
	diskFree    func(dir string) (uint64, error)
}

type Option func(*Coordinator)

func WithPollInterval(d time.Duration) Option {
	return func(c *Coordinator) { c.interval = d }
}

func WithDownloadDir(dir string) Option {
	return func(c *Coordinator) { c.downloadDir = dir }
}

func WithRecorder(r *stats.Recorder) Option {
	return func(c *Coordinator) { c.recorder = r }
}

func WithStateObserver(fn StateObserver) Option {
	return func(c *Coordinator) { c.observer = fn }
}

func New(sys Subsystem, opts ...Option) *Coordinator {
	c := &Coordinator{
		sys:         sys,
		interval:    progress.DefaultInterval,
		downloadDir: DefaultDownloadDir,
		diskFree:    stats.DiskFree,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DownloadFile downloads ref into the download directory and returns the local path.
func (c *Coordinator) DownloadFile(ctx context.Context, ref FileRef, displayName string, sink progress.Sink) (string, error) {
	const op = "download"
	if ref == nil {
		return "", &Error{Op: op, Category: ErrInvalidReference, Err: fmt.Errorf("nil reference")}
	}

	file, err := c.sys.Resolve(ctx, ref)
	if err != nil {
		return "", &Error{Op: op, Category: ErrInvalidReference, Err: fmt.Errorf("resolve %s: %w", ref, err)}
	}
	if displayName == "" {
		displayName = utils.SanitizeFileName(file.Name, ref.String())
	}
	c.checkDiskSpace(file.Size)

	start := time.Now()
	st := newStateTracker(DirectionDownload, c.observer)
	status, err := c.run(ctx, op, st, displayName, file.Size, sink, func(ctx context.Context) (Session, error) {
		return c.sys.BeginDownload(ctx, file, c.downloadDir)
	}, func(_ context.Context, _ Session, status progress.Status) error {
		if status.Path == "" {
			return fmt.Errorf("completed download reported no local path")
		}
		return nil
	})
	c.record(stats.Download, status.Total, start, err == nil)
	if err != nil {
		return "", err
	}

	logger.InfoWithDuration("Download complete", start, "file", displayName, "path", status.Path, "size", utils.FormatFileSize(status.Total))
	return status.Path, nil
}

// UploadFile uploads localPath and publishes it to dest once all bytes are sent.
func (c *Coordinator) UploadFile(ctx context.Context, dest Destination, localPath string, meta Metadata, sink progress.Sink) (RemoteRef, error) {
	const op = "upload"
	if dest == nil {
		return RemoteRef{}, &Error{Op: op, Category: ErrInvalidReference, Err: fmt.Errorf("nil destination")}
	}

	info, err := os.Stat(localPath)
	if err != nil {
		return RemoteRef{}, &Error{Op: op, Category: ErrFileNotFound, Err: err}
	}
	if info.IsDir() {
		return RemoteRef{}, &Error{Op: op, Category: ErrFileNotFound, Err: fmt.Errorf("%s is a directory", localPath)}
	}
	f, err := os.Open(localPath)
	if err != nil {
		return RemoteRef{}, &Error{Op: op, Category: ErrFileNotFound, Err: err}
	}
	_ = f.Close()

	if meta.FileName == "" {
		meta.FileName = info.Name()
	}
	meta.Kind = ParseMediaKind(string(meta.Kind))
	total := info.Size()

	var ref RemoteRef
	start := time.Now()
	st := newStateTracker(DirectionUpload, c.observer)
	_, err = c.run(ctx, op, st, meta.FileName, total, sink, func(ctx context.Context) (Session, error) {
		return c.sys.BeginUpload(ctx, localPath, total)
	}, func(ctx context.Context, s Session, _ progress.Status) error {
		var perr error
		ref, perr = c.sys.Publish(ctx, dest, s, meta)
		return perr
	})
	c.record(stats.Upload, total, start, err == nil)
	if err != nil {
		return RemoteRef{}, err
	}

	logger.InfoWithDuration("Upload complete", start, "file", meta.FileName, "to", dest.String(), "msg_id", ref.MessageID)
	return ref, nil
}

// run walks one transfer through the state machine. finalize runs in
// Finalizing while the session is still held. The monitor goroutine has exited
// before the session is released and before run returns.
func (c *Coordinator) run(
	ctx context.Context,
	op string,
	st *stateTracker,
	label string,
	totalHint int64,
	sink progress.Sink,
	begin func(ctx context.Context) (Session, error),
	finalize func(ctx context.Context, s Session, status progress.Status) error,
) (progress.Status, error) {
	fail := func(err error) (progress.Status, error) {
		state, h := st.current()
		if terr := st.to(StateFailed); terr != nil {
			logger.Error("Failed to record transfer failure", "error", terr)
		}
		logger.Error("Transfer failed", "op", op, "file", label, "state", state.String(), "error", err)
		return progress.Status{}, &Error{Op: op, Handle: h, State: state, Category: ErrTransferFailed, Err: err}
	}

	if err := st.to(StateRequesting); err != nil {
		return progress.Status{}, err
	}
	session, err := begin(ctx)
	if err != nil {
		return fail(fmt.Errorf("begin: %w", err))
	}
	defer session.Release()
	st.setHandle(session.Handle())

	if err := st.to(StateTransferring); err != nil {
		return fail(err)
	}
	logger.Info("Transfer started", "op", op, "file", label, "handle", session.Handle().String(), "size", totalHint)

	if sink == nil {
		sink = progress.Nop
	}
	mon, err := progress.Start(ctx, session, progress.Options{
		Label:     label,
		TotalHint: totalHint,
		Interval:  c.interval,
		Sink:      sink,
	})
	if err != nil {
		return fail(err)
	}
	defer func() {
		mon.Stop()
		<-mon.Done()
	}()

	status, err := mon.Wait(ctx)
	if err != nil {
		return fail(err)
	}

	if err := st.to(StateFinalizing); err != nil {
		return fail(err)
	}
	if finalize != nil {
		if err := finalize(ctx, session, status); err != nil {
			return fail(fmt.Errorf("finalize: %w", err))
		}
	}
	if err := st.to(StateComplete); err != nil {
		return fail(err)
	}
	return status, nil
}

func (c *Coordinator) checkDiskSpace(size int64) {
	if size <= 0 || c.diskFree == nil {
		return
	}
	free, err := c.diskFree(c.downloadDir)
	if err != nil {
		logger.Debug("Disk space check skipped", "dir", c.downloadDir, "error", err)
		return
	}
	if free < uint64(size) {
		logger.Warn("Not enough free disk space for download",
			"dir", c.downloadDir,
			"free", utils.FormatFileSize(int64(free)),
			"need", utils.FormatFileSize(size),
		)
	}
}

func (c *Coordinator) record(dir stats.Direction, bytes int64, start time.Time, success bool) {
	if c.recorder == nil {
		return
	}
	c.recorder.RecordTransfer(dir, bytes, time.Since(start), success)
}
