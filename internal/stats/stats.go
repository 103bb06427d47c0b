package stats

import (
	"sync"
	"time"
)

type Direction string

const (
	Download Direction = "download"
	Upload   Direction = "upload"
)

type Recorder struct {
	mu        sync.RWMutex
	startTime time.Time
	totals    map[Direction]*Totals
}

type Totals struct {
	Transfers int64
	Succeeded int64
	Failed    int64
	Bytes     int64
	Duration  time.Duration
}

func NewRecorder() *Recorder {
	return &Recorder{
		startTime: time.Now(),
		totals: map[Direction]*Totals{
			Download: {},
			Upload:   {},
		},
	}
}

// RecordTransfer counts bytes only for successful transfers.
func (r *Recorder) RecordTransfer(dir Direction, bytes int64, duration time.Duration, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.totals[dir]
	if !ok {
		t = &Totals{}
		r.totals[dir] = t
	}

	t.Transfers++
	t.Duration += duration
	if success {
		t.Succeeded++
		t.Bytes += bytes
	} else {
		t.Failed++
	}
}

type Snapshot struct {
	Downloads   Totals
	Uploads     Totals
	AvgDownload time.Duration
	AvgUpload   time.Duration
	Uptime      time.Duration
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	avg := func(t Totals) time.Duration {
		if t.Transfers == 0 {
			return 0
		}
		return t.Duration / time.Duration(t.Transfers)
	}

	dl, ul := *r.totals[Download], *r.totals[Upload]
	return Snapshot{
		Downloads:   dl,
		Uploads:     ul,
		AvgDownload: avg(dl),
		AvgUpload:   avg(ul),
		Uptime:      time.Since(r.startTime),
	}
}
