package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pavelc4/tgxfer/internal/progress"
)

type Direction uint8

const (
	DirectionDownload Direction = iota + 1
	DirectionUpload
)

func (d Direction) String() string {
	switch d {
	case DirectionDownload:
		return "download"
	case DirectionUpload:
		return "upload"
	default:
		return "unknown"
	}
}

// Handle identifies one in-flight transfer. It is issued by the Subsystem and
// is meaningless once the transfer has finished.
type Handle struct {
	ID        uuid.UUID
	Direction Direction
}

func NewHandle(dir Direction) Handle {
	return Handle{ID: uuid.New(), Direction: dir}
}

func (h Handle) String() string {
	return fmt.Sprintf("%s/%s", h.Direction, h.ID)
}

// FileRef points at a remote file. Concrete types are defined by each Subsystem.
type FileRef interface {
	fmt.Stringer
}

// Destination is the chat an upload is published to.
type Destination interface {
	fmt.Stringer
}

// RemoteFile is a FileRef resolved to something the Subsystem can download.
type RemoteFile struct {
	// Name is the file name reported by the remote side, may be empty.
	Name string
	// Size is the expected size in bytes, 0 when unknown.
	Size     int64
	MIME     string
	Location any
}

type MediaKind string

const (
	KindDocument MediaKind = "document"
	KindPhoto    MediaKind = "photo"
	KindVideo    MediaKind = "video"
	KindAudio    MediaKind = "audio"
)

// ParseMediaKind maps unknown names to KindDocument.
func ParseMediaKind(s string) MediaKind {
	switch k := MediaKind(s); k {
	case KindPhoto, KindVideo, KindAudio:
		return k
	default:
		return KindDocument
	}
}

// Metadata is attached when an uploaded file is published.
type Metadata struct {
	Caption   string
	Kind      MediaKind
	FileName  string
	MIME      string
	ThumbPath string
	Duration  time.Duration
	Width     int
	Height    int
}

// RemoteRef identifies a published message and the media stored in it.
type RemoteRef struct {
	MessageID     int
	MediaID       int64
	AccessHash    int64
	FileReference []byte
}

// Session is one running transfer.
type Session interface {
	progress.Source
	Handle() Handle
	// Release frees resources held by the session. Safe to call more than once.
	Release()
}

// Subsystem is the boundary to the wrapped client library.
type Subsystem interface {
	Resolve(ctx context.Context, ref FileRef) (RemoteFile, error)
	BeginDownload(ctx context.Context, file RemoteFile, dir string) (Session, error)
	BeginUpload(ctx context.Context, localPath string, size int64) (Session, error)
	Publish(ctx context.Context, dest Destination, s Session, meta Metadata) (RemoteRef, error)
}
