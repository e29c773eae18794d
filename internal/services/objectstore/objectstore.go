package objectstore

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("object not found")
)

// DefaultSignedURLTTL bounds how long a minted upload credential stays
// valid. Stale URLs are never revoked, they expire on their own.
const DefaultSignedURLTTL = 15 * time.Minute

type ObjectInfo struct {
	Size        int64
	ContentType string
	UpdatedAt   time.Time
}

// Store is a bucket-scoped object storage gateway. Put and Delete are
// idempotent; SignedUploadURL mints a fresh write-only credential on
// every call, bound to the declared content type.
type Store interface {
	SignedUploadURL(ctx context.Context, name, contentType string, ttl time.Duration) (string, error)
	Put(ctx context.Context, name, contentType string, body io.Reader) error
	Get(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, name string) (bool, error)
	Stat(ctx context.Context, name string) (*ObjectInfo, error)
}
