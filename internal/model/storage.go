package model

import (
	"context"
	"io"
)

// Storage keeps opaque objects such as import snapshots.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
}
