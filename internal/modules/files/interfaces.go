package files

import (
	"context"

	"storagebox/internal/domain"
)

// FileRepository is the metadata store for file records.
type FileRepository interface {
	Create(ctx context.Context, f *domain.File) error
	GetByID(ctx context.Context, id int64) (*domain.File, error)
	GetByStorageKey(ctx context.Context, key string) (*domain.File, error)
	ListAll(ctx context.Context) ([]domain.File, error)
	Delete(ctx context.Context, id int64) error
}

// ObjectStore is the remote blob store the binaries live in.
type ObjectStore interface {
	PutObject(ctx context.Context, key, contentType string, data []byte) error
	DeleteObject(ctx context.Context, key string) error
	ListKeys(ctx context.Context) ([]string, error)
	HeadBucket(ctx context.Context) bool
}
