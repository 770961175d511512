package domain

import (
	"context"
	"time"
)

// DocumentRepository persists raw document bytes under a single namespaced key
type DocumentRepository interface {
	// Get returns ErrDocumentNotFound when nothing is stored under key
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// BackupObject describes a stored backup file
type BackupObject struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// BackupRepository stores exported snapshots outside the device
type BackupRepository interface {
	Upload(ctx context.Context, name string, data []byte) error
	Download(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]BackupObject, error)
}
