package repository

import (
	"context"
	"io"
)

// IObjectStorage is the bucket-scoped binary asset store.
type IObjectStorage interface {
	// Upload stores the object and returns its public URL.
	Upload(ctx context.Context, bucket, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, bucket, objectName string) error
	List(ctx context.Context, bucket, prefix string) ([]string, error)
	// ObjectKeyFromURL derives (bucket, key) from a public URL previously
	// returned by Upload; ok is false for foreign URLs.
	ObjectKeyFromURL(rawURL string) (bucket, key string, ok bool)
}
