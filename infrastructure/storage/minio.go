package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"panorama-api/domain/repository"
	"panorama-api/infrastructure/configuration"
	"panorama-api/infrastructure/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage is the MinIO-backed object storage adapter. Assets live in
// three buckets: raw originals, processed full-size renders, and optimized
// derivatives (thumbnails, previews, panels).
type MinioStorage struct {
	client        *minio.Client
	publicBaseURL string
}

func NewMinioStorage(ctx context.Context, cfg configuration.Storage) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	s := &MinioStorage{
		client:        client,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
	for _, bucket := range []string{cfg.RawBucket, cfg.ProcessedBucket, cfg.OptimizedBucket} {
		if err := s.ensureBucket(ctx, bucket); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *MinioStorage) ensureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("bucket check %s: %w", bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("make bucket %s: %w", bucket, err)
		}
		logger.GetLogger().WithField("bucket", bucket).Info("Created storage bucket")
	}
	return nil
}

func (s *MinioStorage) Upload(ctx context.Context, bucket, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": err, "bucket": bucket, "object": objectName}).Error("upload object failed")
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, bucket, objectName), nil
}

func (s *MinioStorage) Delete(ctx context.Context, bucket, objectName string) error {
	err := s.client.RemoveObject(ctx, bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": err, "bucket": bucket, "object": objectName}).Error("delete object failed")
	}
	return err
}

func (s *MinioStorage) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	var keys []string
	for object := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if object.Err != nil {
			return nil, object.Err
		}
		keys = append(keys, object.Key)
	}
	return keys, nil
}

// ObjectKeyFromURL reverses the public URL shape produced by Upload
// (<base>/<bucket>/<key>). Foreign URLs return ok=false and are skipped by
// cleanup paths.
func (s *MinioStorage) ObjectKeyFromURL(rawURL string) (string, string, bool) {
	if !strings.HasPrefix(rawURL, s.publicBaseURL+"/") {
		return "", "", false
	}
	rest := strings.TrimPrefix(rawURL, s.publicBaseURL+"/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	key, err := url.PathUnescape(parts[1])
	if err != nil {
		return "", "", false
	}
	return parts[0], key, true
}

var _ repository.IObjectStorage = (*MinioStorage)(nil)
