package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/ritikk978/next-nest/pkg/config"
	"github.com/ritikk978/next-nest/pkg/logger"
)

// s3Storage keeps uploads in a MinIO (or any S3-compatible) bucket
type s3Storage struct {
	client *minio.Client
	bucket string
}

func newS3Storage(cfg *config.Config) (*s3Storage, error) {
	log := logger.GetLogger()

	client, err := minio.New(cfg.Storage.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.S3AccessKey, cfg.Storage.S3SecretKey, ""),
		Secure: cfg.Storage.S3UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	bucket := cfg.Storage.S3Bucket
	if err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
		exists, existsErr := client.BucketExists(context.Background(), bucket)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("failed to make or verify bucket %s: %w", bucket, err)
		}
	}

	log.Info("Object storage initialized",
		zap.String("endpoint", cfg.Storage.S3Endpoint),
		zap.String("bucket", bucket))

	return &s3Storage{client: client, bucket: bucket}, nil
}

func (s *s3Storage) Store(ctx context.Context, dir, filename, contentType string, r io.Reader, size int64) (string, error) {
	key := dir + "/" + objectName(filename)

	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, info.Key), nil
}

func (s *s3Storage) Open(ctx context.Context, dir, name string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, dir+"/"+name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch object %s/%s: %w", dir, name, err)
	}
	return obj, nil
}

func (s *s3Storage) Delete(ctx context.Context, dir, name string) error {
	return s.client.RemoveObject(ctx, s.bucket, dir+"/"+name, minio.RemoveObjectOptions{})
}
