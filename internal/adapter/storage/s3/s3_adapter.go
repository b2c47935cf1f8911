package s3

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"automarket/internal/listing/domain"
)

// ImageStorage uploads listing photos to an S3-compatible bucket. Objects
// are keyed <owner-id>/<uuid><ext> so one owner's files never collide with
// another's and an account cascade can reason about its own prefix.
type ImageStorage struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

func NewImageStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool, logger *zap.Logger) (*ImageStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client for %s: %w", endpoint, err)
	}

	err = client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{})
	if err != nil {
		exists, errExists := client.BucketExists(context.Background(), bucket)
		if errExists != nil || !exists {
			return nil, fmt.Errorf("make/verify bucket %s: %w", bucket, err)
		}
	}

	logger.Info("image storage ready", zap.String("endpoint", endpoint), zap.String("bucket", bucket))
	return &ImageStorage{client: client, bucket: bucket, logger: logger}, nil
}

// Upload stores one image and returns its bucket path together with the
// public URL. The size and type rules are enforced here as well as in the
// workflow, so a caller that skips validation still cannot store junk.
func (s *ImageStorage) Upload(ctx context.Context, ownerID, fileName, contentType string, data []byte) (domain.ImageRef, error) {
	if len(data) > domain.MaxImageSizeBytes {
		return domain.ImageRef{}, domain.ErrImageTooLarge
	}
	if !domain.AllowedImageTypes[contentType] {
		return domain.ImageRef{}, domain.ErrUnsupportedImageType
	}

	objectKey := fmt.Sprintf("%s/%s%s", ownerID, uuid.New().String(), filepath.Ext(fileName))

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Error("PutObject failed", zap.String("bucket", s.bucket), zap.String("key", objectKey), zap.Error(err))
		return domain.ImageRef{}, fmt.Errorf("upload object %s to bucket %s: %w", objectKey, s.bucket, err)
	}

	ref := domain.ImageRef{
		Path:      objectKey,
		PublicURL: fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey),
	}
	s.logger.Debug("image uploaded", zap.String("key", objectKey), zap.Int("size_bytes", len(data)))
	return ref, nil
}

func (s *ImageStorage) Remove(ctx context.Context, path string) error {
	return s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{})
}
