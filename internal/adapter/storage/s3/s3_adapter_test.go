package s3

import (
	"context"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"automarket/internal/listing/domain"
)

// newOfflineStorage builds the adapter without touching the network; only
// the pre-upload validation paths are exercised here.
func newOfflineStorage(t *testing.T) *ImageStorage {
	t.Helper()
	client, err := minio.New("localhost:9000", &minio.Options{
		Creds: credentials.NewStaticV4("test", "test", ""),
	})
	require.NoError(t, err)
	return &ImageStorage{client: client, bucket: "car-images", logger: zap.NewNop()}
}

func TestUpload_RejectsOversizeImage(t *testing.T) {
	storage := newOfflineStorage(t)

	_, err := storage.Upload(context.Background(), "u", "big.jpg", "image/jpeg",
		make([]byte, domain.MaxImageSizeBytes+1))

	assert.ErrorIs(t, err, domain.ErrImageTooLarge)
}

func TestUpload_RejectsUnsupportedContentType(t *testing.T) {
	storage := newOfflineStorage(t)

	_, err := storage.Upload(context.Background(), "u", "anim.gif", "image/gif", []byte("gif"))

	assert.ErrorIs(t, err, domain.ErrUnsupportedImageType)
}
