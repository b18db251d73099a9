package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/kafkaan/fit-coach-link/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMediaObjectKey(t *testing.T) {
	coach := primitive.NewObjectID()
	key := MediaObjectKey(coach, "Squat Demo.MP4")

	assert.True(t, strings.HasPrefix(key, "media/"+coach.Hex()+"/"))
	assert.True(t, strings.HasSuffix(key, ".mp4"))
	assert.True(t, OwnsKey(coach, key))
	assert.False(t, OwnsKey(primitive.NewObjectID(), key))
	assert.NotEqual(t, key, MediaObjectKey(coach, "Squat Demo.MP4"))
}

func TestPresignedURLsAgainstCustomEndpoint(t *testing.T) {
	fs, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		BucketName:      "media",
	})
	require.NoError(t, err)

	url, err := fs.GeneratePresignedUploadURL(context.Background(), "media/abc/file.png", "image/png", 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/media/media/abc/file.png?"))
	assert.Contains(t, url, "X-Amz-Signature=")

	url, err = fs.GeneratePresignedDownloadURL(context.Background(), "media/abc/file.png", 0)
	require.NoError(t, err)
	assert.Contains(t, url, "X-Amz-Expires=900")
}

func TestNewS3StorageRequiresBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), config.S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.S3Config
		want string
	}{
		{name: "aws default", cfg: config.S3Config{UseSSL: true}, want: ""},
		{name: "bare host with ssl", cfg: config.S3Config{Endpoint: "s3.example.com", UseSSL: true}, want: "https://s3.example.com"},
		{name: "bare host without ssl", cfg: config.S3Config{Endpoint: "minio:9000"}, want: "http://minio:9000"},
		{name: "explicit scheme wins", cfg: config.S3Config{Endpoint: "http://minio:9000", UseSSL: true}, want: "http://minio:9000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, endpointURL(tt.cfg))
		})
	}
}
