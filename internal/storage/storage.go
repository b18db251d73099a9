package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

var ErrObjectNotFound = errors.New("object not found in storage")

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading/viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// StatObject returns the size of an uploaded object, or ErrObjectNotFound.
	StatObject(ctx context.Context, objectKey string) (int64, error)

	DeleteObject(ctx context.Context, objectKey string) error
}

// MediaObjectKey builds the object key of a coach's exercise media file:
// media/<coachID>/<uuid><ext>.
func MediaObjectKey(coachID primitive.ObjectID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("media/%s/%s%s", coachID.Hex(), uuid.NewString(), ext)
}

// OwnsKey reports whether objectKey lives under the coach's media prefix.
func OwnsKey(coachID primitive.ObjectID, objectKey string) bool {
	return strings.HasPrefix(objectKey, fmt.Sprintf("media/%s/", coachID.Hex()))
}
