package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kafkaan/fit-coach-link/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMediaUploadFlow(t *testing.T) {
	db := newMemDB()
	files := &fileStorageMock{objects: map[string]int64{}}
	svc := NewMediaService(mediaRepoMock{db}, files, 15*time.Minute)
	coach := primitive.NewObjectID()
	ctx := context.Background()

	_, err := svc.RequestUploadURL(ctx, coach, "notes.pdf", "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)

	upload, err := svc.RequestUploadURL(ctx, coach, "Squat.MP4", "video/mp4")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(upload.ObjectKey, "media/"+coach.Hex()+"/"))
	assert.True(t, strings.HasSuffix(upload.ObjectKey, ".mp4"))
	assert.Contains(t, upload.UploadURL, upload.ObjectKey)

	// the client has not uploaded yet
	_, err = svc.ConfirmUpload(ctx, coach, upload.ObjectKey, "Squat.MP4", "video/mp4")
	assert.ErrorIs(t, err, ErrUploadNotFound)

	files.objects[upload.ObjectKey] = 2048
	asset, err := svc.ConfirmUpload(ctx, coach, upload.ObjectKey, "Squat.MP4", "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, int64(2048), asset.Size)

	stranger := primitive.NewObjectID()
	_, err = svc.ConfirmUpload(ctx, stranger, upload.ObjectKey, "Squat.MP4", "video/mp4")
	assert.ErrorIs(t, err, ErrMediaAccessDenied)

	assets, err := svc.ListMedia(ctx, coach)
	require.NoError(t, err)
	assert.Len(t, assets, 1)
	empty, err := svc.ListMedia(ctx, stranger)
	require.NoError(t, err)
	assert.NotNil(t, empty)

	url, err := svc.GetDownloadURL(ctx, coach, asset.ID)
	require.NoError(t, err)
	assert.Contains(t, url, upload.ObjectKey)

	_, err = svc.GetDownloadURL(ctx, stranger, asset.ID)
	assert.ErrorIs(t, err, ErrMediaAccessDenied)
	_, err = svc.GetDownloadURL(ctx, coach, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrMediaNotFound)
}

type failingMediaRepo struct{ mediaRepoMock }

func (failingMediaRepo) Create(context.Context, *domain.MediaAsset) (primitive.ObjectID, error) {
	return primitive.NilObjectID, errors.New("write concern timeout")
}

func TestConfirmUploadRemovesObjectWhenMetadataFails(t *testing.T) {
	files := &fileStorageMock{objects: map[string]int64{}}
	svc := NewMediaService(failingMediaRepo{mediaRepoMock{newMemDB()}}, files, time.Minute)
	coach := primitive.NewObjectID()
	ctx := context.Background()

	upload, err := svc.RequestUploadURL(ctx, coach, "plank.jpg", "image/jpeg")
	require.NoError(t, err)
	files.objects[upload.ObjectKey] = 512

	_, err = svc.ConfirmUpload(ctx, coach, upload.ObjectKey, "plank.jpg", "image/jpeg")
	assert.ErrorIs(t, err, ErrUploadConfirmationFailed)
	assert.NotContains(t, files.objects, upload.ObjectKey)
}
