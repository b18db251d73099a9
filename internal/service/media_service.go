package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kafkaan/fit-coach-link/internal/domain"
	"github.com/kafkaan/fit-coach-link/internal/repository"
	"github.com/kafkaan/fit-coach-link/internal/storage"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUnsupportedMediaType     = errors.New("only image and video files can be attached to exercises")
	ErrUploadConfirmationFailed = errors.New("failed to confirm upload")
	ErrUploadNotFound           = errors.New("uploaded object not found")
	ErrUploadURLError           = errors.New("failed to generate upload URL")
	ErrDownloadURLError         = errors.New("failed to generate download URL")
	ErrMediaNotFound            = errors.New("media asset not found")
	ErrMediaAccessDenied        = errors.New("permission denied for this media asset")
)

// UploadURLResponse carries the presigned URL and the key the client reports
// back on confirm.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

type MediaService interface {
	RequestUploadURL(ctx context.Context, coachID primitive.ObjectID, fileName, contentType string) (*UploadURLResponse, error)
	// ConfirmUpload records the asset after the client uploaded it.
	ConfirmUpload(ctx context.Context, coachID primitive.ObjectID, objectKey, fileName, contentType string) (*domain.MediaAsset, error)
	ListMedia(ctx context.Context, coachID primitive.ObjectID) ([]domain.MediaAsset, error)
	GetDownloadURL(ctx context.Context, coachID, assetID primitive.ObjectID) (string, error)
}

type mediaService struct {
	mediaRepo   repository.MediaRepository
	fileStorage storage.FileStorage
	expiry      time.Duration
	now         func() time.Time
}

func NewMediaService(mediaRepo repository.MediaRepository, fileStorage storage.FileStorage, expiry time.Duration) MediaService {
	if expiry <= 0 {
		expiry = storage.DefaultPresignedURLExpiry
	}
	return &mediaService{
		mediaRepo:   mediaRepo,
		fileStorage: fileStorage,
		expiry:      expiry,
		now:         time.Now,
	}
}

func supportedMedia(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "video/")
}

func (s *mediaService) RequestUploadURL(ctx context.Context, coachID primitive.ObjectID, fileName, contentType string) (*UploadURLResponse, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, &domain.ValidationError{Field: "fileName", Reason: "is required"}
	}
	if !supportedMedia(contentType) {
		return nil, ErrUnsupportedMediaType
	}

	objectKey := storage.MediaObjectKey(coachID, fileName)
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, s.expiry)
	if err != nil {
		return nil, ErrUploadURLError
	}
	return &UploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// ConfirmUpload checks the object exists under the coach's prefix and stores
// its metadata with the size reported by the storage backend.
func (s *mediaService) ConfirmUpload(ctx context.Context, coachID primitive.ObjectID, objectKey, fileName, contentType string) (*domain.MediaAsset, error) {
	if !storage.OwnsKey(coachID, objectKey) {
		return nil, ErrMediaAccessDenied
	}
	if !supportedMedia(contentType) {
		return nil, ErrUnsupportedMediaType
	}

	size, err := s.fileStorage.StatObject(ctx, objectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrUploadNotFound
		}
		return nil, err
	}

	asset := &domain.MediaAsset{
		CoachID:     coachID,
		ObjectKey:   objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		UploadedAt:  s.now().UTC(),
	}
	id, err := s.mediaRepo.Create(ctx, asset)
	if err != nil {
		log.WithField("key", objectKey).WithError(err).Error("failed to save media metadata")
		// an object without metadata is unreachable, drop it
		if delErr := s.fileStorage.DeleteObject(ctx, objectKey); delErr != nil {
			log.WithField("key", objectKey).WithError(delErr).Warn("failed to remove orphaned media object")
		}
		return nil, ErrUploadConfirmationFailed
	}
	asset.ID = id
	return asset, nil
}

func (s *mediaService) ListMedia(ctx context.Context, coachID primitive.ObjectID) ([]domain.MediaAsset, error) {
	assets, err := s.mediaRepo.ListByCoach(ctx, coachID)
	if err != nil {
		return nil, err
	}
	if assets == nil {
		assets = []domain.MediaAsset{}
	}
	return assets, nil
}

func (s *mediaService) GetDownloadURL(ctx context.Context, coachID, assetID primitive.ObjectID) (string, error) {
	asset, err := s.mediaRepo.GetByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrMediaNotFound
		}
		return "", err
	}
	if asset.CoachID != coachID {
		return "", ErrMediaAccessDenied
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, asset.ObjectKey, s.expiry)
	if err != nil {
		return "", ErrDownloadURLError
	}
	return url, nil
}
