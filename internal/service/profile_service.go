package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/kafkaan/fit-coach-link/internal/domain"
	"github.com/kafkaan/fit-coach-link/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileService serves the caller's own profile.
type ProfileService interface {
	GetProfile(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error)
	// SetTheme stores the theme preference. A nil theme clears it.
	SetTheme(ctx context.Context, id primitive.ObjectID, theme *domain.Theme) (*domain.Profile, error)
	// UpdateProfile replaces the names, avatar and theme in one write.
	UpdateProfile(ctx context.Context, id primitive.ObjectID, in ProfileUpdate) (*domain.Profile, error)
}

// ProfileUpdate is the editable part of a profile. A nil Theme clears the
// preference, an empty AvatarURL removes the avatar.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	AvatarURL string
	Theme     *domain.Theme
}

func (in ProfileUpdate) validate() error {
	if in.FirstName == "" {
		return &domain.ValidationError{Field: "firstName", Reason: "is required"}
	}
	if in.AvatarURL != "" {
		u, err := url.Parse(in.AvatarURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return &domain.ValidationError{Field: "avatarUrl", Reason: "must be an http(s) URL"}
		}
	}
	if in.Theme != nil && !in.Theme.Valid() {
		return &domain.ValidationError{Field: "theme", Reason: "must be light, dark or system"}
	}
	return nil
}

type profileService struct {
	profileRepo repository.ProfileRepository
}

func NewProfileService(profileRepo repository.ProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

func (s *profileService) GetProfile(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *profileService) SetTheme(ctx context.Context, id primitive.ObjectID, theme *domain.Theme) (*domain.Profile, error) {
	if theme != nil && !theme.Valid() {
		return nil, &domain.ValidationError{Field: "theme", Reason: "must be light, dark or system"}
	}
	if err := s.profileRepo.UpdateTheme(ctx, id, theme); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return s.GetProfile(ctx, id)
}

func (s *profileService) UpdateProfile(ctx context.Context, id primitive.ObjectID, in ProfileUpdate) (*domain.Profile, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.AvatarURL = strings.TrimSpace(in.AvatarURL)
	if err := in.validate(); err != nil {
		return nil, err
	}

	profile, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	profile.FirstName = in.FirstName
	profile.LastName = in.LastName
	profile.AvatarURL = in.AvatarURL
	profile.Theme = in.Theme
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}
