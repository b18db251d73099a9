package service

import (
	"context"
	"errors"
	"strings"

	"github.com/kafkaan/fit-coach-link/internal/domain"
	"github.com/kafkaan/fit-coach-link/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrExerciseAccessDenied = errors.New("permission denied to modify or delete this exercise")
	ErrExerciseNameTaken    = errors.New("an exercise with this name already exists in the library")
)

// LibraryExerciseInput holds the editable fields of a library exercise.
type LibraryExerciseInput struct {
	Name         string            `json:"name" binding:"required"`
	Description  string            `json:"description"`
	Category     string            `json:"category"`
	MuscleGroups []string          `json:"muscleGroups"`
	Equipment    []string          `json:"equipment"`
	Difficulty   domain.Difficulty `json:"difficulty"`
	Instructions string            `json:"instructions"`
	SafetyTips   string            `json:"safetyTips"`
	VideoURL     string            `json:"videoUrl"`
}

func (in LibraryExerciseInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &domain.ValidationError{Field: "name", Reason: "is required"}
	}
	if in.Difficulty != "" && !in.Difficulty.Valid() {
		return &domain.ValidationError{Field: "difficulty", Reason: "unknown difficulty " + string(in.Difficulty)}
	}
	return nil
}

func (in LibraryExerciseInput) applyTo(e *domain.LibraryExercise) {
	e.Name = strings.TrimSpace(in.Name)
	e.Description = in.Description
	e.Category = in.Category
	e.MuscleGroups = in.MuscleGroups
	e.Equipment = in.Equipment
	e.Difficulty = in.Difficulty
	e.Instructions = in.Instructions
	e.SafetyTips = in.SafetyTips
	e.VideoURL = in.VideoURL
}

type LibraryService interface {
	CreateExercise(ctx context.Context, coachID primitive.ObjectID, in LibraryExerciseInput) (*domain.LibraryExercise, error)
	GetExercise(ctx context.Context, coachID, exerciseID primitive.ObjectID) (*domain.LibraryExercise, error)
	ListExercises(ctx context.Context, coachID primitive.ObjectID) ([]domain.LibraryExercise, error)
	UpdateExercise(ctx context.Context, coachID, exerciseID primitive.ObjectID, in LibraryExerciseInput) (*domain.LibraryExercise, error)
	DeleteExercise(ctx context.Context, coachID, exerciseID primitive.ObjectID, confirmed bool) error
}

type libraryService struct {
	libraryRepo repository.LibraryRepository
}

func NewLibraryService(libraryRepo repository.LibraryRepository) LibraryService {
	return &libraryService{libraryRepo: libraryRepo}
}

func (s *libraryService) CreateExercise(ctx context.Context, coachID primitive.ObjectID, in LibraryExerciseInput) (*domain.LibraryExercise, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	exercise := &domain.LibraryExercise{CoachID: coachID}
	in.applyTo(exercise)

	id, err := s.libraryRepo.Create(ctx, exercise)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrExerciseNameTaken
		}
		return nil, err
	}
	exercise.ID = id
	return exercise, nil
}

// GetExercise returns one of the coach's own exercises.
func (s *libraryService) GetExercise(ctx context.Context, coachID, exerciseID primitive.ObjectID) (*domain.LibraryExercise, error) {
	exercise, err := s.libraryRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if exercise.CoachID != coachID {
		return nil, ErrExerciseAccessDenied
	}
	return exercise, nil
}

func (s *libraryService) ListExercises(ctx context.Context, coachID primitive.ObjectID) ([]domain.LibraryExercise, error) {
	exercises, err := s.libraryRepo.ListByCoach(ctx, coachID)
	if err != nil {
		return nil, err
	}
	if exercises == nil {
		exercises = []domain.LibraryExercise{}
	}
	return exercises, nil
}

// UpdateExercise handles updating an existing exercise, ensuring ownership.
func (s *libraryService) UpdateExercise(ctx context.Context, coachID, exerciseID primitive.ObjectID, in LibraryExerciseInput) (*domain.LibraryExercise, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	existing, err := s.GetExercise(ctx, coachID, exerciseID)
	if err != nil {
		return nil, err
	}

	in.applyTo(existing)
	if err := s.libraryRepo.Update(ctx, existing); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrExerciseNotFound
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrExerciseNameTaken
		}
		return nil, err
	}
	return existing, nil
}

// DeleteExercise removes a library entry. Programs that already copied it
// keep their copy.
func (s *libraryService) DeleteExercise(ctx context.Context, coachID, exerciseID primitive.ObjectID, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	// the ownership check is part of the delete filter
	if err := s.libraryRepo.Delete(ctx, exerciseID, coachID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	return nil
}
