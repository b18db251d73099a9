package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kafkaan/fit-coach-link/internal/domain"
	"github.com/kafkaan/fit-coach-link/internal/repository"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CoachService interface {
	// Roster management
	ListAthletes(ctx context.Context, coachID primitive.ObjectID) ([]domain.RosterEntry, error)
	LinkAthleteByEmail(ctx context.Context, coachID primitive.ObjectID, email string) (*domain.RosterEntry, error)
	UnlinkAthlete(ctx context.Context, coachID, athleteID primitive.ObjectID, confirmed bool) error

	// Program roster
	ListPrograms(ctx context.Context, coachID primitive.ObjectID, filter ProgramFilter) ([]domain.ProgramListing, error)
	GetProgram(ctx context.Context, coachID, programID primitive.ObjectID) (*domain.Program, error)
	DeleteProgram(ctx context.Context, coachID, programID primitive.ObjectID, confirmed bool) error
}

type coachService struct {
	profileRepo      repository.ProfileRepository
	relationshipRepo repository.RelationshipRepository
	programRepo      repository.ProgramRepository
	sessionRepo      repository.SessionRepository
	now              func() time.Time
}

func NewCoachService(
	profileRepo repository.ProfileRepository,
	relationshipRepo repository.RelationshipRepository,
	programRepo repository.ProgramRepository,
	sessionRepo repository.SessionRepository,
) CoachService {
	return &coachService{
		profileRepo:      profileRepo,
		relationshipRepo: relationshipRepo,
		programRepo:      programRepo,
		sessionRepo:      sessionRepo,
		now:              time.Now,
	}
}

// ListAthletes returns the coach's roster. An empty roster is an empty
// slice, never nil.
func (s *coachService) ListAthletes(ctx context.Context, coachID primitive.ObjectID) ([]domain.RosterEntry, error) {
	roster, err := s.relationshipRepo.ListAthletes(ctx, coachID)
	if err != nil {
		return nil, err
	}
	if roster == nil {
		roster = []domain.RosterEntry{}
	}
	return roster, nil
}

// LinkAthleteByEmail finds a registered athlete by email and adds them to
// the coach's roster.
func (s *coachService) LinkAthleteByEmail(ctx context.Context, coachID primitive.ObjectID, email string) (*domain.RosterEntry, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, &domain.ValidationError{Field: "email", Reason: "is required"}
	}

	coach, err := s.profileRepo.GetByID(ctx, coachID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotCoach
		}
		return nil, err
	}
	if !coach.IsCoach() {
		return nil, ErrNotCoach
	}

	athlete, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAthleteNotFound
		}
		return nil, err
	}
	if athlete.ID == coachID {
		return nil, ErrSelfLink
	}
	if !athlete.IsAthlete() {
		return nil, ErrNotAthleteRole
	}

	if err := s.relationshipRepo.Link(ctx, coachID, athlete.ID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAthleteAlreadyLinked
		}
		return nil, err
	}

	log.WithFields(log.Fields{
		"coach_id":   coachID.Hex(),
		"athlete_id": athlete.ID.Hex(),
	}).Info("athlete linked")

	return &domain.RosterEntry{
		AthleteID: athlete.ID,
		FirstName: athlete.FirstName,
		LastName:  athlete.LastName,
		Email:     athlete.Email,
		AvatarURL: athlete.AvatarURL,
		LinkedAt:  s.now().UTC(),
	}, nil
}

func (s *coachService) UnlinkAthlete(ctx context.Context, coachID, athleteID primitive.ObjectID, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if err := s.relationshipRepo.Unlink(ctx, coachID, athleteID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAthleteNotLinked
		}
		return err
	}
	return nil
}

func (s *coachService) ListPrograms(ctx context.Context, coachID primitive.ObjectID, filter ProgramFilter) ([]domain.ProgramListing, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	listings, err := s.programRepo.ListByCoach(ctx, coachID)
	if err != nil {
		return nil, err
	}
	return filter.Apply(listings, s.now()), nil
}

func (s *coachService) GetProgram(ctx context.Context, coachID, programID primitive.ObjectID) (*domain.Program, error) {
	return ownedProgram(ctx, s.programRepo, coachID, programID)
}

// DeleteProgram removes the program and its sessions. There is no undo.
func (s *coachService) DeleteProgram(ctx context.Context, coachID, programID primitive.ObjectID, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if _, err := ownedProgram(ctx, s.programRepo, coachID, programID); err != nil {
		return err
	}
	if err := s.programRepo.Delete(ctx, programID, coachID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgramNotFound
		}
		return err
	}
	if err := s.sessionRepo.DeleteByProgram(ctx, programID); err != nil {
		log.WithField("program_id", programID.Hex()).WithError(err).Warn("failed to delete sessions of deleted program")
	}
	return nil
}

func ownedProgram(ctx context.Context, repo repository.ProgramRepository, coachID, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := repo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("loading program: %w", err)
	}
	if program.CoachID != coachID {
		return nil, ErrProgramAccessDenied
	}
	return program, nil
}
