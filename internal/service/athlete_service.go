package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kafkaan/fit-coach-link/internal/domain"
	"github.com/kafkaan/fit-coach-link/internal/metrics"
	"github.com/kafkaan/fit-coach-link/internal/repository"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AssessmentHistoryLimit = 20
	CompletedSessionsLimit = 10
)

// AssessmentInput is what an athlete submits against a completed session.
type AssessmentInput struct {
	SessionID  primitive.ObjectID
	Type       domain.AssessmentType
	Fatigue    int
	Pain       int
	Motivation int
	Energy     int
	Notes      string
}

type AthleteService interface {
	ListMyPrograms(ctx context.Context, athleteID primitive.ObjectID, filter ProgramFilter) ([]domain.ProgramListing, error)
	// MarkProgramComplete reports whether a new session was created.
	MarkProgramComplete(ctx context.Context, athleteID, programID primitive.ObjectID, notes string) (*domain.WorkoutSession, bool, error)
	ListCompletedSessions(ctx context.Context, athleteID primitive.ObjectID) ([]domain.CompletedSession, error)
	SubmitAssessment(ctx context.Context, athleteID primitive.ObjectID, in AssessmentInput) (*domain.FitnessAssessment, error)
	ListAssessments(ctx context.Context, athleteID primitive.ObjectID) ([]domain.FitnessAssessment, error)
}

type athleteService struct {
	programRepo    repository.ProgramRepository
	sessionRepo    repository.SessionRepository
	assessmentRepo repository.AssessmentRepository
	metrics        *metrics.Manager
	now            func() time.Time
}

func NewAthleteService(
	programRepo repository.ProgramRepository,
	sessionRepo repository.SessionRepository,
	assessmentRepo repository.AssessmentRepository,
	m *metrics.Manager,
) AthleteService {
	return &athleteService{
		programRepo:    programRepo,
		sessionRepo:    sessionRepo,
		assessmentRepo: assessmentRepo,
		metrics:        m,
		now:            time.Now,
	}
}

func (s *athleteService) ListMyPrograms(ctx context.Context, athleteID primitive.ObjectID, filter ProgramFilter) ([]domain.ProgramListing, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	listings, err := s.programRepo.ListByAthlete(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	return filter.Apply(listings, s.now()), nil
}

// MarkProgramComplete creates the session on first completion and updates it
// in place afterwards.
func (s *athleteService) MarkProgramComplete(ctx context.Context, athleteID, programID primitive.ObjectID, notes string) (*domain.WorkoutSession, bool, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, ErrProgramNotFound
		}
		return nil, false, err
	}
	if program.AthleteID == nil || *program.AthleteID != athleteID {
		return nil, false, ErrProgramNotAssigned
	}

	session, created, err := s.sessionRepo.MarkComplete(ctx, programID, athleteID, s.now(), strings.TrimSpace(notes))
	if err != nil {
		return nil, false, err
	}
	s.metrics.CounterSessionsCompleted.Inc()

	log.WithFields(log.Fields{
		"athlete_id": athleteID.Hex(),
		"program_id": programID.Hex(),
		"created":    created,
	}).Info("program marked complete")
	return session, created, nil
}

func (s *athleteService) ListCompletedSessions(ctx context.Context, athleteID primitive.ObjectID) ([]domain.CompletedSession, error) {
	return s.sessionRepo.ListCompletedByAthlete(ctx, athleteID, CompletedSessionsLimit)
}

// SubmitAssessment appends an assessment to one of the athlete's completed
// sessions. Scale values outside [1,10] are rejected.
func (s *athleteService) SubmitAssessment(ctx context.Context, athleteID primitive.ObjectID, in AssessmentInput) (*domain.FitnessAssessment, error) {
	assessment := &domain.FitnessAssessment{
		SessionID:       in.SessionID,
		AthleteID:       athleteID,
		Type:            in.Type,
		FatigueLevel:    in.Fatigue,
		PainLevel:       in.Pain,
		MotivationLevel: in.Motivation,
		EnergyLevel:     in.Energy,
		Notes:           strings.TrimSpace(in.Notes),
	}
	if err := assessment.Validate(); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByID(ctx, in.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.AthleteID != athleteID {
		return nil, ErrSessionAccessDenied
	}
	if !session.Completed {
		return nil, ErrSessionNotCompleted
	}

	assessment.CreatedAt = s.now().UTC()
	id, err := s.assessmentRepo.Create(ctx, assessment)
	if err != nil {
		return nil, err
	}
	assessment.ID = id
	s.metrics.CounterAssessmentsRecorded.Inc()
	return assessment, nil
}

// ListAssessments returns the most recent assessments first.
func (s *athleteService) ListAssessments(ctx context.Context, athleteID primitive.ObjectID) ([]domain.FitnessAssessment, error) {
	history, err := s.assessmentRepo.ListByAthlete(ctx, athleteID, AssessmentHistoryLimit)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []domain.FitnessAssessment{}
	}
	return history, nil
}
