package repository

import (
	"context"
	"time"

	"github.com/kafkaan/fit-coach-link/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer. Implementations translate
// driver errors into these so the layers above never see driver types.
var (
	ErrNotFound         = RepositoryError("not found")
	ErrConflict         = RepositoryError("already exists")
	ErrPermissionDenied = RepositoryError("permission denied")
	ErrUpdateFailed     = RepositoryError("update failed")
	ErrDeleteFailed     = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ProfileRepository stores coach and athlete profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	// UpdateTheme sets the theme preference; nil clears it.
	UpdateTheme(ctx context.Context, id primitive.ObjectID, theme *domain.Theme) error
	// Update writes the editable fields: names, avatar and theme. Email, role
	// and password are left alone.
	Update(ctx context.Context, profile *domain.Profile) error
}

// RelationshipRepository stores coach/athlete links.
type RelationshipRepository interface {
	Link(ctx context.Context, coachID, athleteID primitive.ObjectID) error
	Unlink(ctx context.Context, coachID, athleteID primitive.ObjectID) error
	ListAthletes(ctx context.Context, coachID primitive.ObjectID) ([]domain.RosterEntry, error)
	IsLinked(ctx context.Context, coachID, athleteID primitive.ObjectID) (bool, error)
	CountAthletes(ctx context.Context, coachID primitive.ObjectID) (int, error)
}

// ProgramRepository stores workout programs.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error)
	Update(ctx context.Context, program *domain.Program) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	ListByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.ProgramListing, error)
	// ListByAthlete joins the coach name and the athlete's own session state.
	ListByAthlete(ctx context.Context, athleteID primitive.ObjectID) ([]domain.ProgramListing, error)
	Delete(ctx context.Context, id, coachID primitive.ObjectID) error
}

// SessionRepository stores workout sessions, at most one per (program, athlete).
type SessionRepository interface {
	// MarkComplete creates or updates the session in a single upsert. The
	// boolean reports whether a new session was created.
	MarkComplete(ctx context.Context, programID, athleteID primitive.ObjectID, at time.Time, notes string) (*domain.WorkoutSession, bool, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error)
	GetByProgramAndAthlete(ctx context.Context, programID, athleteID primitive.ObjectID) (*domain.WorkoutSession, error)
	ListCompletedByAthlete(ctx context.Context, athleteID primitive.ObjectID, limit int) ([]domain.CompletedSession, error)
	DeleteByProgram(ctx context.Context, programID primitive.ObjectID) error
}

// AssessmentRepository stores fitness assessments. Assessments are append-only.
type AssessmentRepository interface {
	Create(ctx context.Context, assessment *domain.FitnessAssessment) (primitive.ObjectID, error)
	// ListByAthlete returns the most recent assessments first.
	ListByAthlete(ctx context.Context, athleteID primitive.ObjectID, limit int) ([]domain.FitnessAssessment, error)
}

// StatsRepository runs the dashboard aggregations.
type StatsRepository interface {
	CoachWeeklyActivity(ctx context.Context, coachID primitive.ObjectID, since time.Time) ([]domain.WeeklyActivity, error)
	CoachActiveThisWeek(ctx context.Context, coachID primitive.ObjectID, weekStart time.Time) (int, error)
	CoachFitnessTrends(ctx context.Context, coachID primitive.ObjectID, since time.Time) ([]domain.FitnessTrend, error)
	CoachProgramCounts(ctx context.Context, coachID primitive.ObjectID) (total, completed int, err error)
	AthleteProgramCounts(ctx context.Context, athleteID primitive.ObjectID) (total, completed int, err error)
	AthleteAssessmentAverages(ctx context.Context, athleteID primitive.ObjectID) (domain.ScaleAverages, error)
}

// LibraryRepository stores a coach's reusable exercises.
type LibraryRepository interface {
	Create(ctx context.Context, exercise *domain.LibraryExercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.LibraryExercise, error)
	ListByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.LibraryExercise, error)
	Update(ctx context.Context, exercise *domain.LibraryExercise) error
	Delete(ctx context.Context, id, coachID primitive.ObjectID) error
}

// MediaRepository stores metadata of uploaded exercise media.
type MediaRepository interface {
	Create(ctx context.Context, asset *domain.MediaAsset) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MediaAsset, error)
	ListByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.MediaAsset, error)
}
