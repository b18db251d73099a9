package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutSession records an athlete's attempt at a program. There is at most
// one session per (program, athlete) pair.
type WorkoutSession struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgramID   primitive.ObjectID `bson:"workoutProgramId" json:"workoutProgramId"`
	AthleteID   primitive.ObjectID `bson:"athleteId" json:"athleteId"`
	Completed   bool               `bson:"completed" json:"completed"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CompletedSession is a completed session with its program title, as listed
// when an athlete picks a session to assess.
type CompletedSession struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	ProgramID    primitive.ObjectID `bson:"workoutProgramId" json:"workoutProgramId"`
	ProgramTitle string             `bson:"programTitle" json:"programTitle"`
	CompletedAt  *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// AssessmentType says whether an assessment was taken before or after training.
type AssessmentType string

const (
	AssessmentPreWorkout  AssessmentType = "pre_workout"
	AssessmentPostWorkout AssessmentType = "post_workout"
)

func (t AssessmentType) Valid() bool {
	return t == AssessmentPreWorkout || t == AssessmentPostWorkout
}

// FitnessAssessment is an athlete's self-reported snapshot tied to a session.
// Assessments are append-only.
type FitnessAssessment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID       primitive.ObjectID `bson:"workoutSessionId" json:"workoutSessionId"`
	AthleteID       primitive.ObjectID `bson:"athleteId" json:"athleteId"`
	Type            AssessmentType     `bson:"assessmentType" json:"assessmentType"`
	FatigueLevel    int                `bson:"fatigueLevel" json:"fatigueLevel"`
	PainLevel       int                `bson:"painLevel" json:"painLevel"`
	MotivationLevel int                `bson:"motivationLevel" json:"motivationLevel"`
	EnergyLevel     int                `bson:"energyLevel" json:"energyLevel"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	ProgramTitle    string             `bson:"programTitle,omitempty" json:"programTitle,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// Validate checks the type and the four scales.
func (a *FitnessAssessment) Validate() error {
	if !a.Type.Valid() {
		return invalid("assessmentType", "unknown type %q", a.Type)
	}
	for _, s := range []struct {
		field string
		v     int
	}{
		{"fatigueLevel", a.FatigueLevel},
		{"painLevel", a.PainLevel},
		{"motivationLevel", a.MotivationLevel},
		{"energyLevel", a.EnergyLevel},
	} {
		if err := ValidateScale(s.field, s.v); err != nil {
			return err
		}
	}
	return nil
}
