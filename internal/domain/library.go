package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LibraryExercise is a reusable exercise definition owned by a coach. The
// builder copies it into a block as a fresh Exercise.
type LibraryExercise struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID      primitive.ObjectID `bson:"coachId" json:"coachId"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Category     string             `bson:"category,omitempty" json:"category,omitempty"`
	MuscleGroups []string           `bson:"muscleGroups,omitempty" json:"muscleGroups,omitempty"`
	Equipment    []string           `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Difficulty   Difficulty         `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Instructions string             `bson:"instructions,omitempty" json:"instructions,omitempty"`
	SafetyTips   string             `bson:"safetyTips,omitempty" json:"safetyTips,omitempty"`
	VideoURL     string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ToExercise turns the library entry into a builder exercise with the given
// identities and the default set.
func (l LibraryExercise) ToExercise(exerciseID, setID string) Exercise {
	ex := NewExercise(exerciseID, NewSet(setID))
	ex.Name = l.Name
	if l.Category != "" {
		ex.Category = l.Category
	}
	if l.MuscleGroups != nil {
		ex.MuscleGroups = dedupe(l.MuscleGroups)
	}
	if l.Equipment != nil {
		ex.Equipment = cloneStrings(l.Equipment)
	}
	if l.Difficulty.Valid() {
		ex.Difficulty = l.Difficulty
	}
	ex.Instructions = l.Instructions
	ex.SafetyTips = l.SafetyTips
	ex.VideoURL = l.VideoURL
	return ex
}
