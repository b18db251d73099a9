package programcodec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kafkaan/fit-coach-link/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// v1Structure is the first-release layout of the structure payload.
type v1Structure struct {
	Blocks        []domain.Block  `json:"blocks"`
	Equipment     []string        `json:"equipment"`
	HRZones       *domain.HRZones `json:"hrZones"`
	TrackMetrics  []string        `json:"trackMetrics"`
	NutritionPlan struct {
		PreWorkout         string `json:"preWorkout"`
		PostWorkout        string `json:"postWorkout"`
		HydrationReminders *bool  `json:"hydrationReminders"`
	} `json:"nutritionPlan"`
	Advanced struct {
		AutoProgression bool   `json:"autoProgression"`
		DeloadWeek      bool   `json:"deloadWeek"`
		Periodization   string `json:"periodization"`
		TestingProtocol string `json:"testingProtocol"`
	} `json:"advanced"`
	Tags    []string `json:"tags"`
	Version int      `json:"version"`
}

// v1Details is what the first release JSON-encoded into the instructions column.
type v1Details struct {
	Objectives   []string          `json:"objectives"`
	ProgramType  string            `json:"programType"`
	Phase        string            `json:"phase"`
	Difficulty   domain.Difficulty `json:"difficulty"`
	Location     string            `json:"location"`
	TimeOfDay    string            `json:"timeOfDay"`
	Frequency    string            `json:"frequency"`
	CoachingCues []string          `json:"coachingCues"`
	SafetyNotes  []string          `json:"safetyNotes"`
}

func decodeV1(structure, instructions string) (domain.Program, error) {
	var s v1Structure
	if err := json.Unmarshal([]byte(structure), &s); err != nil {
		return domain.Program{}, fmt.Errorf("decoding program extras v1: %w", err)
	}

	p := domain.NewProgram(primitive.NilObjectID)
	p.Blocks = nonNilBlocks(s.Blocks)
	for i := range p.Blocks {
		p.Blocks[i].Order = i + 1
	}
	if s.Equipment != nil {
		p.Equipment = s.Equipment
	}
	if s.HRZones != nil {
		p.HRZones = *s.HRZones
	}
	p.TrackMetrics = s.TrackMetrics
	p.PreWorkoutNutrition = s.NutritionPlan.PreWorkout
	p.PostWorkoutNutrition = s.NutritionPlan.PostWorkout
	if s.NutritionPlan.HydrationReminders != nil {
		p.HydrationReminders = *s.NutritionPlan.HydrationReminders
	}
	p.AutoProgression = s.Advanced.AutoProgression
	p.DeloadWeek = s.Advanced.DeloadWeek
	p.Periodization = s.Advanced.Periodization
	p.TestingProtocol = s.Advanced.TestingProtocol
	if s.Tags != nil {
		p.Tags = s.Tags
	}
	p.Version = 1

	trimmed := strings.TrimSpace(instructions)
	if !strings.HasPrefix(trimmed, "{") {
		p.Instructions = instructions
		return p, nil
	}
	var d v1Details
	if err := json.Unmarshal([]byte(trimmed), &d); err != nil {
		p.Instructions = instructions
		return p, nil
	}
	if d.Objectives != nil {
		p.Objectives = d.Objectives
	}
	setNonEmpty(&p.ProgramType, d.ProgramType)
	setNonEmpty(&p.Phase, d.Phase)
	if d.Difficulty.Valid() {
		p.Difficulty = d.Difficulty
	}
	setNonEmpty(&p.Location, d.Location)
	p.TimeOfDay = d.TimeOfDay
	p.Frequency = d.Frequency
	p.CoachingCues = d.CoachingCues
	p.SafetyNotes = d.SafetyNotes
	return p, nil
}

func nonNilBlocks(blocks []domain.Block) []domain.Block {
	if blocks == nil {
		return []domain.Block{}
	}
	return blocks
}

func setNonEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
