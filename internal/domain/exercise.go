package domain

// Defaults applied to an exercise added from scratch.
const (
	DefaultExerciseName       = "New exercise"
	DefaultExerciseCategory   = "strength"
	DefaultWarmupSets         = 1
	DefaultWorkingSets        = 3
	DefaultMuscleActivation   = 80
	DefaultExerciseDurationMn = 5
)

// Exercise is a named movement inside a block, made of ordered sets.
type Exercise struct {
	ID                     string     `json:"id"`
	Name                   string     `json:"name"`
	Category               string     `json:"category"`
	MuscleGroups           []string   `json:"muscleGroups"`
	Equipment              []string   `json:"equipment"`
	Difficulty             Difficulty `json:"difficulty"`
	Instructions           string     `json:"instructions,omitempty"`
	SafetyTips             string     `json:"safetyTips,omitempty"`
	CommonMistakes         string     `json:"commonMistakes,omitempty"`
	Sets                   []Set      `json:"sets"`
	SupersetWith           string     `json:"supersetWith,omitempty"`
	Dropset                bool       `json:"dropset"`
	RestPause              bool       `json:"restPause"`
	Cluster                bool       `json:"cluster"`
	WarmupSets             int        `json:"warmupSets"`
	WorkingSets            int        `json:"workingSets"`
	VideoURL               string     `json:"videoUrl,omitempty"`
	ImageURLs              []string   `json:"imageUrls"`
	MediaAssetIDs          []string   `json:"mediaAssetIds"`
	PersonalNotes          string     `json:"personalNotes,omitempty"`
	CoachNotes             string     `json:"coachNotes,omitempty"`
	Modifications          []string   `json:"modifications"`
	TargetMuscleActivation int        `json:"targetMuscleActivation"`
	EstimatedDuration      int        `json:"estimatedDuration"` // minutes
}

// NewExercise returns an exercise carrying one default set.
func NewExercise(id string, firstSet Set) Exercise {
	return Exercise{
		ID:                     id,
		Name:                   DefaultExerciseName,
		Category:               DefaultExerciseCategory,
		MuscleGroups:           []string{},
		Equipment:              []string{},
		Difficulty:             DifficultyIntermediate,
		Sets:                   []Set{firstSet},
		WarmupSets:             DefaultWarmupSets,
		WorkingSets:            DefaultWorkingSets,
		ImageURLs:              []string{},
		Modifications:          []string{},
		TargetMuscleActivation: DefaultMuscleActivation,
		EstimatedDuration:      DefaultExerciseDurationMn,
	}
}

// SetIndex returns the position of the set with the given id, or -1.
func (e Exercise) SetIndex(setID string) int {
	for i, s := range e.Sets {
		if s.ID == setID {
			return i
		}
	}
	return -1
}

func (e Exercise) Validate() error {
	if e.Difficulty != "" && !e.Difficulty.Valid() {
		return invalid("exercise.difficulty", "unknown tier %q", e.Difficulty)
	}
	if e.WarmupSets < 0 || e.WorkingSets < 0 {
		return invalid("exercise.sets", "set counts must not be negative")
	}
	if e.EstimatedDuration < 0 {
		return invalid("exercise.estimatedDuration", "must not be negative")
	}
	for _, s := range e.Sets {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ExercisePatch carries the exercise fields to merge. Nil fields are left unchanged.
type ExercisePatch struct {
	Name                   *string     `json:"name,omitempty"`
	Category               *string     `json:"category,omitempty"`
	MuscleGroups           []string    `json:"muscleGroups,omitempty"`
	Equipment              []string    `json:"equipment,omitempty"`
	Difficulty             *Difficulty `json:"difficulty,omitempty"`
	Instructions           *string     `json:"instructions,omitempty"`
	SafetyTips             *string     `json:"safetyTips,omitempty"`
	CommonMistakes         *string     `json:"commonMistakes,omitempty"`
	SupersetWith           *string     `json:"supersetWith,omitempty"`
	Dropset                *bool       `json:"dropset,omitempty"`
	RestPause              *bool       `json:"restPause,omitempty"`
	Cluster                *bool       `json:"cluster,omitempty"`
	WarmupSets             *int        `json:"warmupSets,omitempty"`
	WorkingSets            *int        `json:"workingSets,omitempty"`
	VideoURL               *string     `json:"videoUrl,omitempty"`
	ImageURLs              []string    `json:"imageUrls,omitempty"`
	MediaAssetIDs          []string    `json:"mediaAssetIds,omitempty"`
	PersonalNotes          *string     `json:"personalNotes,omitempty"`
	CoachNotes             *string     `json:"coachNotes,omitempty"`
	Modifications          []string    `json:"modifications,omitempty"`
	TargetMuscleActivation *int        `json:"targetMuscleActivation,omitempty"`
	EstimatedDuration      *int        `json:"estimatedDuration,omitempty"`
}

func (e Exercise) WithPatch(patch ExercisePatch) (Exercise, error) {
	if patch.Difficulty != nil && !patch.Difficulty.Valid() {
		return e, invalid("exercise.difficulty", "unknown tier %q", *patch.Difficulty)
	}
	if err := nonNegative([]intField{
		{"exercise.warmupSets", patch.WarmupSets},
		{"exercise.workingSets", patch.WorkingSets},
		{"exercise.estimatedDuration", patch.EstimatedDuration},
	}); err != nil {
		return e, err
	}
	if patch.TargetMuscleActivation != nil {
		if v := *patch.TargetMuscleActivation; v < 0 || v > 100 {
			return e, invalid("exercise.targetMuscleActivation", "%d is outside [0,100]", v)
		}
	}

	out := e.clone()
	setString(&out.Name, patch.Name)
	setString(&out.Category, patch.Category)
	setStrings(&out.MuscleGroups, dedupe(patch.MuscleGroups))
	setStrings(&out.Equipment, patch.Equipment)
	if patch.Difficulty != nil {
		out.Difficulty = *patch.Difficulty
	}
	setString(&out.Instructions, patch.Instructions)
	setString(&out.SafetyTips, patch.SafetyTips)
	setString(&out.CommonMistakes, patch.CommonMistakes)
	setString(&out.SupersetWith, patch.SupersetWith)
	setBool(&out.Dropset, patch.Dropset)
	setBool(&out.RestPause, patch.RestPause)
	setBool(&out.Cluster, patch.Cluster)
	setInt(&out.WarmupSets, patch.WarmupSets)
	setInt(&out.WorkingSets, patch.WorkingSets)
	setString(&out.VideoURL, patch.VideoURL)
	setStrings(&out.ImageURLs, patch.ImageURLs)
	setStrings(&out.MediaAssetIDs, patch.MediaAssetIDs)
	setString(&out.PersonalNotes, patch.PersonalNotes)
	setString(&out.CoachNotes, patch.CoachNotes)
	setStrings(&out.Modifications, patch.Modifications)
	setInt(&out.TargetMuscleActivation, patch.TargetMuscleActivation)
	setInt(&out.EstimatedDuration, patch.EstimatedDuration)
	return out, nil
}

// WithSet appends s to the exercise.
func (e Exercise) WithSet(s Set) Exercise {
	out := e.clone()
	out.Sets = append(out.Sets, s)
	return out
}

// WithoutSet removes the set; false when it is absent.
func (e Exercise) WithoutSet(setID string) (Exercise, bool) {
	idx := e.SetIndex(setID)
	if idx < 0 {
		return e, false
	}
	out := e.clone()
	out.Sets = append(out.Sets[:idx], out.Sets[idx+1:]...)
	return out, true
}

// MapSet replaces the set with the given id by fn(set).
func (e Exercise) MapSet(setID string, fn func(Set) (Set, error)) (Exercise, bool, error) {
	idx := e.SetIndex(setID)
	if idx < 0 {
		return e, false, nil
	}
	updated, err := fn(e.Sets[idx])
	if err != nil {
		return e, true, err
	}
	out := e.clone()
	updated.ID = e.Sets[idx].ID
	out.Sets[idx] = updated
	return out, true, nil
}

func (e Exercise) clone() Exercise {
	out := e
	out.MuscleGroups = cloneStrings(e.MuscleGroups)
	out.Equipment = cloneStrings(e.Equipment)
	out.ImageURLs = cloneStrings(e.ImageURLs)
	out.MediaAssetIDs = cloneStrings(e.MediaAssetIDs)
	out.Modifications = cloneStrings(e.Modifications)
	if e.Sets != nil {
		out.Sets = make([]Set, len(e.Sets))
		copy(out.Sets, e.Sets)
	}
	return out
}

// dedupe keeps the first occurrence of every value; muscle groups are set-like.
func dedupe(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
