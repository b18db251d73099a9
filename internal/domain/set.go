package domain

// Defaults applied to a freshly added set.
const (
	DefaultSetReps  = 10
	DefaultSetRest  = 90 // seconds
	DefaultSetRPE   = 7
	DefaultSetTempo = "2-1-2-1"
)

// Set is one prescribed unit of an exercise.
type Set struct {
	ID        string  `json:"id"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`   // unit-less
	RestTime  int     `json:"restTime"` // seconds
	RPE       int     `json:"rpe"`      // 1-10
	Tempo     string  `json:"tempo"`    // eccentric-pause-concentric-pause, e.g. "3-1-1-1"
	Notes     string  `json:"notes,omitempty"`
	Completed bool    `json:"completed"`
}

// NewSet returns a set with the builder defaults.
func NewSet(id string) Set {
	return Set{
		ID:       id,
		Reps:     DefaultSetReps,
		RestTime: DefaultSetRest,
		RPE:      DefaultSetRPE,
		Tempo:    DefaultSetTempo,
	}
}

func (s Set) Validate() error {
	if s.Reps < 0 {
		return invalid("set.reps", "must not be negative")
	}
	if err := validateNonNegative("set.weight", s.Weight); err != nil {
		return err
	}
	if s.RestTime < 0 {
		return invalid("set.restTime", "must not be negative")
	}
	if err := ValidateScale("set.rpe", s.RPE); err != nil {
		return err
	}
	return ValidateTempo(s.Tempo)
}

// SetPatch carries the set fields to merge. Nil fields are left unchanged.
type SetPatch struct {
	Reps      *int     `json:"reps,omitempty"`
	Weight    *float64 `json:"weight,omitempty"`
	RestTime  *int     `json:"restTime,omitempty"`
	RPE       *int     `json:"rpe,omitempty"`
	Tempo     *string  `json:"tempo,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
	Completed *bool    `json:"completed,omitempty"`
}

// WithPatch merges the patch and validates the result. An RPE of 11 or a
// negative weight is rejected and s is returned unchanged.
func (s Set) WithPatch(patch SetPatch) (Set, error) {
	out := s
	setInt(&out.Reps, patch.Reps)
	setFloat(&out.Weight, patch.Weight)
	setInt(&out.RestTime, patch.RestTime)
	setInt(&out.RPE, patch.RPE)
	setString(&out.Tempo, patch.Tempo)
	setString(&out.Notes, patch.Notes)
	setBool(&out.Completed, patch.Completed)
	if err := out.Validate(); err != nil {
		return s, err
	}
	return out, nil
}
