package domain

// BlockType tags the phase a block belongs to.
type BlockType string

const (
	BlockWarmup      BlockType = "warmup"
	BlockActivation  BlockType = "activation"
	BlockStrength    BlockType = "strength"
	BlockPower       BlockType = "power"
	BlockHypertrophy BlockType = "hypertrophy"
	BlockEndurance   BlockType = "endurance"
	BlockFlexibility BlockType = "flexibility"
	BlockCooldown    BlockType = "cooldown"
	// Basic builder types.
	BlockMain   BlockType = "main"
	BlockCardio BlockType = "cardio"
)

func (t BlockType) Valid() bool {
	switch t {
	case BlockWarmup, BlockActivation, BlockStrength, BlockPower, BlockHypertrophy,
		BlockEndurance, BlockFlexibility, BlockCooldown, BlockMain, BlockCardio:
		return true
	}
	return false
}

// Defaults applied to a freshly added block.
const (
	DefaultBlockDuration     = 20 // minutes
	DefaultBlockRest         = 90 // seconds
	DefaultBlockIntensity    = 7
	DefaultCircuitRounds     = 3
	DefaultCircuitRestSecond = 60
)

// Block is a named phase of a program holding ordered exercises.
//
// CircuitRounds and CircuitRestTime only mean something when IsCircuit is
// set; otherwise they are carried but ignored.
type Block struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Type                 BlockType  `json:"type"`
	Exercises            []Exercise `json:"exercises"`
	Duration             int        `json:"duration"`             // minutes
	RestBetweenExercises int        `json:"restBetweenExercises"` // seconds
	Intensity            int        `json:"intensity"`            // 1-10
	Focus                []string   `json:"focus"`
	Instructions         string     `json:"instructions,omitempty"`
	Order                int        `json:"order"`
	IsSuperset           bool       `json:"isSuperset"`
	IsCircuit            bool       `json:"isCircuit"`
	CircuitRounds        int        `json:"circuitRounds,omitempty"`
	CircuitRestTime      int        `json:"circuitRestTime,omitempty"` // seconds
}

// NewBlock returns a block of the given type with the builder defaults.
func NewBlock(id, title string, t BlockType) Block {
	return Block{
		ID:                   id,
		Title:                title,
		Type:                 t,
		Exercises:            []Exercise{},
		Duration:             DefaultBlockDuration,
		RestBetweenExercises: DefaultBlockRest,
		Intensity:            DefaultBlockIntensity,
		Focus:                []string{},
	}
}

// Circuit returns the round count and inter-round rest, and false when the
// block is not a circuit.
func (b Block) Circuit() (rounds, rest int, ok bool) {
	if !b.IsCircuit {
		return 0, 0, false
	}
	return b.CircuitRounds, b.CircuitRestTime, true
}

// ExerciseIndex returns the position of the exercise with the given id, or -1.
func (b Block) ExerciseIndex(exerciseID string) int {
	for i, ex := range b.Exercises {
		if ex.ID == exerciseID {
			return i
		}
	}
	return -1
}

func (b Block) Validate() error {
	if b.Type != "" && !b.Type.Valid() {
		return invalid("block.type", "unknown block type %q", b.Type)
	}
	if err := ValidateScale("block.intensity", b.Intensity); err != nil {
		return err
	}
	if b.Duration < 0 {
		return invalid("block.duration", "must not be negative")
	}
	if b.RestBetweenExercises < 0 {
		return invalid("block.restBetweenExercises", "must not be negative")
	}
	if b.IsCircuit && (b.CircuitRounds < 0 || b.CircuitRestTime < 0) {
		return invalid("block.circuit", "rounds and rest must not be negative")
	}
	for _, ex := range b.Exercises {
		if err := ex.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// BlockPatch carries the block fields to merge. Nil fields are left unchanged.
type BlockPatch struct {
	Title                *string    `json:"title,omitempty"`
	Type                 *BlockType `json:"type,omitempty"`
	Duration             *int       `json:"duration,omitempty"`
	RestBetweenExercises *int       `json:"restBetweenExercises,omitempty"`
	Intensity            *int       `json:"intensity,omitempty"`
	Focus                []string   `json:"focus,omitempty"`
	Instructions         *string    `json:"instructions,omitempty"`
	IsSuperset           *bool      `json:"isSuperset,omitempty"`
	IsCircuit            *bool      `json:"isCircuit,omitempty"`
	CircuitRounds        *int       `json:"circuitRounds,omitempty"`
	CircuitRestTime      *int       `json:"circuitRestTime,omitempty"`
}

// WithPatch returns a copy of b with the patch merged. Out of range values
// are rejected, the receiver is returned unchanged alongside the error.
func (b Block) WithPatch(patch BlockPatch) (Block, error) {
	if patch.Intensity != nil {
		if err := ValidateScale("block.intensity", *patch.Intensity); err != nil {
			return b, err
		}
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return b, invalid("block.type", "unknown block type %q", *patch.Type)
	}
	if err := nonNegative([]intField{
		{"block.duration", patch.Duration},
		{"block.restBetweenExercises", patch.RestBetweenExercises},
		{"block.circuitRounds", patch.CircuitRounds},
		{"block.circuitRestTime", patch.CircuitRestTime},
	}); err != nil {
		return b, err
	}

	out := b.clone()
	setString(&out.Title, patch.Title)
	if patch.Type != nil {
		out.Type = *patch.Type
	}
	setInt(&out.Duration, patch.Duration)
	setInt(&out.RestBetweenExercises, patch.RestBetweenExercises)
	setInt(&out.Intensity, patch.Intensity)
	setStrings(&out.Focus, patch.Focus)
	setString(&out.Instructions, patch.Instructions)
	setBool(&out.IsSuperset, patch.IsSuperset)
	setBool(&out.IsCircuit, patch.IsCircuit)
	setInt(&out.CircuitRounds, patch.CircuitRounds)
	setInt(&out.CircuitRestTime, patch.CircuitRestTime)
	if out.IsCircuit && !b.IsCircuit {
		if patch.CircuitRounds == nil && out.CircuitRounds == 0 {
			out.CircuitRounds = DefaultCircuitRounds
		}
		if patch.CircuitRestTime == nil && out.CircuitRestTime == 0 {
			out.CircuitRestTime = DefaultCircuitRestSecond
		}
	}
	return out, nil
}

// WithExercise appends ex to the block.
func (b Block) WithExercise(ex Exercise) Block {
	out := b.clone()
	out.Exercises = append(out.Exercises, ex.clone())
	return out
}

// WithoutExercise removes the exercise; false when it is absent.
func (b Block) WithoutExercise(exerciseID string) (Block, bool) {
	idx := b.ExerciseIndex(exerciseID)
	if idx < 0 {
		return b, false
	}
	out := b.clone()
	out.Exercises = append(out.Exercises[:idx], out.Exercises[idx+1:]...)
	return out, true
}

// MapExercise replaces the exercise with the given id by fn(exercise).
func (b Block) MapExercise(exerciseID string, fn func(Exercise) (Exercise, error)) (Block, bool, error) {
	idx := b.ExerciseIndex(exerciseID)
	if idx < 0 {
		return b, false, nil
	}
	updated, err := fn(b.Exercises[idx].clone())
	if err != nil {
		return b, true, err
	}
	out := b.clone()
	updated.ID = b.Exercises[idx].ID
	out.Exercises[idx] = updated
	return out, true, nil
}

func (b Block) clone() Block {
	out := b
	out.Focus = cloneStrings(b.Focus)
	if b.Exercises != nil {
		out.Exercises = make([]Exercise, len(b.Exercises))
		for i, ex := range b.Exercises {
			out.Exercises[i] = ex.clone()
		}
	}
	return out
}
