package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Difficulty tiers shared by programs and exercises.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// HRZones holds the upper heart-rate bound of each training zone.
type HRZones struct {
	Zone1 int `json:"zone1" bson:"zone1"`
	Zone2 int `json:"zone2" bson:"zone2"`
	Zone3 int `json:"zone3" bson:"zone3"`
	Zone4 int `json:"zone4" bson:"zone4"`
	Zone5 int `json:"zone5" bson:"zone5"`
}

// DefaultHRZones are the zones a new advanced draft starts with.
var DefaultHRZones = HRZones{Zone1: 120, Zone2: 140, Zone3: 160, Zone4: 180, Zone5: 200}

// Program is a coach-authored workout assignment. Blocks are kept in
// display order; after any reorder or delete their Order fields equal their
// 1-based positions.
//
// Programs are values: every edit method returns a new Program and leaves the
// receiver untouched.
type Program struct {
	ID            primitive.ObjectID  `json:"id"`
	Title         string              `json:"title"`
	Description   string              `json:"description,omitempty"`
	Instructions  string              `json:"instructions,omitempty"`
	ScheduledDate *time.Time          `json:"scheduledDate,omitempty"`
	CoachID       primitive.ObjectID  `json:"coachId"`
	AthleteID     *primitive.ObjectID `json:"athleteId,omitempty"`
	Difficulty    Difficulty          `json:"difficulty"`
	Objectives    []string            `json:"objectives"`
	Goals         []string            `json:"goals"`
	Equipment     []string            `json:"equipment"`
	Blocks        []Block             `json:"blocks"`

	ProgramType          string   `json:"programType,omitempty"`
	Phase                string   `json:"phase,omitempty"`
	AgeGroup             string   `json:"ageGroup,omitempty"`
	FitnessLevel         string   `json:"fitnessLevel,omitempty"`
	InjuryConsiderations []string `json:"injuryConsiderations"`
	Location             string   `json:"location,omitempty"`
	SpaceRequirements    string   `json:"spaceRequirements,omitempty"`
	TimeOfDay            string   `json:"timeOfDay,omitempty"`
	Frequency            string   `json:"frequency,omitempty"`

	PreWorkoutNutrition  string `json:"preWorkoutNutrition,omitempty"`
	PostWorkoutNutrition string `json:"postWorkoutNutrition,omitempty"`
	HydrationReminders   bool   `json:"hydrationReminders"`

	HRZones        HRZones  `json:"hrZones"`
	TargetCalories int      `json:"targetCalories,omitempty"`
	TrackMetrics   []string `json:"trackMetrics"`

	SafetyNotes   []string `json:"safetyNotes"` // contraindications
	Modifications []string `json:"modifications"`
	Progressions  []string `json:"progressions"`
	Regressions   []string `json:"regressions"`

	InstructionalVideos []string `json:"instructionalVideos"`
	ReferenceImages     []string `json:"referenceImages"`
	MusicPlaylist       string   `json:"musicPlaylist,omitempty"`

	CoachingCues      []string `json:"coachingCues"`
	MotivationalNotes string   `json:"motivationalNotes,omitempty"`
	TechnicalFocus    []string `json:"technicalFocus"`
	CommonErrors      []string `json:"commonErrors"`

	Periodization   string `json:"periodization,omitempty"`
	AutoProgression bool   `json:"autoProgression"`
	DeloadWeek      bool   `json:"deloadWeek"`
	TestingProtocol string `json:"testingProtocol,omitempty"`

	Tags       []string  `json:"tags"`
	IsTemplate bool      `json:"isTemplate"`
	IsPublic   bool      `json:"isPublic"`
	Version    int       `json:"version"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewProgram returns an empty draft owned by coachID with the defaults of the
// advanced builder.
func NewProgram(coachID primitive.ObjectID) Program {
	return Program{
		CoachID:            coachID,
		Difficulty:         DifficultyIntermediate,
		ProgramType:        "strength",
		Phase:              "build",
		Location:           "gym",
		Objectives:         []string{},
		Equipment:          []string{},
		Blocks:             []Block{},
		Tags:               []string{},
		HRZones:            DefaultHRZones,
		HydrationReminders: true,
	}
}

// EstimatedDuration is the sum of every block duration plus the estimated
// duration of every exercise, in minutes. An empty draft is 0.
func (p Program) EstimatedDuration() int {
	total := 0
	for _, b := range p.Blocks {
		total += b.Duration
		for _, ex := range b.Exercises {
			total += ex.EstimatedDuration
		}
	}
	return total
}

// BlockIndex returns the position of the block with the given id, or -1.
func (p Program) BlockIndex(blockID string) int {
	for i, b := range p.Blocks {
		if b.ID == blockID {
			return i
		}
	}
	return -1
}

// Validate checks the whole draft before it is saved.
func (p Program) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return invalid("title", "is required")
	}
	if p.CoachID == primitive.NilObjectID {
		return invalid("coachId", "is required")
	}
	if p.Difficulty != "" && !p.Difficulty.Valid() {
		return invalid("difficulty", "unknown tier %q", p.Difficulty)
	}
	for _, b := range p.Blocks {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// HasOrderInvariant reports whether block orders equal their 1-based positions.
func (p Program) HasOrderInvariant() bool {
	for i, b := range p.Blocks {
		if b.Order != i+1 {
			return false
		}
	}
	return true
}

// ProgramPatch carries the top-level fields to merge into a program. Nil
// fields are left unchanged.
type ProgramPatch struct {
	Title         *string             `json:"title,omitempty"`
	Description   *string             `json:"description,omitempty"`
	Instructions  *string             `json:"instructions,omitempty"`
	ScheduledDate *time.Time          `json:"scheduledDate,omitempty"`
	AthleteID     *primitive.ObjectID `json:"athleteId,omitempty"`
	Difficulty    *Difficulty         `json:"difficulty,omitempty"`
	Goals         []string            `json:"goals,omitempty"`

	ProgramType          *string  `json:"programType,omitempty"`
	Phase                *string  `json:"phase,omitempty"`
	AgeGroup             *string  `json:"ageGroup,omitempty"`
	FitnessLevel         *string  `json:"fitnessLevel,omitempty"`
	InjuryConsiderations []string `json:"injuryConsiderations,omitempty"`
	Location             *string  `json:"location,omitempty"`
	SpaceRequirements    *string  `json:"spaceRequirements,omitempty"`
	TimeOfDay            *string  `json:"timeOfDay,omitempty"`
	Frequency            *string  `json:"frequency,omitempty"`

	PreWorkoutNutrition  *string `json:"preWorkoutNutrition,omitempty"`
	PostWorkoutNutrition *string `json:"postWorkoutNutrition,omitempty"`
	HydrationReminders   *bool   `json:"hydrationReminders,omitempty"`

	HRZones        *HRZones `json:"hrZones,omitempty"`
	TargetCalories *int     `json:"targetCalories,omitempty"`
	TrackMetrics   []string `json:"trackMetrics,omitempty"`

	SafetyNotes   []string `json:"safetyNotes,omitempty"`
	Modifications []string `json:"modifications,omitempty"`
	Progressions  []string `json:"progressions,omitempty"`
	Regressions   []string `json:"regressions,omitempty"`

	InstructionalVideos []string `json:"instructionalVideos,omitempty"`
	ReferenceImages     []string `json:"referenceImages,omitempty"`
	MusicPlaylist       *string  `json:"musicPlaylist,omitempty"`

	CoachingCues      []string `json:"coachingCues,omitempty"`
	MotivationalNotes *string  `json:"motivationalNotes,omitempty"`
	TechnicalFocus    []string `json:"technicalFocus,omitempty"`
	CommonErrors      []string `json:"commonErrors,omitempty"`

	Periodization   *string `json:"periodization,omitempty"`
	AutoProgression *bool   `json:"autoProgression,omitempty"`
	DeloadWeek      *bool   `json:"deloadWeek,omitempty"`
	TestingProtocol *string `json:"testingProtocol,omitempty"`

	IsTemplate *bool `json:"isTemplate,omitempty"`
	IsPublic   *bool `json:"isPublic,omitempty"`
}

// WithPatch returns a copy of p with the non-nil patch fields applied.
func (p Program) WithPatch(patch ProgramPatch) (Program, error) {
	if patch.Difficulty != nil && !patch.Difficulty.Valid() {
		return p, invalid("difficulty", "unknown tier %q", *patch.Difficulty)
	}
	if patch.TargetCalories != nil && *patch.TargetCalories < 0 {
		return p, invalid("targetCalories", "must not be negative")
	}

	out := p.clone()
	setString(&out.Title, patch.Title)
	setString(&out.Description, patch.Description)
	setString(&out.Instructions, patch.Instructions)
	if patch.ScheduledDate != nil {
		d := *patch.ScheduledDate
		out.ScheduledDate = &d
	}
	if patch.AthleteID != nil {
		id := *patch.AthleteID
		out.AthleteID = &id
	}
	if patch.Difficulty != nil {
		out.Difficulty = *patch.Difficulty
	}
	setStrings(&out.Goals, patch.Goals)
	setString(&out.ProgramType, patch.ProgramType)
	setString(&out.Phase, patch.Phase)
	setString(&out.AgeGroup, patch.AgeGroup)
	setString(&out.FitnessLevel, patch.FitnessLevel)
	setStrings(&out.InjuryConsiderations, patch.InjuryConsiderations)
	setString(&out.Location, patch.Location)
	setString(&out.SpaceRequirements, patch.SpaceRequirements)
	setString(&out.TimeOfDay, patch.TimeOfDay)
	setString(&out.Frequency, patch.Frequency)
	setString(&out.PreWorkoutNutrition, patch.PreWorkoutNutrition)
	setString(&out.PostWorkoutNutrition, patch.PostWorkoutNutrition)
	setBool(&out.HydrationReminders, patch.HydrationReminders)
	if patch.HRZones != nil {
		out.HRZones = *patch.HRZones
	}
	if patch.TargetCalories != nil {
		out.TargetCalories = *patch.TargetCalories
	}
	setStrings(&out.TrackMetrics, patch.TrackMetrics)
	setStrings(&out.SafetyNotes, patch.SafetyNotes)
	setStrings(&out.Modifications, patch.Modifications)
	setStrings(&out.Progressions, patch.Progressions)
	setStrings(&out.Regressions, patch.Regressions)
	setStrings(&out.InstructionalVideos, patch.InstructionalVideos)
	setStrings(&out.ReferenceImages, patch.ReferenceImages)
	setString(&out.MusicPlaylist, patch.MusicPlaylist)
	setStrings(&out.CoachingCues, patch.CoachingCues)
	setString(&out.MotivationalNotes, patch.MotivationalNotes)
	setStrings(&out.TechnicalFocus, patch.TechnicalFocus)
	setStrings(&out.CommonErrors, patch.CommonErrors)
	setString(&out.Periodization, patch.Periodization)
	setBool(&out.AutoProgression, patch.AutoProgression)
	setBool(&out.DeloadWeek, patch.DeloadWeek)
	setString(&out.TestingProtocol, patch.TestingProtocol)
	setBool(&out.IsTemplate, patch.IsTemplate)
	setBool(&out.IsPublic, patch.IsPublic)
	return out, nil
}

// ListField names the set-like string lists editable one item at a time.
type ListField string

const (
	ListObjectives ListField = "objectives"
	ListEquipment  ListField = "equipment"
	ListTags       ListField = "tags"
)

// WithListItem adds item to the named list unless it is blank or already
// present. The boolean reports whether the list changed.
func (p Program) WithListItem(field ListField, item string) (Program, bool, error) {
	out := p.clone()
	list, err := out.list(field)
	if err != nil {
		return p, false, err
	}
	item = strings.TrimSpace(item)
	if item == "" || contains(*list, item) {
		return p, false, nil
	}
	*list = append(*list, item)
	return out, true, nil
}

// WithoutListItem removes item from the named list. The boolean reports
// whether the item was present.
func (p Program) WithoutListItem(field ListField, item string) (Program, bool, error) {
	out := p.clone()
	list, err := out.list(field)
	if err != nil {
		return p, false, err
	}
	kept := make([]string, 0, len(*list))
	for _, v := range *list {
		if v != item {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(*list) {
		return p, false, nil
	}
	*list = kept
	return out, true, nil
}

func (p *Program) list(field ListField) (*[]string, error) {
	switch field {
	case ListObjectives:
		return &p.Objectives, nil
	case ListEquipment:
		return &p.Equipment, nil
	case ListTags:
		return &p.Tags, nil
	}
	return nil, invalid("list", "unknown list %q", field)
}

// WithBlock appends b and sets its order to the new block count.
func (p Program) WithBlock(b Block) Program {
	out := p.clone()
	b = b.clone()
	b.Order = len(out.Blocks) + 1
	out.Blocks = append(out.Blocks, b)
	return out
}

// WithoutBlock removes the block and renumbers the remaining ones. The
// boolean is false when no block has the id.
func (p Program) WithoutBlock(blockID string) (Program, bool) {
	idx := p.BlockIndex(blockID)
	if idx < 0 {
		return p, false
	}
	out := p.clone()
	out.Blocks = append(out.Blocks[:idx], out.Blocks[idx+1:]...)
	renumber(out.Blocks)
	return out, true
}

// WithBlocksReordered moves the block at src to dst and reassigns every
// order to its 1-based position. The boolean is false for out of range indexes.
func (p Program) WithBlocksReordered(src, dst int) (Program, bool) {
	n := len(p.Blocks)
	if src < 0 || src >= n || dst < 0 || dst >= n {
		return p, false
	}
	out := p.clone()
	moved := out.Blocks[src]
	out.Blocks = append(out.Blocks[:src], out.Blocks[src+1:]...)
	out.Blocks = append(out.Blocks[:dst], append([]Block{moved}, out.Blocks[dst:]...)...)
	renumber(out.Blocks)
	return out, true
}

// MapBlock replaces the block with the given id by fn(block). The boolean is
// false when no block has the id; fn errors are returned unchanged.
func (p Program) MapBlock(blockID string, fn func(Block) (Block, error)) (Program, bool, error) {
	idx := p.BlockIndex(blockID)
	if idx < 0 {
		return p, false, nil
	}
	updated, err := fn(p.Blocks[idx].clone())
	if err != nil {
		return p, true, err
	}
	out := p.clone()
	updated.ID = p.Blocks[idx].ID
	updated.Order = p.Blocks[idx].Order
	out.Blocks[idx] = updated
	return out, true, nil
}

// Clone returns a deep copy of p. Nested blocks, exercises and sets share no
// slices with the receiver.
func (p Program) Clone() Program { return p.clone() }

func (p Program) clone() Program {
	out := p
	out.Objectives = cloneStrings(p.Objectives)
	out.Goals = cloneStrings(p.Goals)
	out.Equipment = cloneStrings(p.Equipment)
	out.InjuryConsiderations = cloneStrings(p.InjuryConsiderations)
	out.TrackMetrics = cloneStrings(p.TrackMetrics)
	out.SafetyNotes = cloneStrings(p.SafetyNotes)
	out.Modifications = cloneStrings(p.Modifications)
	out.Progressions = cloneStrings(p.Progressions)
	out.Regressions = cloneStrings(p.Regressions)
	out.InstructionalVideos = cloneStrings(p.InstructionalVideos)
	out.ReferenceImages = cloneStrings(p.ReferenceImages)
	out.CoachingCues = cloneStrings(p.CoachingCues)
	out.TechnicalFocus = cloneStrings(p.TechnicalFocus)
	out.CommonErrors = cloneStrings(p.CommonErrors)
	out.Tags = cloneStrings(p.Tags)
	if p.ScheduledDate != nil {
		d := *p.ScheduledDate
		out.ScheduledDate = &d
	}
	if p.AthleteID != nil {
		id := *p.AthleteID
		out.AthleteID = &id
	}
	if p.Blocks != nil {
		out.Blocks = make([]Block, len(p.Blocks))
		for i, b := range p.Blocks {
			out.Blocks[i] = b.clone()
		}
	}
	return out
}

func renumber(blocks []Block) {
	for i := range blocks {
		blocks[i].Order = i + 1
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setStrings(dst *[]string, v []string) {
	if v != nil {
		*dst = cloneStrings(v)
	}
}
