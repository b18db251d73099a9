package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func sampleProgram() Program {
	p := NewProgram(primitive.NewObjectID())
	p.Title = "Leg day"
	for i, id := range []string{"a", "b", "c"} {
		b := NewBlock(id, "Block", BlockStrength)
		b.Duration = 10 * (i + 1)
		b = b.WithExercise(NewExercise(id+"-ex", NewSet(id+"-set")))
		p = p.WithBlock(b)
	}
	return p
}

func blockIDs(p Program) []string {
	ids := make([]string, len(p.Blocks))
	for i, b := range p.Blocks {
		ids[i] = b.ID
	}
	return ids
}

func TestWithBlockAssignsNextOrder(t *testing.T) {
	p := sampleProgram()
	require.Len(t, p.Blocks, 3)
	assert.True(t, p.HasOrderInvariant())
	assert.Equal(t, 3, p.Blocks[2].Order)
}

func TestEstimatedDuration(t *testing.T) {
	assert.Equal(t, 0, NewProgram(primitive.NewObjectID()).EstimatedDuration())

	p := sampleProgram()
	// blocks 10+20+30 plus three exercises of 5 minutes
	assert.Equal(t, 75, p.EstimatedDuration())
}

func TestWithBlocksReordered(t *testing.T) {
	tests := []struct {
		name     string
		src, dst int
		want     []string
		ok       bool
	}{
		{name: "first to last", src: 0, dst: 2, want: []string{"b", "c", "a"}, ok: true},
		{name: "last to first", src: 2, dst: 0, want: []string{"c", "a", "b"}, ok: true},
		{name: "same position", src: 1, dst: 1, want: []string{"a", "b", "c"}, ok: true},
		{name: "source out of range", src: 3, dst: 0, want: []string{"a", "b", "c"}, ok: false},
		{name: "negative destination", src: 0, dst: -1, want: []string{"a", "b", "c"}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sampleProgram()
			got, ok := p.WithBlocksReordered(tt.src, tt.dst)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, blockIDs(got))
			assert.True(t, got.HasOrderInvariant())
			assert.Equal(t, []string{"a", "b", "c"}, blockIDs(p), "receiver must not change")
		})
	}
}

func TestOrderInvariantAcrossEditSequences(t *testing.T) {
	p := sampleProgram()
	p = p.WithBlock(NewBlock("d", "Block 4", BlockCooldown))
	p, ok := p.WithoutBlock("b")
	require.True(t, ok)
	assert.True(t, p.HasOrderInvariant(), "delete renumbers")

	p, ok = p.WithBlocksReordered(2, 0)
	require.True(t, ok)
	assert.Equal(t, []string{"d", "a", "c"}, blockIDs(p))
	assert.True(t, p.HasOrderInvariant())

	_, ok = p.WithoutBlock("missing")
	assert.False(t, ok)
}

func TestMapBlockKeepsIdentityAndOrder(t *testing.T) {
	p := sampleProgram()
	got, found, err := p.MapBlock("b", func(b Block) (Block, error) {
		return b.WithPatch(BlockPatch{Title: strPtr("Main"), Intensity: intPtr(9)})
	})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "b", got.Blocks[1].ID)
	assert.Equal(t, 2, got.Blocks[1].Order)
	assert.Equal(t, "Main", got.Blocks[1].Title)
	assert.Equal(t, 9, got.Blocks[1].Intensity)
	assert.Equal(t, DefaultBlockIntensity, p.Blocks[1].Intensity)
}

func TestBlockPatchRejectsOutOfRangeIntensity(t *testing.T) {
	b := NewBlock("a", "Block 1", BlockWarmup)
	for _, v := range []int{0, 11, -3} {
		got, err := b.WithPatch(BlockPatch{Intensity: intPtr(v)})
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
		assert.Equal(t, DefaultBlockIntensity, got.Intensity)
	}
}

func TestBlockPatchCircuitDefaults(t *testing.T) {
	yes := true
	b, err := NewBlock("a", "Block 1", BlockEndurance).WithPatch(BlockPatch{IsCircuit: &yes})
	require.NoError(t, err)
	rounds, rest, ok := b.Circuit()
	assert.True(t, ok)
	assert.Equal(t, DefaultCircuitRounds, rounds)
	assert.Equal(t, DefaultCircuitRestSecond, rest)

	_, _, ok = NewBlock("b", "Block 2", BlockEndurance).Circuit()
	assert.False(t, ok)

	b, err = NewBlock("c", "Block 3", BlockEndurance).WithPatch(BlockPatch{IsCircuit: &yes, CircuitRestTime: intPtr(30)})
	require.NoError(t, err)
	rounds, rest, _ = b.Circuit()
	assert.Equal(t, DefaultCircuitRounds, rounds)
	assert.Equal(t, 30, rest)

	b, err = NewBlock("d", "Block 4", BlockEndurance).WithPatch(BlockPatch{IsCircuit: &yes, CircuitRounds: intPtr(5)})
	require.NoError(t, err)
	rounds, rest, _ = b.Circuit()
	assert.Equal(t, 5, rounds)
	assert.Equal(t, DefaultCircuitRestSecond, rest)
}

func TestPatchReportsFirstNegativeField(t *testing.T) {
	for i := 0; i < 20; i++ {
		_, err := NewBlock("a", "Block 1", BlockStrength).WithPatch(BlockPatch{
			Duration:        intPtr(-1),
			CircuitRestTime: intPtr(-1),
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "block.duration", verr.Field)

		_, err = NewExercise("e", NewSet("s")).WithPatch(ExercisePatch{
			WarmupSets:        intPtr(-1),
			EstimatedDuration: intPtr(-1),
		})
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "exercise.warmupSets", verr.Field)
	}
}

func TestSetPatchRejectsRPEOutOfRange(t *testing.T) {
	s := NewSet("s1")
	got, err := s.WithPatch(SetPatch{RPE: intPtr(11)})
	require.Error(t, err)
	assert.Equal(t, DefaultSetRPE, got.RPE)

	got, err = s.WithPatch(SetPatch{RPE: intPtr(10), Reps: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, 10, got.RPE)
	assert.Equal(t, 5, got.Reps)
}

func TestSetValidate(t *testing.T) {
	neg := -2.5
	tests := []struct {
		name    string
		patch   SetPatch
		wantErr bool
	}{
		{name: "defaults", patch: SetPatch{}},
		{name: "negative weight", patch: SetPatch{Weight: &neg}, wantErr: true},
		{name: "negative reps", patch: SetPatch{Reps: intPtr(-1)}, wantErr: true},
		{name: "negative rest", patch: SetPatch{RestTime: intPtr(-1)}, wantErr: true},
		{name: "three phase tempo", patch: SetPatch{Tempo: strPtr("3-1-1")}, wantErr: true},
		{name: "text tempo", patch: SetPatch{Tempo: strPtr("a-b-c-d")}, wantErr: true},
		{name: "empty tempo", patch: SetPatch{Tempo: strPtr("")}},
		{name: "explicit tempo", patch: SetPatch{Tempo: strPtr("3-1-1-1")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSet("s").WithPatch(tt.patch)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestExercisePatchDedupesMuscleGroups(t *testing.T) {
	ex := NewExercise("e", NewSet("s"))
	got, err := ex.WithPatch(ExercisePatch{MuscleGroups: []string{"quads", "glutes", "quads"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"quads", "glutes"}, got.MuscleGroups)
	assert.Empty(t, ex.MuscleGroups)
}

func TestWithListItem(t *testing.T) {
	p := NewProgram(primitive.NewObjectID())
	p, changed, err := p.WithListItem(ListEquipment, " barbell ")
	require.NoError(t, err)
	assert.True(t, changed)
	p, changed, err = p.WithListItem(ListEquipment, "barbell")
	require.NoError(t, err)
	assert.False(t, changed)
	p, changed, err = p.WithListItem(ListEquipment, "  ")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, []string{"barbell"}, p.Equipment)

	_, changed, err = p.WithoutListItem(ListEquipment, "kettlebell")
	require.NoError(t, err)
	assert.False(t, changed)
	p, changed, err = p.WithoutListItem(ListEquipment, "barbell")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Empty(t, p.Equipment)

	_, _, err = p.WithListItem("colors", "red")
	assert.Error(t, err)
}

func TestCloneSharesNoNestedSlices(t *testing.T) {
	p := sampleProgram()
	c := p.Clone()
	c.Blocks[0].Title = "changed"
	c.Blocks[0].Exercises[0].Sets[0].Reps = 99
	assert.Equal(t, "Block", p.Blocks[0].Title)
	assert.Equal(t, DefaultSetReps, p.Blocks[0].Exercises[0].Sets[0].Reps)
}

func TestProgramValidate(t *testing.T) {
	p := sampleProgram()
	require.NoError(t, p.Validate())

	p.Title = "  "
	assert.Error(t, p.Validate())

	p = sampleProgram()
	p.Blocks[0].Exercises[0].Sets[0].RPE = 11
	assert.Error(t, p.Validate())
}

func TestProgramPatchDoesNotAliasSlices(t *testing.T) {
	goals := []string{"strength"}
	p, err := NewProgram(primitive.NewObjectID()).WithPatch(ProgramPatch{Goals: goals})
	require.NoError(t, err)
	goals[0] = "mutated"
	assert.Equal(t, []string{"strength"}, p.Goals)
}
