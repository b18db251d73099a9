package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/kafkaan/fit-coach-link/internal/builder"
	"github.com/kafkaan/fit-coach-link/internal/domain"
	"github.com/kafkaan/fit-coach-link/internal/draft"
	"github.com/kafkaan/fit-coach-link/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recordingNotifier struct {
	mu     sync.Mutex
	errors []error
}

func (n *recordingNotifier) NotifyError(_ context.Context, _ string, err error) {
	n.mu.Lock()
	n.errors = append(n.errors, err)
	n.mu.Unlock()
}

type programFixture struct {
	db       *memDB
	drafts   *draftStoreMock
	notifier *recordingNotifier
	metrics  *metrics.Manager
	svc      ProgramService
	coach    domain.Profile
	athlete  domain.Profile
}

func newProgramFixture() *programFixture {
	db := newMemDB()
	f := &programFixture{
		db:       db,
		drafts:   newDraftStoreMock(),
		notifier: &recordingNotifier{},
		metrics:  metrics.NewTestManager(),
	}
	seq := 0
	ids := builder.WithIDGenerator(func() string {
		seq++
		return "id-" + strconv.Itoa(seq)
	})
	f.svc = NewProgramService(programRepoMock{db}, relationshipRepoMock{db}, libraryRepoMock{db}, f.drafts, f.notifier, f.metrics, ids)
	f.coach = db.addProfile("Cora", "cora@example.com", domain.RoleCoach)
	f.athlete = db.addProfile("Abe", "abe@example.com", domain.RoleAthlete)
	return f
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestDraftEditAndSaveNewProgram(t *testing.T) {
	f := newProgramFixture()
	ctx := context.Background()

	view, err := f.svc.StartDraft(ctx, f.coach.ID, nil)
	require.NoError(t, err)
	assert.False(t, view.CanUndo)

	view, err = f.svc.Apply(ctx, f.coach.ID, view.ID, builder.Op{Kind: builder.OpAddBlock})
	require.NoError(t, err)
	require.Len(t, view.Program.Blocks, 1)
	assert.True(t, view.CanUndo)
	blockID := view.Program.Blocks[0].ID

	view, err = f.svc.Apply(ctx, f.coach.ID, view.ID, builder.Op{Kind: builder.OpAddExercise, BlockID: blockID})
	require.NoError(t, err)
	ex := view.Program.Blocks[0].Exercises[0]

	// RPE 11 is rejected and the stored draft keeps its previous value
	_, err = f.svc.Apply(ctx, f.coach.ID, view.ID, builder.Op{
		Kind: builder.OpUpdateSet, BlockID: blockID, ExerciseID: ex.ID, SetID: ex.Sets[0].ID,
		Set: &domain.SetPatch{RPE: intPtr(11)},
	})
	assert.True(t, domain.IsValidationError(err))
	reloaded, err := f.svc.GetDraft(ctx, f.coach.ID, view.ID)
	require.NoError(t, err)
	assert.Equal(t, ex.Sets[0].RPE, reloaded.Program.Blocks[0].Exercises[0].Sets[0].RPE)

	// untitled drafts are not saved
	_, err = f.svc.SaveDraft(ctx, f.coach.ID, view.ID)
	assert.True(t, domain.IsValidationError(err))
	assert.Len(t, f.notifier.errors, 1)
	_, err = f.svc.GetDraft(ctx, f.coach.ID, view.ID)
	require.NoError(t, err, "a rejected save keeps the draft")

	_, err = f.svc.Apply(ctx, f.coach.ID, view.ID, builder.Op{
		Kind: builder.OpUpdateDetails, Details: &domain.ProgramPatch{Title: strPtr("Leg day")},
	})
	require.NoError(t, err)

	saved, err := f.svc.SaveDraft(ctx, f.coach.ID, view.ID)
	require.NoError(t, err)
	assert.False(t, saved.ID.IsZero())
	assert.Equal(t, 1, saved.Version)
	assert.Len(t, f.db.programs, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CounterProgramsSaved))

	_, err = f.svc.GetDraft(ctx, f.coach.ID, view.ID)
	assert.ErrorIs(t, err, draft.ErrDraftNotFound)
}

func TestDraftOfExistingProgramBumpsVersion(t *testing.T) {
	f := newProgramFixture()
	ctx := context.Background()
	p := domain.NewProgram(f.coach.ID)
	p.Title = "Leg day"
	p.Version = 1
	_, err := programRepoMock{f.db}.Create(ctx, &p)
	require.NoError(t, err)

	view, err := f.svc.StartDraft(ctx, f.coach.ID, &p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, view.Program.ID)

	_, err = f.svc.Apply(ctx, f.coach.ID, view.ID, builder.Op{
		Kind: builder.OpUpdateDetails, Details: &domain.ProgramPatch{Description: strPtr("heavy")},
	})
	require.NoError(t, err)
	saved, err := f.svc.SaveDraft(ctx, f.coach.ID, view.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, saved.ID)
	assert.Equal(t, 2, saved.Version)
	assert.Equal(t, "heavy", f.db.programs[p.ID].Description)

	other := f.db.addProfile("Otto", "otto@example.com", domain.RoleCoach)
	_, err = f.svc.StartDraft(ctx, other.ID, &p.ID)
	assert.ErrorIs(t, err, ErrProgramAccessDenied)
}

func TestSaveDraftRequiresLinkedAthlete(t *testing.T) {
	f := newProgramFixture()
	ctx := context.Background()
	view, err := f.svc.StartDraft(ctx, f.coach.ID, nil)
	require.NoError(t, err)
	_, err = f.svc.Apply(ctx, f.coach.ID, view.ID, builder.Op{
		Kind:    builder.OpUpdateDetails,
		Details: &domain.ProgramPatch{Title: strPtr("Leg day"), AthleteID: &f.athlete.ID},
	})
	require.NoError(t, err)

	_, err = f.svc.SaveDraft(ctx, f.coach.ID, view.ID)
	assert.ErrorIs(t, err, ErrAthleteNotLinked)
	assert.Empty(t, f.db.programs)

	require.NoError(t, relationshipRepoMock{f.db}.Link(ctx, f.coach.ID, f.athlete.ID))
	saved, err := f.svc.SaveDraft(ctx, f.coach.ID, view.ID)
	require.NoError(t, err)
	assert.Equal(t, f.athlete.ID, *saved.AthleteID)
}

func TestApplyLibraryExercise(t *testing.T) {
	f := newProgramFixture()
	ctx := context.Background()
	lib := domain.LibraryExercise{CoachID: f.coach.ID, Name: "Back squat", Category: "strength"}
	_, err := libraryRepoMock{f.db}.Create(ctx, &lib)
	require.NoError(t, err)

	view, err := f.svc.StartDraft(ctx, f.coach.ID, nil)
	require.NoError(t, err)
	view, err = f.svc.Apply(ctx, f.coach.ID, view.ID, builder.Op{Kind: builder.OpAddBlock})
	require.NoError(t, err)
	blockID := view.Program.Blocks[0].ID

	view, err = f.svc.Apply(ctx, f.coach.ID, view.ID, builder.Op{Kind: builder.OpAddLibrary, BlockID: blockID, LibraryID: lib.ID.Hex()})
	require.NoError(t, err)
	require.Len(t, view.Program.Blocks[0].Exercises, 1)
	assert.Equal(t, "Back squat", view.Program.Blocks[0].Exercises[0].Name)

	_, err = f.svc.Apply(ctx, f.coach.ID, view.ID, builder.Op{Kind: builder.OpAddLibrary, BlockID: blockID})
	assert.ErrorIs(t, err, ErrLibraryExerciseRequired)

	_, err = f.svc.Apply(ctx, f.coach.ID, view.ID, builder.Op{Kind: builder.OpAddLibrary, BlockID: blockID, LibraryID: primitive.NewObjectID().Hex()})
	assert.ErrorIs(t, err, ErrExerciseNotFound)

	foreign := domain.LibraryExercise{CoachID: primitive.NewObjectID(), Name: "Deadlift"}
	_, err = libraryRepoMock{f.db}.Create(ctx, &foreign)
	require.NoError(t, err)
	_, err = f.svc.Apply(ctx, f.coach.ID, view.ID, builder.Op{Kind: builder.OpAddLibrary, BlockID: blockID, LibraryID: foreign.ID.Hex()})
	assert.ErrorIs(t, err, ErrExerciseAccessDenied)
}

func TestDraftsAreScopedToTheirCoach(t *testing.T) {
	f := newProgramFixture()
	ctx := context.Background()
	view, err := f.svc.StartDraft(ctx, f.coach.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.GetDraft(ctx, primitive.NewObjectID(), view.ID)
	assert.True(t, errors.Is(err, draft.ErrDraftNotFound))

	require.NoError(t, f.svc.DiscardDraft(ctx, f.coach.ID, view.ID))
	_, err = f.svc.Apply(ctx, f.coach.ID, view.ID, builder.Op{Kind: builder.OpAddBlock})
	assert.ErrorIs(t, err, draft.ErrDraftNotFound)
}

func TestSaveExpiredDraftIsNotified(t *testing.T) {
	f := newProgramFixture()
	ctx := context.Background()

	_, err := f.svc.SaveDraft(ctx, f.coach.ID, "01HZZZZZZZZZZZZZZZZZZZZZZZ")
	require.ErrorIs(t, err, draft.ErrDraftNotFound)
	require.Len(t, f.notifier.errors, 1)
	assert.ErrorIs(t, f.notifier.errors[0], draft.ErrDraftNotFound)
	assert.Zero(t, testutil.ToFloat64(f.metrics.CounterProgramsSaved))
}

func TestUndoRedoThroughDraftStore(t *testing.T) {
	f := newProgramFixture()
	ctx := context.Background()
	view, err := f.svc.StartDraft(ctx, f.coach.ID, nil)
	require.NoError(t, err)

	view, err = f.svc.Apply(ctx, f.coach.ID, view.ID, builder.Op{Kind: builder.OpAddBlock})
	require.NoError(t, err)
	view, err = f.svc.Apply(ctx, f.coach.ID, view.ID, builder.Op{Kind: builder.OpUndo})
	require.NoError(t, err)
	assert.Empty(t, view.Program.Blocks)
	assert.True(t, view.CanRedo)

	view, err = f.svc.Apply(ctx, f.coach.ID, view.ID, builder.Op{Kind: builder.OpRedo})
	require.NoError(t, err)
	assert.Len(t, view.Program.Blocks, 1)
}
