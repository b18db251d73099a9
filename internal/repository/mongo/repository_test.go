package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/kafkaan/fit-coach-link/internal/domain"
	"github.com/kafkaan/fit-coach-link/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fixture struct {
	db       *mongo.Database
	profiles repository.ProfileRepository
	links    repository.RelationshipRepository
	programs repository.ProgramRepository
	sessions repository.SessionRepository
	assess   repository.AssessmentRepository
	stats    repository.StatsRepository
}

func newFixture(t *testing.T) *fixture {
	db := setupDB(t)
	return &fixture{
		db:       db,
		profiles: NewMongoProfileRepository(db),
		links:    NewMongoRelationshipRepository(db),
		programs: NewMongoProgramRepository(db),
		sessions: NewMongoSessionRepository(db),
		assess:   NewMongoAssessmentRepository(db),
		stats:    NewMongoStatsRepository(db),
	}
}

func (f *fixture) profile(t *testing.T, first, email string, role domain.Role) *domain.Profile {
	t.Helper()
	p := &domain.Profile{FirstName: first, LastName: "Test", Email: email, Role: role, PasswordHash: "hash"}
	_, err := f.profiles.Create(context.Background(), p)
	require.NoError(t, err)
	return p
}

func (f *fixture) program(t *testing.T, coach, athlete primitive.ObjectID, title string) *domain.Program {
	t.Helper()
	p := domain.NewProgram(coach)
	p.Title = title
	p.AthleteID = &athlete
	p = p.WithBlock(domain.NewBlock("b1", "Block 1", domain.BlockStrength))
	_, err := f.programs.Create(context.Background(), &p)
	require.NoError(t, err)
	return &p
}

func TestProfileRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	coach := f.profile(t, "Cora", " Coach@Example.com ", domain.RoleCoach)
	assert.Equal(t, "coach@example.com", coach.Email)

	got, err := f.profiles.GetByEmail(ctx, "COACH@example.com")
	require.NoError(t, err)
	assert.Equal(t, coach.ID, got.ID)

	_, err = f.profiles.Create(ctx, &domain.Profile{Email: "coach@example.com", Role: domain.RoleAthlete, PasswordHash: "x"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	dark := domain.ThemeDark
	require.NoError(t, f.profiles.UpdateTheme(ctx, coach.ID, &dark))
	got, err = f.profiles.GetByID(ctx, coach.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Theme)
	assert.Equal(t, domain.ThemeDark, *got.Theme)

	require.NoError(t, f.profiles.UpdateTheme(ctx, coach.ID, nil))
	got, err = f.profiles.GetByID(ctx, coach.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Theme)

	coach.FirstName = "Corinne"
	coach.AvatarURL = "https://cdn.example.com/cora.png"
	coach.Theme = &dark
	require.NoError(t, f.profiles.Update(ctx, coach))
	got, err = f.profiles.GetByID(ctx, coach.ID)
	require.NoError(t, err)
	assert.Equal(t, "Corinne", got.FirstName)
	assert.Equal(t, "https://cdn.example.com/cora.png", got.AvatarURL)
	assert.Equal(t, "coach@example.com", got.Email)
	assert.Equal(t, "hash", got.PasswordHash)
	require.NotNil(t, got.Theme)

	assert.ErrorIs(t, f.profiles.Update(ctx, &domain.Profile{ID: primitive.NewObjectID(), FirstName: "Ghost"}), repository.ErrNotFound)

	_, err = f.profiles.GetByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRelationshipRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	coach := f.profile(t, "Cora", "coach@example.com", domain.RoleCoach)
	athlete := f.profile(t, "Abe", "abe@example.com", domain.RoleAthlete)

	roster, err := f.links.ListAthletes(ctx, coach.ID)
	require.NoError(t, err)
	assert.Empty(t, roster)

	require.NoError(t, f.links.Link(ctx, coach.ID, athlete.ID))
	assert.ErrorIs(t, f.links.Link(ctx, coach.ID, athlete.ID), repository.ErrConflict)

	roster, err = f.links.ListAthletes(ctx, coach.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, athlete.ID, roster[0].AthleteID)
	assert.Equal(t, "abe@example.com", roster[0].Email)

	n, err := f.links.CountAthletes(ctx, coach.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	linked, err := f.links.IsLinked(ctx, coach.ID, athlete.ID)
	require.NoError(t, err)
	assert.True(t, linked)

	require.NoError(t, f.links.Unlink(ctx, coach.ID, athlete.ID))
	assert.ErrorIs(t, f.links.Unlink(ctx, coach.ID, athlete.ID), repository.ErrNotFound)
}

func TestProgramRepositoryRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	coach := f.profile(t, "Cora", "coach@example.com", domain.RoleCoach)
	athlete := f.profile(t, "Abe", "abe@example.com", domain.RoleAthlete)

	p := f.program(t, coach.ID, athlete.ID, "Strength A")
	got, err := f.programs.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Blocks, got.Blocks)
	assert.Equal(t, p.Title, got.Title)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))

	got.Title = "Strength B"
	require.NoError(t, f.programs.Update(ctx, got))

	other := *got
	other.CoachID = primitive.NewObjectID()
	assert.ErrorIs(t, f.programs.Update(ctx, &other), repository.ErrNotFound)

	listings, err := f.programs.ListByCoach(ctx, coach.ID)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Strength B", listings[0].Program.Title)
	assert.Equal(t, "Abe Test", listings[0].AthleteName)
	assert.False(t, listings[0].Completed)

	assert.ErrorIs(t, f.programs.Delete(ctx, p.ID, primitive.NewObjectID()), repository.ErrNotFound)
	require.NoError(t, f.programs.Delete(ctx, p.ID, coach.ID))
	_, err = f.programs.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMarkCompleteUpserts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	coach := f.profile(t, "Cora", "coach@example.com", domain.RoleCoach)
	athlete := f.profile(t, "Abe", "abe@example.com", domain.RoleAthlete)
	p := f.program(t, coach.ID, athlete.ID, "Strength A")

	first := time.Now().UTC()
	s1, created, err := f.sessions.MarkComplete(ctx, p.ID, athlete.ID, first, "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, s1.Completed)
	require.NotNil(t, s1.CompletedAt)
	assert.WithinDuration(t, first, *s1.CompletedAt, time.Millisecond)

	second := first.Add(time.Hour)
	s2, created, err := f.sessions.MarkComplete(ctx, p.ID, athlete.ID, second, "felt strong")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, s1.ID, s2.ID)
	assert.WithinDuration(t, second, *s2.CompletedAt, time.Millisecond)
	assert.Equal(t, "felt strong", s2.Notes)

	n, err := f.db.Collection(sessionCollectionName).CountDocuments(ctx, map[string]any{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	listings, err := f.programs.ListByAthlete(ctx, athlete.ID)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.True(t, listings[0].Completed)
	assert.Equal(t, "Cora Test", listings[0].CoachName)

	completed, err := f.sessions.ListCompletedByAthlete(ctx, athlete.ID, 10)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "Strength A", completed[0].ProgramTitle)
}

func TestAssessmentsNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	coach := f.profile(t, "Cora", "coach@example.com", domain.RoleCoach)
	athlete := f.profile(t, "Abe", "abe@example.com", domain.RoleAthlete)
	p := f.program(t, coach.ID, athlete.ID, "Strength A")
	s, _, err := f.sessions.MarkComplete(ctx, p.ID, athlete.ID, time.Now(), "")
	require.NoError(t, err)

	base := time.Now().UTC().Add(-time.Hour)
	for i, fatigue := range []int{3, 8} {
		a := &domain.FitnessAssessment{
			SessionID: s.ID, AthleteID: athlete.ID, Type: domain.AssessmentPostWorkout,
			FatigueLevel: fatigue, PainLevel: 2, MotivationLevel: 7, EnergyLevel: 6,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		_, err := f.assess.Create(ctx, a)
		require.NoError(t, err)
	}

	history, err := f.assess.ListByAthlete(ctx, athlete.ID, 20)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 8, history[0].FatigueLevel)
	assert.Equal(t, "Strength A", history[0].ProgramTitle)

	avg, err := f.stats.AthleteAssessmentAverages(ctx, athlete.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.5, avg.Fatigue)
	assert.Equal(t, 2, avg.Count)
}

func TestStatsAggregations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	coach := f.profile(t, "Cora", "coach@example.com", domain.RoleCoach)
	athlete := f.profile(t, "Abe", "abe@example.com", domain.RoleAthlete)
	require.NoError(t, f.links.Link(ctx, coach.ID, athlete.ID))

	var programs []*domain.Program
	for i := 0; i < 7; i++ {
		programs = append(programs, f.program(t, coach.ID, athlete.ID, "P"))
	}
	for _, p := range programs[:3] {
		_, _, err := f.sessions.MarkComplete(ctx, p.ID, athlete.ID, time.Now(), "")
		require.NoError(t, err)
	}

	total, completed, err := f.stats.CoachProgramCounts(ctx, coach.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Equal(t, 3, completed)
	assert.Equal(t, 43, domain.CompletionRate(completed, total))

	total, completed, err = f.stats.AthleteProgramCounts(ctx, athlete.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Equal(t, 3, completed)

	active, err := f.stats.CoachActiveThisWeek(ctx, coach.ID, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, active)

	activity, err := f.stats.CoachWeeklyActivity(ctx, coach.ID, time.Now().Add(-7*24*time.Hour))
	require.NoError(t, err)
	sumAssigned, sumCompleted := 0, 0
	for _, day := range activity {
		sumAssigned += day.Assigned
		sumCompleted += day.Completed
	}
	assert.Equal(t, 7, sumAssigned)
	assert.Equal(t, 3, sumCompleted)

	_, err = f.assess.Create(ctx, &domain.FitnessAssessment{
		SessionID: primitive.NewObjectID(), AthleteID: athlete.ID, Type: domain.AssessmentPreWorkout,
		FatigueLevel: 4, PainLevel: 1, MotivationLevel: 9, EnergyLevel: 8,
	})
	require.NoError(t, err)
	trends, err := f.stats.CoachFitnessTrends(ctx, coach.ID, time.Now().AddDate(0, -6, 0))
	require.NoError(t, err)
	require.Len(t, trends, 1)
	assert.Equal(t, 9.0, trends[0].Motivation)

	empty, err := f.stats.AthleteAssessmentAverages(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	assert.Equal(t, domain.ScaleAverages{}, empty)
}
