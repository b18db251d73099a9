package service

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/kafkaan/fit-coach-link/internal/domain"
	"github.com/kafkaan/fit-coach-link/internal/repository"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// Aggregate names reported in Degraded when one of them fails.
const (
	AggTotalAthletes  = "totalAthletes"
	AggActiveThisWeek = "activeThisWeek"
	AggWeeklyActivity = "weeklyActivity"
	AggFitnessTrends  = "fitnessTrends"
	AggProgramCounts  = "programCounts"
	AggAverages       = "averages"
)

const trendMonths = 6

// StatsService composes the dashboards. A failing aggregate is logged and
// shown as zero; the rest of the dashboard is still returned.
type StatsService interface {
	CoachDashboard(ctx context.Context, coachID primitive.ObjectID) (*domain.CoachStats, error)
	AthleteDashboard(ctx context.Context, athleteID primitive.ObjectID) (*domain.AthleteStats, error)
}

type statsService struct {
	statsRepo        repository.StatsRepository
	relationshipRepo repository.RelationshipRepository
	buckets          domain.ScaleBuckets
	now              func() time.Time
}

func NewStatsService(statsRepo repository.StatsRepository, relationshipRepo repository.RelationshipRepository, buckets domain.ScaleBuckets) StatsService {
	return &statsService{
		statsRepo:        statsRepo,
		relationshipRepo: relationshipRepo,
		buckets:          buckets,
		now:              time.Now,
	}
}

// fanOut runs each aggregate concurrently. Failures are collected by name
// instead of cancelling the others.
type fanOut struct {
	g        errgroup.Group
	mu       sync.Mutex
	degraded []string
	fields   log.Fields
}

func (f *fanOut) run(name string, fn func() error) {
	f.g.Go(func() error {
		if err := fn(); err != nil {
			log.WithFields(f.fields).WithField("aggregate", name).WithError(err).Warn("dashboard aggregate failed")
			f.mu.Lock()
			f.degraded = append(f.degraded, name)
			f.mu.Unlock()
		}
		return nil
	})
}

func (f *fanOut) wait() []string {
	_ = f.g.Wait()
	return f.degraded
}

func (s *statsService) CoachDashboard(ctx context.Context, coachID primitive.ObjectID) (*domain.CoachStats, error) {
	now := s.now().UTC()
	weekStart := StartOfWeek(now)
	activitySince := startOfDay(now).AddDate(0, 0, -6)
	trendsSince := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(trendMonths - 1), 0)

	var (
		stats    domain.CoachStats
		activity []domain.WeeklyActivity
	)
	f := &fanOut{fields: log.Fields{"coach_id": coachID.Hex()}}

	f.run(AggTotalAthletes, func() (err error) {
		stats.TotalAthletes, err = s.relationshipRepo.CountAthletes(ctx, coachID)
		return err
	})
	f.run(AggActiveThisWeek, func() (err error) {
		stats.ActiveThisWeek, err = s.statsRepo.CoachActiveThisWeek(ctx, coachID, weekStart)
		return err
	})
	f.run(AggWeeklyActivity, func() (err error) {
		activity, err = s.statsRepo.CoachWeeklyActivity(ctx, coachID, activitySince)
		return err
	})
	f.run(AggFitnessTrends, func() (err error) {
		stats.FitnessTrends, err = s.statsRepo.CoachFitnessTrends(ctx, coachID, trendsSince)
		return err
	})
	f.run(AggProgramCounts, func() (err error) {
		stats.TotalPrograms, stats.CompletedPrograms, err = s.statsRepo.CoachProgramCounts(ctx, coachID)
		return err
	})
	stats.Degraded = f.wait()

	// zero every field of a failed aggregate so partial results never leak
	for _, name := range stats.Degraded {
		switch name {
		case AggTotalAthletes:
			stats.TotalAthletes = 0
		case AggActiveThisWeek:
			stats.ActiveThisWeek = 0
		case AggWeeklyActivity:
			activity = nil
		case AggFitnessTrends:
			stats.FitnessTrends = nil
		case AggProgramCounts:
			stats.TotalPrograms, stats.CompletedPrograms = 0, 0
		}
	}

	stats.WeeklyActivity = fillDays(activity, activitySince, 7)
	if stats.FitnessTrends == nil {
		stats.FitnessTrends = []domain.FitnessTrend{}
	}
	stats.CompletionRate = domain.CompletionRate(stats.CompletedPrograms, stats.TotalPrograms)
	return &stats, nil
}

func (s *statsService) AthleteDashboard(ctx context.Context, athleteID primitive.ObjectID) (*domain.AthleteStats, error) {
	var stats domain.AthleteStats
	f := &fanOut{fields: log.Fields{"athlete_id": athleteID.Hex()}}

	f.run(AggProgramCounts, func() (err error) {
		stats.TotalPrograms, stats.CompletedPrograms, err = s.statsRepo.AthleteProgramCounts(ctx, athleteID)
		return err
	})
	f.run(AggAverages, func() (err error) {
		stats.Averages, err = s.statsRepo.AthleteAssessmentAverages(ctx, athleteID)
		return err
	})
	stats.Degraded = f.wait()

	for _, name := range stats.Degraded {
		switch name {
		case AggProgramCounts:
			stats.TotalPrograms, stats.CompletedPrograms = 0, 0
		case AggAverages:
			stats.Averages = domain.ScaleAverages{}
		}
	}

	stats.CompletionRate = domain.CompletionRate(stats.CompletedPrograms, stats.TotalPrograms)
	stats.Readings = []domain.ScaleReading{}
	if stats.Averages.Count > 0 {
		stats.Readings = s.buckets.Readings(domain.FitnessAssessment{
			FatigueLevel:    roundScale(stats.Averages.Fatigue),
			PainLevel:       roundScale(stats.Averages.Pain),
			MotivationLevel: roundScale(stats.Averages.Motivation),
			EnergyLevel:     roundScale(stats.Averages.Energy),
		})
	}
	return &stats, nil
}

func roundScale(v float64) int {
	return int(math.Round(v))
}

// fillDays returns one entry per day starting at since, with zero counts for
// days the aggregation did not return.
func fillDays(activity []domain.WeeklyActivity, since time.Time, days int) []domain.WeeklyActivity {
	byDay := make(map[string]domain.WeeklyActivity, len(activity))
	for _, a := range activity {
		byDay[a.Day.UTC().Format(time.DateOnly)] = a
	}

	out := make([]domain.WeeklyActivity, 0, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i)
		entry, ok := byDay[day.Format(time.DateOnly)]
		if !ok {
			entry = domain.WeeklyActivity{}
		}
		entry.Day = day
		out = append(out, entry)
	}
	return out
}
