package domain

import (
	"math"
	"time"
)

// WeeklyActivity is the per-day count of programs assigned and completed
// for a coach's athletes.
type WeeklyActivity struct {
	Day       time.Time `bson:"_id" json:"day"`
	Assigned  int       `bson:"assigned" json:"assigned"`
	Completed int       `bson:"completed" json:"completed"`
}

// FitnessTrend is the monthly average of each assessment scale.
type FitnessTrend struct {
	Month      string  `bson:"_id" json:"month"` // YYYY-MM
	Fatigue    float64 `bson:"fatigue" json:"fatigue"`
	Pain       float64 `bson:"pain" json:"pain"`
	Motivation float64 `bson:"motivation" json:"motivation"`
	Energy     float64 `bson:"energy" json:"energy"`
}

// ScaleAverages holds one average per assessment scale.
type ScaleAverages struct {
	Fatigue    float64 `bson:"fatigue" json:"fatigue"`
	Pain       float64 `bson:"pain" json:"pain"`
	Motivation float64 `bson:"motivation" json:"motivation"`
	Energy     float64 `bson:"energy" json:"energy"`
	Count      int     `bson:"count" json:"count"`
}

// Rounded returns the averages rounded to one decimal.
func (a ScaleAverages) Rounded() ScaleAverages {
	a.Fatigue = round1(a.Fatigue)
	a.Pain = round1(a.Pain)
	a.Motivation = round1(a.Motivation)
	a.Energy = round1(a.Energy)
	return a
}

// CoachStats backs the coach dashboard.
type CoachStats struct {
	TotalAthletes     int              `json:"totalAthletes"`
	ActiveThisWeek    int              `json:"activeThisWeek"`
	WeeklyActivity    []WeeklyActivity `json:"weeklyActivity"`
	FitnessTrends     []FitnessTrend   `json:"fitnessTrends"`
	TotalPrograms     int              `json:"totalPrograms"`
	CompletedPrograms int              `json:"completedPrograms"`
	CompletionRate    int              `json:"completionRate"`
	Degraded          []string         `json:"degraded,omitempty"`
}

// AthleteStats backs the athlete dashboard.
type AthleteStats struct {
	TotalPrograms     int            `json:"totalPrograms"`
	CompletedPrograms int            `json:"completedPrograms"`
	CompletionRate    int            `json:"completionRate"`
	Averages          ScaleAverages  `json:"averages"`
	Readings          []ScaleReading `json:"readings"`
	Degraded          []string       `json:"degraded,omitempty"`
}

// CompletionRate returns completed/total as a percentage rounded to the
// nearest integer, or 0 when total is 0.
func CompletionRate(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
