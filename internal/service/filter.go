package service

import (
	"strings"
	"time"

	"github.com/kafkaan/fit-coach-link/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateBucket narrows a program list by scheduled date.
type DateBucket string

const (
	DateAll         DateBucket = ""
	DateToday       DateBucket = "today"
	DateThisWeek    DateBucket = "this_week"
	DateUpcoming    DateBucket = "upcoming"
	DatePast        DateBucket = "past"
	DateUnscheduled DateBucket = "unscheduled"
)

// ProgramStatus narrows a program list by completion.
type ProgramStatus string

const (
	StatusAll       ProgramStatus = ""
	StatusCompleted ProgramStatus = "completed"
	StatusPending   ProgramStatus = "pending"
)

// ProgramFilter is applied over an already fetched listing. Zero values
// match everything.
type ProgramFilter struct {
	Search    string
	Date      DateBucket
	Status    ProgramStatus
	AthleteID *primitive.ObjectID
}

// Validate rejects unknown buckets and statuses.
func (f ProgramFilter) Validate() error {
	switch f.Date {
	case DateAll, DateToday, DateThisWeek, DateUpcoming, DatePast, DateUnscheduled:
	default:
		return &domain.ValidationError{Field: "date", Reason: "unknown date filter " + string(f.Date)}
	}
	switch f.Status {
	case StatusAll, StatusCompleted, StatusPending:
	default:
		return &domain.ValidationError{Field: "status", Reason: "unknown status filter " + string(f.Status)}
	}
	return nil
}

// Apply returns the listings matching every criterion, in their original order.
func (f ProgramFilter) Apply(listings []domain.ProgramListing, now time.Time) []domain.ProgramListing {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.ProgramListing, 0, len(listings))
	for _, l := range listings {
		if search != "" && !matchesSearch(l, search) {
			continue
		}
		if f.AthleteID != nil && (l.Program.AthleteID == nil || *l.Program.AthleteID != *f.AthleteID) {
			continue
		}
		if f.Status == StatusCompleted && !l.Completed || f.Status == StatusPending && l.Completed {
			continue
		}
		if !f.Date.matches(l.Program.ScheduledDate, now) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func matchesSearch(l domain.ProgramListing, search string) bool {
	for _, field := range []string{l.Program.Title, l.Program.Description, l.AthleteName, l.CoachName} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func (b DateBucket) matches(scheduled *time.Time, now time.Time) bool {
	if b == DateAll {
		return true
	}
	if scheduled == nil {
		return b == DateUnscheduled
	}
	today := startOfDay(now)
	switch b {
	case DateToday:
		return !scheduled.Before(today) && scheduled.Before(today.AddDate(0, 0, 1))
	case DateThisWeek:
		week := StartOfWeek(now)
		return !scheduled.Before(week) && scheduled.Before(week.AddDate(0, 0, 7))
	case DateUpcoming:
		return !scheduled.Before(today)
	case DatePast:
		return scheduled.Before(today)
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns Monday 00:00 of the week containing t.
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return startOfDay(t).AddDate(0, 0, -offset)
}
