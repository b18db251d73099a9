// Package programcodec maps a Program to the stored workout_programs record
// and back. First-class columns are stored as fields; everything else goes
// into a versioned extras envelope.
package programcodec

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kafkaan/fit-coach-link/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CurrentVersion is the extras layout written by Encode.
const CurrentVersion = 2

var ErrUnsupportedVersion = errors.New("unsupported program extras version")

// Record is the stored shape of a program.
type Record struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty"`
	CoachID       primitive.ObjectID  `bson:"coachId"`
	AthleteID     *primitive.ObjectID `bson:"athleteId,omitempty"`
	Title         string              `bson:"title"`
	Description   string              `bson:"description,omitempty"`
	Instructions  string              `bson:"instructions,omitempty"`
	ScheduledDate *time.Time          `bson:"scheduledDate,omitempty"`
	Extras        string              `bson:"extras,omitempty"`
	// MediaURLs is only read: records written by the first release kept the
	// program structure JSON-encoded in its first element.
	MediaURLs []string  `bson:"mediaUrls,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type envelope struct {
	Version int             `json:"version"`
	Program json.RawMessage `json:"program,omitempty"`
}

// Encode flattens p into a Record.
func Encode(p domain.Program) (Record, error) {
	rec := Record{
		ID:           p.ID,
		CoachID:      p.CoachID,
		Title:        p.Title,
		Description:  p.Description,
		Instructions: p.Instructions,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.AthleteID != nil {
		id := *p.AthleteID
		rec.AthleteID = &id
	}
	if p.ScheduledDate != nil {
		d := *p.ScheduledDate
		rec.ScheduledDate = &d
	}

	extras := p
	extras.ID = primitive.NilObjectID
	extras.CoachID = primitive.NilObjectID
	extras.AthleteID = nil
	extras.Title = ""
	extras.Description = ""
	extras.Instructions = ""
	extras.ScheduledDate = nil
	extras.CreatedAt = time.Time{}
	extras.UpdatedAt = time.Time{}

	body, err := json.Marshal(extras)
	if err != nil {
		return Record{}, fmt.Errorf("encoding program extras: %w", err)
	}
	env, err := json.Marshal(envelope{Version: CurrentVersion, Program: body})
	if err != nil {
		return Record{}, fmt.Errorf("encoding program envelope: %w", err)
	}
	rec.Extras = string(env)
	return rec, nil
}

// Decode rebuilds a Program from a Record. Records without extras decode to
// a program without blocks.
func Decode(rec Record) (domain.Program, error) {
	payload := rec.Extras
	if payload == "" && len(rec.MediaURLs) > 0 {
		payload = rec.MediaURLs[0]
	}

	var p domain.Program
	if payload == "" {
		p = domain.NewProgram(rec.CoachID)
	} else {
		var env envelope
		if err := json.Unmarshal([]byte(payload), &env); err != nil {
			return domain.Program{}, fmt.Errorf("decoding program extras: %w", err)
		}
		switch env.Version {
		case CurrentVersion:
			if err := json.Unmarshal(env.Program, &p); err != nil {
				return domain.Program{}, fmt.Errorf("decoding program extras v2: %w", err)
			}
		case 1:
			legacy, err := decodeV1(payload, rec.Instructions)
			if err != nil {
				return domain.Program{}, err
			}
			p = legacy
			rec.Instructions = ""
		default:
			return domain.Program{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
		}
	}

	p.ID = rec.ID
	p.CoachID = rec.CoachID
	p.Title = rec.Title
	p.Description = rec.Description
	if rec.Instructions != "" {
		p.Instructions = rec.Instructions
	}
	if rec.AthleteID != nil {
		id := *rec.AthleteID
		p.AthleteID = &id
	}
	if rec.ScheduledDate != nil {
		d := *rec.ScheduledDate
		p.ScheduledDate = &d
	}
	p.CreatedAt = rec.CreatedAt
	p.UpdatedAt = rec.UpdatedAt
	return p, nil
}
