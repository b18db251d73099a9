package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role distinguishes coaches from athletes.
type Role string

const (
	RoleCoach   Role = "coach"
	RoleAthlete Role = "athlete"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleCoach || r == RoleAthlete
}

// Theme is the optional UI theme preference stored on a profile.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// Profile is a registered user, either a coach or an athlete.
type Profile struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName    string             `bson:"firstName" json:"firstName"`
	LastName     string             `bson:"lastName" json:"lastName"`
	Email        string             `bson:"email" json:"email"` // unique, stored lowercased
	AvatarURL    string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	Role         Role               `bson:"role" json:"role"`
	Theme        *Theme             `bson:"theme,omitempty" json:"theme,omitempty"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (p *Profile) IsCoach() bool {
	return p.Role == RoleCoach
}

func (p *Profile) IsAthlete() bool {
	return p.Role == RoleAthlete
}

// FullName joins first and last name, skipping empty parts.
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// NormalizeEmail trims and lowercases an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CoachAthleteRelationship links one coach to one athlete. The pair is unique.
type CoachAthleteRelationship struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID   primitive.ObjectID `bson:"coachId" json:"coachId"`
	AthleteID primitive.ObjectID `bson:"athleteId" json:"athleteId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// RosterEntry is an athlete as seen from a coach's roster.
type RosterEntry struct {
	AthleteID primitive.ObjectID `bson:"_id" json:"id"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	Email     string             `bson:"email" json:"email"`
	AvatarURL string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	LinkedAt  time.Time          `bson:"linkedAt" json:"linkedAt"`
}
