package domain

import "time"

// ProgramListing is a program as shown in a roster card: the program plus
// the names of the other party and the viewer's completion state.
type ProgramListing struct {
	Program     Program    `json:"program"`
	CoachName   string     `json:"coachName,omitempty"`
	AthleteName string     `json:"athleteName,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
