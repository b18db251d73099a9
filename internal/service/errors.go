package service

import "errors"

// Errors shared by the coach and athlete services.
var (
	ErrAthleteNotFound      = errors.New("athlete not found")
	ErrNotAthleteRole       = errors.New("profile found is not an athlete")
	ErrNotCoach             = errors.New("only coaches can manage athletes")
	ErrSelfLink             = errors.New("a coach cannot add themselves as an athlete")
	ErrAthleteAlreadyLinked = errors.New("athlete already exists in this roster")
	ErrAthleteNotLinked     = errors.New("athlete is not linked to this coach")
	ErrProgramNotFound      = errors.New("program not found")
	ErrProgramAccessDenied  = errors.New("permission denied for this program")
	ErrProgramNotAssigned   = errors.New("program is not assigned to this athlete")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAccessDenied  = errors.New("permission denied for this session")
	ErrSessionNotCompleted  = errors.New("session is not completed yet")
	ErrConfirmationRequired = errors.New("deletion must be confirmed")
)
