package arena

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientEntrants means too few viewpoints were generated to
	// run a tournament.
	ErrInsufficientEntrants = errors.New("insufficient entrants to run tournament")

	// ErrMalformedResponse means a generation or turn result failed basic
	// shape or range validation.
	ErrMalformedResponse = errors.New("malformed generation response")
)

// EntrantError records one failed entrant generation. Entrant failures
// are collected, never propagated past the coordinator.
type EntrantError struct {
	ProfileID string
	Err       error
}

func (e *EntrantError) Error() string {
	return fmt.Sprintf("entrant %s: %v", e.ProfileID, e.Err)
}

func (e *EntrantError) Unwrap() error {
	return e.Err
}

// MatchError is a tournament-fatal failure inside one match.
type MatchError struct {
	Round        string
	IndexInRound int
	Err          error
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("%s match %d: %v", e.Round, e.IndexInRound, e.Err)
}

func (e *MatchError) Unwrap() error {
	return e.Err
}
