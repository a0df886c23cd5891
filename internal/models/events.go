package models

import "time"

// Event is one entry in the ordered lifecycle stream the core emits.
// Only the fields relevant to the event type are populated.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	// Generation phase
	Viewpoint *Viewpoint `json:"viewpoint,omitempty"`
	ProfileID string     `json:"profile_id,omitempty"`
	Completed int        `json:"completed,omitempty"`
	Total     int        `json:"total,omitempty"`

	// Tournament phase
	Round        string            `json:"round,omitempty"`
	IndexInRound int               `json:"index_in_round,omitempty"`
	Match        *Match            `json:"match,omitempty"`
	Turn         *Turn             `json:"turn,omitempty"`
	Result       *TournamentResult `json:"result,omitempty"`

	// Failures
	Err error `json:"-"`
}
