package consts

// Lifecycle event types emitted by the tournament core
const (
	EventEntrantCompleted    = "entrant_completed"
	EventEntrantFailed       = "entrant_failed"
	EventMatchStarted        = "match_started"
	EventTurnCompleted       = "turn_completed"
	EventMatchCompleted      = "match_completed"
	EventTournamentCompleted = "tournament_completed"
	EventTournamentFailed    = "tournament_failed"
)
