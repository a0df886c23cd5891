package models

import (
	"time"

	"github.com/dyike/ArenaGo/consts"
)

// Turn is one dialogue exchange inside a match. Turns are append-only
// while the match runs and frozen once it completes.
type Turn struct {
	ID               string    `json:"id"`
	Side             string    `json:"side"`
	Content          string    `json:"content"`
	DataPoints       []string  `json:"data_points"`
	ArgumentStrength float64   `json:"argument_strength"`
	Timestamp        time.Time `json:"timestamp"`
}

// DimensionScore holds the bull/bear pair for one scoring dimension.
type DimensionScore struct {
	Bull float64 `json:"bull"`
	Bear float64 `json:"bear"`
}

// ScoreBreakdown is the four-dimension score of a completed match.
type ScoreBreakdown struct {
	DataQuality            DimensionScore `json:"data_quality"`
	LogicalCoherence       DimensionScore `json:"logical_coherence"`
	RiskAcknowledgment     DimensionScore `json:"risk_acknowledgment"`
	CatalystIdentification DimensionScore `json:"catalyst_identification"`
}

// BullTotal sums the bull side across all four dimensions.
func (s ScoreBreakdown) BullTotal() float64 {
	return s.DataQuality.Bull + s.LogicalCoherence.Bull + s.RiskAcknowledgment.Bull + s.CatalystIdentification.Bull
}

// BearTotal sums the bear side across all four dimensions.
func (s ScoreBreakdown) BearTotal() float64 {
	return s.DataQuality.Bear + s.LogicalCoherence.Bear + s.RiskAcknowledgment.Bear + s.CatalystIdentification.Bear
}

// Match is one head-to-head debate in a bracket round. A match is created
// when its round starts, completed exactly once and immutable afterwards.
type Match struct {
	ID               string         `json:"id"`
	Round            string         `json:"round"`
	IndexInRound     int            `json:"index_in_round"`
	Bull             *Viewpoint     `json:"bull"`
	Bear             *Viewpoint     `json:"bear"`
	Turns            []Turn         `json:"turns"`
	Winner           string         `json:"winner"`
	Scores           ScoreBreakdown `json:"scores"`
	WinningArguments []string       `json:"winning_arguments"`
	StartedAt        time.Time      `json:"started_at"`
	CompletedAt      time.Time      `json:"completed_at"`
}

// Completed reports whether the match has been finalized.
func (m *Match) Completed() bool {
	return m.Winner != ""
}

// WinnerViewpoint returns the viewpoint that won, or nil for an
// unfinished match.
func (m *Match) WinnerViewpoint() *Viewpoint {
	switch m.Winner {
	case consts.SideBull:
		return m.Bull
	case consts.SideBear:
		return m.Bear
	}
	return nil
}

// LoserViewpoint returns the viewpoint that lost, or nil for an
// unfinished match.
func (m *Match) LoserViewpoint() *Viewpoint {
	switch m.Winner {
	case consts.SideBull:
		return m.Bear
	case consts.SideBear:
		return m.Bull
	}
	return nil
}
