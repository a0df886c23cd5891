package arena

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dyike/ArenaGo/consts"
	"github.com/dyike/ArenaGo/internal/models"
)

// DefaultTurnsPerSide gives each side two speaking turns per match.
const DefaultTurnsPerSide = 2

// Scoring weights. Every turn's argument-strength signal is split across
// the four dimensions with fixed weights; cited data points add a bonus
// to data quality, capped per turn.
const (
	weightDataQuality      = 0.30
	weightLogicalCoherence = 0.30
	weightRiskAck          = 0.20
	weightCatalystID       = 0.20

	dataPointBonus       = 2.0
	maxCountedDataPoints = 5
)

// Engine executes one match: alternating turns, scoring, and winner
// determination. The match is immutable once Run returns successfully.
type Engine struct {
	turns        TurnGenerator
	turnsPerSide int
}

// NewEngine creates a debate engine with the given turn budget per side.
func NewEngine(turns TurnGenerator, turnsPerSide int) *Engine {
	if turnsPerSide <= 0 {
		turnsPerSide = DefaultTurnsPerSide
	}
	return &Engine{turns: turns, turnsPerSide: turnsPerSide}
}

// Run plays out the match. Bull speaks first and the sides alternate;
// each turn sees the full prior history. A turn failure is fatal to the
// match and surfaces as a MatchError.
func (e *Engine) Run(ctx context.Context, symbol string, match *models.Match, events chan<- models.Event) error {
	mc := MatchContext{
		Symbol:       symbol,
		Round:        match.Round,
		IndexInRound: match.IndexInRound,
		Bull:         match.Bull,
		Bear:         match.Bear,
	}

	totalTurns := e.turnsPerSide * 2
	for i := 0; i < totalTurns; i++ {
		side := consts.SideBull
		if i%2 == 1 {
			side = consts.SideBear
		}

		turn, err := e.turns.NextTurn(ctx, mc, side, match.Turns)
		if err != nil {
			return &MatchError{Round: match.Round, IndexInRound: match.IndexInRound, Err: err}
		}
		if err := validateTurn(turn, side); err != nil {
			return &MatchError{Round: match.Round, IndexInRound: match.IndexInRound, Err: err}
		}

		if turn.Timestamp.IsZero() {
			turn.Timestamp = time.Now()
		}
		match.Turns = append(match.Turns, *turn)

		emit(events, models.Event{
			Type:         consts.EventTurnCompleted,
			Round:        match.Round,
			IndexInRound: match.IndexInRound,
			Match:        match,
			Turn:         turn,
		})
	}

	match.Scores = scoreTurns(match.Turns)
	match.Winner = decideWinner(match)
	match.WinningArguments = winningArguments(match)
	match.CompletedAt = time.Now()

	emit(events, models.Event{
		Type:         consts.EventMatchCompleted,
		Round:        match.Round,
		IndexInRound: match.IndexInRound,
		Match:        match,
	})
	return nil
}

func validateTurn(turn *models.Turn, side string) error {
	if turn == nil {
		return fmt.Errorf("%w: nil turn", ErrMalformedResponse)
	}
	if turn.Side != side {
		return fmt.Errorf("%w: turn speaks for %q, expected %q", ErrMalformedResponse, turn.Side, side)
	}
	if strings.TrimSpace(turn.Content) == "" {
		return fmt.Errorf("%w: empty turn content", ErrMalformedResponse)
	}
	if turn.ArgumentStrength < 0 || turn.ArgumentStrength > 100 {
		return fmt.Errorf("%w: argument strength %v outside [0,100]", ErrMalformedResponse, turn.ArgumentStrength)
	}
	return nil
}

// scoreTurns folds the per-turn argument-strength signals into the four
// dimensions as a running sum with fixed weights.
func scoreTurns(turns []models.Turn) models.ScoreBreakdown {
	var s models.ScoreBreakdown

	for _, t := range turns {
		points := len(t.DataPoints)
		if points > maxCountedDataPoints {
			points = maxCountedDataPoints
		}

		dataQuality := t.ArgumentStrength*weightDataQuality + dataPointBonus*float64(points)
		coherence := t.ArgumentStrength * weightLogicalCoherence
		riskAck := t.ArgumentStrength * weightRiskAck
		catalyst := t.ArgumentStrength * weightCatalystID

		if t.Side == consts.SideBull {
			s.DataQuality.Bull += dataQuality
			s.LogicalCoherence.Bull += coherence
			s.RiskAcknowledgment.Bull += riskAck
			s.CatalystIdentification.Bull += catalyst
		} else {
			s.DataQuality.Bear += dataQuality
			s.LogicalCoherence.Bear += coherence
			s.RiskAcknowledgment.Bear += riskAck
			s.CatalystIdentification.Bear += catalyst
		}
	}

	return s
}

// decideWinner picks the side with the strictly higher total. On an exact
// tie the side with the higher mean argument strength wins; if that also
// ties, the lexically smaller profile ID wins.
func decideWinner(match *models.Match) string {
	bullTotal := match.Scores.BullTotal()
	bearTotal := match.Scores.BearTotal()

	switch {
	case bullTotal > bearTotal:
		return consts.SideBull
	case bearTotal > bullTotal:
		return consts.SideBear
	}

	bullMean := meanStrength(match.Turns, consts.SideBull)
	bearMean := meanStrength(match.Turns, consts.SideBear)
	switch {
	case bullMean > bearMean:
		return consts.SideBull
	case bearMean > bullMean:
		return consts.SideBear
	}

	if match.Bull.ProfileID < match.Bear.ProfileID {
		return consts.SideBull
	}
	return consts.SideBear
}

func meanStrength(turns []models.Turn, side string) float64 {
	sum, n := 0.0, 0
	for _, t := range turns {
		if t.Side == side {
			sum += t.ArgumentStrength
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// winningArguments extracts the winning side's turn contents.
func winningArguments(match *models.Match) []string {
	var args []string
	for _, t := range match.Turns {
		if t.Side == match.Winner {
			args = append(args, strings.TrimSpace(t.Content))
		}
	}
	return args
}
