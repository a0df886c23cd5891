package arena

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/ArenaGo/consts"
	"github.com/dyike/ArenaGo/internal/models"
)

func newTestMatch(bullID, bearID string) *models.Match {
	return &models.Match{
		ID:           "m-1",
		Round:        consts.RoundFinal,
		IndexInRound: 0,
		Bull:         newViewpoint(bullID, 80, consts.StanceBuy),
		Bear:         newViewpoint(bearID, 60, consts.StanceSell),
	}
}

func TestEngineRunScoresAndPicksWinner(t *testing.T) {
	// bull argues at 80 with one data point per turn, bear at 70 with
	// three; per turn a side earns strength + 2*points, so over two
	// turns each: bull 164, bear 152
	turns := turnFunc(func(ctx context.Context, mc MatchContext, side string, prior []models.Turn) (*models.Turn, error) {
		turn := &models.Turn{Side: side, Content: "case for " + side}
		if side == consts.SideBull {
			turn.ArgumentStrength = 80
			turn.DataPoints = []string{"pe ratio"}
		} else {
			turn.ArgumentStrength = 70
			turn.DataPoints = []string{"guidance cut", "margin trend", "insider sales"}
		}
		return turn, nil
	})

	match := newTestMatch("value-01", "risk-06")
	events := make(chan models.Event, 16)
	engine := NewEngine(turns, 2)

	err := engine.Run(context.Background(), "AAPL", match, events)
	close(events)
	require.NoError(t, err)

	require.Len(t, match.Turns, 4)
	// bull opens and the sides alternate
	for i, turn := range match.Turns {
		want := consts.SideBull
		if i%2 == 1 {
			want = consts.SideBear
		}
		assert.Equal(t, want, turn.Side)
		assert.False(t, turn.Timestamp.IsZero())
	}

	assert.InDelta(t, 164, match.Scores.BullTotal(), 1e-9)
	assert.InDelta(t, 152, match.Scores.BearTotal(), 1e-9)
	assert.Equal(t, consts.SideBull, match.Winner)
	assert.Equal(t, []string{"case for bull", "case for bull"}, match.WinningArguments)
	require.True(t, match.Completed())
	assert.Same(t, match.Bull, match.WinnerViewpoint())

	var turnEvents, matchEvents int
	for ev := range events {
		switch ev.Type {
		case consts.EventTurnCompleted:
			turnEvents++
		case consts.EventMatchCompleted:
			matchEvents++
		}
	}
	assert.Equal(t, 4, turnEvents)
	assert.Equal(t, 1, matchEvents)
}

func TestEngineDataPointBonusIsCapped(t *testing.T) {
	turns := turnFunc(func(ctx context.Context, mc MatchContext, side string, prior []models.Turn) (*models.Turn, error) {
		turn := &models.Turn{Side: side, Content: "x", ArgumentStrength: 50}
		if side == consts.SideBull {
			turn.DataPoints = make([]string, 12)
			for i := range turn.DataPoints {
				turn.DataPoints[i] = fmt.Sprintf("point %d", i)
			}
		}
		return turn, nil
	})

	match := newTestMatch("value-01", "risk-06")
	engine := NewEngine(turns, 1)
	require.NoError(t, engine.Run(context.Background(), "AAPL", match, nil))

	// only five of the twelve points count toward the bonus
	assert.InDelta(t, 50+10, match.Scores.BullTotal(), 1e-9)
	assert.InDelta(t, 50, match.Scores.BearTotal(), 1e-9)
}

func TestEngineTieBreaks(t *testing.T) {
	flat := func(strength float64) TurnGenerator {
		return turnFunc(func(ctx context.Context, mc MatchContext, side string, prior []models.Turn) (*models.Turn, error) {
			return &models.Turn{Side: side, Content: "x", ArgumentStrength: strength}, nil
		})
	}

	// totals and mean strengths identical: lexically smaller profile ID wins
	match := newTestMatch("growth-02", "value-01")
	require.NoError(t, NewEngine(flat(70), 2).Run(context.Background(), "AAPL", match, nil))
	assert.Equal(t, consts.SideBull, match.Winner)

	match = newTestMatch("value-01", "growth-02")
	require.NoError(t, NewEngine(flat(70), 2).Run(context.Background(), "AAPL", match, nil))
	assert.Equal(t, consts.SideBear, match.Winner)
}

func TestEngineMeanStrengthTieBreak(t *testing.T) {
	// equal totals via the data-point bonus, unequal mean strengths:
	// bull 60 strength + 5 points (+10) vs bear 70 strength, one turn
	// each side totals 70
	turns := turnFunc(func(ctx context.Context, mc MatchContext, side string, prior []models.Turn) (*models.Turn, error) {
		if side == consts.SideBull {
			return &models.Turn{Side: side, Content: "x", ArgumentStrength: 60,
				DataPoints: []string{"a", "b", "c", "d", "e"}}, nil
		}
		return &models.Turn{Side: side, Content: "x", ArgumentStrength: 70}, nil
	})

	match := newTestMatch("value-01", "growth-02")
	require.NoError(t, NewEngine(turns, 1).Run(context.Background(), "AAPL", match, nil))

	assert.InDelta(t, match.Scores.BullTotal(), match.Scores.BearTotal(), 1e-9)
	assert.Equal(t, consts.SideBear, match.Winner, "higher mean strength wins the tie")
}

func TestEngineRejectsMalformedTurns(t *testing.T) {
	cases := []struct {
		name string
		turn *models.Turn
	}{
		{"nil turn", nil},
		{"wrong side", &models.Turn{Side: consts.SideBear, Content: "x", ArgumentStrength: 50}},
		{"empty content", &models.Turn{Side: consts.SideBull, Content: "   ", ArgumentStrength: 50}},
		{"strength out of range", &models.Turn{Side: consts.SideBull, Content: "x", ArgumentStrength: 130}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			turns := turnFunc(func(ctx context.Context, mc MatchContext, side string, prior []models.Turn) (*models.Turn, error) {
				return tc.turn, nil
			})

			match := newTestMatch("value-01", "growth-02")
			err := NewEngine(turns, 1).Run(context.Background(), "AAPL", match, nil)

			require.Error(t, err)
			var merr *MatchError
			require.ErrorAs(t, err, &merr)
			assert.ErrorIs(t, err, ErrMalformedResponse)
			assert.False(t, match.Completed())
		})
	}
}

func TestEngineTurnGeneratorFailureIsFatal(t *testing.T) {
	turns := turnFunc(func(ctx context.Context, mc MatchContext, side string, prior []models.Turn) (*models.Turn, error) {
		return nil, fmt.Errorf("model timeout")
	})

	match := newTestMatch("value-01", "growth-02")
	err := NewEngine(turns, 2).Run(context.Background(), "AAPL", match, nil)

	var merr *MatchError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, consts.RoundFinal, merr.Round)
}
