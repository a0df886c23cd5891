package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/ArenaGo/consts"
	"github.com/dyike/ArenaGo/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "arena.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func storedViewpoint(profileID string) *models.Viewpoint {
	return &models.Viewpoint{
		ProfileID:   profileID,
		ProfileName: "Analyst " + profileID,
		Methodology: consts.MethodologyValue,
		Symbol:      "AAPL",
		Stance:      consts.StanceBuy,
		Confidence:  70,
		Target: models.PriceTarget{
			Bull: decimal.NewFromInt(250), Base: decimal.NewFromInt(220), Bear: decimal.NewFromInt(180),
			HorizonMonths: 12,
		},
		BullCase: []string{"a"},
		BearCase: []string{"b"},
		Summary:  "s",
	}
}

func TestStoreRunLifecycle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateRun(ctx, "run-1", "AAPL", time.Now()))
	require.NoError(t, s.SaveViewpoint(ctx, "run-1", storedViewpoint("value-01")))

	match := &models.Match{
		ID: "m-1", Round: consts.RoundFinal, IndexInRound: 0,
		Bull: storedViewpoint("value-01"), Bear: storedViewpoint("growth-02"),
		Winner: consts.SideBull,
	}
	require.NoError(t, s.SaveMatch(ctx, "run-1", match))

	rec := &models.FinalRecommendation{
		Symbol: "AAPL", Stance: consts.StanceBuy, Confidence: 72,
		ConsensusStrength: 100, RiskLevel: consts.RiskLow, SuggestedAllocationPct: 7.2,
	}
	require.NoError(t, s.FinishRun(ctx, "run-1", StatusDone, rec))

	runs, err := s.RecentRuns(ctx, "AAPL", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, StatusDone, runs[0].Status)
	assert.Equal(t, consts.StanceBuy, runs[0].Stance)

	got, err := s.GetRecommendation(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, rec.Stance, got.Stance)
	assert.InDelta(t, rec.SuggestedAllocationPct, got.SuggestedAllocationPct, 1e-9)

	matches, err := s.RunMatches(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "m-1", matches[0].ID)
	assert.Equal(t, consts.SideBull, matches[0].Winner)
}

func TestStoreFailedRunHasNoRecommendation(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateRun(ctx, "run-2", "TSLA", time.Now()))
	require.NoError(t, s.FinishRun(ctx, "run-2", StatusError, nil))

	runs, err := s.RecentRuns(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, StatusError, runs[0].Status)

	_, err = s.GetRecommendation(ctx, "run-2")
	assert.Error(t, err)
}

func TestStoreMatchesComeBackInBracketOrder(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateRun(ctx, "run-3", "AAPL", time.Now()))

	add := func(id, round string, idx int) {
		m := &models.Match{
			ID: id, Round: round, IndexInRound: idx,
			Bull: storedViewpoint("value-01"), Bear: storedViewpoint("growth-02"),
		}
		require.NoError(t, s.SaveMatch(ctx, "run-3", m))
	}
	// inserted out of order on purpose
	add("f-0", consts.RoundFinal, 0)
	add("q-1", consts.RoundQuarterfinal, 1)
	add("s-0", consts.RoundSemifinal, 0)
	add("q-0", consts.RoundQuarterfinal, 0)

	matches, err := s.RunMatches(ctx, "run-3")
	require.NoError(t, err)

	var ids []string
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"q-0", "q-1", "s-0", "f-0"}, ids)
}

func TestRecorderPersistsEvents(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	r, err := NewRecorder(ctx, s, "AAPL")
	require.NoError(t, err)

	r.Record(models.Event{Type: consts.EventEntrantCompleted, Viewpoint: storedViewpoint("value-01")})
	r.Record(models.Event{Type: consts.EventEntrantCompleted, Viewpoint: storedViewpoint("growth-02")})
	r.Record(models.Event{Type: consts.EventMatchCompleted, Match: &models.Match{
		ID: "m-1", Round: consts.RoundFinal,
		Bull: storedViewpoint("value-01"), Bear: storedViewpoint("growth-02"),
		Winner: consts.SideBear,
	}})
	// turn events are transient and not persisted
	r.Record(models.Event{Type: consts.EventTurnCompleted})

	rec := &models.FinalRecommendation{Symbol: "AAPL", Stance: consts.StanceHold}
	r.Finish(rec, nil)

	runs, err := s.RecentRuns(ctx, "AAPL", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, r.RunID(), runs[0].ID)
	assert.Equal(t, StatusDone, runs[0].Status)

	matches, err := s.RunMatches(ctx, r.RunID())
	require.NoError(t, err)
	require.Len(t, matches, 1)

	got, err := s.GetRecommendation(ctx, r.RunID())
	require.NoError(t, err)
	assert.Equal(t, consts.StanceHold, got.Stance)
}

func TestRecorderRecordAfterClose(t *testing.T) {
	s := testStore(t)

	r, err := NewRecorder(context.Background(), s, "AAPL")
	require.NoError(t, err)
	r.Close()

	// late events are dropped silently, never sent to a dead writer
	for i := 0; i < 200; i++ {
		r.Record(models.Event{Type: consts.EventTurnCompleted})
	}
	r.Close()
}

func TestRecorderCloseDuringBurst(t *testing.T) {
	s := testStore(t)

	r, err := NewRecorder(context.Background(), s, "AAPL")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// overflows the buffer so the retry path races shutdown
		for i := 0; i < 2000; i++ {
			r.Record(models.Event{Type: consts.EventTurnCompleted})
		}
	}()

	r.Finish(nil, fmt.Errorf("interrupted"))
	wg.Wait()

	runs, err := s.RecentRuns(context.Background(), "AAPL", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, StatusError, runs[0].Status)
}
