package arena

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/ArenaGo/consts"
	"github.com/dyike/ArenaGo/internal/models"
)

// finishedResult builds a completed tournament whose final the champion
// won on the bull side with the given score totals.
func finishedResult(champion, runnerUp *models.Viewpoint, bullTotal, bearTotal float64) *models.TournamentResult {
	final := &models.Match{
		ID:     "final-1",
		Round:  consts.RoundFinal,
		Bull:   champion,
		Bear:   runnerUp,
		Winner: consts.SideBull,
		Scores: models.ScoreBreakdown{
			LogicalCoherence: models.DimensionScore{Bull: bullTotal, Bear: bearTotal},
		},
		Turns: []models.Turn{
			{Side: consts.SideBull, Content: "bull opening", ArgumentStrength: 80},
			{Side: consts.SideBear, Content: "bear opening", ArgumentStrength: 60},
			{Side: consts.SideBull, Content: "bull rebuttal", ArgumentStrength: 80},
			{Side: consts.SideBear, Content: "bear rebuttal", ArgumentStrength: 60},
		},
	}
	return &models.TournamentResult{
		Symbol:     champion.Symbol,
		Final:      final,
		Champion:   champion,
		AllMatches: []*models.Match{final},
	}
}

func TestSynthesizeUnanimousField(t *testing.T) {
	entrants := make([]*models.Viewpoint, 0, 8)
	for i, p := range models.DefaultProfiles() {
		stance := consts.StanceBuy
		if i%2 == 0 {
			stance = consts.StanceStrongBuy
		}
		entrants = append(entrants, newViewpoint(p.ID, 80, stance))
	}
	champion := entrants[0]

	// margin (150-50)/200 = 0.5, confidence 80*(0.80+0.20*0.5) = 72
	result := finishedResult(champion, entrants[1], 150, 50)
	rec, err := Synthesize(entrants, result, SynthesisOptions{})
	require.NoError(t, err)

	assert.Equal(t, consts.StanceStrongBuy, rec.Stance, "unanimous field keeps the champion stance")
	assert.InDelta(t, 100, rec.ConsensusStrength, 1e-9)
	assert.InDelta(t, 72, rec.Confidence, 1e-9)
	assert.Equal(t, consts.RiskLow, rec.RiskLevel)
	assert.Empty(t, rec.DissentingViews)
	// identical targets blend back to themselves
	assert.True(t, rec.Target.Base.Equal(decimal.NewFromInt(220)), "base target %s", rec.Target.Base)
	assert.Equal(t, 12, rec.Target.HorizonMonths)
	// low risk, confidence 72: 10% * 0.72
	assert.InDelta(t, 7.2, rec.SuggestedAllocationPct, 1e-9)
	assert.Equal(t, []string{"bull opening", "bull rebuttal"}, rec.TopBullArguments)
	assert.Equal(t, []string{"bear opening", "bear rebuttal"}, rec.TopBearArguments)
}

func TestSynthesizeMinorityChampionIsSmoothed(t *testing.T) {
	// champion is strong_buy but only 3 of 8 lean buy
	entrants := []*models.Viewpoint{
		newViewpoint("value-01", 90, consts.StanceStrongBuy),
		newViewpoint("growth-02", 70, consts.StanceBuy),
		newViewpoint("technical-03", 70, consts.StanceBuy),
		newViewpoint("macro-04", 60, consts.StanceSell),
		newViewpoint("sentiment-05", 60, consts.StanceSell),
		newViewpoint("risk-06", 60, consts.StanceStrongSell),
		newViewpoint("quant-07", 60, consts.StanceHold),
		newViewpoint("contrarian-08", 60, consts.StanceHold),
	}
	champion := entrants[0]

	result := finishedResult(champion, entrants[3], 100, 100)
	rec, err := Synthesize(entrants, result, SynthesisOptions{})
	require.NoError(t, err)

	assert.Equal(t, consts.StanceBuy, rec.Stance, "minority champion downgraded one notch")
	assert.InDelta(t, 37.5, rec.ConsensusStrength, 1e-9)
	assert.Equal(t, consts.RiskHigh, rec.RiskLevel)
	// zero margin leaves confidence at 80% of the champion's
	assert.InDelta(t, 72, rec.Confidence, 1e-9)
	// high risk scales the allocation to 30%
	assert.InDelta(t, 2.2, rec.SuggestedAllocationPct, 1e-9)
	assert.Len(t, rec.DissentingViews, 5)
}

func TestSynthesizeSellChampionGetsNoAllocation(t *testing.T) {
	entrants := []*models.Viewpoint{
		newViewpoint("risk-06", 85, consts.StanceStrongSell),
		newViewpoint("macro-04", 70, consts.StanceSell),
		newViewpoint("value-01", 60, consts.StanceHold),
	}
	result := finishedResult(entrants[0], entrants[1], 120, 80)

	rec, err := Synthesize(entrants, result, SynthesisOptions{})
	require.NoError(t, err)

	assert.Equal(t, consts.StanceStrongSell, rec.Stance)
	assert.Zero(t, rec.SuggestedAllocationPct)
	assert.Equal(t, consts.RiskMedium, rec.RiskLevel)
}

func TestSynthesizeBlendsTargets(t *testing.T) {
	a := newViewpoint("value-01", 80, consts.StanceBuy)
	a.Target = models.PriceTarget{
		Bull: decimal.NewFromInt(300), Base: decimal.NewFromInt(200), Bear: decimal.NewFromInt(100),
		HorizonMonths: 12,
	}
	b := newViewpoint("growth-02", 20, consts.StanceBuy)
	b.Target = models.PriceTarget{
		Bull: decimal.NewFromInt(400), Base: decimal.NewFromInt(300), Bear: decimal.NewFromInt(200),
		HorizonMonths: 6,
	}

	result := finishedResult(a, b, 120, 80)
	rec, err := Synthesize([]*models.Viewpoint{a, b}, result, SynthesisOptions{})
	require.NoError(t, err)

	// 50% champion + 50% confidence-weighted field (0.8a + 0.2b):
	// base = 0.5*200 + 0.5*(0.8*200 + 0.2*300) = 210
	assert.True(t, rec.Target.Base.Equal(decimal.NewFromInt(210)), "base %s", rec.Target.Base)
	assert.True(t, rec.Target.Bull.Equal(decimal.NewFromInt(310)), "bull %s", rec.Target.Bull)
	assert.True(t, rec.Target.Bear.Equal(decimal.NewFromInt(110)), "bear %s", rec.Target.Bear)
	assert.Equal(t, 12, rec.Target.HorizonMonths, "horizon follows the champion")
}

func TestSynthesizeRejectsIncompleteInput(t *testing.T) {
	vp := newViewpoint("value-01", 80, consts.StanceBuy)

	_, err := Synthesize(nil, finishedResult(vp, vp, 100, 50), SynthesisOptions{})
	assert.Error(t, err)

	_, err = Synthesize([]*models.Viewpoint{vp}, nil, SynthesisOptions{})
	assert.Error(t, err)

	_, err = Synthesize([]*models.Viewpoint{vp}, &models.TournamentResult{Champion: vp}, SynthesisOptions{})
	assert.Error(t, err)
}
