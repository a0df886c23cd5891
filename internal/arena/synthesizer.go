package arena

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dyike/ArenaGo/consts"
	"github.com/dyike/ArenaGo/internal/models"
)

// SynthesisOptions tunes the recommendation fold.
type SynthesisOptions struct {
	// MaxAllocationPct caps the suggested portfolio allocation. Zero
	// means the default of 10%.
	MaxAllocationPct float64
}

// Synthesize folds the full entrant field and the completed tournament
// into one recommendation. Pure function: no I/O, no side effects.
//
// Declared rules: the stance is the champion's, downgraded one notch
// toward hold when fewer than half the field shares the champion's
// direction. Confidence is the champion's confidence scaled by the final
// match's margin of victory. The price target blends 50% champion with
// 50% confidence-weighted field average.
func Synthesize(entrants []*models.Viewpoint, result *models.TournamentResult, opts SynthesisOptions) (*models.FinalRecommendation, error) {
	if len(entrants) == 0 {
		return nil, fmt.Errorf("no entrants to synthesize from")
	}
	if result == nil || result.Champion == nil || result.Final == nil || !result.Final.Completed() {
		return nil, fmt.Errorf("tournament result is incomplete")
	}

	maxAlloc := opts.MaxAllocationPct
	if maxAlloc <= 0 {
		maxAlloc = 10
	}

	champion := result.Champion
	direction := champion.Direction()

	agree := 0
	var dissenting []models.DissentingView
	for _, vp := range entrants {
		if vp.Direction() == direction {
			agree++
			continue
		}
		dissenting = append(dissenting, models.DissentingView{
			ProfileID:   vp.ProfileID,
			ProfileName: vp.ProfileName,
			Stance:      vp.Stance,
			Summary:     vp.Summary,
		})
	}
	consensus := clamp(100 * float64(agree) / float64(len(entrants)))

	margin := victoryMargin(result.Final)
	confidence := clamp(champion.Confidence * (0.80 + 0.20*margin))

	stance := champion.Stance
	if agree*2 < len(entrants) {
		stance = notchTowardHold(stance)
	}

	riskLevel := riskLevelFor(consensus)
	allocation := suggestedAllocation(stance, confidence, riskLevel, maxAlloc)

	rec := &models.FinalRecommendation{
		Symbol:                 result.Symbol,
		Stance:                 stance,
		Confidence:             confidence,
		ConsensusStrength:      consensus,
		Target:                 blendTargets(champion, entrants),
		SuggestedAllocationPct: allocation,
		RiskLevel:              riskLevel,
		TopBullArguments:       topArguments(result.Final, consts.SideBull, champion.BullCase),
		TopBearArguments:       topArguments(result.Final, consts.SideBear, champion.BearCase),
		DissentingViews:        dissenting,
	}
	return rec, nil
}

// victoryMargin returns (winner-loser)/(winner+loser) of the final match
// totals, in [0,1].
func victoryMargin(final *models.Match) float64 {
	bull, bear := final.Scores.BullTotal(), final.Scores.BearTotal()
	total := bull + bear
	if total <= 0 {
		return 0
	}
	win, lose := bull, bear
	if final.Winner == consts.SideBear {
		win, lose = bear, bull
	}
	return (win - lose) / total
}

func notchTowardHold(stance string) string {
	switch stance {
	case consts.StanceStrongBuy:
		return consts.StanceBuy
	case consts.StanceBuy:
		return consts.StanceHold
	case consts.StanceStrongSell:
		return consts.StanceSell
	case consts.StanceSell:
		return consts.StanceHold
	}
	return stance
}

func riskLevelFor(consensus float64) string {
	switch {
	case consensus < 50:
		return consts.RiskHigh
	case consensus < 75:
		return consts.RiskMedium
	default:
		return consts.RiskLow
	}
}

// suggestedAllocation sizes the position from confidence and risk level.
// Only buy-leaning stances receive an allocation.
func suggestedAllocation(stance string, confidence float64, riskLevel string, maxAlloc float64) float64 {
	if models.DirectionOf(stance) != models.DirectionBuy {
		return 0
	}

	factor := 1.0
	switch riskLevel {
	case consts.RiskMedium:
		factor = 0.6
	case consts.RiskHigh:
		factor = 0.3
	}

	alloc := maxAlloc * (confidence / 100) * factor
	if alloc > maxAlloc {
		alloc = maxAlloc
	}
	if alloc < 0 {
		alloc = 0
	}
	// one decimal place
	return float64(int(alloc*10+0.5)) / 10
}

// blendTargets blends 50% champion target with 50% confidence-weighted
// field average.
func blendTargets(champion *models.Viewpoint, entrants []*models.Viewpoint) models.PriceTarget {
	totalConf := 0.0
	for _, vp := range entrants {
		totalConf += vp.Confidence
	}
	if totalConf <= 0 {
		return champion.Target
	}

	half := decimal.NewFromFloat(0.5)
	bull := champion.Target.Bull.Mul(half)
	base := champion.Target.Base.Mul(half)
	bear := champion.Target.Bear.Mul(half)

	for _, vp := range entrants {
		w := decimal.NewFromFloat(0.5 * vp.Confidence / totalConf)
		bull = bull.Add(vp.Target.Bull.Mul(w))
		base = base.Add(vp.Target.Base.Mul(w))
		bear = bear.Add(vp.Target.Bear.Mul(w))
	}

	return models.PriceTarget{
		Bull:          bull.Round(2),
		Base:          base.Round(2),
		Bear:          bear.Round(2),
		HorizonMonths: champion.Target.HorizonMonths,
	}
}

// topArguments takes up to three of the final match's turn contents for
// the side, falling back to the champion's own case list.
func topArguments(final *models.Match, side string, fallback []string) []string {
	var args []string
	for _, t := range final.Turns {
		if t.Side == side {
			args = append(args, t.Content)
		}
	}
	if len(args) == 0 {
		args = fallback
	}
	if len(args) > 3 {
		args = args[:3]
	}
	return args
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
