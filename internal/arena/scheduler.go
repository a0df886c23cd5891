package arena

import (
	"context"

	"github.com/dyike/ArenaGo/consts"
	"github.com/dyike/ArenaGo/internal/logs"
	"github.com/dyike/ArenaGo/internal/models"
)

// Scheduler drives the bracket round by round. Rounds are strictly gated:
// every match of a round completes before the next round starts. Matches
// inside a round run sequentially, which keeps the event stream ordered
// within and across rounds.
type Scheduler struct {
	engine *Engine
}

// NewScheduler creates a scheduler over the given debate engine.
func NewScheduler(engine *Engine) *Scheduler {
	return &Scheduler{engine: engine}
}

// Run builds the bracket and plays every round to completion, emitting
// match-started events plus the engine's turn/match events. Any match
// failure aborts the whole tournament; no partial result is returned.
func (s *Scheduler) Run(ctx context.Context, symbol string, entrants []*models.Viewpoint, events chan<- models.Event) (*models.TournamentResult, error) {
	log := logs.Logger()

	bracket, err := BuildBracket(symbol, entrants)
	if err != nil {
		emit(events, models.Event{Type: consts.EventTournamentFailed, Err: err})
		return nil, err
	}
	if len(bracket.Excluded) > 0 {
		log.Warn().Int("excluded", len(bracket.Excluded)).Int("field", len(bracket.Seeds)).
			Msg("entrant count is not a power of two, low seeds sit out the bracket")
	}

	result := &models.TournamentResult{Symbol: symbol}
	current := bracket.FirstRound

	for {
		winners := make([]*models.Viewpoint, 0, len(current))
		for _, match := range current {
			emit(events, models.Event{
				Type:         consts.EventMatchStarted,
				Round:        match.Round,
				IndexInRound: match.IndexInRound,
				Match:        match,
			})
			log.Debug().Str("round", match.Round).Int("index", match.IndexInRound).
				Str("bull", match.Bull.ProfileID).Str("bear", match.Bear.ProfileID).Msg("match started")

			if err := s.engine.Run(ctx, symbol, match, events); err != nil {
				emit(events, models.Event{Type: consts.EventTournamentFailed, Err: err})
				return nil, err
			}
			winners = append(winners, match.WinnerViewpoint())
		}

		s.recordRound(result, current)
		if len(current) == 1 {
			break
		}
		current = NextRound(winners)
	}

	result.Champion = result.Final.WinnerViewpoint()
	emit(events, models.Event{Type: consts.EventTournamentCompleted, Result: result})
	return result, nil
}

func (s *Scheduler) recordRound(result *models.TournamentResult, matches []*models.Match) {
	switch matches[0].Round {
	case consts.RoundQuarterfinal:
		result.Quarterfinals = matches
	case consts.RoundSemifinal:
		result.Semifinals = matches
	default:
		result.Final = matches[0]
	}
	result.AllMatches = append(result.AllMatches, matches...)
}
