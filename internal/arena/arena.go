package arena

import (
	"context"
	"fmt"

	"github.com/dyike/ArenaGo/config"
	"github.com/dyike/ArenaGo/consts"
	"github.com/dyike/ArenaGo/internal/dataflows"
	"github.com/dyike/ArenaGo/internal/logs"
	"github.com/dyike/ArenaGo/internal/models"
)

// Arena is the top-level orchestrator: it generates the entrant field,
// runs the bracket, and folds the outcome into a recommendation.
type Arena struct {
	cfg         *config.Config
	coordinator *Coordinator
	scheduler   *Scheduler
}

// RunResult carries everything one tournament run produced.
type RunResult struct {
	Entrants       []*models.Viewpoint
	EntrantErrors  []EntrantError
	Tournament     *models.TournamentResult
	Recommendation *models.FinalRecommendation
}

// New wires an arena from the two LLM-facing capabilities and the config.
func New(cfg *config.Config, gen ViewpointGenerator, turns TurnGenerator) *Arena {
	return &Arena{
		cfg:         cfg,
		coordinator: NewCoordinator(gen, cfg.GenerationConcurrency),
		scheduler:   NewScheduler(NewEngine(turns, cfg.TurnsPerSide)),
	}
}

// Run executes the full pipeline for one symbol. The events channel, if
// non-nil, receives the ordered lifecycle stream; the caller owns the
// channel and must drain it. Run closes it before returning.
func (a *Arena) Run(ctx context.Context, profiles []models.AnalystProfile, market *dataflows.MarketBundle, events chan<- models.Event) (*RunResult, error) {
	if events != nil {
		defer close(events)
	}

	log := logs.Logger()
	log.Info().Str("symbol", market.Symbol).Int("profiles", len(profiles)).Msg("tournament run starting")

	tasks := make([]GenerationTask, 0, len(profiles))
	for _, p := range profiles {
		tasks = append(tasks, GenerationTask{Profile: p, Market: market})
	}

	outcome, err := a.coordinator.Generate(ctx, tasks, events)
	run := &RunResult{Entrants: outcome.Viewpoints, EntrantErrors: outcome.Errors}
	if err != nil {
		// a cancelled stream ends quietly; every other fatal path gets a
		// terminal event
		if ctx.Err() == nil {
			emit(events, models.Event{Type: consts.EventTournamentFailed, Err: err})
		}
		return run, err
	}

	if len(run.Entrants) < a.cfg.MinEntrants {
		log.Error().Int("entrants", len(run.Entrants)).Int("min", a.cfg.MinEntrants).
			Msg("too few entrants survived generation")
		err := fmt.Errorf("%w: %d of %d required", ErrInsufficientEntrants, len(run.Entrants), a.cfg.MinEntrants)
		emit(events, models.Event{Type: consts.EventTournamentFailed, Err: err})
		return run, err
	}

	tournament, err := a.scheduler.Run(ctx, market.Symbol, run.Entrants, events)
	if err != nil {
		return run, err
	}
	run.Tournament = tournament

	rec, err := Synthesize(run.Entrants, tournament, SynthesisOptions{MaxAllocationPct: a.cfg.MaxAllocationPct})
	if err != nil {
		return run, err
	}
	run.Recommendation = rec

	log.Info().Str("symbol", rec.Symbol).Str("stance", rec.Stance).
		Float64("confidence", rec.Confidence).Float64("consensus", rec.ConsensusStrength).
		Msg("tournament run finished")
	return run, nil
}
