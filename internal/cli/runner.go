package cli

import (
	"context"
	"fmt"

	"github.com/dyike/ArenaGo/config"
	"github.com/dyike/ArenaGo/internal/agents"
	"github.com/dyike/ArenaGo/internal/arena"
	"github.com/dyike/ArenaGo/internal/dataflows"
	"github.com/dyike/ArenaGo/internal/display"
	"github.com/dyike/ArenaGo/internal/logs"
	"github.com/dyike/ArenaGo/internal/models"
	"github.com/dyike/ArenaGo/internal/storage"
)

// Runner owns the long-lived pieces of an analysis session: the config,
// the run store and the market-data builder.
type Runner struct {
	cfg     *config.Config
	store   *storage.Store
	bundles *dataflows.BundleBuilder
}

// NewRunner opens the run store and wires the data layer.
func NewRunner(cfg *config.Config) (*Runner, error) {
	store, err := storage.NewStore(cfg.ResultsDBPath)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}
	return &Runner{
		cfg:     cfg,
		store:   store,
		bundles: dataflows.NewBundleBuilder(cfg),
	}, nil
}

// Close releases the store.
func (r *Runner) Close() error {
	return r.store.Close()
}

// Store exposes the run store for the history command.
func (r *Runner) Store() *storage.Store {
	return r.store
}

// Analyze runs one full tournament for the symbol: market data, entrant
// generation, bracket and synthesis, with live rendering and sqlite
// persistence along the way.
func (r *Runner) Analyze(ctx context.Context, symbol string) (*models.FinalRecommendation, error) {
	log := logs.Logger()

	symbol = dataflows.NormalizeSymbol(symbol)
	if err := dataflows.ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	display.Info(fmt.Sprintf("Fetching market data for %s...", symbol))
	bundle, err := r.bundles.Build(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("build market bundle: %w", err)
	}

	analystModel, err := agents.NewChatModel(ctx, r.cfg, r.cfg.AnalystLLM)
	if err != nil {
		return nil, fmt.Errorf("init analyst model: %w", err)
	}
	debateModel, err := agents.NewChatModel(ctx, r.cfg, r.cfg.DebateLLM)
	if err != nil {
		return nil, fmt.Errorf("init debate model: %w", err)
	}

	a := arena.New(r.cfg,
		agents.NewViewpointAgent(analystModel, r.cfg.TargetHorizonMonths),
		agents.NewDebateAgent(debateModel))

	recorder, err := storage.NewRecorder(ctx, r.store, symbol)
	if err != nil {
		return nil, fmt.Errorf("start run recorder: %w", err)
	}
	log.Info().Str("run", recorder.RunID()).Str("symbol", symbol).Msg("analysis run registered")

	display.Info(fmt.Sprintf("Generating %d analyst viewpoints...", len(models.DefaultProfiles())))

	events := make(chan models.Event, 64)
	type runOut struct {
		run *arena.RunResult
		err error
	}
	outCh := make(chan runOut, 1)
	go func() {
		run, err := a.Run(ctx, models.DefaultProfiles(), bundle, events)
		outCh <- runOut{run: run, err: err}
	}()

	for ev := range events {
		recorder.Record(ev)
		display.Render(ev)
	}
	out := <-outCh

	var rec *models.FinalRecommendation
	if out.run != nil {
		rec = out.run.Recommendation
	}
	recorder.Finish(rec, out.err)

	if out.err != nil {
		return nil, out.err
	}

	display.RenderRecommendation(rec)
	display.Success(fmt.Sprintf("Run stored as %s", recorder.RunID()))
	return rec, nil
}
