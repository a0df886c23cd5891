package arena

import (
	"context"
	"fmt"

	"github.com/dyike/ArenaGo/consts"
	"github.com/dyike/ArenaGo/internal/dataflows"
	"github.com/dyike/ArenaGo/internal/logs"
	"github.com/dyike/ArenaGo/internal/models"
)

// DefaultConcurrency is the generation worker-pool bound.
const DefaultConcurrency = 4

// GenerationTask pairs one analyst profile with the market bundle it
// analyzes.
type GenerationTask struct {
	Profile models.AnalystProfile
	Market  *dataflows.MarketBundle
}

// GenerationOutcome is the result of one generation batch. Viewpoints are
// ordered by completion, not submission; Errors collects every failed
// entrant.
type GenerationOutcome struct {
	Viewpoints []*models.Viewpoint
	Errors     []EntrantError
}

// Coordinator runs entrant generation with bounded concurrency. Failures
// of individual entrants never abort the batch; the batch fails only when
// nothing succeeds.
type Coordinator struct {
	gen         ViewpointGenerator
	concurrency int
}

// NewCoordinator creates a coordinator running at most concurrency
// generations at once.
func NewCoordinator(gen ViewpointGenerator, concurrency int) *Coordinator {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Coordinator{gen: gen, concurrency: concurrency}
}

type genResult struct {
	viewpoint *models.Viewpoint
	err       *EntrantError
}

// Generate runs all tasks and returns the successful viewpoints in
// completion order together with the per-entrant errors. Events carry a
// running (completed, total) counter.
//
// Cancelling ctx stops event emission immediately and abandons in-flight
// generations without awaiting them; viewpoints collected so far are
// still returned, alongside ctx.Err().
func (c *Coordinator) Generate(ctx context.Context, tasks []GenerationTask, events chan<- models.Event) (*GenerationOutcome, error) {
	total := len(tasks)
	outcome := &GenerationOutcome{}
	if total == 0 {
		return outcome, fmt.Errorf("%w: no generation tasks", ErrInsufficientEntrants)
	}

	log := logs.Logger()

	// Buffered to len(tasks) so abandoned workers never block on send.
	results := make(chan genResult, total)
	sem := make(chan struct{}, c.concurrency)

	for _, task := range tasks {
		go func(task GenerationTask) {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results <- genResult{err: &EntrantError{ProfileID: task.Profile.ID, Err: ctx.Err()}}
				return
			}
			defer func() { <-sem }()

			vp, err := c.gen.Generate(ctx, task.Profile, task.Market)
			if err == nil {
				if vp == nil {
					err = fmt.Errorf("%w: generator returned nil viewpoint", ErrMalformedResponse)
				} else if verr := vp.Validate(); verr != nil {
					err = fmt.Errorf("%w: %v", ErrMalformedResponse, verr)
				}
			}
			if err != nil {
				results <- genResult{err: &EntrantError{ProfileID: task.Profile.ID, Err: err}}
				return
			}
			results <- genResult{viewpoint: vp}
		}(task)
	}

	for received := 0; received < total; received++ {
		select {
		case <-ctx.Done():
			log.Debug().Int("completed", len(outcome.Viewpoints)).Msg("generation cancelled")
			return outcome, ctx.Err()
		case res := <-results:
			if ctx.Err() != nil {
				log.Debug().Int("completed", len(outcome.Viewpoints)).Msg("generation cancelled")
				return outcome, ctx.Err()
			}
			if res.err != nil {
				outcome.Errors = append(outcome.Errors, *res.err)
				log.Warn().Str("profile", res.err.ProfileID).Err(res.err.Err).Msg("entrant generation failed")
				emit(events, models.Event{
					Type:      consts.EventEntrantFailed,
					ProfileID: res.err.ProfileID,
					Err:       res.err.Err,
					Completed: len(outcome.Viewpoints),
					Total:     total,
				})
				continue
			}

			outcome.Viewpoints = append(outcome.Viewpoints, res.viewpoint)
			emit(events, models.Event{
				Type:      consts.EventEntrantCompleted,
				Viewpoint: res.viewpoint,
				ProfileID: res.viewpoint.ProfileID,
				Completed: len(outcome.Viewpoints),
				Total:     total,
			})
		}
	}

	if len(outcome.Viewpoints) == 0 {
		return outcome, fmt.Errorf("%w: all %d generations failed", ErrInsufficientEntrants, total)
	}
	return outcome, nil
}
