package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dyike/ArenaGo/consts"
	"github.com/dyike/ArenaGo/internal/logs"
	"github.com/dyike/ArenaGo/internal/models"
)

// Recorder persists tournament lifecycle events asynchronously so the
// hot path never waits on sqlite. Events are applied in arrival order by
// a single writer goroutine; persistence errors are logged, not
// propagated, because a failed write must not abort a running
// tournament.
type Recorder struct {
	store *Store
	runID string

	events chan models.Event
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewRecorder registers a new run and starts the writer loop.
func NewRecorder(ctx context.Context, store *Store, symbol string) (*Recorder, error) {
	runID := uuid.NewString()
	if err := store.CreateRun(ctx, runID, symbol, time.Now()); err != nil {
		return nil, err
	}

	r := &Recorder{
		store:  store,
		runID:  runID,
		events: make(chan models.Event, 512),
		done:   make(chan struct{}),
	}
	r.wg.Add(1)
	go r.loop()
	return r, nil
}

// RunID returns the identifier the run is stored under.
func (r *Recorder) RunID() string {
	return r.runID
}

// Record enqueues one event. It never blocks the caller: when the buffer
// is full the send is retried from a goroutine, trading strict write
// ordering for liveness. After Close it is a no-op. The events channel is
// never closed, so a late Record can only land in the buffer, not panic.
func (r *Recorder) Record(ev models.Event) {
	select {
	case <-r.done:
		return
	default:
	}

	select {
	case <-r.done:
	case r.events <- ev:
	default:
		go func() {
			select {
			case <-r.done:
			case r.events <- ev:
			}
		}()
	}
}

func (r *Recorder) loop() {
	defer r.wg.Done()

	for {
		select {
		case ev := <-r.events:
			r.apply(ev)
		case <-r.done:
			// drain what was buffered before shutdown, then stop
			for {
				select {
				case ev := <-r.events:
					r.apply(ev)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) apply(ev models.Event) {
	ctx := context.Background()

	var err error
	switch ev.Type {
	case consts.EventEntrantCompleted:
		if ev.Viewpoint != nil {
			err = r.store.SaveViewpoint(ctx, r.runID, ev.Viewpoint)
		}
	case consts.EventMatchCompleted:
		if ev.Match != nil {
			err = r.store.SaveMatch(ctx, r.runID, ev.Match)
		}
	}
	if err != nil {
		logs.Logger().Warn().Str("run", r.runID).Str("event", ev.Type).Err(err).Msg("persist event failed")
	}
}

// Finish drains pending events and finalizes the run row. rec is nil
// when the tournament failed.
func (r *Recorder) Finish(rec *models.FinalRecommendation, runErr error) {
	r.Close()

	status := StatusDone
	if runErr != nil {
		status = StatusError
	}
	if err := r.store.FinishRun(context.Background(), r.runID, status, rec); err != nil {
		logs.Logger().Warn().Str("run", r.runID).Err(err).Msg("finalize run failed")
	}
}

// Close stops the writer after draining queued events. Safe to call more
// than once.
func (r *Recorder) Close() {
	r.once.Do(func() {
		close(r.done)
		r.wg.Wait()
	})
}
