package arena

import (
	"time"

	"github.com/dyike/ArenaGo/internal/models"
)

// emit sends an event on the lifecycle stream. A nil channel disables
// emission. Sends block, so the consumer is expected to drain promptly.
func emit(events chan<- models.Event, ev models.Event) {
	if events == nil {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	events <- ev
}
