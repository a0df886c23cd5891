package arena

import (
	"context"

	"github.com/dyike/ArenaGo/internal/dataflows"
	"github.com/dyike/ArenaGo/internal/models"
)

// ViewpointGenerator produces one analyst's investment thesis from the
// market bundle. Implementations may fail; the coordinator records the
// failure and continues the batch.
type ViewpointGenerator interface {
	Generate(ctx context.Context, profile models.AnalystProfile, market *dataflows.MarketBundle) (*models.Viewpoint, error)
}

// MatchContext is the fixed context handed to the turn generator for
// every turn of one match.
type MatchContext struct {
	Symbol       string
	Round        string
	IndexInRound int
	Bull         *models.Viewpoint
	Bear         *models.Viewpoint
}

// TurnGenerator produces the next dialogue turn for the given side, with
// the full prior turn history as context. Turn generation failures are
// fatal to the match.
type TurnGenerator interface {
	NextTurn(ctx context.Context, mc MatchContext, side string, prior []models.Turn) (*models.Turn, error)
}
