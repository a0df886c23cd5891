package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/shopspring/decimal"

	"github.com/dyike/ArenaGo/internal/dataflows"
	"github.com/dyike/ArenaGo/internal/models"
)

// ViewpointAgent generates one analyst's thesis with a chat model. It
// implements the arena's ViewpointGenerator capability.
type ViewpointAgent struct {
	model         model.BaseChatModel
	horizonMonths int
}

// NewViewpointAgent wires a viewpoint agent over the given chat model.
func NewViewpointAgent(m model.BaseChatModel, horizonMonths int) *ViewpointAgent {
	if horizonMonths <= 0 {
		horizonMonths = 12
	}
	return &ViewpointAgent{model: m, horizonMonths: horizonMonths}
}

type viewpointPayload struct {
	Stance     string  `json:"stance"`
	Confidence float64 `json:"confidence"`
	Target     struct {
		Bull decimal.Decimal `json:"bull"`
		Base decimal.Decimal `json:"base"`
		Bear decimal.Decimal `json:"bear"`
	} `json:"target"`
	BullCase  []string `json:"bull_case"`
	BearCase  []string `json:"bear_case"`
	Catalysts []string `json:"catalysts"`
	Summary   string   `json:"summary"`
}

// Generate asks the model for the profile's thesis and maps the reply
// onto a viewpoint. Shape and range validation is left to the caller.
func (a *ViewpointAgent) Generate(ctx context.Context, profile models.AnalystProfile, market *dataflows.MarketBundle) (*models.Viewpoint, error) {
	messages := []*schema.Message{
		schema.SystemMessage(viewpointSystemPrompt(profile, a.horizonMonths)),
		schema.UserMessage(renderMarket(market)),
	}

	reply, err := a.model.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("viewpoint generation for %s: %w", profile.ID, err)
	}

	raw, err := extractJSON(reply.Content)
	if err != nil {
		return nil, fmt.Errorf("viewpoint reply for %s: %w", profile.ID, err)
	}

	var payload viewpointPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("viewpoint reply for %s: %w", profile.ID, err)
	}

	return &models.Viewpoint{
		ProfileID:   profile.ID,
		ProfileName: profile.DisplayName,
		Methodology: profile.Methodology,
		Symbol:      market.Symbol,
		Stance:      payload.Stance,
		Confidence:  payload.Confidence,
		Target: models.PriceTarget{
			Bull:          payload.Target.Bull,
			Base:          payload.Target.Base,
			Bear:          payload.Target.Bear,
			HorizonMonths: a.horizonMonths,
		},
		BullCase:  payload.BullCase,
		BearCase:  payload.BearCase,
		Catalysts: payload.Catalysts,
		Summary:   payload.Summary,
	}, nil
}
