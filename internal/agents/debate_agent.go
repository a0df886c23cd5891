package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/dyike/ArenaGo/consts"
	"github.com/dyike/ArenaGo/internal/arena"
	"github.com/dyike/ArenaGo/internal/models"
)

// DebateAgent produces debate turns with a chat model. It implements the
// arena's TurnGenerator capability.
type DebateAgent struct {
	model model.BaseChatModel
}

// NewDebateAgent wires a debate agent over the given chat model.
func NewDebateAgent(m model.BaseChatModel) *DebateAgent {
	return &DebateAgent{model: m}
}

type turnPayload struct {
	Content          string   `json:"content"`
	DataPoints       []string `json:"data_points"`
	ArgumentStrength float64  `json:"argument_strength"`
}

// NextTurn asks the model for the side's next argument given the full
// prior transcript.
func (a *DebateAgent) NextTurn(ctx context.Context, mc arena.MatchContext, side string, prior []models.Turn) (*models.Turn, error) {
	own, opponent := mc.Bull, mc.Bear
	if side == consts.SideBear {
		own, opponent = mc.Bear, mc.Bull
	}

	messages := []*schema.Message{
		schema.SystemMessage(turnSystemPrompt(mc.Symbol, mc.Round, side, own, opponent)),
		schema.UserMessage(transcript(prior)),
	}

	reply, err := a.model.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("turn generation for %s/%s: %w", mc.Round, side, err)
	}

	raw, err := extractJSON(reply.Content)
	if err != nil {
		return nil, fmt.Errorf("turn reply for %s/%s: %w", mc.Round, side, err)
	}

	var payload turnPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("turn reply for %s/%s: %w", mc.Round, side, err)
	}

	return &models.Turn{
		ID:               uuid.NewString(),
		Side:             side,
		Content:          payload.Content,
		DataPoints:       payload.DataPoints,
		ArgumentStrength: payload.ArgumentStrength,
		Timestamp:        time.Now(),
	}, nil
}
