package agents

import (
	"context"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/ArenaGo/consts"
	"github.com/dyike/ArenaGo/internal/arena"
	"github.com/dyike/ArenaGo/internal/dataflows"
	"github.com/dyike/ArenaGo/internal/models"
)

// fakeModel returns a canned reply and records the messages it saw.
type fakeModel struct {
	reply string
	err   error
	seen  []*schema.Message
}

func (f *fakeModel) Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.seen = in
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("not implemented")
}

func testProfile() models.AnalystProfile {
	return models.AnalystProfile{
		ID:          "value-01",
		DisplayName: "Graham",
		Methodology: consts.MethodologyValue,
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, false},
		{"fenced", "Here you go:\n```json\n{\"a\":1}\n```", `{"a":1}`, false},
		{"prose around", `Sure. {"a":1} Hope that helps!`, `{"a":1}`, false},
		{"no object", "I cannot answer that.", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractJSON(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestViewpointAgentGenerate(t *testing.T) {
	fake := &fakeModel{reply: "```json\n" + `{
		"stance": "buy",
		"confidence": 72.5,
		"target": {"bull": 250.50, "base": 220, "bear": 180},
		"bull_case": ["cheap vs history"],
		"bear_case": ["cyclical peak"],
		"catalysts": ["buyback"],
		"summary": "undervalued quality"
	}` + "\n```"}

	agent := NewViewpointAgent(fake, 12)
	vp, err := agent.Generate(context.Background(), testProfile(), &dataflows.MarketBundle{Symbol: "AAPL"})
	require.NoError(t, err)

	assert.Equal(t, "value-01", vp.ProfileID)
	assert.Equal(t, "Graham", vp.ProfileName)
	assert.Equal(t, "AAPL", vp.Symbol)
	assert.Equal(t, consts.StanceBuy, vp.Stance)
	assert.InDelta(t, 72.5, vp.Confidence, 1e-9)
	assert.Equal(t, "250.5", vp.Target.Bull.String())
	assert.Equal(t, 12, vp.Target.HorizonMonths)
	require.NoError(t, vp.Validate())

	// system prompt carries the persona, user prompt the market digest
	require.Len(t, fake.seen, 2)
	assert.Contains(t, fake.seen[0].Content, "value investor")
	assert.Contains(t, fake.seen[1].Content, "AAPL")
}

func TestViewpointAgentMalformedReply(t *testing.T) {
	agent := NewViewpointAgent(&fakeModel{reply: "no thesis today"}, 12)
	_, err := agent.Generate(context.Background(), testProfile(), &dataflows.MarketBundle{Symbol: "AAPL"})
	assert.Error(t, err)
}

func TestDebateAgentNextTurn(t *testing.T) {
	fake := &fakeModel{reply: `{
		"content": "valuation leaves no margin of safety",
		"data_points": ["P/E 34", "FCF yield 2.1%"],
		"argument_strength": 77
	}`}

	bull := &models.Viewpoint{ProfileID: "growth-02", ProfileName: "Lynch", Methodology: consts.MethodologyGrowth, Summary: "growth runway"}
	bear := &models.Viewpoint{ProfileID: "value-01", ProfileName: "Graham", Methodology: consts.MethodologyValue, Summary: "overvalued"}
	mc := arena.MatchContext{Symbol: "AAPL", Round: consts.RoundFinal, Bull: bull, Bear: bear}

	agent := NewDebateAgent(fake)
	turn, err := agent.NextTurn(context.Background(), mc, consts.SideBear, []models.Turn{
		{Side: consts.SideBull, Content: "the runway is long"},
	})
	require.NoError(t, err)

	assert.Equal(t, consts.SideBear, turn.Side)
	assert.Equal(t, "valuation leaves no margin of safety", turn.Content)
	assert.Len(t, turn.DataPoints, 2)
	assert.InDelta(t, 77, turn.ArgumentStrength, 1e-9)
	assert.NotEmpty(t, turn.ID)
	assert.False(t, turn.Timestamp.IsZero())

	// the bear argues as Graham against Lynch and sees the transcript
	assert.Contains(t, fake.seen[0].Content, "Graham")
	assert.Contains(t, fake.seen[1].Content, "the runway is long")
}

func TestDebateAgentModelFailure(t *testing.T) {
	agent := NewDebateAgent(&fakeModel{err: fmt.Errorf("timeout")})
	mc := arena.MatchContext{
		Symbol: "AAPL", Round: consts.RoundFinal,
		Bull: &models.Viewpoint{ProfileName: "a"}, Bear: &models.Viewpoint{ProfileName: "b"},
	}
	_, err := agent.NextTurn(context.Background(), mc, consts.SideBull, nil)
	assert.Error(t, err)
}
