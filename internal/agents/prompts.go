package agents

import (
	"fmt"
	"strings"

	"github.com/dyike/ArenaGo/consts"
	"github.com/dyike/ArenaGo/internal/dataflows"
	"github.com/dyike/ArenaGo/internal/models"
)

// personaBlurb describes how each methodology reasons. The blurb anchors
// the system prompt so the eight entrants argue from genuinely different
// angles instead of converging on one generic thesis.
func personaBlurb(methodology string) string {
	switch methodology {
	case consts.MethodologyValue:
		return "You are a value investor. You care about intrinsic value, margin of safety, durable competitive advantages and buying below fair value. You distrust hype and momentum."
	case consts.MethodologyGrowth:
		return "You are a growth investor. You look for accelerating revenue, expanding addressable markets and compounding potential, and you accept rich multiples when the runway justifies them."
	case consts.MethodologyTechnical:
		return "You are a technical analyst. You reason from price action, trend structure, moving averages, momentum and volume. Fundamentals matter to you only as far as the chart confirms them."
	case consts.MethodologyMacro:
		return "You are a macro strategist. You reason top-down from rates, inflation, currency and cycle positioning to how this single name is exposed to the macro regime."
	case consts.MethodologySentiment:
		return "You are a sentiment analyst. You weigh news flow, narrative shifts and crowd positioning, looking for gaps between the story being told and the price."
	case consts.MethodologyRisk:
		return "You are a risk-first investor. You start from what can go wrong: tail risks, leverage, concentration, fragility. You only accept upside that survives your downside analysis."
	case consts.MethodologyQuant:
		return "You are a quantitative analyst. You argue from measurable factors, statistical tendencies and base rates, and you flag any claim that lacks numbers behind it."
	case consts.MethodologyContrarian:
		return "You are a contrarian investor. You look for consensus crowding and ask what the market is mispricing by being too comfortable on either side."
	}
	return "You are an investment analyst."
}

// renderMarket flattens the bundle into the plain-text digest both
// prompts embed. Missing sections are simply omitted.
func renderMarket(b *dataflows.MarketBundle) string {
	var sb strings.Builder

	name := b.CompanyName
	if name == "" {
		name = b.Symbol
	}
	fmt.Fprintf(&sb, "Company: %s (%s)\n", name, b.Symbol)
	if !b.AsOf.IsZero() {
		fmt.Fprintf(&sb, "Data as of: %s\n", b.AsOf.Format("2006-01-02"))
	}

	if q := b.Quote; q != nil {
		fmt.Fprintf(&sb, "\nQuote: price %s, prev close %s, day range %s-%s, volume %d, change %.2f%%\n",
			q.Price, q.PrevClose, q.Low, q.High, q.Volume, q.ChangePercent)
	}
	if f := b.Fundamentals; f != nil {
		fmt.Fprintf(&sb, "\nFundamentals: market cap %d, trailing P/E %.2f, forward P/E %.2f, EPS %.2f, dividend yield %.4f, 52wk range %.2f-%.2f\n",
			f.MarketCap, f.TrailingPE, f.ForwardPE, f.EPSTrailing, f.DividendYield, f.FiftyTwoWkLow, f.FiftyTwoWkHigh)
	}
	if t := b.Technicals; t != nil {
		fmt.Fprintf(&sb, "\nTechnicals: SMA50 %.2f, SMA200 %.2f, EMA10 %.2f, RSI14 %.2f, MACD %.4f (signal %.4f), trend %s\n",
			t.SMA50, t.SMA200, t.EMA10, t.RSI14, t.MACD, t.MACDSignal, t.Trend)
	}
	if len(b.Headlines) > 0 {
		sb.WriteString("\nRecent headlines:\n")
		for i, h := range b.Headlines {
			if i >= 10 {
				break
			}
			fmt.Fprintf(&sb, "- %s (%s)\n", h.Title, h.Source)
		}
	}
	if s := b.Sentiment; s != nil {
		fmt.Fprintf(&sb, "\nHeadline sentiment: %s (score %.2f, %d positive / %d negative / %d neutral)\n",
			s.Label, s.Score, s.Positive, s.Negative, s.Neutral)
	}
	if n := len(b.Historical); n > 0 {
		first, last := b.Historical[0], b.Historical[n-1]
		fmt.Fprintf(&sb, "\nHistory: %d daily bars, %s close %s to %s close %s\n",
			n, first.Date.Format("2006-01-02"), first.Close, last.Date.Format("2006-01-02"), last.Close)
	}

	return sb.String()
}

func viewpointSystemPrompt(profile models.AnalystProfile, horizonMonths int) string {
	return fmt.Sprintf(`%s

Produce your complete investment thesis for the company described by the user. Your price targets are for a %d-month horizon.

Respond with a single JSON object and nothing else:
{
  "stance": "strong_buy" | "buy" | "hold" | "sell" | "strong_sell",
  "confidence": <0-100>,
  "target": {"bull": <price>, "base": <price>, "bear": <price>},
  "bull_case": ["..."],
  "bear_case": ["..."],
  "catalysts": ["..."],
  "summary": "one-paragraph thesis"
}

Rules: bear <= base <= bull, prices positive, bull_case and bear_case each need at least one entry. Stay true to your methodology even when the data cuts against the crowd.`,
		personaBlurb(profile.Methodology), horizonMonths)
}

func turnSystemPrompt(symbol, round, side string, own, opponent *models.Viewpoint) string {
	position := "argue that the stock should be bought"
	if side == consts.SideBear {
		position = "argue that the stock should be avoided or sold"
	}
	return fmt.Sprintf(`You are %s (%s methodology) debating %s (%s methodology) about %s in the %s round of an investment tournament.

You have been assigned the %s side: %s, regardless of your original stance. Argue the assigned side using your own methodology and the strongest evidence available to it.

Your original thesis summary: %s
Your opponent's thesis summary: %s

Respond with a single JSON object and nothing else:
{
  "content": "your argument for this turn, directly engaging the opponent's last point",
  "data_points": ["specific figures or facts you cite"],
  "argument_strength": <0-100, your honest self-assessment of this turn>
}`,
		own.ProfileName, own.Methodology, opponent.ProfileName, opponent.Methodology,
		symbol, round, side, position, own.Summary, opponent.Summary)
}

// transcript renders the prior turns as alternating speaker lines.
func transcript(prior []models.Turn) string {
	if len(prior) == 0 {
		return "The debate is just beginning. Present your opening argument."
	}
	var sb strings.Builder
	sb.WriteString("Debate so far:\n")
	for _, t := range prior {
		fmt.Fprintf(&sb, "[%s] %s\n", t.Side, t.Content)
	}
	sb.WriteString("\nPresent your next argument.")
	return sb.String()
}
