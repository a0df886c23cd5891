package display

import (
	"fmt"
	"strings"

	"github.com/dyike/ArenaGo/consts"
	"github.com/dyike/ArenaGo/internal/models"
)

// Banner shows the startup banner.
func Banner() {
	banner := `
 █████╗ ██████╗ ███████╗███╗   ██╗ █████╗  ██████╗  ██████╗
██╔══██╗██╔══██╗██╔════╝████╗  ██║██╔══██╗██╔════╝ ██╔═══██╗
███████║██████╔╝█████╗  ██╔██╗ ██║███████║██║  ███╗██║   ██║
██╔══██║██╔══██╗██╔══╝  ██║╚██╗██║██╔══██║██║   ██║██║   ██║
██║  ██║██║  ██║███████╗██║ ╚████║██║  ██║╚██████╔╝╚██████╔╝
╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═══╝╚═╝  ╚═╝ ╚═════╝  ╚═════╝

        🏟️  Eight analysts enter. One thesis leaves.
`
	fmt.Print(titleStyle.Render(banner))
	fmt.Println()
}

// Error shows an error message.
func Error(err error) {
	fmt.Println(errorStyle.Render("❌ " + err.Error()))
}

// Success shows a success message.
func Success(message string) {
	fmt.Println(successStyle.Render("✅ " + message))
}

// Info shows an info message.
func Info(message string) {
	fmt.Println(infoStyle.Render("ℹ️  " + message))
}

// Follow consumes the tournament event stream and renders it live. It
// returns when the channel closes.
func Follow(events <-chan models.Event) {
	for ev := range events {
		Render(ev)
	}
}

// Render draws one lifecycle event.
func Render(ev models.Event) {
	switch ev.Type {
	case consts.EventEntrantCompleted:
		vp := ev.Viewpoint
		fmt.Printf("  [%d/%d] %s  %s (confidence %.0f)\n",
			ev.Completed, ev.Total, vp.ProfileName, stanceLabel(vp.Stance), vp.Confidence)
	case consts.EventEntrantFailed:
		fmt.Printf("  [%d/%d] %s\n",
			ev.Completed, ev.Total, dimStyle.Render(fmt.Sprintf("%s failed: %v", ev.ProfileID, ev.Err)))
	case consts.EventMatchStarted:
		m := ev.Match
		fmt.Printf("\n⚔️  %s %d: %s vs %s\n",
			strings.ToUpper(ev.Round), ev.IndexInRound+1,
			bullStyle.Render(m.Bull.ProfileName), bearStyle.Render(m.Bear.ProfileName))
	case consts.EventTurnCompleted:
		t := ev.Turn
		style := bullStyle
		if t.Side == consts.SideBear {
			style = bearStyle
		}
		fmt.Printf("  %s %s\n", style.Render("["+t.Side+"]"), truncate(t.Content, 100))
	case consts.EventMatchCompleted:
		m := ev.Match
		fmt.Printf("  🏆 %s wins (%.1f vs %.1f)\n",
			winnerStyle.Render(m.WinnerViewpoint().ProfileName),
			m.Scores.BullTotal(), m.Scores.BearTotal())
	case consts.EventTournamentCompleted:
		RenderBracket(ev.Result)
	case consts.EventTournamentFailed:
		Error(fmt.Errorf("tournament failed: %v", ev.Err))
	}
}

// RenderBracket draws the completed bracket.
func RenderBracket(result *models.TournamentResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🏟️  Tournament bracket for %s\n\n", result.Symbol)

	renderRound := func(name string, matches []*models.Match) {
		if len(matches) == 0 {
			return
		}
		sb.WriteString(name + ":\n")
		for _, m := range matches {
			winner := "?"
			if vp := m.WinnerViewpoint(); vp != nil {
				winner = vp.ProfileName
			}
			fmt.Fprintf(&sb, "  %s vs %s  →  %s (%.1f - %.1f)\n",
				m.Bull.ProfileName, m.Bear.ProfileName, winner,
				m.Scores.BullTotal(), m.Scores.BearTotal())
		}
		sb.WriteString("\n")
	}

	renderRound("Quarterfinals", result.Quarterfinals)
	renderRound("Semifinals", result.Semifinals)
	if result.Final != nil {
		renderRound("Final", []*models.Match{result.Final})
	}
	if result.Champion != nil {
		fmt.Fprintf(&sb, "👑 Champion: %s (%s)", result.Champion.ProfileName, stanceLabel(result.Champion.Stance))
	}

	fmt.Println(panelStyle.Render(sb.String()))
}

// RenderRecommendation draws the final recommendation panel.
func RenderRecommendation(rec *models.FinalRecommendation) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "📊 Recommendation for %s\n\n", rec.Symbol)
	fmt.Fprintf(&sb, "Stance:      %s\n", stanceLabel(rec.Stance))
	fmt.Fprintf(&sb, "Confidence:  %.1f / 100\n", rec.Confidence)
	fmt.Fprintf(&sb, "Consensus:   %.1f%% of the field leans the same way\n", rec.ConsensusStrength)
	fmt.Fprintf(&sb, "Risk level:  %s\n", rec.RiskLevel)
	fmt.Fprintf(&sb, "Allocation:  %.1f%% of portfolio\n", rec.SuggestedAllocationPct)
	fmt.Fprintf(&sb, "Targets:     bear %s / base %s / bull %s over %d months\n",
		rec.Target.Bear, rec.Target.Base, rec.Target.Bull, rec.Target.HorizonMonths)

	if len(rec.TopBullArguments) > 0 {
		sb.WriteString("\n" + bullStyle.Render("Top bull arguments:") + "\n")
		for _, a := range rec.TopBullArguments {
			fmt.Fprintf(&sb, "  • %s\n", truncate(a, 120))
		}
	}
	if len(rec.TopBearArguments) > 0 {
		sb.WriteString("\n" + bearStyle.Render("Top bear arguments:") + "\n")
		for _, a := range rec.TopBearArguments {
			fmt.Fprintf(&sb, "  • %s\n", truncate(a, 120))
		}
	}
	if len(rec.DissentingViews) > 0 {
		sb.WriteString("\n" + dimStyle.Render("Dissenting views:") + "\n")
		for _, d := range rec.DissentingViews {
			fmt.Fprintf(&sb, "  • %s (%s): %s\n", d.ProfileName, stanceLabel(d.Stance), truncate(d.Summary, 90))
		}
	}

	fmt.Println(panelStyle.Render(sb.String()))
}

func stanceLabel(stance string) string {
	switch stance {
	case consts.StanceStrongBuy:
		return "STRONG BUY 🚀"
	case consts.StanceBuy:
		return "BUY 📈"
	case consts.StanceHold:
		return "HOLD ⏸️"
	case consts.StanceSell:
		return "SELL 📉"
	case consts.StanceStrongSell:
		return "STRONG SELL 🔻"
	}
	return strings.ToUpper(stance)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
