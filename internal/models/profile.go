package models

import "github.com/dyike/ArenaGo/consts"

// AnalystProfile identifies one of the eight fixed analyst personas that
// enter the tournament. Profiles are supplied by the caller and never
// modified by the core.
type AnalystProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
	Methodology string `json:"methodology"`
}

// DefaultProfiles returns the standard eight-analyst roster, one per
// methodology.
func DefaultProfiles() []AnalystProfile {
	return []AnalystProfile{
		{ID: "value-01", DisplayName: "Graham", Avatar: "🏛️", Methodology: consts.MethodologyValue},
		{ID: "growth-02", DisplayName: "Lynch", Avatar: "🚀", Methodology: consts.MethodologyGrowth},
		{ID: "technical-03", DisplayName: "Wyckoff", Avatar: "📈", Methodology: consts.MethodologyTechnical},
		{ID: "macro-04", DisplayName: "Dalio", Avatar: "🌍", Methodology: consts.MethodologyMacro},
		{ID: "sentiment-05", DisplayName: "Neill", Avatar: "💬", Methodology: consts.MethodologySentiment},
		{ID: "risk-06", DisplayName: "Taleb", Avatar: "🛡️", Methodology: consts.MethodologyRisk},
		{ID: "quant-07", DisplayName: "Simons", Avatar: "🧮", Methodology: consts.MethodologyQuant},
		{ID: "contrarian-08", DisplayName: "Templeton", Avatar: "🔄", Methodology: consts.MethodologyContrarian},
	}
}
