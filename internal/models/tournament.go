package models

// TournamentResult is the completed bracket: every match grouped by round,
// plus the champion viewpoint. Champion is nil only for an incomplete
// tournament, which the scheduler never returns to callers.
type TournamentResult struct {
	Symbol        string     `json:"symbol"`
	Quarterfinals []*Match   `json:"quarterfinals"`
	Semifinals    []*Match   `json:"semifinals"`
	Final         *Match     `json:"final"`
	Champion      *Viewpoint `json:"champion"`
	AllMatches    []*Match   `json:"all_matches"`
}

// DissentingView records an entrant whose directional lean disagrees with
// the champion.
type DissentingView struct {
	ProfileID   string `json:"profile_id"`
	ProfileName string `json:"profile_name"`
	Stance      string `json:"stance"`
	Summary     string `json:"summary"`
}

// FinalRecommendation is the aggregate verdict synthesized from the full
// entrant field and the completed tournament.
type FinalRecommendation struct {
	Symbol                 string           `json:"symbol"`
	Stance                 string           `json:"stance"`
	Confidence             float64          `json:"confidence"`
	ConsensusStrength      float64          `json:"consensus_strength"`
	Target                 PriceTarget      `json:"target"`
	SuggestedAllocationPct float64          `json:"suggested_allocation_pct"`
	RiskLevel              string           `json:"risk_level"`
	TopBullArguments       []string         `json:"top_bull_arguments"`
	TopBearArguments       []string         `json:"top_bear_arguments"`
	DissentingViews        []DissentingView `json:"dissenting_views"`
}
