package consts

// Bracket rounds
const (
	RoundQuarterfinal = "quarterfinal"
	RoundSemifinal    = "semifinal"
	RoundFinal        = "final"
)

// Debate sides
const (
	SideBull = "bull"
	SideBear = "bear"
)

// Stances a viewpoint can take
const (
	StanceStrongBuy  = "strong_buy"
	StanceBuy        = "buy"
	StanceHold       = "hold"
	StanceSell       = "sell"
	StanceStrongSell = "strong_sell"
)

// Analyst methodologies
const (
	MethodologyValue      = "value"
	MethodologyGrowth     = "growth"
	MethodologyTechnical  = "technical"
	MethodologyMacro      = "macro"
	MethodologySentiment  = "sentiment"
	MethodologyRisk       = "risk"
	MethodologyQuant      = "quant"
	MethodologyContrarian = "contrarian"
)

// Risk levels attached to the final recommendation
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)
