package dataflows

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dyike/ArenaGo/config"
)

// Config is an alias for the main application config
type Config = config.Config

// Candle is one daily price bar.
type Candle struct {
	Symbol string          `json:"symbol"`
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// Quote is a current market snapshot.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	Open          decimal.Decimal `json:"open"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	PrevClose     decimal.Decimal `json:"prev_close"`
	Volume        int64           `json:"volume"`
	ChangePercent float64         `json:"change_percent"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Fundamentals carries the valuation snapshot the quote source exposes.
type Fundamentals struct {
	MarketCap      int64   `json:"market_cap"`
	TrailingPE     float64 `json:"trailing_pe"`
	ForwardPE      float64 `json:"forward_pe"`
	EPSTrailing    float64 `json:"eps_trailing"`
	DividendYield  float64 `json:"dividend_yield"`
	FiftyTwoWkHigh float64 `json:"fifty_two_wk_high"`
	FiftyTwoWkLow  float64 `json:"fifty_two_wk_low"`
}

// Technicals are the locally computed indicator values for the latest bar.
type Technicals struct {
	SMA50      float64 `json:"sma_50"`
	SMA200     float64 `json:"sma_200"`
	EMA10      float64 `json:"ema_10"`
	RSI14      float64 `json:"rsi_14"`
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	Trend      string  `json:"trend"`
}

// Headline is one scraped news item.
type Headline struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// SentimentSummary is a naive tally over recent headlines.
type SentimentSummary struct {
	Positive int     `json:"positive"`
	Negative int     `json:"negative"`
	Neutral  int     `json:"neutral"`
	Score    float64 `json:"score"` // -1..1
	Label    string  `json:"label"`
}

// MarketBundle is the opaque market-data package handed to the generation
// capability. The tournament core passes it through unmodified.
type MarketBundle struct {
	Symbol       string            `json:"symbol"`
	CompanyName  string            `json:"company_name,omitempty"`
	AsOf         time.Time         `json:"as_of"`
	Quote        *Quote            `json:"quote"`
	Fundamentals *Fundamentals     `json:"fundamentals"`
	Technicals   *Technicals       `json:"technicals"`
	Headlines    []Headline        `json:"headlines"`
	Sentiment    *SentimentSummary `json:"sentiment"`
	Historical   []Candle          `json:"historical"`
}
