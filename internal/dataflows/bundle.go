package dataflows

import (
	"context"
	"fmt"
	"time"

	"github.com/dyike/ArenaGo/internal/logs"
)

// BundleBuilder assembles the market-data bundle fed to the analysts.
type BundleBuilder struct {
	config   *Config
	yahoo    *YahooFinanceClient
	news     *HeadlineClient
	longport *LongportClient
}

// NewBundleBuilder creates a bundle builder. The Longport source is
// attached only when credentials are configured.
func NewBundleBuilder(cfg *Config) *BundleBuilder {
	b := &BundleBuilder{
		config: cfg,
		yahoo:  NewYahooFinanceClient(cfg),
		news:   NewHeadlineClient(cfg),
	}

	if lp, err := NewLongportClient(cfg); err == nil {
		b.longport = lp
	}

	return b
}

// Build fetches everything the analysts need for one symbol. Quote and
// historical data are required; headlines and fundamentals degrade to
// empty values on failure.
func (b *BundleBuilder) Build(ctx context.Context, symbol string) (*MarketBundle, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)
	log := logs.Logger()

	bundle := &MarketBundle{
		Symbol: symbol,
		AsOf:   time.Now(),
	}

	quote, err := b.yahoo.GetQuote(symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}
	bundle.Quote = quote

	end := time.Now()
	start := end.AddDate(-1, 0, 0)
	candles, err := b.yahoo.GetHistoricalData(symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch historical data: %w", err)
	}
	bundle.Historical = candles

	if technicals, err := ComputeTechnicals(candles); err == nil {
		bundle.Technicals = technicals
	} else {
		log.Warn().Err(err).Str("symbol", symbol).Msg("indicator computation failed")
	}

	if fundamentals, err := b.yahoo.GetFundamentals(symbol); err == nil {
		bundle.Fundamentals = fundamentals
	} else {
		log.Warn().Err(err).Str("symbol", symbol).Msg("fundamentals unavailable")
	}

	if b.config.OnlineTools {
		if headlines, err := b.news.GetHeadlines(symbol, 20); err == nil {
			bundle.Headlines = headlines
			bundle.Sentiment = ScoreSentiment(headlines)
		} else {
			log.Warn().Err(err).Str("symbol", symbol).Msg("headline scrape failed")
		}
	}

	if b.longport != nil {
		if infos, err := b.longport.GetStaticInfo(ctx, []string{symbol}); err == nil && len(infos) > 0 {
			bundle.CompanyName = infos[0].NameEn
		}
	}

	return bundle, nil
}
