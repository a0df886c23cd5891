package dataflows

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
)

// YahooFinanceClient handles Yahoo Finance data operations
type YahooFinanceClient struct {
	cache *CacheManager
}

// NewYahooFinanceClient creates a new Yahoo Finance client
func NewYahooFinanceClient(config *Config) *YahooFinanceClient {
	cacheDir := filepath.Join(config.DataCacheDir, "yahoo_finance")
	cache := NewCacheManager(cacheDir, 24*time.Hour, config.CacheEnabled)

	return &YahooFinanceClient{
		cache: cache,
	}
}

// GetQuote gets the current quote snapshot for a symbol
func (yf *YahooFinanceClient) GetQuote(symbol string) (*Quote, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var cached Quote
	if yf.cache.Get("yahoo", "quote", symbol, &cached) {
		return &cached, nil
	}

	var result *Quote
	err := WithRetry(DefaultRetryConfig(), func() error {
		q, err := quote.Get(symbol)
		if err != nil {
			return fmt.Errorf("failed to get quote for %s: %w", symbol, err)
		}

		result = &Quote{
			Symbol:        symbol,
			Price:         decimal.NewFromFloat(q.RegularMarketPrice),
			Open:          decimal.NewFromFloat(q.RegularMarketOpen),
			High:          decimal.NewFromFloat(q.RegularMarketDayHigh),
			Low:           decimal.NewFromFloat(q.RegularMarketDayLow),
			PrevClose:     decimal.NewFromFloat(q.RegularMarketPreviousClose),
			Volume:        int64(q.RegularMarketVolume),
			ChangePercent: q.RegularMarketChangePercent,
			Timestamp:     time.Now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	yf.cache.Set("yahoo", "quote", symbol, result)
	return result, nil
}

// GetFundamentals gets the valuation snapshot Yahoo exposes on the quote
func (yf *YahooFinanceClient) GetFundamentals(symbol string) (*Fundamentals, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var cached Fundamentals
	if yf.cache.Get("yahoo", "fundamentals", symbol, &cached) {
		return &cached, nil
	}

	var result *Fundamentals
	err := WithRetry(DefaultRetryConfig(), func() error {
		q, err := equity.Get(symbol)
		if err != nil {
			return fmt.Errorf("failed to get fundamentals for %s: %w", symbol, err)
		}

		result = &Fundamentals{
			MarketCap:      q.MarketCap,
			TrailingPE:     q.TrailingPE,
			ForwardPE:      q.ForwardPE,
			EPSTrailing:    q.EpsTrailingTwelveMonths,
			DividendYield:  q.TrailingAnnualDividendYield,
			FiftyTwoWkHigh: q.FiftyTwoWeekHigh,
			FiftyTwoWkLow:  q.FiftyTwoWeekLow,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	yf.cache.Set("yahoo", "fundamentals", symbol, result)
	return result, nil
}

// GetHistoricalData gets daily candles for a symbol over a date range
func (yf *YahooFinanceClient) GetHistoricalData(symbol string, start, end time.Time) ([]Candle, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	cacheKey := map[string]interface{}{
		"symbol": symbol,
		"start":  start.Format("2006-01-02"),
		"end":    end.Format("2006-01-02"),
	}

	var cached []Candle
	if yf.cache.Get("yahoo", "historical", cacheKey, &cached) {
		return cached, nil
	}

	var result []Candle
	err := WithRetry(DefaultRetryConfig(), func() error {
		params := &chart.Params{
			Symbol:   symbol,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
			Interval: datetime.OneDay,
		}

		iter := chart.Get(params)

		result = make([]Candle, 0)
		for iter.Next() {
			bar := iter.Bar()
			result = append(result, Candle{
				Symbol: symbol,
				Date:   time.Unix(int64(bar.Timestamp), 0),
				Open:   bar.Open,
				High:   bar.High,
				Low:    bar.Low,
				Close:  bar.Close,
				Volume: int64(bar.Volume),
			})
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("failed to get historical data for %s: %w", symbol, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	yf.cache.Set("yahoo", "historical", cacheKey, result)
	return result, nil
}
