package dataflows

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dailyCandles builds one candle per day with the given closes, starting
// at a fixed date.
func dailyCandles(closes []float64) []Candle {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]Candle, len(closes))
	for i, c := range closes {
		out[i] = Candle{
			Symbol: "TEST",
			Date:   start.AddDate(0, 0, i),
			Close:  decimal.NewFromFloat(c),
		}
	}
	return out
}

func risingCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	return closes
}

func TestComputeTechnicalsEmpty(t *testing.T) {
	_, err := ComputeTechnicals(nil)
	assert.Error(t, err)
}

func TestComputeTechnicalsRisingSeries(t *testing.T) {
	tech, err := ComputeTechnicals(dailyCandles(risingCloses(250)))
	require.NoError(t, err)

	// closes 100..349: SMA50 averages 300..349, SMA200 averages 150..349
	assert.InDelta(t, 324.5, tech.SMA50, 1e-9)
	assert.InDelta(t, 249.5, tech.SMA200, 1e-9)
	// strictly rising closes never lose
	assert.InDelta(t, 100, tech.RSI14, 1e-9)
	assert.Positive(t, tech.MACD)
	assert.Equal(t, "uptrend", tech.Trend)
}

func TestComputeTechnicalsFallingSeries(t *testing.T) {
	closes := make([]float64, 250)
	for i := range closes {
		closes[i] = 500 - float64(i)
	}

	tech, err := ComputeTechnicals(dailyCandles(closes))
	require.NoError(t, err)

	assert.InDelta(t, 0, tech.RSI14, 1e-9)
	assert.Negative(t, tech.MACD)
	assert.Equal(t, "downtrend", tech.Trend)
}

func TestComputeTechnicalsShortSeries(t *testing.T) {
	// too short for any indicator window
	tech, err := ComputeTechnicals(dailyCandles(risingCloses(10)))
	require.NoError(t, err)

	assert.Zero(t, tech.SMA50)
	assert.Zero(t, tech.SMA200)
	assert.Zero(t, tech.RSI14)
	assert.Zero(t, tech.MACD)
	assert.Equal(t, "unknown", tech.Trend)
}

func TestComputeTechnicalsSortsCandles(t *testing.T) {
	candles := dailyCandles(risingCloses(60))
	// shuffle deterministically
	for i := range candles {
		j := (i * 37) % len(candles)
		candles[i], candles[j] = candles[j], candles[i]
	}

	tech, err := ComputeTechnicals(candles)
	require.NoError(t, err)

	// same SMA50 as the sorted series: closes 110..159
	assert.InDelta(t, 134.5, tech.SMA50, 1e-9)
}

func TestValidateSymbol(t *testing.T) {
	assert.NoError(t, ValidateSymbol("aapl"))
	assert.NoError(t, ValidateSymbol(" MSFT "))
	assert.Error(t, ValidateSymbol(""))
	assert.Error(t, ValidateSymbol("WAYTOOLONGSYMBOL"))
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "AAPL", NormalizeSymbol(" aapl "))
}

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}

	calls := 0
	err := WithRetry(cfg, func() error {
		calls++
		if calls < 3 {
			return assert.AnError
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryExhausted(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}

	err := WithRetry(cfg, func() error { return assert.AnError })
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}
