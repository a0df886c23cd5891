package dataflows

import (
	"fmt"
	"sort"
)

// ComputeTechnicals derives the indicator snapshot for the latest bar from
// daily candles. Candles may arrive unsorted.
func ComputeTechnicals(candles []Candle) (*Technicals, error) {
	if len(candles) == 0 {
		return nil, fmt.Errorf("no candles to compute indicators from")
	}

	sorted := make([]Candle, len(candles))
	copy(sorted, candles)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	closes := make([]float64, len(sorted))
	for i, c := range sorted {
		closes[i], _ = c.Close.Float64()
	}

	t := &Technicals{
		SMA50:  sma(closes, 50),
		SMA200: sma(closes, 200),
		EMA10:  ema(closes, 10),
		RSI14:  rsi(closes, 14),
	}
	t.MACD, t.MACDSignal = macd(closes)
	t.Trend = classifyTrend(closes[len(closes)-1], t)

	return t, nil
}

// sma returns the simple moving average of the last period closes, or 0
// when there is not enough data.
func sma(closes []float64, period int) float64 {
	if len(closes) < period || period <= 0 {
		return 0
	}
	sum := 0.0
	for _, c := range closes[len(closes)-period:] {
		sum += c
	}
	return sum / float64(period)
}

// ema returns the exponential moving average over the full series seeded
// with the first close.
func ema(closes []float64, period int) float64 {
	if len(closes) < period || period <= 0 {
		return 0
	}
	multiplier := 2.0 / (float64(period) + 1.0)
	value := closes[0]
	for _, c := range closes[1:] {
		value = (c-value)*multiplier + value
	}
	return value
}

// rsi returns the Wilder relative strength index for the last bar.
func rsi(closes []float64, period int) float64 {
	if len(closes) <= period {
		return 0
	}

	gains, losses := 0.0, 0.0
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// macd returns the MACD line (EMA12-EMA26) and its 9-period signal line.
func macd(closes []float64) (float64, float64) {
	if len(closes) < 26 {
		return 0, 0
	}

	macdSeries := make([]float64, 0, len(closes)-25)
	for i := 26; i <= len(closes); i++ {
		window := closes[:i]
		macdSeries = append(macdSeries, ema(window, 12)-ema(window, 26))
	}

	line := macdSeries[len(macdSeries)-1]
	signal := ema(macdSeries, 9)
	if signal == 0 && len(macdSeries) < 9 {
		signal = line
	}
	return line, signal
}

func classifyTrend(lastClose float64, t *Technicals) string {
	switch {
	case t.SMA50 == 0:
		return "unknown"
	case lastClose > t.SMA50 && (t.SMA200 == 0 || t.SMA50 > t.SMA200):
		return "uptrend"
	case lastClose < t.SMA50 && (t.SMA200 == 0 || t.SMA50 < t.SMA200):
		return "downtrend"
	default:
		return "sideways"
	}
}
