package data

import "github.com/ducminhle1904/strategy-sweep/pkg/types"

// GroupByDay splits an ordered candle series into per-session groups keyed
// by calendar date. Input order is preserved within and across days.
func GroupByDay(candles []types.Candle) []types.TradingDay {
	var days []types.TradingDay

	for _, c := range candles {
		date := c.Timestamp.Format("2006-01-02")
		if len(days) == 0 || days[len(days)-1].Date != date {
			days = append(days, types.TradingDay{Symbol: c.Symbol, Date: date})
		}
		last := &days[len(days)-1]
		last.Candles = append(last.Candles, c)
	}

	return days
}

// FilterUsableDays drops sessions with fewer than minCandles bars and
// reports how many were dropped. Partial sessions, holidays and data gaps
// produce short days that would distort daily statistics.
func FilterUsableDays(days []types.TradingDay, minCandles int) ([]types.TradingDay, int) {
	if minCandles <= 0 {
		return days, 0
	}

	usable := make([]types.TradingDay, 0, len(days))
	dropped := 0
	for _, day := range days {
		if len(day.Candles) < minCandles {
			dropped++
			continue
		}
		usable = append(usable, day)
	}
	return usable, dropped
}
