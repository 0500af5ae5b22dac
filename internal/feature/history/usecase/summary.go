package usecase

import (
	"market_history/internal/feature/history/domain/entity"
)

const (
	isoDay = "2006-01-02"
	// shortHistoricExcludedDays は日次平均から除外する直近の日数です。
	shortHistoricExcludedDays = 7
)

// ShortHistoric は最後のローソク足の7日前 (UTC) までの各日について close の平均を求めます。
// 直近7日間は除外されます。
func ShortHistoric(candles []entity.Candle) entity.ShortHistoric {
	out := entity.ShortHistoric{}
	if len(candles) == 0 {
		return out
	}

	last := candles[0].Time
	for _, c := range candles[1:] {
		if c.Time.After(last) {
			last = c.Time
		}
	}
	cutoff := last.UTC().AddDate(0, 0, -shortHistoricExcludedDays).Format(isoDay)

	sums := map[string]float64{}
	counts := map[string]int{}
	for _, c := range candles {
		day := c.Time.UTC().Format(isoDay)
		if day > cutoff {
			continue
		}
		sums[day] += c.Close
		counts[day]++
	}
	for day, sum := range sums {
		out[day] = round2(sum / float64(counts[day]))
	}
	return out
}
