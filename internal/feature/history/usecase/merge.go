package usecase

import (
	"market_history/internal/feature/history/domain/entity"
)

// Merge は保存済みのローソク足と今回のタイムラインを時間キーで統合し、昇順に並べて返します。
// 同じ時間が両方にある場合は今回の値を採用しますが、保存済みが実データで今回が補間値の場合は保存済みを残します。
func Merge(existing []entity.Candle, fresh entity.Timeline) []entity.Candle {
	merged := make(entity.Timeline, len(existing)+len(fresh))
	for _, c := range existing {
		merged[c.Hour()] = c
	}
	for h, c := range fresh {
		if old, ok := merged[h]; ok && !old.Interpolated && c.Interpolated {
			continue
		}
		merged[h] = c
	}
	return merged.Candles()
}
