package usecase

import (
	"slices"

	"market_history/internal/feature/history/domain/entity"
)

// FilterValid は集計に必要な項目を持たない観測値を取り除き、除外件数を返します。
func FilterValid(entries []entity.Entry) ([]entity.Entry, int) {
	valid := make([]entity.Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Valid() {
			continue
		}
		valid = append(valid, e)
	}
	return valid, len(entries) - len(valid)
}

// Aggregate は観測値を1時間単位のバケットにまとめ、実データのローソク足を生成します。
// open はバケット内で最も古い観測の lowPrice、close は最も新しい観測の lowPrice です。
func Aggregate(entries []entity.Entry) entity.Timeline {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b entity.Entry) int {
		return a.ObservedAt.Compare(b.ObservedAt)
	})

	tl := make(entity.Timeline)
	for _, e := range sorted {
		if !e.Valid() {
			continue
		}
		price := *e.LowPrice
		h := entity.HourOf(e.ObservedAt)

		c, ok := tl[h]
		if !ok {
			tl[h] = entity.Candle{
				Time:  entity.HourTime(h),
				Open:  price,
				Close: price,
				Low:   price,
				High:  price,
			}
			continue
		}
		c.Close = price
		c.Low = min(c.Low, price)
		c.High = max(c.High, price)
		tl[h] = c
	}
	return tl
}
