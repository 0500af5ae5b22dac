package usecase

import (
	"math"

	"market_history/internal/feature/history/domain/entity"
)

// Gap は連続した欠損時間の区間です。Prev/Next は区間の前後にある実在のローソク足で、
// タイムラインの端で片側が存在しない場合は nil になります。
type Gap struct {
	StartHour int64
	EndHour   int64
	Prev      *entity.Candle
	Next      *entity.Candle
}

// Len は区間に含まれる時間数を返します。
func (g Gap) Len() int {
	return int(g.EndHour-g.StartHour) + 1
}

// Bounded は両側にアンカーがあるかどうかを返します。
func (g Gap) Bounded() bool {
	return g.Prev != nil && g.Next != nil
}

// InterpolationStats は補間処理の集計値です。
type InterpolationStats struct {
	Interpolated  int // 補間で生成したローソク足の数
	UnboundedGaps int // アンカーが片側しかないため埋めなかった時間数
}

// Interpolate は今回集計したローソク足に前回の最新ローソク足 (anchor) を加え、
// 最初から最後までの1時間刻みのタイムラインのうち、両側を実データに挟まれた欠損を線形補間で埋めます。
// 同じ時間に新しい集計結果がある場合は anchor より優先されます。
func Interpolate(fresh entity.Timeline, anchor *entity.Candle) (entity.Timeline, InterpolationStats) {
	tl := fresh.Clone()
	if anchor != nil {
		if _, ok := tl[anchor.Hour()]; !ok {
			tl[anchor.Hour()] = *anchor
		}
	}

	var stats InterpolationStats
	for _, g := range FindGaps(tl) {
		if !g.Bounded() {
			stats.UnboundedGaps += g.Len()
			continue
		}
		for _, c := range FillGap(g) {
			tl[c.Hour()] = c
			stats.Interpolated++
		}
	}
	return tl, stats
}

// FindGaps はタイムラインの最初と最後の間にある欠損区間を列挙します。
func FindGaps(tl entity.Timeline) []Gap {
	first, last, ok := tl.Span()
	if !ok {
		return nil
	}

	var (
		gaps []Gap
		prev *entity.Candle
		open *Gap
	)
	for h := first; h <= last; h++ {
		c, ok := tl[h]
		if !ok {
			if open == nil {
				open = &Gap{StartHour: h, Prev: prev}
			}
			open.EndHour = h
			continue
		}
		if open != nil {
			open.Next = &c
			gaps = append(gaps, *open)
			open = nil
		}
		prev = &c
	}
	if open != nil {
		gaps = append(gaps, *open)
	}
	return gaps
}

// FillGap は区間を Prev.Close から Next.Open まで n+1 等分した値で埋めます。
// i 番目のローソク足は open=v[i], close=v[i+1] で、値は小数点以下2桁に丸めます。
// 片側のアンカーが無い区間は外挿せず nil を返します。
func FillGap(g Gap) []entity.Candle {
	if !g.Bounded() {
		return nil
	}
	n := g.Len()
	start, end := g.Prev.Close, g.Next.Open
	step := (end - start) / float64(n+1)

	values := make([]float64, n+2)
	for k := range values {
		values[k] = round2(start + step*float64(k))
	}

	out := make([]entity.Candle, 0, n)
	for i := 0; i < n; i++ {
		o, c := values[i], values[i+1]
		out = append(out, entity.Candle{
			Time:         entity.HourTime(g.StartHour + int64(i)),
			Open:         o,
			Close:        c,
			Low:          min(o, c),
			High:         max(o, c),
			Interpolated: true,
		})
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
