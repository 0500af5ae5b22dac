package entity

import (
	"math"
	"slices"
	"time"
)

// Candle is the open/close/low/high aggregate of one hour bucket.
type Candle struct {
	Time         time.Time `json:"timestamp"` // Start of the hour (UTC)
	Open         float64   `json:"open"`
	Close        float64   `json:"close"`
	Low          float64   `json:"low"`
	High         float64   `json:"high"`
	Interpolated bool      `json:"interpolated"`
}

// Hour returns the bucket key of the candle.
func (c Candle) Hour() int64 {
	return HourOf(c.Time)
}

// Equal reports whether both candles describe the same hour with the same values.
func (c Candle) Equal(o Candle) bool {
	return c.Time.Equal(o.Time) &&
		c.Open == o.Open && c.Close == o.Close &&
		c.Low == o.Low && c.High == o.High &&
		c.Interpolated == o.Interpolated
}

// HourOf returns the number of whole hours between the Unix epoch and t.
func HourOf(t time.Time) int64 {
	u := t.Unix()
	h := u / 3600
	if u%3600 < 0 {
		h--
	}
	return h
}

// HourTime converts an epoch-hour key back to a UTC instant.
func HourTime(h int64) time.Time {
	return time.Unix(h*3600, 0).UTC()
}

// Timeline is an hourly series keyed by epoch-hour.
type Timeline map[int64]Candle

// Hours returns the keys in ascending order.
func (tl Timeline) Hours() []int64 {
	hours := make([]int64, 0, len(tl))
	for h := range tl {
		hours = append(hours, h)
	}
	slices.Sort(hours)
	return hours
}

// Candles returns the candles in ascending time order.
func (tl Timeline) Candles() []Candle {
	out := make([]Candle, 0, len(tl))
	for _, h := range tl.Hours() {
		out = append(out, tl[h])
	}
	return out
}

// Span returns the first and last key. ok is false for an empty timeline.
func (tl Timeline) Span() (first, last int64, ok bool) {
	if len(tl) == 0 {
		return 0, 0, false
	}
	first, last = math.MaxInt64, math.MinInt64
	for h := range tl {
		first = min(first, h)
		last = max(last, h)
	}
	return first, last, true
}

// Clone returns a shallow copy.
func (tl Timeline) Clone() Timeline {
	out := make(Timeline, len(tl))
	for h, c := range tl {
		out[h] = c
	}
	return out
}
