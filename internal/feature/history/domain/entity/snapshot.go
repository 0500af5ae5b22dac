package entity

import "time"

// HistorySnapshot is the persisted hourly history of one item.
// UpdatedAt equals the time of the last candle and is used as the watermark
// for the next run.
type HistorySnapshot struct {
	TimeData  []Candle  `json:"timeData"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Latest returns the most recent candle, or nil if the snapshot is empty.
func (s *HistorySnapshot) Latest() *Candle {
	if s == nil || len(s.TimeData) == 0 {
		return nil
	}
	latest := s.TimeData[0]
	for _, c := range s.TimeData[1:] {
		if c.Time.After(latest.Time) {
			latest = c
		}
	}
	return &latest
}

// ShortHistoric maps an ISO day (YYYY-MM-DD) to the mean close of that day.
type ShortHistoric map[string]float64
