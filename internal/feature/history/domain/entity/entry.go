// Package entity defines the domain models for the history feature.
package entity

import (
	"math"
	"time"
)

// Entry is a single raw price observation for an item.
// Numeric fields are nil when the observation was stored without them.
type Entry struct {
	LowPrice          *float64
	RecentPrice       *float64
	CheapestRemaining *float64
	AvgPrice          *float64
	ObservedAt        time.Time
}

// Valid reports whether the entry carries every field the aggregation needs.
func (e Entry) Valid() bool {
	if e.LowPrice == nil || e.ObservedAt.IsZero() {
		return false
	}
	return !math.IsNaN(*e.LowPrice) && !math.IsInf(*e.LowPrice, 0)
}

// ItemRef identifies an item inside a region.
type ItemRef struct {
	Region string
	ID     string
}

func (r ItemRef) String() string {
	return r.Region + "/" + r.ID
}
