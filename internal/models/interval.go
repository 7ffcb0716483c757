package models

import "time"

// Interval is a half-open time range [Start, End). Back-to-back intervals
// where one ends exactly when the next starts do not overlap.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Shift moves both endpoints by the given number of days, preserving duration.
func (iv Interval) Shift(days int) Interval {
	return Interval{
		Start: iv.Start.AddDate(0, 0, days),
		End:   iv.End.AddDate(0, 0, days),
	}
}
