package domain

import (
	"math"
	"time"
)

// QuoteRecord is a single persisted exchange-rate observation.
type QuoteRecord struct {
	// FetchedAt is the local clock at the moment the quote was obtained.
	FetchedAt time.Time
	// RefreshedAt is when the exchange last refreshed the rate, in UTC.
	RefreshedAt time.Time
	Value       float64
}

// ValidRate reports whether v is a positive finite number. NaN fails the
// v > 0 comparison.
func ValidRate(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
