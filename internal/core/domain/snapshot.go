package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FetchStatus records the outcome of one fetch attempt against the rate source.
type FetchStatus string

const (
	FetchSuccess FetchStatus = "success"
	FetchError   FetchStatus = "error"
)

// RateSnapshot is one immutable, timestamped set of quoted-currency rates
// against the base currency, plus the outcome of the fetch that produced it.
//
// Rows are append-only. At most one snapshot is active at a time; a snapshot
// recorded with status error is never activated, so the last good rates stay
// authoritative until a later fetch succeeds.
type RateSnapshot struct {
	SnapshotID string

	// Rates are RUB per one unit of the quoted currency. A nil rate means the
	// source omitted that currency, never that the rate is zero.
	USDRate *decimal.Decimal
	EURRate *decimal.Decimal
	BYNRate *decimal.Decimal

	FetchedAt   time.Time
	Active      bool
	Status      FetchStatus
	ErrorDetail *string
}

// Rate returns the stored rate for a quoted currency, or ok=false when the
// snapshot does not carry it. Asking for the base currency is a caller bug
// and reports ok=false as well.
func (s *RateSnapshot) Rate(code CurrencyCode) (decimal.Decimal, bool) {
	var r *decimal.Decimal
	switch code {
	case USD:
		r = s.USDRate
	case EUR:
		r = s.EURRate
	case BYN:
		r = s.BYNRate
	}
	if r == nil {
		return decimal.Decimal{}, false
	}
	return *r, true
}

// IsStale reports whether the snapshot's fetch timestamp is older than maxAge.
// Staleness is advisory; callers decide whether to serve stale data.
func (s *RateSnapshot) IsStale(maxAge time.Duration, now time.Time) bool {
	return now.Sub(s.FetchedAt) > maxAge
}
