package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateProfile is a candidate's pay-rate record: the base amount/currency the
// candidate quoted, plus a denormalized cache of that amount converted into
// every supported currency so read paths never pay conversion cost.
//
// The four cached values are written together with the snapshot reference and
// timestamp, or not at all; readers never observe a mix of old and new values.
type RateProfile struct {
	ProfileID   string
	OwnerID     string
	CandidateID string

	BaseAmount   decimal.Decimal
	BaseCurrency CurrencyCode
	Period       RatePeriod

	// Cached converted amounts, one per supported currency. The entry matching
	// BaseCurrency equals BaseAmount exactly. All nil until the first
	// successful recalculation.
	RateRUB *decimal.Decimal
	RateUSD *decimal.Decimal
	RateEUR *decimal.Decimal
	RateBYN *decimal.Decimal

	RatesCalculatedAt *time.Time
	SnapshotID        *string

	AuditFields
}

// CachedRates groups the four converted values produced by one recalculation.
type CachedRates struct {
	RUB decimal.Decimal
	USD decimal.Decimal
	EUR decimal.Decimal
	BYN decimal.Decimal
}

// Rate returns the cached value for the given currency.
func (c CachedRates) Rate(code CurrencyCode) decimal.Decimal {
	switch code {
	case RUB:
		return c.RUB
	case USD:
		return c.USD
	case EUR:
		return c.EUR
	case BYN:
		return c.BYN
	}
	return decimal.Decimal{}
}

// FailedProfile identifies one profile a bulk recalculation could not update.
type FailedProfile struct {
	ProfileID string `json:"profileID"`
	Reason    string `json:"reason"`
}

// BulkRecalcResult reports the outcome of a bulk recalculation. Partial
// success is the expected shape when some profiles carry malformed base data.
type BulkRecalcResult struct {
	Updated int             `json:"updated"`
	Failed  []FailedProfile `json:"failed"`
}
