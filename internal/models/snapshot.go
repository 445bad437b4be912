package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSnapshot is the persistence model for one row of exchange_rate_snapshots.
// Rates are stored as NUMERIC and may be NULL when the source omitted them.
type RateSnapshot struct {
	SnapshotID  string           `json:"snapshotID"` // Primary Key (UUID)
	USDRate     *decimal.Decimal `json:"usdRate"`
	EURRate     *decimal.Decimal `json:"eurRate"`
	BYNRate     *decimal.Decimal `json:"bynRate"`
	FetchedAt   time.Time        `json:"fetchedAt"`
	Active      bool             `json:"active"`
	Status      string           `json:"status"` // success | error
	ErrorDetail *string          `json:"errorDetail"`
}
