package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateProfile is the persistence model for one row of candidate_rate_profiles.
type RateProfile struct {
	ProfileID   string `json:"profileID"` // Primary Key (UUID)
	OwnerID     string `json:"ownerID"`
	CandidateID string `json:"candidateID"`

	BaseAmount   decimal.Decimal `json:"baseAmount"`
	BaseCurrency string          `json:"baseCurrency"`
	RatePeriod   string          `json:"ratePeriod"`

	RateRUB *decimal.Decimal `json:"rateRUB"`
	RateUSD *decimal.Decimal `json:"rateUSD"`
	RateEUR *decimal.Decimal `json:"rateEUR"`
	RateBYN *decimal.Decimal `json:"rateBYN"`

	RatesCalculatedAt *time.Time `json:"ratesCalculatedAt"`
	SnapshotID        *string    `json:"snapshotID"` // FK -> RateSnapshot.SnapshotID

	AuditFields
}

// AuditFields holds standard audit information for persisted rows.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}
