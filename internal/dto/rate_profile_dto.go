package dto

import (
	"time"

	"github.com/hrforge/candidate_rates_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRateProfileRequest defines the data needed to create a new rate profile.
type CreateRateProfileRequest struct {
	OwnerID      string          `json:"ownerID" binding:"required"`
	CandidateID  string          `json:"candidateID" binding:"required"`
	BaseAmount   decimal.Decimal `json:"baseAmount" binding:"required"`
	BaseCurrency string          `json:"baseCurrency" binding:"required,supportedcurrency"`
	RatePeriod   string          `json:"ratePeriod" binding:"required,oneof=hourly monthly yearly"`
}

// SetBaseRateRequest defines the data for updating a profile's base rate.
type SetBaseRateRequest struct {
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Currency   string          `json:"currency" binding:"required,supportedcurrency"`
	RatePeriod string          `json:"ratePeriod" binding:"required,oneof=hourly monthly yearly"`
}

// RateProfileResponse defines the data returned for a rate profile, including
// the cached converted values.
type RateProfileResponse struct {
	ProfileID   string `json:"profileID"`
	OwnerID     string `json:"ownerID"`
	CandidateID string `json:"candidateID"`

	BaseAmount   decimal.Decimal `json:"baseAmount"`
	BaseCurrency string          `json:"baseCurrency"`
	RatePeriod   string          `json:"ratePeriod"`

	RateRUB *decimal.Decimal `json:"rateRUB,omitempty"`
	RateUSD *decimal.Decimal `json:"rateUSD,omitempty"`
	RateEUR *decimal.Decimal `json:"rateEUR,omitempty"`
	RateBYN *decimal.Decimal `json:"rateBYN,omitempty"`

	RatesCalculatedAt *time.Time `json:"ratesCalculatedAt,omitempty"`
	SnapshotID        *string    `json:"snapshotID,omitempty"`

	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToRateProfileResponse converts a domain.RateProfile to RateProfileResponse DTO
func ToRateProfileResponse(profile *domain.RateProfile) RateProfileResponse {
	return RateProfileResponse{
		ProfileID:         profile.ProfileID,
		OwnerID:           profile.OwnerID,
		CandidateID:       profile.CandidateID,
		BaseAmount:        profile.BaseAmount,
		BaseCurrency:      string(profile.BaseCurrency),
		RatePeriod:        string(profile.Period),
		RateRUB:           profile.RateRUB,
		RateUSD:           profile.RateUSD,
		RateEUR:           profile.RateEUR,
		RateBYN:           profile.RateBYN,
		RatesCalculatedAt: profile.RatesCalculatedAt,
		SnapshotID:        profile.SnapshotID,
		CreatedAt:         profile.CreatedAt,
		LastUpdatedAt:     profile.LastUpdatedAt,
	}
}

// BulkRecalcResponse reports how a bulk recalculation went.
type BulkRecalcResponse struct {
	Updated int                    `json:"updated"`
	Failed  []domain.FailedProfile `json:"failed"`
}

// ToBulkRecalcResponse converts a domain.BulkRecalcResult to its response DTO.
func ToBulkRecalcResponse(result domain.BulkRecalcResult) BulkRecalcResponse {
	failed := result.Failed
	if failed == nil {
		failed = []domain.FailedProfile{}
	}
	return BulkRecalcResponse{
		Updated: result.Updated,
		Failed:  failed,
	}
}
