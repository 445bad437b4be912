package dto

import (
	"time"

	"github.com/hrforge/candidate_rates_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateSnapshotResponse defines the structure for API responses containing one
// rate snapshot.
type RateSnapshotResponse struct {
	SnapshotID  string           `json:"snapshotID"`
	USDRate     *decimal.Decimal `json:"usdRate,omitempty"`
	EURRate     *decimal.Decimal `json:"eurRate,omitempty"`
	BYNRate     *decimal.Decimal `json:"bynRate,omitempty"`
	FetchedAt   time.Time        `json:"fetchedAt"`
	Active      bool             `json:"active"`
	Status      string           `json:"status"`
	ErrorDetail *string          `json:"errorDetail,omitempty"`
	Stale       bool             `json:"stale"`
}

// ToRateSnapshotResponse converts a domain.RateSnapshot to RateSnapshotResponse DTO
func ToRateSnapshotResponse(snapshot *domain.RateSnapshot, stale bool) RateSnapshotResponse {
	return RateSnapshotResponse{
		SnapshotID:  snapshot.SnapshotID,
		USDRate:     snapshot.USDRate,
		EURRate:     snapshot.EURRate,
		BYNRate:     snapshot.BYNRate,
		FetchedAt:   snapshot.FetchedAt,
		Active:      snapshot.Active,
		Status:      string(snapshot.Status),
		ErrorDetail: snapshot.ErrorDetail,
		Stale:       stale,
	}
}

// ToListRateSnapshotResponse converts a slice of snapshots to response DTOs.
func ToListRateSnapshotResponse(snapshots []domain.RateSnapshot) []RateSnapshotResponse {
	responses := make([]RateSnapshotResponse, len(snapshots))
	for i := range snapshots {
		responses[i] = ToRateSnapshotResponse(&snapshots[i], false)
	}
	return responses
}

// ConvertRequest defines the input for a currency conversion.
type ConvertRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	FromCurrency string          `json:"fromCurrency" binding:"required,supportedcurrency"`
	ToCurrency   string          `json:"toCurrency" binding:"required,supportedcurrency"`
}

// ConvertResponse defines the output of a currency conversion.
type ConvertResponse struct {
	OriginalAmount  decimal.Decimal `json:"originalAmount"`
	FromCurrency    string          `json:"fromCurrency"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	ToCurrency      string          `json:"toCurrency"`
	RateUsed        decimal.Decimal `json:"rateUsed"`
	SnapshotID      string          `json:"snapshotID"`
	AsOf            time.Time       `json:"asOf"`
}
