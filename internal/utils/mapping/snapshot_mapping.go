package mapping

import (
	"github.com/hrforge/candidate_rates_service/internal/core/domain"
	"github.com/hrforge/candidate_rates_service/internal/models"
)

// ToModelRateSnapshot converts a domain RateSnapshot to a model RateSnapshot
func ToModelRateSnapshot(d domain.RateSnapshot) models.RateSnapshot {
	return models.RateSnapshot{
		SnapshotID:  d.SnapshotID,
		USDRate:     d.USDRate,
		EURRate:     d.EURRate,
		BYNRate:     d.BYNRate,
		FetchedAt:   d.FetchedAt,
		Active:      d.Active,
		Status:      string(d.Status),
		ErrorDetail: d.ErrorDetail,
	}
}

// ToDomainRateSnapshot converts a model RateSnapshot to a domain RateSnapshot
func ToDomainRateSnapshot(m models.RateSnapshot) domain.RateSnapshot {
	return domain.RateSnapshot{
		SnapshotID:  m.SnapshotID,
		USDRate:     m.USDRate,
		EURRate:     m.EURRate,
		BYNRate:     m.BYNRate,
		FetchedAt:   m.FetchedAt,
		Active:      m.Active,
		Status:      domain.FetchStatus(m.Status),
		ErrorDetail: m.ErrorDetail,
	}
}
