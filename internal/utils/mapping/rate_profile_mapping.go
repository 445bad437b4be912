package mapping

import (
	"github.com/hrforge/candidate_rates_service/internal/core/domain"
	"github.com/hrforge/candidate_rates_service/internal/models"
)

// ToModelRateProfile converts a domain RateProfile to a model RateProfile
func ToModelRateProfile(d domain.RateProfile) models.RateProfile {
	return models.RateProfile{
		ProfileID:         d.ProfileID,
		OwnerID:           d.OwnerID,
		CandidateID:       d.CandidateID,
		BaseAmount:        d.BaseAmount,
		BaseCurrency:      string(d.BaseCurrency),
		RatePeriod:        string(d.Period),
		RateRUB:           d.RateRUB,
		RateUSD:           d.RateUSD,
		RateEUR:           d.RateEUR,
		RateBYN:           d.RateBYN,
		RatesCalculatedAt: d.RatesCalculatedAt,
		SnapshotID:        d.SnapshotID,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

// ToDomainRateProfile converts a model RateProfile to a domain RateProfile
func ToDomainRateProfile(m models.RateProfile) domain.RateProfile {
	return domain.RateProfile{
		ProfileID:         m.ProfileID,
		OwnerID:           m.OwnerID,
		CandidateID:       m.CandidateID,
		BaseAmount:        m.BaseAmount,
		BaseCurrency:      domain.CurrencyCode(m.BaseCurrency),
		Period:            domain.RatePeriod(m.RatePeriod),
		RateRUB:           m.RateRUB,
		RateUSD:           m.RateUSD,
		RateEUR:           m.RateEUR,
		RateBYN:           m.RateBYN,
		RatesCalculatedAt: m.RatesCalculatedAt,
		SnapshotID:        m.SnapshotID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}
