package ratesource

import (
	"context"
	"time"

	"github.com/hrforge/candidate_rates_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Quotes is the typed result of one fetch attempt: per-unit rates of each
// quoted currency against the base, as of the fetch time. A nil rate means the
// source omitted that currency; it is never substituted with zero.
type Quotes struct {
	USD *decimal.Decimal
	EUR *decimal.Decimal
	BYN *decimal.Decimal

	FetchedAt time.Time
}

// Rate returns the quote for code, or ok=false when it is absent.
func (q Quotes) Rate(code domain.CurrencyCode) (decimal.Decimal, bool) {
	var r *decimal.Decimal
	switch code {
	case domain.USD:
		r = q.USD
	case domain.EUR:
		r = q.EUR
	case domain.BYN:
		r = q.BYN
	}
	if r == nil {
		return decimal.Decimal{}, false
	}
	return *r, true
}

// Missing lists the quoted currencies the fetch did not recover.
func (q Quotes) Missing() []domain.CurrencyCode {
	var missing []domain.CurrencyCode
	for _, code := range domain.QuotedCurrencies {
		if _, ok := q.Rate(code); !ok {
			missing = append(missing, code)
		}
	}
	return missing
}

// Empty reports whether no rate at all was recovered.
func (q Quotes) Empty() bool {
	return len(q.Missing()) == len(domain.QuotedCurrencies)
}

// Fetcher retrieves the daily rate document from the external authority.
//
// Implementations never let a network or parse error propagate raw: every
// failure is classified as apperrors.ErrSourceUnreachable,
// apperrors.ErrSourceUnparseable or apperrors.ErrPartialRates. On
// ErrPartialRates the returned Quotes still carry whatever was recovered.
type Fetcher interface {
	FetchDaily(ctx context.Context) (Quotes, error)
}
