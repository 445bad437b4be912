package services

import (
	"fmt"

	"github.com/hrforge/candidate_rates_service/internal/apperrors"
	"github.com/hrforge/candidate_rates_service/internal/core/domain"
	portssvc "github.com/hrforge/candidate_rates_service/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// conversionService is the stateless conversion engine. Every cross-currency
// conversion pivots through the base currency using the supplied snapshot; the
// engine itself performs no I/O and no rounding.
type conversionService struct{}

// NewConversionService creates the conversion engine.
func NewConversionService() portssvc.ConverterSvc {
	return &conversionService{}
}

// Convert converts amount from one supported currency to another against the
// given snapshot.
func (s *conversionService) Convert(amount decimal.Decimal, from, to domain.CurrencyCode, snapshot *domain.RateSnapshot) (decimal.Decimal, error) {
	if !domain.IsSupported(from) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", apperrors.ErrInvalidCurrency, from)
	}
	if !domain.IsSupported(to) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", apperrors.ErrInvalidCurrency, to)
	}
	if amount.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: amount must not be negative", apperrors.ErrInvalidAmount)
	}

	// Identity conversion is exact and needs no snapshot data.
	if from == to {
		return amount, nil
	}

	inBase, err := s.toBase(amount, from, snapshot)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return s.fromBase(inBase, to, snapshot)
}

// RatesFor computes baseAmount expressed in every supported currency.
func (s *conversionService) RatesFor(baseAmount decimal.Decimal, baseCurrency domain.CurrencyCode, snapshot *domain.RateSnapshot) (domain.CachedRates, error) {
	inBase, err := s.Convert(baseAmount, baseCurrency, domain.BaseCurrency, snapshot)
	if err != nil {
		return domain.CachedRates{}, err
	}

	var rates domain.CachedRates
	rates.RUB = inBase
	for _, code := range domain.QuotedCurrencies {
		converted, err := s.fromBase(inBase, code, snapshot)
		if err != nil {
			return domain.CachedRates{}, err
		}
		switch code {
		case domain.USD:
			rates.USD = converted
		case domain.EUR:
			rates.EUR = converted
		case domain.BYN:
			rates.BYN = converted
		}
	}
	return rates, nil
}

// toBase converts amount of the given currency into the base currency.
func (s *conversionService) toBase(amount decimal.Decimal, from domain.CurrencyCode, snapshot *domain.RateSnapshot) (decimal.Decimal, error) {
	if domain.IsBase(from) {
		return amount, nil
	}
	rate, ok := snapshot.Rate(from)
	if !ok || rate.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("%w: no %s rate in snapshot %s", apperrors.ErrMissingRate, from, snapshot.SnapshotID)
	}
	return amount.Mul(rate), nil
}

// fromBase converts an amount of the base currency into the given currency.
func (s *conversionService) fromBase(amount decimal.Decimal, to domain.CurrencyCode, snapshot *domain.RateSnapshot) (decimal.Decimal, error) {
	if domain.IsBase(to) {
		return amount, nil
	}
	rate, ok := snapshot.Rate(to)
	if !ok || rate.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("%w: no %s rate in snapshot %s", apperrors.ErrMissingRate, to, snapshot.SnapshotID)
	}
	return amount.Div(rate), nil
}
