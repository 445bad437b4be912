package domain

// CurrencyCode identifies one of the supported currencies.
//
// The set is closed: RUB is the base every cross-conversion pivots through,
// and USD, EUR, BYN are quoted against it. Adding a currency is a schema and
// code change, not configuration.
type CurrencyCode string

const (
	RUB CurrencyCode = "RUB" // base currency
	USD CurrencyCode = "USD"
	EUR CurrencyCode = "EUR"
	BYN CurrencyCode = "BYN"
)

// BaseCurrency is the pivot for all conversions.
const BaseCurrency = RUB

// SupportedCurrencies lists every currency the system handles, base first.
var SupportedCurrencies = []CurrencyCode{RUB, USD, EUR, BYN}

// QuotedCurrencies lists the currencies quoted against the base.
var QuotedCurrencies = []CurrencyCode{USD, EUR, BYN}

// IsSupported reports whether code belongs to the closed currency set.
func IsSupported(code CurrencyCode) bool {
	switch code {
	case RUB, USD, EUR, BYN:
		return true
	}
	return false
}

// IsBase reports whether code is the pivot currency.
func IsBase(code CurrencyCode) bool {
	return code == BaseCurrency
}

// RatePeriod describes what unit of time a rate amount covers. The subsystem
// carries it through unchanged; it only constrains input to the known values.
type RatePeriod string

const (
	PeriodHourly  RatePeriod = "hourly"
	PeriodMonthly RatePeriod = "monthly"
	PeriodYearly  RatePeriod = "yearly"
)

// IsValidPeriod reports whether p is one of the known rate periods.
func IsValidPeriod(p RatePeriod) bool {
	switch p {
	case PeriodHourly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}
