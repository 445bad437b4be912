package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// Rate source failures. The fetch adapter classifies every outcome as one of
// these; no raw network or parse error escapes it.
var (
	// ErrSourceUnreachable indicates the external rate source could not be reached
	// (network failure, timeout, non-2xx response).
	ErrSourceUnreachable = errors.New("rate source unreachable")

	// ErrSourceUnparseable indicates the rate source responded but no rates could
	// be extracted from the document.
	ErrSourceUnparseable = errors.New("rate source document unparseable")

	// ErrPartialRates indicates some, but not all, expected rates were recovered.
	ErrPartialRates = errors.New("rate source returned partial rates")
)

// Conversion and cache failures.
var (
	// ErrNoRatesAvailable indicates no active rate snapshot has ever been recorded.
	ErrNoRatesAvailable = errors.New("no exchange rates available")

	// ErrMissingRate indicates the active snapshot lacks a rate required for the
	// requested conversion.
	ErrMissingRate = errors.New("snapshot missing required rate")

	// ErrInvalidCurrency indicates a currency code outside the supported set.
	ErrInvalidCurrency = errors.New("unsupported currency")

	// ErrInvalidAmount indicates a negative or otherwise unusable amount.
	ErrInvalidAmount = errors.New("invalid amount")
)

// AppError carries an HTTP-ish status code alongside the wrapped cause.
// Repositories use it for infrastructure failures that have no domain meaning.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewValidationError creates an AppError that matches errors.Is(err, ErrValidation).
func NewValidationError(message string) *AppError {
	return &AppError{Code: 400, Message: message, Err: ErrValidation}
}
