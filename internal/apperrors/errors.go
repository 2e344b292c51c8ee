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

// ErrRateFetch indicates that the exchange rate provider could not deliver a rate table.
var ErrRateFetch = errors.New("exchange rate fetch failed")

// ErrUnsupportedCurrency indicates that a rate table has no entry for a requested currency.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// AppError carries an HTTP-ish status code alongside the underlying cause.
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

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an error that matches ErrNotFound.
func NewNotFoundError(message string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, message)
}

// NewValidationError returns an error that matches ErrValidation.
func NewValidationError(message string) error {
	return fmt.Errorf("%w: %s", ErrValidation, message)
}

// RateFetchError is returned when a rate table for Base could not be fetched.
// StatusCode is zero for transport or decoding failures.
type RateFetchError struct {
	Base       string
	StatusCode int
	Err        error
}

func (e *RateFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch rates for %s: provider returned status %d", e.Base, e.StatusCode)
	}
	return fmt.Sprintf("fetch rates for %s: %v", e.Base, e.Err)
}

func (e *RateFetchError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrRateFetch) match any RateFetchError.
func (e *RateFetchError) Is(target error) bool {
	return target == ErrRateFetch
}

// UnsupportedCurrencyError is returned when Currency is absent from the rate table for Base.
type UnsupportedCurrencyError struct {
	Currency string
	Base     string
}

func (e *UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("currency %s not available in %s rate table", e.Currency, e.Base)
}

// Is lets errors.Is(err, ErrUnsupportedCurrency) match any UnsupportedCurrencyError.
func (e *UnsupportedCurrencyError) Is(target error) bool {
	return target == ErrUnsupportedCurrency
}
