package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/mma_fx/internal/apperrors"
	"github.com/SscSPs/mma_fx/internal/core/domain"
	portssvc "github.com/SscSPs/mma_fx/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Converter converts amounts using rate tables obtained from a RateSource.
type Converter struct {
	rates portssvc.RateSource
}

// NewConverter creates a Converter reading tables from rates.
func NewConverter(rates portssvc.RateSource) *Converter {
	return &Converter{rates: rates}
}

var _ portssvc.ConverterSvc = (*Converter)(nil)

// Convert converts amount from one currency to another. Same-currency
// conversions return the amount untouched without consulting the rate source;
// otherwise the table based on from is fetched and ConvertWithTable applied.
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, from, to domain.CurrencyCode) (domain.ConversionResult, error) {
	from = domain.NormalizeCode(from)
	to = domain.NormalizeCode(to)
	if from == "" || to == "" {
		return domain.ConversionResult{}, apperrors.NewValidationError("source and target currency are required")
	}
	if from == to {
		return identity(amount, from), nil
	}

	table, err := c.rates.GetRates(ctx, from)
	if err != nil {
		return domain.ConversionResult{}, fmt.Errorf("convert %s to %s: %w", from, to, err)
	}
	return ConvertWithTable(amount, from, to, table)
}

// ConvertWithTable converts amount using an already fetched table and performs no I/O.
// When neither currency is the table base the conversion is routed through it:
// (amount / rates[from]) * rates[to].
func ConvertWithTable(amount decimal.Decimal, from, to domain.CurrencyCode, table domain.RateTable) (domain.ConversionResult, error) {
	from = domain.NormalizeCode(from)
	to = domain.NormalizeCode(to)
	if from == to {
		return identity(amount, from), nil
	}

	base := table.Base
	result := domain.ConversionResult{SourceCurrency: from, TargetCurrency: to}

	switch {
	case from == base:
		toRate, ok := table.Rates[to]
		if !ok {
			return domain.ConversionResult{}, &apperrors.UnsupportedCurrencyError{Currency: to, Base: base}
		}
		result.Amount = amount.Mul(toRate)
		result.RateUsed = toRate

	case to == base:
		fromRate, err := divisorRate(table, from)
		if err != nil {
			return domain.ConversionResult{}, err
		}
		result.Amount = amount.Div(fromRate)
		result.RateUsed = one.Div(fromRate)

	default:
		fromRate, err := divisorRate(table, from)
		if err != nil {
			return domain.ConversionResult{}, err
		}
		toRate, ok := table.Rates[to]
		if !ok {
			return domain.ConversionResult{}, &apperrors.UnsupportedCurrencyError{Currency: to, Base: base}
		}
		result.Amount = amount.Div(fromRate).Mul(toRate)
		result.RateUsed = toRate.Div(fromRate)
		result.ViaCrossRate = true
	}

	return result, nil
}

// divisorRate looks up a rate that is about to be divided by; a zero rate is
// as unusable as a missing one.
func divisorRate(table domain.RateTable, code domain.CurrencyCode) (decimal.Decimal, error) {
	rate, ok := table.Rates[code]
	if !ok || !rate.IsPositive() {
		return decimal.Decimal{}, &apperrors.UnsupportedCurrencyError{Currency: code, Base: table.Base}
	}
	return rate, nil
}

func identity(amount decimal.Decimal, code domain.CurrencyCode) domain.ConversionResult {
	return domain.ConversionResult{
		Amount:         amount,
		SourceCurrency: code,
		TargetCurrency: code,
		RateUsed:       one,
	}
}
