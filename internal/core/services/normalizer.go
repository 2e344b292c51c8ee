package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/mma_fx/internal/apperrors"
	"github.com/SscSPs/mma_fx/internal/core/domain"
	portssvc "github.com/SscSPs/mma_fx/internal/core/ports/services"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionNormalizer turns drafts into NormalizedTransactions denominated
// in a target currency. Conversion problems never fail normalization: the
// record falls back to a stale rate or to its original amount and a warning
// is returned alongside it.
type TransactionNormalizer struct {
	BaseService
	converter portssvc.ConverterSvc
	stale     portssvc.StaleRateSource
	validate  *validator.Validate
	now       func() time.Time
	newID     func() string
}

// NormalizerOption is a functional option for configuring the normalizer
type NormalizerOption func(*TransactionNormalizer)

// WithNormalizerStaleFallback enables conversion with an expired rate table
// when the live conversion fails.
func WithNormalizerStaleFallback(stale portssvc.StaleRateSource) NormalizerOption {
	return func(n *TransactionNormalizer) {
		n.stale = stale
	}
}

// WithNormalizerClock replaces time.Now for NormalizedAt and missing dates.
func WithNormalizerClock(now func() time.Time) NormalizerOption {
	return func(n *TransactionNormalizer) {
		n.now = now
	}
}

// WithIDGenerator replaces uuid.NewString for drafts without an ID.
func WithIDGenerator(newID func() string) NormalizerOption {
	return func(n *TransactionNormalizer) {
		n.newID = newID
	}
}

// NewTransactionNormalizer creates a normalizer converting through converter.
func NewTransactionNormalizer(converter portssvc.ConverterSvc, options ...NormalizerOption) *TransactionNormalizer {
	n := &TransactionNormalizer{
		converter: converter,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, option := range options {
		option(n)
	}
	return n
}

var _ portssvc.NormalizerSvc = (*TransactionNormalizer)(nil)

// Normalize validates draft and attaches original and converted amounts.
// A draft without a currency is assumed to already be in target.
// The only errors returned are validation errors.
func (n *TransactionNormalizer) Normalize(ctx context.Context, draft domain.DraftTransaction, target domain.CurrencyCode) (domain.NormalizeOutcome, error) {
	target = domain.NormalizeCode(target)
	if len(target) != 3 {
		return domain.NormalizeOutcome{}, apperrors.NewValidationError("target currency must be a 3 letter code")
	}
	draft.Currency = domain.NormalizeCode(draft.Currency)
	if err := n.validate.StructCtx(ctx, draft); err != nil {
		return domain.NormalizeOutcome{}, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if draft.ConversionFee.IsNegative() {
		return domain.NormalizeOutcome{}, apperrors.NewValidationError("conversion fee cannot be negative")
	}

	source := draft.Currency
	if source == "" {
		source = target
	}
	amount := draft.Amount.Round(domain.AmountScale)
	fee := draft.ConversionFee.Round(domain.AmountScale)

	tx := domain.NormalizedTransaction{
		TransactionID:    draft.TransactionID,
		UserID:           draft.UserID,
		Type:             draft.Type,
		Description:      draft.Description,
		Category:         draft.Category,
		Date:             draft.Date,
		OriginalAmount:   amount,
		OriginalCurrency: source,
		ConversionFee:    fee,
		NormalizedAt:     n.now(),
	}
	if tx.TransactionID == "" {
		tx.TransactionID = n.newID()
	}
	if tx.Date.IsZero() {
		tx.Date = tx.NormalizedAt
	}

	if source == target {
		tx.ConvertedAmount = amount
		tx.ConvertedCurrency = target
		tx.ConversionRate = one
		tx.ConversionStatus = domain.StatusIdentity
		return domain.NormalizeOutcome{Transaction: tx}, nil
	}

	attrs := []any{
		slog.String("transaction_id", tx.TransactionID),
		slog.String("from", source),
		slog.String("to", target),
	}

	result, used, err := FirstSuccess(ctx, n.conversionStrategies(amount, source, target)...)
	if err != nil {
		n.LogWarn(ctx, "Currency conversion unavailable, keeping original amount",
			append(attrs, slog.String("error", err.Error()))...)
		tx.ConvertedAmount = amount
		tx.ConvertedCurrency = source
		tx.ConversionRate = one
		tx.ConversionStatus = domain.StatusUnconverted
		return domain.NormalizeOutcome{
			Transaction: tx,
			Warning:     fmt.Sprintf("could not convert %s to %s, amount kept in %s: %s", source, target, source, conversionReason(err)),
		}, nil
	}

	tx.ConvertedAmount = result.Amount.Round(domain.AmountScale)
	tx.ConvertedCurrency = target
	tx.ConversionRate = rateOf(amount, tx.ConvertedAmount, result.RateUsed)
	tx.ConversionStatus = domain.StatusConverted

	outcome := domain.NormalizeOutcome{Transaction: tx}
	if used == strategyStaleRates {
		outcome.Transaction.ConversionStatus = domain.StatusStaleRate
		outcome.Warning = fmt.Sprintf("converted %s to %s using cached rates older than the refresh window", source, target)
		n.LogWarn(ctx, "Converted transaction with stale rates", attrs...)
	}
	return outcome, nil
}

// Renormalize produces a new record for tx denominated in target, starting
// from its original amount and currency. tx itself is left untouched.
func (n *TransactionNormalizer) Renormalize(ctx context.Context, tx domain.NormalizedTransaction, target domain.CurrencyCode) (domain.NormalizeOutcome, error) {
	return n.Normalize(ctx, tx.Draft(), target)
}

func (n *TransactionNormalizer) conversionStrategies(amount decimal.Decimal, from, to domain.CurrencyCode) []Strategy[domain.ConversionResult] {
	strategies := []Strategy[domain.ConversionResult]{{
		Name: strategyLiveRates,
		Run: func(ctx context.Context) (domain.ConversionResult, error) {
			return n.converter.Convert(ctx, amount, from, to)
		},
	}}
	if n.stale != nil {
		strategies = append(strategies, Strategy[domain.ConversionResult]{
			Name: strategyStaleRates,
			Run: func(context.Context) (domain.ConversionResult, error) {
				table, ok := n.stale.Stale(from)
				if !ok {
					return domain.ConversionResult{}, fmt.Errorf("no cached %s rates", from)
				}
				return ConvertWithTable(amount, from, to, table)
			},
		})
	}
	return strategies
}

// rateOf derives the stored rate from the stored amounts, so that
// converted / original and the rate agree to RateScale places.
func rateOf(original, converted, rateUsed decimal.Decimal) decimal.Decimal {
	if original.IsZero() {
		return rateUsed.Round(domain.RateScale)
	}
	return converted.Div(original).Round(domain.RateScale)
}

func conversionReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrUnsupportedCurrency):
		return "currency not supported by rate provider"
	case errors.Is(err, apperrors.ErrRateFetch):
		return "exchange rates temporarily unavailable"
	default:
		return "conversion failed"
	}
}
