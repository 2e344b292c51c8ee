package services

import (
	"context"
	"time"

	"github.com/SscSPs/mma_fx/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateSource returns rate tables keyed by base currency.
type RateSource interface {
	// GetRates returns a rate table for base no older than the cache TTL.
	GetRates(ctx context.Context, base domain.CurrencyCode) (domain.RateTable, error)
}

// StaleRateSource exposes the last known table for a base regardless of age.
// It is only meant for call-site fallback after GetRates failed.
type StaleRateSource interface {
	Stale(base domain.CurrencyCode) (domain.RateTable, bool)
}

// RateCacheSvc is the rate cache as seen by its callers.
type RateCacheSvc interface {
	RateSource
	StaleRateSource
	// Invalidate drops the cached table for base.
	Invalidate(base domain.CurrencyCode)
}

// ConverterSvc converts single amounts between currencies.
type ConverterSvc interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to domain.CurrencyCode) (domain.ConversionResult, error)
}

// BatchConverterSvc re-denominates many amounts into one target currency.
type BatchConverterSvc interface {
	BatchConvert(ctx context.Context, items []domain.BatchItem, to domain.CurrencyCode) []decimal.Decimal
	BatchConvertDetailed(ctx context.Context, items []domain.BatchItem, to domain.CurrencyCode) []domain.BatchResult
}

// NormalizerSvc attaches original and converted amounts to drafts.
type NormalizerSvc interface {
	Normalize(ctx context.Context, draft domain.DraftTransaction, target domain.CurrencyCode) (domain.NormalizeOutcome, error)
	Renormalize(ctx context.Context, tx domain.NormalizedTransaction, target domain.CurrencyCode) (domain.NormalizeOutcome, error)
}

// TransactionSvcFacade covers the transaction-creation and listing flows.
type TransactionSvcFacade interface {
	// CreateTransaction normalizes draft into target and persists the result.
	CreateTransaction(ctx context.Context, draft domain.DraftTransaction, target domain.CurrencyCode) (*domain.NormalizeOutcome, error)

	// GetTransaction retrieves a single stored transaction.
	GetTransaction(ctx context.Context, userID, transactionID string) (*domain.NormalizedTransaction, error)

	// ListTransactions returns stored transactions with each converted amount
	// re-denominated into displayCurrency when it is non-empty.
	ListTransactions(ctx context.Context, userID string, displayCurrency domain.CurrencyCode, limit, offset int) ([]DisplayTransaction, error)
}

// DisplayTransaction is a stored transaction plus its amount in a display currency.
type DisplayTransaction struct {
	domain.NormalizedTransaction
	DisplayAmount    decimal.Decimal     `json:"displayAmount"`
	DisplayCurrency  domain.CurrencyCode `json:"displayCurrency"`
	DisplayConverted bool                `json:"displayConverted"`
}

// AnalyticsSvc produces read-only conversion reports for a user.
type AnalyticsSvc interface {
	History(ctx context.Context, userID string) ([]domain.ConversionHistoryEntry, error)
	CurrencyPairs(ctx context.Context, userID string) ([]domain.CurrencyPair, error)
	RateTimeSeries(ctx context.Context, userID string, from, to domain.CurrencyCode, days int) ([]domain.RatePoint, error)
	Stats(ctx context.Context, userID string) (*domain.ConversionStats, error)
	Trends(ctx context.Context, userID string, now time.Time, days int) ([]domain.TrendPoint, error)
	Exposure(ctx context.Context, userID string) (domain.Exposure, error)
	Efficiency(ctx context.Context, userID string) (*domain.ConversionEfficiency, error)
}
