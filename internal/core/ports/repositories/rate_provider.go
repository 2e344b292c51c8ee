package repositories

import (
	"context"

	"github.com/SscSPs/mma_fx/internal/core/domain"
)

// RateProvider fetches the latest rate table for a base currency from an
// external source. Implementations return *apperrors.RateFetchError on failure.
type RateProvider interface {
	FetchLatest(ctx context.Context, base domain.CurrencyCode) (domain.RateTable, error)
}
