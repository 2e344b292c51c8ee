package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/mma_fx/internal/core/domain"
	portssvc "github.com/SscSPs/mma_fx/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

const (
	strategyLiveRates  = "live_rates"
	strategyStaleRates = "stale_rates"
)

// BatchConverter re-denominates a list of amounts into one target currency,
// fetching at most one rate table per distinct source currency.
type BatchConverter struct {
	BaseService
	rates portssvc.RateSource
	stale portssvc.StaleRateSource
}

// BatchConverterOption is a functional option for configuring the batch converter
type BatchConverterOption func(*BatchConverter)

// WithStaleFallback lets a group whose fetch failed fall back to the last
// known table for its currency before giving up.
func WithStaleFallback(stale portssvc.StaleRateSource) BatchConverterOption {
	return func(b *BatchConverter) {
		b.stale = stale
	}
}

// NewBatchConverter creates a BatchConverter reading tables from rates.
func NewBatchConverter(rates portssvc.RateSource, options ...BatchConverterOption) *BatchConverter {
	b := &BatchConverter{rates: rates}
	for _, option := range options {
		option(b)
	}
	return b
}

var _ portssvc.BatchConverterSvc = (*BatchConverter)(nil)

// BatchConvert returns one amount per item, in input order. Items whose
// currency group could not be converted keep their original amount.
func (b *BatchConverter) BatchConvert(ctx context.Context, items []domain.BatchItem, to domain.CurrencyCode) []decimal.Decimal {
	results := b.BatchConvertDetailed(ctx, items, to)
	amounts := make([]decimal.Decimal, len(results))
	for i, r := range results {
		amounts[i] = r.Amount
	}
	return amounts
}

// BatchConvertDetailed is BatchConvert with per-item conversion status.
// Groups are processed sequentially in order of first appearance.
func (b *BatchConverter) BatchConvertDetailed(ctx context.Context, items []domain.BatchItem, to domain.CurrencyCode) []domain.BatchResult {
	to = domain.NormalizeCode(to)
	results := make([]domain.BatchResult, len(items))

	order := make([]domain.CurrencyCode, 0)
	groups := make(map[domain.CurrencyCode][]int)
	for i, item := range items {
		from := domain.NormalizeCode(item.Currency)
		if from == "" {
			from = to
		}
		if _, seen := groups[from]; !seen {
			order = append(order, from)
		}
		groups[from] = append(groups[from], i)
	}

	failedGroups := 0
	for _, from := range order {
		idx := groups[from]

		if from == to || to == "" {
			for _, i := range idx {
				results[i] = domain.BatchResult{Amount: items[i].Amount, Currency: from, Converted: from == to}
			}
			continue
		}

		table, used, err := FirstSuccess(ctx, b.groupStrategies(from)...)
		if err != nil {
			failedGroups++
			b.LogWarn(ctx, "Batch conversion group failed, keeping original amounts",
				slog.String("from", from),
				slog.String("to", to),
				slog.Int("items", len(idx)),
				slog.String("error", err.Error()))
			for _, i := range idx {
				results[i] = domain.BatchResult{Amount: items[i].Amount, Currency: from, Err: err}
			}
			continue
		}

		for _, i := range idx {
			converted, convErr := ConvertWithTable(items[i].Amount, from, to, table)
			if convErr != nil {
				results[i] = domain.BatchResult{Amount: items[i].Amount, Currency: from, Err: convErr}
				continue
			}
			results[i] = domain.BatchResult{
				Amount:    converted.Amount,
				Currency:  to,
				Converted: true,
				Stale:     used == strategyStaleRates,
			}
		}
	}

	b.LogDebug(ctx, "Batch conversion finished",
		slog.String("to", to),
		slog.Int("items", len(items)),
		slog.Int("groups", len(order)),
		slog.Int("failed_groups", failedGroups))
	return results
}

func (b *BatchConverter) groupStrategies(from domain.CurrencyCode) []Strategy[domain.RateTable] {
	strategies := []Strategy[domain.RateTable]{{
		Name: strategyLiveRates,
		Run: func(ctx context.Context) (domain.RateTable, error) {
			return b.rates.GetRates(ctx, from)
		},
	}}
	if b.stale != nil {
		strategies = append(strategies, Strategy[domain.RateTable]{
			Name: strategyStaleRates,
			Run: func(context.Context) (domain.RateTable, error) {
				table, ok := b.stale.Stale(from)
				if !ok {
					return domain.RateTable{}, fmt.Errorf("no cached %s rates", from)
				}
				return table, nil
			},
		})
	}
	return strategies
}
