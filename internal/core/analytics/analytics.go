// Package analytics derives read-only conversion reports from normalized
// transactions. Every function is pure: no I/O, no shared state, and empty
// input produces zeroed aggregates.
package analytics

import (
	"sort"
	"time"

	"github.com/SscSPs/mma_fx/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DayFormat is the calendar-day key used by time series and trends.
const DayFormat = "2006-01-02"

// DefaultTrendDays is the trailing window used by Trends when days <= 0.
const DefaultTrendDays = 7

var hundred = decimal.NewFromInt(100)

// History projects every transaction whose original and converted currencies
// differ into a ConversionHistoryEntry, newest first.
func History(txs []domain.NormalizedTransaction) []domain.ConversionHistoryEntry {
	history := make([]domain.ConversionHistoryEntry, 0, len(txs))
	for _, tx := range txs {
		if !tx.IsMultiCurrency() {
			continue
		}
		history = append(history, domain.ConversionHistoryEntry{
			Date:            tx.Date,
			FromCurrency:    tx.OriginalCurrency,
			ToCurrency:      tx.ConvertedCurrency,
			Rate:            tx.ConversionRate,
			Amount:          tx.OriginalAmount,
			ConvertedAmount: tx.ConvertedAmount,
			TransactionID:   tx.TransactionID,
		})
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.After(history[j].Date)
	})
	return history
}

// PairLabel formats a pair as "FROM/TO".
func PairLabel(from, to domain.CurrencyCode) string {
	return from + "/" + to
}

// CurrencyPairs lists the distinct pairs in history with their occurrence
// count, sorted by label.
func CurrencyPairs(history []domain.ConversionHistoryEntry) []domain.CurrencyPair {
	index := make(map[string]int)
	pairs := make([]domain.CurrencyPair, 0)
	for _, e := range history {
		label := PairLabel(e.FromCurrency, e.ToCurrency)
		if i, ok := index[label]; ok {
			pairs[i].Count++
			continue
		}
		index[label] = len(pairs)
		pairs = append(pairs, domain.CurrencyPair{From: e.FromCurrency, To: e.ToCurrency, Label: label, Count: 1})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Label < pairs[j].Label })
	return pairs
}

// RateTimeSeries averages the rate of one pair per UTC calendar day and returns at
// most the last days days present in the data, oldest first.
func RateTimeSeries(history []domain.ConversionHistoryEntry, from, to domain.CurrencyCode, days int) []domain.RatePoint {
	buckets := make(map[string]*bucket)
	for _, e := range history {
		if e.FromCurrency != from || e.ToCurrency != to {
			continue
		}
		addToBucket(buckets, e, time.UTC)
	}

	keys := sortedDays(buckets)
	if days > 0 && len(keys) > days {
		keys = keys[len(keys)-days:]
	}

	points := make([]domain.RatePoint, 0, len(keys))
	for _, day := range keys {
		b := buckets[day]
		points = append(points, domain.RatePoint{Date: day, AverageRate: b.averageRate(), Count: b.count})
	}
	return points
}

// Stats aggregates count, absolute volume, mean/best/worst rate and the most
// frequent pair over the whole history. Ties on the most frequent pair go to
// the alphabetically first label.
func Stats(history []domain.ConversionHistoryEntry) domain.ConversionStats {
	stats := domain.ConversionStats{
		TotalVolume: decimal.Zero,
		AverageRate: decimal.Zero,
		BestRate:    decimal.Zero,
		WorstRate:   decimal.Zero,
	}
	if len(history) == 0 {
		return stats
	}

	rateSum := decimal.Zero
	for i, e := range history {
		stats.TotalVolume = stats.TotalVolume.Add(e.Amount.Abs())
		rateSum = rateSum.Add(e.Rate)
		if i == 0 || e.Rate.GreaterThan(stats.BestRate) {
			stats.BestRate = e.Rate
		}
		if i == 0 || e.Rate.LessThan(stats.WorstRate) {
			stats.WorstRate = e.Rate
		}
	}
	stats.TotalConversions = len(history)
	stats.AverageRate = rateSum.Div(decimal.NewFromInt(int64(len(history))))

	for _, p := range CurrencyPairs(history) {
		if p.Count > stats.MostUsedPairCount {
			stats.MostUsedPair = p.Label
			stats.MostUsedPairCount = p.Count
		}
	}
	return stats
}

// Trends reports per-day count, absolute volume and mean rate for conversions
// in the trailing window of days calendar days ending at now, oldest first.
func Trends(history []domain.ConversionHistoryEntry, now time.Time, days int) []domain.TrendPoint {
	if days <= 0 {
		days = DefaultTrendDays
	}
	y, m, d := now.Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(days - 1))

	buckets := make(map[string]*bucket)
	for _, e := range history {
		if e.Date.Before(cutoff) || e.Date.After(now) {
			continue
		}
		addToBucket(buckets, e, now.Location())
	}

	keys := sortedDays(buckets)
	points := make([]domain.TrendPoint, 0, len(keys))
	for _, day := range keys {
		b := buckets[day]
		points = append(points, domain.TrendPoint{
			Date:        day,
			Count:       b.count,
			Volume:      b.volume,
			AverageRate: b.averageRate(),
		})
	}
	return points
}

// Exposure nets every transaction's original amount per original currency:
// income adds, expense subtracts. The converted amount is ignored.
func Exposure(txs []domain.NormalizedTransaction) domain.Exposure {
	exposure := make(domain.Exposure)
	for _, tx := range txs {
		if tx.OriginalCurrency == "" {
			continue
		}
		current, ok := exposure[tx.OriginalCurrency]
		if !ok {
			current = decimal.Zero
		}
		exposure[tx.OriginalCurrency] = current.Add(tx.SignedOriginalAmount())
	}
	return exposure
}

// Efficiency compares the average historical rate against the best rate ever
// observed. It is a heuristic: it assumes every conversion could have been made
// at that single best rate, so PotentialSavings is an upper bound.
func Efficiency(history []domain.ConversionHistoryEntry) domain.ConversionEfficiency {
	eff := domain.ConversionEfficiency{
		AverageRate:       decimal.Zero,
		BestRate:          decimal.Zero,
		EfficiencyPercent: decimal.Zero,
		ActualReceived:    decimal.Zero,
		AtBestRate:        decimal.Zero,
		PotentialSavings:  decimal.Zero,
		Heuristic:         true,
	}
	if len(history) == 0 {
		return eff
	}

	stats := Stats(history)
	eff.AverageRate = stats.AverageRate
	eff.BestRate = stats.BestRate
	if stats.BestRate.IsPositive() {
		eff.EfficiencyPercent = stats.AverageRate.Div(stats.BestRate).Mul(hundred)
	}

	for _, e := range history {
		eff.ActualReceived = eff.ActualReceived.Add(e.ConvertedAmount.Abs())
		eff.AtBestRate = eff.AtBestRate.Add(e.Amount.Abs().Mul(stats.BestRate))
	}
	eff.PotentialSavings = eff.AtBestRate.Sub(eff.ActualReceived)
	return eff
}

type bucket struct {
	count   int
	volume  decimal.Decimal
	rateSum decimal.Decimal
}

func (b *bucket) averageRate() decimal.Decimal {
	if b.count == 0 {
		return decimal.Zero
	}
	return b.rateSum.Div(decimal.NewFromInt(int64(b.count)))
}

// addToBucket files e under its calendar day as seen in loc.
func addToBucket(buckets map[string]*bucket, e domain.ConversionHistoryEntry, loc *time.Location) {
	day := e.Date.In(loc).Format(DayFormat)
	b, ok := buckets[day]
	if !ok {
		b = &bucket{volume: decimal.Zero, rateSum: decimal.Zero}
		buckets[day] = b
	}
	b.count++
	b.volume = b.volume.Add(e.Amount.Abs())
	b.rateSum = b.rateSum.Add(e.Rate)
}

func sortedDays(buckets map[string]*bucket) []string {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
