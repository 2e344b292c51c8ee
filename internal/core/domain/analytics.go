package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConversionHistoryEntry is a read-only projection of a multi-currency transaction.
type ConversionHistoryEntry struct {
	Date            time.Time       `json:"date"`
	FromCurrency    CurrencyCode    `json:"fromCurrency"`
	ToCurrency      CurrencyCode    `json:"toCurrency"`
	Rate            decimal.Decimal `json:"rate"`
	Amount          decimal.Decimal `json:"amount"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	TransactionID   string          `json:"transactionID"`
}

// CurrencyPair is a distinct (from, to) combination seen in the history.
type CurrencyPair struct {
	From  CurrencyCode `json:"from"`
	To    CurrencyCode `json:"to"`
	Label string       `json:"label"`
	Count int          `json:"count"`
}

// RatePoint is the average rate of one pair on one calendar day.
type RatePoint struct {
	Date        string          `json:"date"`
	AverageRate decimal.Decimal `json:"averageRate"`
	Count       int             `json:"count"`
}

// ConversionStats aggregates the whole conversion history.
type ConversionStats struct {
	TotalConversions  int             `json:"totalConversions"`
	TotalVolume       decimal.Decimal `json:"totalVolume"`
	AverageRate       decimal.Decimal `json:"averageRate"`
	BestRate          decimal.Decimal `json:"bestRate"`
	WorstRate         decimal.Decimal `json:"worstRate"`
	MostUsedPair      string          `json:"mostUsedPair"`
	MostUsedPairCount int             `json:"mostUsedPairCount"`
}

// TrendPoint summarises conversions on one day of a trailing window.
type TrendPoint struct {
	Date        string          `json:"date"`
	Count       int             `json:"count"`
	Volume      decimal.Decimal `json:"volume"`
	AverageRate decimal.Decimal `json:"averageRate"`
}

// Exposure maps each currency to the net signed balance held in it.
type Exposure map[CurrencyCode]decimal.Decimal

// ConversionEfficiency compares realised rates against the best rate ever observed.
// It is a heuristic: it assumes every conversion could have captured that single
// best rate, so PotentialSavings is an upper bound rather than a cost basis.
type ConversionEfficiency struct {
	AverageRate       decimal.Decimal `json:"averageRate"`
	BestRate          decimal.Decimal `json:"bestRate"`
	EfficiencyPercent decimal.Decimal `json:"efficiencyPercent"`
	ActualReceived    decimal.Decimal `json:"actualReceived"`
	AtBestRate        decimal.Decimal `json:"atBestRate"`
	PotentialSavings  decimal.Decimal `json:"potentialSavings"`
	Heuristic         bool            `json:"heuristic"`
}
