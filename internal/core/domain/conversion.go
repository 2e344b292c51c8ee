package domain

import "github.com/shopspring/decimal"

// ConversionResult describes one amount converted from SourceCurrency to TargetCurrency.
// When both currencies are equal RateUsed is 1 and Amount is the input amount.
type ConversionResult struct {
	Amount         decimal.Decimal `json:"amount"`
	SourceCurrency CurrencyCode    `json:"sourceCurrency"`
	TargetCurrency CurrencyCode    `json:"targetCurrency"`
	RateUsed       decimal.Decimal `json:"rateUsed"`
	ViaCrossRate   bool            `json:"viaCrossRate"`
}

// BatchItem is one input of a batch conversion.
type BatchItem struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency CurrencyCode    `json:"currency"`
}

// BatchResult is the per-item outcome of a batch conversion.
// When Converted is false Amount holds the original, unconverted amount and Err the reason.
type BatchResult struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  CurrencyCode    `json:"currency"`
	Converted bool            `json:"converted"`
	Stale     bool            `json:"stale,omitempty"`
	Err       error           `json:"-"`
}
