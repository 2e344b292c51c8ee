package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether money came in or went out.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Decimal places kept for stored amounts and rates. They match the NUMERIC
// scales of the transactions table, so a record reads back exactly as written.
const (
	AmountScale int32 = 10
	RateScale   int32 = 16
)

// ConversionStatus tags how the converted fields of a transaction were obtained.
type ConversionStatus string

const (
	// StatusIdentity means source and target currency were the same.
	StatusIdentity ConversionStatus = "identity"
	// StatusConverted means a fresh rate table was used.
	StatusConverted ConversionStatus = "converted"
	// StatusStaleRate means a rate table older than the cache TTL was used.
	StatusStaleRate ConversionStatus = "stale_rate"
	// StatusUnconverted means conversion failed and the original amount was kept.
	StatusUnconverted ConversionStatus = "unconverted"
)

// DraftTransaction is a transaction as produced by an external collaborator
// (chat handler, CSV importer, receipt handler) before currency normalization.
type DraftTransaction struct {
	TransactionID string          `json:"transactionID"`
	UserID        string          `json:"userID" validate:"required"`
	Type          TransactionType `json:"type" validate:"required,oneof=income expense"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      CurrencyCode    `json:"currency" validate:"omitempty,len=3,alpha"`
	Description   string          `json:"description" validate:"max=500"`
	Category      string          `json:"category" validate:"max=100"`
	Date          time.Time       `json:"date"`
	ConversionFee decimal.Decimal `json:"conversionFee"`
}

// NormalizedTransaction is a draft with both its original and converted amounts attached.
// ConversionRate == ConvertedAmount / OriginalAmount whenever OriginalAmount is non-zero.
// Records are never edited in place; re-normalizing produces a new value.
type NormalizedTransaction struct {
	TransactionID     string           `json:"transactionID"`
	UserID            string           `json:"userID"`
	Type              TransactionType  `json:"type"`
	Description       string           `json:"description"`
	Category          string           `json:"category"`
	Date              time.Time        `json:"date"`
	OriginalAmount    decimal.Decimal  `json:"originalAmount"`
	OriginalCurrency  CurrencyCode     `json:"originalCurrency"`
	ConvertedAmount   decimal.Decimal  `json:"convertedAmount"`
	ConvertedCurrency CurrencyCode     `json:"convertedCurrency"`
	ConversionRate    decimal.Decimal  `json:"conversionRate"`
	ConversionFee     decimal.Decimal  `json:"conversionFee"`
	ConversionStatus  ConversionStatus `json:"conversionStatus"`
	NormalizedAt      time.Time        `json:"normalizedAt"`
}

// IsMultiCurrency reports whether the original and converted currencies differ.
func (t NormalizedTransaction) IsMultiCurrency() bool {
	return t.OriginalCurrency != "" && t.ConvertedCurrency != "" && t.OriginalCurrency != t.ConvertedCurrency
}

// SignedOriginalAmount returns the original amount, negated for expenses.
func (t NormalizedTransaction) SignedOriginalAmount() decimal.Decimal {
	if t.Type == Expense {
		return t.OriginalAmount.Neg()
	}
	return t.OriginalAmount
}

// Draft rebuilds the draft the transaction was normalized from.
func (t NormalizedTransaction) Draft() DraftTransaction {
	return DraftTransaction{
		TransactionID: t.TransactionID,
		UserID:        t.UserID,
		Type:          t.Type,
		Amount:        t.OriginalAmount,
		Currency:      t.OriginalCurrency,
		Description:   t.Description,
		Category:      t.Category,
		Date:          t.Date,
		ConversionFee: t.ConversionFee,
	}
}

// NormalizeOutcome is the result of normalizing a draft. Warning is non-empty
// when conversion degraded to a stale rate or to the original amount.
type NormalizeOutcome struct {
	Transaction NormalizedTransaction `json:"transaction"`
	Warning     string                `json:"warning,omitempty"`
}
