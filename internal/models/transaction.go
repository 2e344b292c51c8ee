package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the persisted form of a normalized transaction.
// Currency codes are stored upper case; amounts as NUMERIC.
type Transaction struct {
	TransactionID     string          `db:"transaction_id"`
	UserID            string          `db:"user_id"`
	TransactionType   string          `db:"transaction_type"`
	Description       string          `db:"description"`
	Category          string          `db:"category"`
	TransactionDate   time.Time       `db:"transaction_date"`
	OriginalAmount    decimal.Decimal `db:"original_amount"`
	OriginalCurrency  string          `db:"original_currency"`
	ConvertedAmount   decimal.Decimal `db:"converted_amount"`
	ConvertedCurrency string          `db:"converted_currency"`
	ConversionRate    decimal.Decimal `db:"conversion_rate"`
	ConversionFee     decimal.Decimal `db:"conversion_fee"`
	ConversionStatus  string          `db:"conversion_status"`
	NormalizedAt      time.Time       `db:"normalized_at"`
}
