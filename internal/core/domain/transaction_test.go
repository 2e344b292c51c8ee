package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/mma_fx/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizedTransaction_IsMultiCurrency(t *testing.T) {
	tests := []struct {
		name        string
		transaction domain.NormalizedTransaction
		want        bool
	}{
		{
			name: "same currency",
			transaction: domain.NormalizedTransaction{
				OriginalCurrency:  "USD",
				ConvertedCurrency: "USD",
			},
			want: false,
		},
		{
			name: "USD to EUR",
			transaction: domain.NormalizedTransaction{
				OriginalCurrency:  "USD",
				ConvertedCurrency: "EUR",
			},
			want: true,
		},
		{
			name: "missing original currency",
			transaction: domain.NormalizedTransaction{
				ConvertedCurrency: "EUR",
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.transaction.IsMultiCurrency())
		})
	}
}

func TestNormalizedTransaction_SignedOriginalAmount(t *testing.T) {
	income := domain.NormalizedTransaction{Type: domain.Income, OriginalAmount: decimal.NewFromInt(1000)}
	expense := domain.NormalizedTransaction{Type: domain.Expense, OriginalAmount: decimal.NewFromInt(200)}

	assert.True(t, income.SignedOriginalAmount().Equal(decimal.NewFromInt(1000)))
	assert.True(t, expense.SignedOriginalAmount().Equal(decimal.NewFromInt(-200)))
}

func TestNormalizedTransaction_Draft(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tx := domain.NormalizedTransaction{
		TransactionID:     "txn_123",
		UserID:            "user_1",
		Type:              domain.Expense,
		Description:       "coffee",
		Category:          "food",
		Date:              date,
		OriginalAmount:    decimal.NewFromInt(5),
		OriginalCurrency:  "EUR",
		ConvertedAmount:   decimal.NewFromFloat(5.5),
		ConvertedCurrency: "USD",
		ConversionRate:    decimal.NewFromFloat(1.1),
		ConversionFee:     decimal.NewFromFloat(0.1),
	}

	draft := tx.Draft()

	assert.Equal(t, "txn_123", draft.TransactionID)
	assert.Equal(t, "EUR", draft.Currency)
	assert.True(t, draft.Amount.Equal(decimal.NewFromInt(5)))
	assert.True(t, draft.ConversionFee.Equal(decimal.NewFromFloat(0.1)))
	assert.Equal(t, date, draft.Date)
}

func TestRateTable_Rate(t *testing.T) {
	table := domain.RateTable{
		Base:  "USD",
		Rates: map[string]decimal.Decimal{"EUR": decimal.NewFromFloat(0.9)},
	}

	r, ok := table.Rate("USD")
	assert.True(t, ok)
	assert.True(t, r.Equal(decimal.NewFromInt(1)))

	r, ok = table.Rate("EUR")
	assert.True(t, ok)
	assert.True(t, r.Equal(decimal.NewFromFloat(0.9)))

	_, ok = table.Rate("SAR")
	assert.False(t, ok)
}

func TestRateTable_IsStale(t *testing.T) {
	fetched := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	table := domain.RateTable{Base: "USD", FetchedAt: fetched}

	assert.False(t, table.IsStale(fetched.Add(59*time.Minute), time.Hour))
	assert.False(t, table.IsStale(fetched.Add(time.Hour), time.Hour))
	assert.True(t, table.IsStale(fetched.Add(time.Hour+time.Second), time.Hour))
	assert.Equal(t, 30*time.Minute, table.Age(fetched.Add(30*time.Minute)))
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "USD", domain.NormalizeCode(" usd "))
	assert.Equal(t, "", domain.NormalizeCode(""))
}
