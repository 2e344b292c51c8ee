package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateTable is a snapshot of provider rates relative to Base.
// Rates never contains Base itself; its rate is implicitly 1.
// A table is replaced wholesale when a newer fetch completes.
type RateTable struct {
	Base      CurrencyCode                     `json:"base"`
	Rates     map[CurrencyCode]decimal.Decimal `json:"rates"`
	FetchedAt time.Time                        `json:"fetchedAt"`
}

// Rate returns the rate for code relative to the table base.
func (t RateTable) Rate(code CurrencyCode) (decimal.Decimal, bool) {
	if code == t.Base {
		return decimal.NewFromInt(1), true
	}
	r, ok := t.Rates[code]
	return r, ok
}

// Age reports how long ago the table was fetched.
func (t RateTable) Age(now time.Time) time.Duration {
	return now.Sub(t.FetchedAt)
}

// IsStale reports whether the table is older than ttl.
func (t RateTable) IsStale(now time.Time, ttl time.Duration) bool {
	return t.Age(now) > ttl
}
