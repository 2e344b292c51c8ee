package services_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/SscSPs/mma_fx/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var errProviderDown = errors.New("provider down")

// usdRates is the provider's view of the world; other bases are derived from it.
var usdRates = map[domain.CurrencyCode]decimal.Decimal{
	"EUR": decimal.NewFromFloat(0.9),
	"SAR": decimal.NewFromFloat(3.75),
}

// fakeProvider serves USD-derived tables for any known base and counts fetches.
type fakeProvider struct {
	mu      sync.Mutex
	calls   map[domain.CurrencyCode]int
	failing map[domain.CurrencyCode]bool
	gate    chan struct{}
	started chan struct{}
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		calls:   make(map[domain.CurrencyCode]int),
		failing: make(map[domain.CurrencyCode]bool),
	}
}

// blockUntilReleased makes every fetch wait for release() and signal started.
func (p *fakeProvider) blockUntilReleased() {
	p.gate = make(chan struct{})
	p.started = make(chan struct{}, 64)
}

func (p *fakeProvider) release() {
	close(p.gate)
}

func (p *fakeProvider) fail(base domain.CurrencyCode, failing bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failing[base] = failing
}

func (p *fakeProvider) Calls(base domain.CurrencyCode) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[base]
}

func (p *fakeProvider) TotalCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := 0
	for _, n := range p.calls {
		total += n
	}
	return total
}

func (p *fakeProvider) FetchLatest(ctx context.Context, base domain.CurrencyCode) (domain.RateTable, error) {
	p.mu.Lock()
	p.calls[base]++
	failing := p.failing[base]
	p.mu.Unlock()

	if p.gate != nil {
		p.started <- struct{}{}
		select {
		case <-p.gate:
		case <-ctx.Done():
			return domain.RateTable{}, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return domain.RateTable{}, err
	}
	if failing {
		return domain.RateTable{}, errProviderDown
	}
	return rebase(base)
}

func rebase(base domain.CurrencyCode) (domain.RateTable, error) {
	if base == "USD" {
		rates := make(map[domain.CurrencyCode]decimal.Decimal, len(usdRates))
		for code, rate := range usdRates {
			rates[code] = rate
		}
		return domain.RateTable{Base: base, Rates: rates}, nil
	}
	pivot, ok := usdRates[base]
	if !ok {
		return domain.RateTable{}, errors.New("unknown base " + base)
	}
	rates := map[domain.CurrencyCode]decimal.Decimal{"USD": decimal.NewFromInt(1).Div(pivot)}
	for code, rate := range usdRates {
		if code != base {
			rates[code] = rate.Div(pivot)
		}
	}
	return domain.RateTable{Base: base, Rates: rates}, nil
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, userID, transactionID string) (*domain.NormalizedTransaction, error) {
	args := m.Called(ctx, userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NormalizedTransaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, limit, offset int) ([]domain.NormalizedTransaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NormalizedTransaction), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, tx domain.NormalizedTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
