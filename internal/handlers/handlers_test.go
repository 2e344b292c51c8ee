package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/mma_fx/internal/apperrors"
	"github.com/SscSPs/mma_fx/internal/core/domain"
	portssvc "github.com/SscSPs/mma_fx/internal/core/ports/services"
	"github.com/SscSPs/mma_fx/internal/handlers"
	"github.com/SscSPs/mma_fx/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock services ---
type MockRateCache struct {
	mock.Mock
}

func (m *MockRateCache) GetRates(ctx context.Context, base domain.CurrencyCode) (domain.RateTable, error) {
	args := m.Called(ctx, base)
	return args.Get(0).(domain.RateTable), args.Error(1)
}

func (m *MockRateCache) Stale(base domain.CurrencyCode) (domain.RateTable, bool) {
	args := m.Called(base)
	return args.Get(0).(domain.RateTable), args.Bool(1)
}

func (m *MockRateCache) Invalidate(base domain.CurrencyCode) {
	m.Called(base)
}

type MockConverter struct {
	mock.Mock
}

func (m *MockConverter) Convert(ctx context.Context, amount decimal.Decimal, from, to domain.CurrencyCode) (domain.ConversionResult, error) {
	args := m.Called(ctx, amount, from, to)
	return args.Get(0).(domain.ConversionResult), args.Error(1)
}

type MockBatchConverter struct {
	mock.Mock
}

func (m *MockBatchConverter) BatchConvert(ctx context.Context, items []domain.BatchItem, to domain.CurrencyCode) []decimal.Decimal {
	args := m.Called(ctx, items, to)
	return args.Get(0).([]decimal.Decimal)
}

func (m *MockBatchConverter) BatchConvertDetailed(ctx context.Context, items []domain.BatchItem, to domain.CurrencyCode) []domain.BatchResult {
	args := m.Called(ctx, items, to)
	return args.Get(0).([]domain.BatchResult)
}

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, draft domain.DraftTransaction, target domain.CurrencyCode) (*domain.NormalizeOutcome, error) {
	args := m.Called(ctx, draft, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NormalizeOutcome), args.Error(1)
}

func (m *MockTransactionService) GetTransaction(ctx context.Context, userID, transactionID string) (*domain.NormalizedTransaction, error) {
	args := m.Called(ctx, userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NormalizedTransaction), args.Error(1)
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, userID string, displayCurrency domain.CurrencyCode, limit, offset int) ([]portssvc.DisplayTransaction, error) {
	args := m.Called(ctx, userID, displayCurrency, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portssvc.DisplayTransaction), args.Error(1)
}

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) History(ctx context.Context, userID string) ([]domain.ConversionHistoryEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConversionHistoryEntry), args.Error(1)
}

func (m *MockAnalyticsService) CurrencyPairs(ctx context.Context, userID string) ([]domain.CurrencyPair, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CurrencyPair), args.Error(1)
}

func (m *MockAnalyticsService) RateTimeSeries(ctx context.Context, userID string, from, to domain.CurrencyCode, days int) ([]domain.RatePoint, error) {
	args := m.Called(ctx, userID, from, to, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RatePoint), args.Error(1)
}

func (m *MockAnalyticsService) Stats(ctx context.Context, userID string) (*domain.ConversionStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConversionStats), args.Error(1)
}

func (m *MockAnalyticsService) Trends(ctx context.Context, userID string, now time.Time, days int) ([]domain.TrendPoint, error) {
	args := m.Called(ctx, userID, now, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrendPoint), args.Error(1)
}

func (m *MockAnalyticsService) Exposure(ctx context.Context, userID string) (domain.Exposure, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Exposure), args.Error(1)
}

func (m *MockAnalyticsService) Efficiency(ctx context.Context, userID string) (*domain.ConversionEfficiency, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConversionEfficiency), args.Error(1)
}

// --- Test Suite ---
type HandlersTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockRates     *MockRateCache
	mockConverter *MockConverter
	mockBatch     *MockBatchConverter
	mockTxs       *MockTransactionService
	mockAnalytics *MockAnalyticsService
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockRates = new(MockRateCache)
	suite.mockConverter = new(MockConverter)
	suite.mockBatch = new(MockBatchConverter)
	suite.mockTxs = new(MockTransactionService)
	suite.mockAnalytics = new(MockAnalyticsService)

	container := &portssvc.ServiceContainer{
		RateCache:    suite.mockRates,
		Converter:    suite.mockConverter,
		Batch:        suite.mockBatch,
		Transactions: suite.mockTxs,
		Analytics:    suite.mockAnalytics,
	}
	suite.router = gin.New()
	err := handlers.RegisterRoutes(suite.router, &config.Config{}, container)
	suite.Require().NoError(err)
}

func (suite *HandlersTestSuite) TearDownTest() {
	suite.mockRates.AssertExpectations(suite.T())
	suite.mockConverter.AssertExpectations(suite.T())
	suite.mockBatch.AssertExpectations(suite.T())
	suite.mockTxs.AssertExpectations(suite.T())
	suite.mockAnalytics.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v))
}

func (suite *HandlersTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlersTestSuite) TestGetRates() {
	table := domain.RateTable{
		Base:      "USD",
		Rates:     map[domain.CurrencyCode]decimal.Decimal{"EUR": decimal.NewFromFloat(0.9)},
		FetchedAt: time.Now(),
	}
	suite.mockRates.On("GetRates", mock.Anything, "USD").Return(table, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/rates/usd", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp struct {
		Base  string            `json:"base"`
		Rates map[string]string `json:"rates"`
	}
	suite.decode(w, &resp)
	suite.Equal("USD", resp.Base)
	suite.Equal("0.9", resp.Rates["EUR"])
}

func (suite *HandlersTestSuite) TestGetRates_ErrorMapping() {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "provider down", err: &apperrors.RateFetchError{Base: "GBP", StatusCode: 503}, want: http.StatusBadGateway},
		{name: "unexpected", err: fmt.Errorf("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.mockRates.On("GetRates", mock.Anything, "GBP").Return(domain.RateTable{}, tt.err).Once()

			w := suite.do(http.MethodGet, "/api/v1/rates/GBP", nil)

			suite.Equal(tt.want, w.Code)
		})
	}
}

func (suite *HandlersTestSuite) TestGetRates_InvalidBase() {
	w := suite.do(http.MethodGet, "/api/v1/rates/DOLLAR", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestConvert() {
	result := domain.ConversionResult{
		Amount:         decimal.NewFromInt(90),
		SourceCurrency: "USD",
		TargetCurrency: "EUR",
		RateUsed:       decimal.NewFromFloat(0.9),
	}
	suite.mockConverter.On("Convert", mock.Anything, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(100))
	}), "USD", "EUR").Return(result, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/convert?amount=100&from=USD&to=EUR", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp domain.ConversionResult
	suite.decode(w, &resp)
	suite.True(resp.Amount.Equal(decimal.NewFromInt(90)))
}

func (suite *HandlersTestSuite) TestConvert_UnsupportedCurrency() {
	suite.mockConverter.On("Convert", mock.Anything, mock.Anything, "USD", "XYZ").
		Return(domain.ConversionResult{}, &apperrors.UnsupportedCurrencyError{Currency: "XYZ", Base: "USD"}).Once()

	w := suite.do(http.MethodGet, "/api/v1/convert?amount=1&from=USD&to=XYZ", nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlersTestSuite) TestConvert_BadInput() {
	for _, path := range []string{
		"/api/v1/convert?from=USD&to=EUR",
		"/api/v1/convert?amount=abc&from=USD&to=EUR",
		"/api/v1/convert?amount=1&from=US&to=EUR",
	} {
		w := suite.do(http.MethodGet, path, nil)
		suite.Equal(http.StatusBadRequest, w.Code, path)
	}
}

func (suite *HandlersTestSuite) TestBatchConvert() {
	results := []domain.BatchResult{
		{Amount: decimal.NewFromInt(375), Currency: "SAR", Converted: true},
		{Amount: decimal.NewFromInt(50), Currency: "GBP", Err: apperrors.ErrRateFetch},
	}
	suite.mockBatch.On("BatchConvertDetailed", mock.Anything, mock.MatchedBy(func(items []domain.BatchItem) bool {
		return len(items) == 2 && items[0].Currency == "USD" && items[1].Currency == "GBP"
	}), "SAR").Return(results).Once()

	body := map[string]any{
		"to": "sar",
		"items": []map[string]any{
			{"amount": "100", "currency": "USD"},
			{"amount": "50", "currency": "GBP"},
		},
	}
	w := suite.do(http.MethodPost, "/api/v1/convert/batch", body)

	suite.Equal(http.StatusOK, w.Code)
	var resp struct {
		To      string `json:"to"`
		Results []struct {
			Converted bool   `json:"converted"`
			Error     string `json:"error"`
		} `json:"results"`
	}
	suite.decode(w, &resp)
	suite.Equal("SAR", resp.To)
	suite.Require().Len(resp.Results, 2)
	suite.True(resp.Results[0].Converted)
	suite.NotEmpty(resp.Results[1].Error)
}

func (suite *HandlersTestSuite) TestBatchConvert_EmptyItems() {
	w := suite.do(http.MethodPost, "/api/v1/convert/batch", map[string]any{"to": "SAR", "items": []any{}})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestCreateTransaction() {
	outcome := &domain.NormalizeOutcome{
		Transaction: domain.NormalizedTransaction{TransactionID: "tx-1", UserID: "user-1", ConversionStatus: domain.StatusUnconverted},
		Warning:     "could not convert EUR to USD",
	}
	suite.mockTxs.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(d domain.DraftTransaction) bool {
		return d.UserID == "user-1" && d.Currency == "EUR" && d.Type == domain.Expense
	}), "USD").Return(outcome, nil).Once()

	body := map[string]any{"type": "expense", "amount": "12.5", "currency": "EUR", "targetCurrency": "USD"}
	w := suite.do(http.MethodPost, "/api/v1/users/user-1/transactions", body)

	suite.Equal(http.StatusCreated, w.Code)
	var resp map[string]any
	suite.decode(w, &resp)
	suite.Equal("tx-1", resp["transactionID"])
	suite.Equal("could not convert EUR to USD", resp["warning"])
}

func (suite *HandlersTestSuite) TestCreateTransaction_Invalid() {
	w := suite.do(http.MethodPost, "/api/v1/users/user-1/transactions", map[string]any{"type": "gift", "targetCurrency": "USD"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestCreateTransaction_Duplicate() {
	suite.mockTxs.On("CreateTransaction", mock.Anything, mock.Anything, "USD").
		Return(nil, fmt.Errorf("%w: transaction tx-1 already exists", apperrors.ErrDuplicate)).Once()

	body := map[string]any{"transactionID": "tx-1", "type": "income", "amount": "1", "targetCurrency": "USD"}
	w := suite.do(http.MethodPost, "/api/v1/users/user-1/transactions", body)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlersTestSuite) TestGetTransaction_NotFound() {
	suite.mockTxs.On("GetTransaction", mock.Anything, "user-1", "missing").
		Return(nil, apperrors.NewNotFoundError("transaction missing not found")).Once()

	w := suite.do(http.MethodGet, "/api/v1/users/user-1/transactions/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestListTransactions() {
	list := []portssvc.DisplayTransaction{{
		NormalizedTransaction: domain.NormalizedTransaction{TransactionID: "tx-1"},
		DisplayAmount:         decimal.NewFromInt(10),
		DisplayCurrency:       "EUR",
		DisplayConverted:      true,
	}}
	suite.mockTxs.On("ListTransactions", mock.Anything, "user-1", "EUR", 50, 0).Return(list, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/users/user-1/transactions?displayCurrency=EUR", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp struct {
		Transactions []map[string]any `json:"transactions"`
		Limit        int              `json:"limit"`
	}
	suite.decode(w, &resp)
	suite.Equal(50, resp.Limit)
	suite.Require().Len(resp.Transactions, 1)
	suite.Equal("EUR", resp.Transactions[0]["displayCurrency"])
}

func (suite *HandlersTestSuite) TestAnalyticsRoutes() {
	suite.mockAnalytics.On("History", mock.Anything, "user-1").Return([]domain.ConversionHistoryEntry{}, nil).Once()
	suite.mockAnalytics.On("CurrencyPairs", mock.Anything, "user-1").Return([]domain.CurrencyPair{{Label: "USD/EUR", Count: 2}}, nil).Once()
	suite.mockAnalytics.On("RateTimeSeries", mock.Anything, "user-1", "USD", "EUR", 30).Return([]domain.RatePoint{}, nil).Once()
	suite.mockAnalytics.On("Stats", mock.Anything, "user-1").Return(&domain.ConversionStats{TotalConversions: 2}, nil).Once()
	suite.mockAnalytics.On("Trends", mock.Anything, "user-1", mock.AnythingOfType("time.Time"), 14).Return([]domain.TrendPoint{}, nil).Once()
	suite.mockAnalytics.On("Exposure", mock.Anything, "user-1").Return(domain.Exposure{"USD": decimal.NewFromInt(1000)}, nil).Once()
	suite.mockAnalytics.On("Efficiency", mock.Anything, "user-1").Return(&domain.ConversionEfficiency{Heuristic: true}, nil).Once()

	for _, path := range []string{
		"/api/v1/users/user-1/analytics/history",
		"/api/v1/users/user-1/analytics/pairs",
		"/api/v1/users/user-1/analytics/timeseries?from=USD&to=EUR",
		"/api/v1/users/user-1/analytics/stats",
		"/api/v1/users/user-1/analytics/trends?days=14",
		"/api/v1/users/user-1/analytics/exposure",
		"/api/v1/users/user-1/analytics/efficiency",
	} {
		w := suite.do(http.MethodGet, path, nil)
		suite.Equal(http.StatusOK, w.Code, path)
	}
}

func (suite *HandlersTestSuite) TestAnalytics_TimeSeriesRequiresPair() {
	w := suite.do(http.MethodGet, "/api/v1/users/user-1/analytics/timeseries?from=USD", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
