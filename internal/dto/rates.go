package dto

import (
	"time"

	"github.com/SscSPs/mma_fx/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RatesResponse is the API view of a cached rate table.
type RatesResponse struct {
	Base       string                     `json:"base"`
	Rates      map[string]decimal.Decimal `json:"rates"`
	FetchedAt  time.Time                  `json:"fetchedAt"`
	AgeSeconds int64                      `json:"ageSeconds"`
}

// ToRatesResponse converts a domain.RateTable to RatesResponse
func ToRatesResponse(table domain.RateTable, now time.Time) RatesResponse {
	return RatesResponse{
		Base:       table.Base,
		Rates:      table.Rates,
		FetchedAt:  table.FetchedAt,
		AgeSeconds: int64(table.Age(now).Seconds()),
	}
}

// ConvertQuery defines the query parameters of a single conversion.
type ConvertQuery struct {
	Amount string `form:"amount" binding:"required"`
	From   string `form:"from" binding:"required,len=3,alpha"`
	To     string `form:"to" binding:"required,len=3,alpha"`
}

// BatchItemRequest is one amount of a batch conversion. An empty currency
// means the amount is already in the target currency.
type BatchItemRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency" binding:"omitempty,len=3,alpha"`
}

// BatchConvertRequest defines the structure for converting many amounts at once.
type BatchConvertRequest struct {
	To    string             `json:"to" binding:"required,len=3,alpha"`
	Items []BatchItemRequest `json:"items" binding:"required,min=1,max=1000,dive"`
}

// ToBatchItems converts the request items into domain batch items
func (r BatchConvertRequest) ToBatchItems() []domain.BatchItem {
	items := make([]domain.BatchItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = domain.BatchItem{Amount: item.Amount, Currency: item.Currency}
	}
	return items
}

// BatchItemResponse is the per-item result of a batch conversion.
type BatchItemResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Converted bool            `json:"converted"`
	Stale     bool            `json:"stale,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// BatchConvertResponse lists results in request order.
type BatchConvertResponse struct {
	To      string              `json:"to"`
	Results []BatchItemResponse `json:"results"`
}

// ToBatchConvertResponse converts domain batch results to BatchConvertResponse
func ToBatchConvertResponse(to string, results []domain.BatchResult) BatchConvertResponse {
	resp := BatchConvertResponse{To: to, Results: make([]BatchItemResponse, len(results))}
	for i, r := range results {
		resp.Results[i] = BatchItemResponse{
			Amount:    r.Amount,
			Currency:  r.Currency,
			Converted: r.Converted,
			Stale:     r.Stale,
		}
		if r.Err != nil {
			resp.Results[i].Error = r.Err.Error()
		}
	}
	return resp
}
