package dto

import (
	"time"

	"github.com/SscSPs/mma_fx/internal/core/domain"
	portssvc "github.com/SscSPs/mma_fx/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the structure for recording a transaction.
// Currency may be omitted when the amount is already in TargetCurrency.
type CreateTransactionRequest struct {
	TransactionID  string          `json:"transactionID" binding:"omitempty,max=64"`
	Type           string          `json:"type" binding:"required,oneof=income expense"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency" binding:"omitempty,len=3,alpha"`
	TargetCurrency string          `json:"targetCurrency" binding:"required,len=3,alpha"`
	Description    string          `json:"description" binding:"max=500"`
	Category       string          `json:"category" binding:"max=100"`
	Date           *time.Time      `json:"date"`
	ConversionFee  decimal.Decimal `json:"conversionFee"`
}

// ToDraft converts the request into a draft owned by userID
func (r CreateTransactionRequest) ToDraft(userID string) domain.DraftTransaction {
	draft := domain.DraftTransaction{
		TransactionID: r.TransactionID,
		UserID:        userID,
		Type:          domain.TransactionType(r.Type),
		Amount:        r.Amount,
		Currency:      r.Currency,
		Description:   r.Description,
		Category:      r.Category,
		ConversionFee: r.ConversionFee,
	}
	if r.Date != nil {
		draft.Date = *r.Date
	}
	return draft
}

// TransactionResponse is a stored transaction plus an optional conversion warning.
type TransactionResponse struct {
	domain.NormalizedTransaction
	Warning string `json:"warning,omitempty"`
}

// ToTransactionResponse converts a NormalizeOutcome to TransactionResponse
func ToTransactionResponse(outcome domain.NormalizeOutcome) TransactionResponse {
	return TransactionResponse{NormalizedTransaction: outcome.Transaction, Warning: outcome.Warning}
}

// ListTransactionsQuery defines paging and display options for listing.
type ListTransactionsQuery struct {
	DisplayCurrency string `form:"displayCurrency" binding:"omitempty,len=3,alpha"`
	Limit           int    `form:"limit,default=50" binding:"min=1,max=500"`
	Offset          int    `form:"offset" binding:"min=0"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []portssvc.DisplayTransaction `json:"transactions"`
	Limit        int                           `json:"limit"`
	Offset       int                           `json:"offset"`
}
