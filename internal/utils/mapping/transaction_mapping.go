package mapping

import (
	"github.com/SscSPs/mma_fx/internal/core/domain"
	"github.com/SscSPs/mma_fx/internal/models"
)

// ToModelTransaction converts a domain NormalizedTransaction to a model Transaction
func ToModelTransaction(d domain.NormalizedTransaction) models.Transaction {
	return models.Transaction{
		TransactionID:     d.TransactionID,
		UserID:            d.UserID,
		TransactionType:   string(d.Type),
		Description:       d.Description,
		Category:          d.Category,
		TransactionDate:   d.Date,
		OriginalAmount:    d.OriginalAmount,
		OriginalCurrency:  d.OriginalCurrency,
		ConvertedAmount:   d.ConvertedAmount,
		ConvertedCurrency: d.ConvertedCurrency,
		ConversionRate:    d.ConversionRate,
		ConversionFee:     d.ConversionFee,
		ConversionStatus:  string(d.ConversionStatus),
		NormalizedAt:      d.NormalizedAt,
	}
}

// ToDomainTransaction converts a model Transaction to a domain NormalizedTransaction
func ToDomainTransaction(m models.Transaction) domain.NormalizedTransaction {
	return domain.NormalizedTransaction{
		TransactionID:     m.TransactionID,
		UserID:            m.UserID,
		Type:              domain.TransactionType(m.TransactionType),
		Description:       m.Description,
		Category:          m.Category,
		Date:              m.TransactionDate,
		OriginalAmount:    m.OriginalAmount,
		OriginalCurrency:  m.OriginalCurrency,
		ConvertedAmount:   m.ConvertedAmount,
		ConvertedCurrency: m.ConvertedCurrency,
		ConversionRate:    m.ConversionRate,
		ConversionFee:     m.ConversionFee,
		ConversionStatus:  domain.ConversionStatus(m.ConversionStatus),
		NormalizedAt:      m.NormalizedAt,
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.NormalizedTransaction {
	ds := make([]domain.NormalizedTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
