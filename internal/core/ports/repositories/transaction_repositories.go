package repositories

import (
	"context"

	"github.com/SscSPs/mma_fx/internal/core/domain"
)

// TransactionReader defines read operations for normalized transactions.
type TransactionReader interface {
	// FindTransactionByID retrieves one transaction owned by userID.
	FindTransactionByID(ctx context.Context, userID, transactionID string) (*domain.NormalizedTransaction, error)

	// ListTransactionsByUser returns a user's transactions, newest first.
	// A limit of zero or less returns all of them.
	ListTransactionsByUser(ctx context.Context, userID string, limit, offset int) ([]domain.NormalizedTransaction, error)
}

// TransactionWriter defines write operations for normalized transactions.
type TransactionWriter interface {
	// SaveTransaction persists a new normalized transaction.
	SaveTransaction(ctx context.Context, tx domain.NormalizedTransaction) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
