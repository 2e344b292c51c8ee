package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/mma_fx/internal/apperrors"
	"github.com/SscSPs/mma_fx/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_fx/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_fx/internal/core/ports/services"
)

// transactionService implements the TransactionSvcFacade interface
type transactionService struct {
	BaseService
	txRepo     portsrepo.TransactionRepositoryFacade
	normalizer portssvc.NormalizerSvc
	batch      portssvc.BatchConverterSvc
}

// NewTransactionService creates a new transaction service
func NewTransactionService(repo portsrepo.TransactionRepositoryFacade, normalizer portssvc.NormalizerSvc, batch portssvc.BatchConverterSvc) portssvc.TransactionSvcFacade {
	return &transactionService{
		txRepo:     repo,
		normalizer: normalizer,
		batch:      batch,
	}
}

// Ensure transactionService implements the TransactionSvcFacade interface
var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransaction normalizes the draft and stores the resulting record. A
// conversion that degraded still persists; the warning travels with the outcome.
func (s *transactionService) CreateTransaction(ctx context.Context, draft domain.DraftTransaction, target domain.CurrencyCode) (*domain.NormalizeOutcome, error) {
	outcome, err := s.normalizer.Normalize(ctx, draft, target)
	if err != nil {
		return nil, err
	}

	if err := s.txRepo.SaveTransaction(ctx, outcome.Transaction); err != nil {
		s.LogError(ctx, err, "Failed to save transaction",
			slog.String("transaction_id", outcome.Transaction.TransactionID),
			slog.String("user_id", outcome.Transaction.UserID))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", outcome.Transaction.TransactionID),
		slog.String("user_id", outcome.Transaction.UserID),
		slog.String("conversion_status", string(outcome.Transaction.ConversionStatus)))
	return &outcome, nil
}

// GetTransaction retrieves a transaction by ID
func (s *transactionService) GetTransaction(ctx context.Context, userID, transactionID string) (*domain.NormalizedTransaction, error) {
	tx, err := s.txRepo.FindTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction %s not found", transactionID))
	}
	return tx, nil
}

// ListTransactions retrieves a page of a user's transactions. Each converted
// amount is re-denominated into displayCurrency with one batch conversion;
// amounts that cannot be converted are shown as stored.
func (s *transactionService) ListTransactions(ctx context.Context, userID string, displayCurrency domain.CurrencyCode, limit, offset int) ([]portssvc.DisplayTransaction, error) {
	txs, err := s.txRepo.ListTransactionsByUser(ctx, userID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	display := make([]portssvc.DisplayTransaction, len(txs))
	for i, tx := range txs {
		display[i] = portssvc.DisplayTransaction{
			NormalizedTransaction: tx,
			DisplayAmount:         tx.ConvertedAmount,
			DisplayCurrency:       tx.ConvertedCurrency,
		}
	}

	displayCurrency = domain.NormalizeCode(displayCurrency)
	if displayCurrency == "" || len(txs) == 0 {
		return display, nil
	}

	items := make([]domain.BatchItem, len(txs))
	for i, tx := range txs {
		items[i] = domain.BatchItem{Amount: tx.ConvertedAmount, Currency: tx.ConvertedCurrency}
	}
	for i, result := range s.batch.BatchConvertDetailed(ctx, items, displayCurrency) {
		display[i].DisplayAmount = result.Amount
		display[i].DisplayCurrency = result.Currency
		display[i].DisplayConverted = result.Converted
	}
	return display, nil
}
