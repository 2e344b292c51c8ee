package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/mma_fx/internal/apperrors"
	"github.com/SscSPs/mma_fx/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_fx/internal/core/ports/repositories"
	"github.com/SscSPs/mma_fx/internal/models"
	"github.com/SscSPs/mma_fx/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = `
	transaction_id, user_id, transaction_type, description, category, transaction_date,
	original_amount, original_currency, converted_amount, converted_currency,
	conversion_rate, conversion_fee, conversion_status, normalized_at`

// PgxTransactionRepository implements TransactionRepositoryFacade using pgx.
type PgxTransactionRepository struct {
	BaseRepository
}

// NewPgxTransactionRepository creates a new PgxTransactionRepository.
func NewPgxTransactionRepository(db DB) *PgxTransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// SaveTransaction inserts a normalized transaction. Records are immutable, so
// an existing ID is reported as a duplicate rather than overwritten.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, tx domain.NormalizedTransaction) error {
	m := mapping.ToModelTransaction(tx)
	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.Pool.Exec(ctx, query,
		m.TransactionID, m.UserID, m.TransactionType, m.Description, m.Category, m.TransactionDate,
		m.OriginalAmount, m.OriginalCurrency, m.ConvertedAmount, m.ConvertedCurrency,
		m.ConversionRate, m.ConversionFee, m.ConversionStatus, m.NormalizedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		}
		return apperrors.NewAppError(500, "failed to save transaction", err)
	}
	return nil
}

// FindTransactionByID retrieves one of the user's transactions.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, userID, transactionID string) (*domain.NormalizedTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 AND transaction_id = $2`

	rows, err := r.Pool.Query(ctx, query, userID, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transaction", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transaction not found: " + transactionID)
		}
		return nil, apperrors.NewAppError(500, "failed to scan transaction", err)
	}

	tx := mapping.ToDomainTransaction(m)
	return &tx, nil
}

// ListTransactionsByUser returns the user's transactions, newest first.
func (r *PgxTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, limit, offset int) ([]domain.NormalizedTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE user_id = $1
		ORDER BY transaction_date DESC, normalized_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, max(offset, 0))
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list transactions", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan transactions", err)
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}
