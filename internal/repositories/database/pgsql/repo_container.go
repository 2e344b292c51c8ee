package pgsql

import (
	portsrepo "github.com/SscSPs/mma_fx/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the postgres-backed repositories. The rate
// provider lives outside the database and is supplied by the caller.
func NewRepositoryProvider(dbPool *pgxpool.Pool, rates portsrepo.RateProvider) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TransactionRepo: NewPgxTransactionRepository(dbPool),
		RateProvider:    rates,
	}
}
