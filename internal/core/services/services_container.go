package services

import (
	portsrepo "github.com/SscSPs/mma_fx/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_fx/internal/core/ports/services"
	"github.com/SscSPs/mma_fx/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	// One cache instance backs every conversion path so tables are fetched once per TTL.
	cache := NewRateCache(repos.RateProvider,
		WithRateTTL(cfg.FXCacheTTL),
		WithFetchTimeout(cfg.FXFetchTimeout),
	)
	converter := NewConverter(cache)
	batch := NewBatchConverter(cache, WithStaleFallback(cache))
	normalizer := NewTransactionNormalizer(converter, WithNormalizerStaleFallback(cache))

	return &portssvc.ServiceContainer{
		RateCache:    cache,
		Converter:    converter,
		Batch:        batch,
		Normalizer:   normalizer,
		Transactions: NewTransactionService(repos.TransactionRepo, normalizer, batch),
		Analytics:    NewAnalyticsService(repos.TransactionRepo),
	}
}
