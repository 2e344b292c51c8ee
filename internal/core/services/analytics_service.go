package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/mma_fx/internal/core/analytics"
	"github.com/SscSPs/mma_fx/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_fx/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_fx/internal/core/ports/services"
)

// analyticsService implements the AnalyticsSvc interface
type analyticsService struct {
	BaseService
	txRepo portsrepo.TransactionReader
}

// NewAnalyticsService creates a new analytics service reading from repo
func NewAnalyticsService(repo portsrepo.TransactionReader) portssvc.AnalyticsSvc {
	return &analyticsService{txRepo: repo}
}

// Ensure analyticsService implements the AnalyticsSvc interface
var _ portssvc.AnalyticsSvc = (*analyticsService)(nil)

func (s *analyticsService) load(ctx context.Context, userID string) ([]domain.NormalizedTransaction, error) {
	txs, err := s.txRepo.ListTransactionsByUser(ctx, userID, 0, 0)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for analytics", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return txs, nil
}

func (s *analyticsService) history(ctx context.Context, userID string) ([]domain.ConversionHistoryEntry, error) {
	txs, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analytics.History(txs), nil
}

// History lists the user's cross-currency conversions, newest first
func (s *analyticsService) History(ctx context.Context, userID string) ([]domain.ConversionHistoryEntry, error) {
	return s.history(ctx, userID)
}

// CurrencyPairs lists distinct conversion pairs with their counts
func (s *analyticsService) CurrencyPairs(ctx context.Context, userID string) ([]domain.CurrencyPair, error) {
	history, err := s.history(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analytics.CurrencyPairs(history), nil
}

// RateTimeSeries returns the daily average rate of one pair
func (s *analyticsService) RateTimeSeries(ctx context.Context, userID string, from, to domain.CurrencyCode, days int) ([]domain.RatePoint, error) {
	history, err := s.history(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analytics.RateTimeSeries(history, domain.NormalizeCode(from), domain.NormalizeCode(to), days), nil
}

// Stats aggregates the user's conversions
func (s *analyticsService) Stats(ctx context.Context, userID string) (*domain.ConversionStats, error) {
	history, err := s.history(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := analytics.Stats(history)

	s.LogDebug(ctx, "Conversion stats computed",
		slog.String("user_id", userID),
		slog.Int("total_conversions", stats.TotalConversions))
	return &stats, nil
}

// Trends reports daily activity in the trailing window ending at now
func (s *analyticsService) Trends(ctx context.Context, userID string, now time.Time, days int) ([]domain.TrendPoint, error) {
	history, err := s.history(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analytics.Trends(history, now, days), nil
}

// Exposure nets the user's original amounts per currency
func (s *analyticsService) Exposure(ctx context.Context, userID string) (domain.Exposure, error) {
	txs, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analytics.Exposure(txs), nil
}

// Efficiency compares realised rates with the best rate observed
func (s *analyticsService) Efficiency(ctx context.Context, userID string) (*domain.ConversionEfficiency, error) {
	history, err := s.history(ctx, userID)
	if err != nil {
		return nil, err
	}
	eff := analytics.Efficiency(history)
	return &eff, nil
}
