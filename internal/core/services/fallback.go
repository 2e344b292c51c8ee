package services

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoStrategies is returned by FirstSuccess when called without strategies.
var ErrNoStrategies = errors.New("no strategies to try")

// Strategy is one step of an ordered fallback chain.
type Strategy[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// StrategyError records which step of a chain failed and why.
type StrategyError struct {
	Strategy string
	Err      error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Strategy, e.Err)
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

// FirstSuccess runs strategies in order and returns the first successful
// result together with the name of the strategy that produced it. If every
// strategy fails the joined StrategyErrors are returned. A cancelled context
// stops the chain before the next strategy is attempted.
func FirstSuccess[T any](ctx context.Context, strategies ...Strategy[T]) (T, string, error) {
	var zero T
	if len(strategies) == 0 {
		return zero, "", ErrNoStrategies
	}

	errs := make([]error, 0, len(strategies))
	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			errs = append(errs, &StrategyError{Strategy: s.Name, Err: err})
			break
		}
		v, err := s.Run(ctx)
		if err == nil {
			return v, s.Name, nil
		}
		errs = append(errs, &StrategyError{Strategy: s.Name, Err: err})
	}
	return zero, "", errors.Join(errs...)
}
