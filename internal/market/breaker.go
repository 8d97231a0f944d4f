package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"nifty-condor-bot/internal/models"
)

// BreakerSettings configures circuit breaker behavior for a Provider.
type BreakerSettings struct {
	MaxRequests  uint32        // Max requests when half-open
	Interval     time.Duration // Reset counts interval
	Timeout      time.Duration // Open circuit duration
	MinRequests  uint32        // Min requests before tripping
	FailureRatio float64       // Failure ratio threshold
}

// BreakerProvider wraps a Provider with a circuit breaker so a flapping
// exchange endpoint does not get hammered every cycle.
type BreakerProvider struct {
	provider Provider
	breaker  *gobreaker.CircuitBreaker
}

// NewBreakerProvider wraps the provider with sensible breaker defaults.
func NewBreakerProvider(provider Provider, logger *logrus.Logger) *BreakerProvider {
	return NewBreakerProviderWithSettings(provider, logger, BreakerSettings{
		MaxRequests:  2,
		Interval:     5 * time.Minute,
		Timeout:      2 * time.Minute,
		MinRequests:  3,
		FailureRatio: 0.6,
	})
}

// NewBreakerProviderWithSettings wraps the provider with custom settings.
func NewBreakerProviderWithSettings(provider Provider, logger *logrus.Logger, settings BreakerSettings) *BreakerProvider {
	if logger == nil {
		logger = logrus.New()
	}
	gbSettings := gobreaker.Settings{
		Name:        "SnapshotProvider",
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 || counts.Requests < settings.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= settings.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	}

	return &BreakerProvider{
		provider: provider,
		breaker:  gobreaker.NewCircuitBreaker(gbSettings),
	}
}

// FetchChain implements Provider. An open circuit reports as ErrUnavailable
// so callers handle it the same way as a direct fetch failure.
func (b *BreakerProvider) FetchChain(ctx context.Context, symbol string) (*models.MarketSnapshot, error) {
	res, err := b.breaker.Execute(func() (interface{}, error) {
		return b.provider.FetchChain(ctx, symbol)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit open: %v", ErrUnavailable, err)
		}
		return nil, err
	}
	snap, ok := res.(*models.MarketSnapshot)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected breaker result type", ErrUnavailable)
	}
	return snap, nil
}
