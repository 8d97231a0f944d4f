// Package market fetches option-chain snapshots for the signal engine.
package market

import (
	"context"
	"errors"

	"nifty-condor-bot/internal/models"
)

var (
	// ErrUnavailable indicates the data source could not be reached or
	// refused to answer. The engine skips the cycle; it never trades on a
	// guessed snapshot.
	ErrUnavailable = errors.New("market data unavailable")

	// ErrMalformed indicates the source answered but the payload could not
	// be turned into a coherent snapshot.
	ErrMalformed = errors.New("malformed market data")
)

// Provider supplies a point-in-time snapshot of the option chain plus the
// volatility index for one underlying.
type Provider interface {
	// FetchChain returns the nearest-expiry chain for the symbol. The
	// snapshot is complete and validated, or an error is returned.
	FetchChain(ctx context.Context, symbol string) (*models.MarketSnapshot, error)
}
