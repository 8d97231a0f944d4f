package market

import (
	"context"

	"nifty-condor-bot/internal/models"
)

// StaticProvider returns a fixed snapshot or error. Used in dry runs and
// tests.
type StaticProvider struct {
	Snapshot *models.MarketSnapshot
	Err      error
	Calls    int
}

// FetchChain implements Provider.
func (p *StaticProvider) FetchChain(_ context.Context, _ string) (*models.MarketSnapshot, error) {
	p.Calls++
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Snapshot, nil
}
