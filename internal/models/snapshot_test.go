package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainFixture(strikes ...float64) *MarketSnapshot {
	quotes := make([]StrikeQuote, len(strikes))
	for i, s := range strikes {
		quotes[i] = StrikeQuote{Strike: s, CallLTP: 10, PutLTP: 10, CallOI: 1000, PutOI: 1000}
	}
	return &MarketSnapshot{
		Symbol:  "NIFTY",
		Spot:    strikes[len(strikes)/2],
		VIX:     12,
		Expiry:  "28-Aug-2026",
		Strikes: quotes,
	}
}

func TestSnapshotValidate(t *testing.T) {
	t.Run("valid chain", func(t *testing.T) {
		snap := chainFixture(25300, 25350, 25400, 25450, 25500)
		assert.NoError(t, snap.Validate())
	})

	t.Run("too few strikes", func(t *testing.T) {
		snap := chainFixture(25300)
		assert.Error(t, snap.Validate())
	})

	t.Run("descending strikes", func(t *testing.T) {
		snap := chainFixture(25400, 25350)
		assert.Error(t, snap.Validate())
	})

	t.Run("uneven interval", func(t *testing.T) {
		snap := chainFixture(25300, 25350, 25450)
		err := snap.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "uneven strike interval")
	})

	t.Run("non-positive spot", func(t *testing.T) {
		snap := chainFixture(25300, 25350)
		snap.Spot = 0
		assert.Error(t, snap.Validate())
	})

	t.Run("negative last price", func(t *testing.T) {
		snap := chainFixture(25300, 25350)
		snap.Strikes[0].PutLTP = -1
		assert.Error(t, snap.Validate())
	})

	t.Run("negative open interest", func(t *testing.T) {
		snap := chainFixture(25300, 25350)
		snap.Strikes[1].CallOI = -5
		assert.Error(t, snap.Validate())
	})
}

func TestATMIndex(t *testing.T) {
	snap := chainFixture(25300, 25350, 25400, 25450, 25500)

	snap.Spot = 25412
	assert.Equal(t, 2, snap.ATMIndex(), "nearest strike wins")

	snap.Spot = 25438
	assert.Equal(t, 3, snap.ATMIndex())

	// Exactly between 25400 and 25450: the lower strike wins.
	snap.Spot = 25425
	assert.Equal(t, 2, snap.ATMIndex())
}

func TestQuoteAt(t *testing.T) {
	snap := chainFixture(25300, 25350, 25400)

	q, ok := snap.QuoteAt(25350)
	require.True(t, ok)
	assert.Equal(t, 25350.0, q.Strike)

	// Within epsilon of a listed strike still matches.
	_, ok = snap.QuoteAt(25350.0000001)
	assert.True(t, ok)

	_, ok = snap.QuoteAt(25375)
	assert.False(t, ok)
}

func TestStep(t *testing.T) {
	snap := chainFixture(25300, 25350, 25400)
	assert.Equal(t, 50.0, snap.Step())
}

func TestStrikeQuoteAccessors(t *testing.T) {
	q := StrikeQuote{Strike: 25400, CallLTP: 82, PutLTP: 77, CallOI: 120000, PutOI: 95000}

	assert.Equal(t, 82.0, q.LastPrice(OptionCall))
	assert.Equal(t, 77.0, q.LastPrice(OptionPut))
	assert.Equal(t, int64(120000), q.OpenInterest(OptionCall))
	assert.Equal(t, int64(95000), q.OpenInterest(OptionPut))
}
