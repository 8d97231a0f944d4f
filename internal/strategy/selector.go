package strategy

import (
	"nifty-condor-bot/internal/models"
)

// SelectLegs picks the four condor legs from an accepted snapshot.
//
// The short strikes sit OTMOffset positions away from the ATM strike in the
// chain's strike sequence; the long strikes sit SpreadWidth points beyond
// them. Any strike that is absent from the chain or quotes a zero-like last
// price makes the whole selection fail: no valid condor can be formed, so
// the entry is suppressed rather than guessed.
func SelectLegs(snap *models.MarketSnapshot, cfg Config) (models.CondorLegs, *Suppression) {
	atm := snap.ATMIndex()

	callIdx := atm + cfg.OTMOffset
	putIdx := atm - cfg.OTMOffset
	if putIdx < 0 || callIdx >= len(snap.Strikes) {
		return models.CondorLegs{}, suppress(ReasonNoLiquidStrikes,
			"not enough strikes around ATM %.2f for offset %d", snap.Strikes[atm].Strike, cfg.OTMOffset)
	}

	shortCall := snap.Strikes[callIdx].Strike
	shortPut := snap.Strikes[putIdx].Strike
	longCall := shortCall + cfg.SpreadWidth
	longPut := shortPut - cfg.SpreadWidth

	legs := models.CondorLegs{}
	specs := []struct {
		role   models.LegRole
		typ    models.OptionType
		strike float64
		dest   *models.Leg
	}{
		{models.RoleSell, models.OptionCall, shortCall, &legs.ShortCall},
		{models.RoleBuy, models.OptionCall, longCall, &legs.LongCall},
		{models.RoleSell, models.OptionPut, shortPut, &legs.ShortPut},
		{models.RoleBuy, models.OptionPut, longPut, &legs.LongPut},
	}

	for _, s := range specs {
		q, ok := snap.QuoteAt(s.strike)
		if !ok {
			return models.CondorLegs{}, suppress(ReasonNoLiquidStrikes,
				"strike %.0f %s not quoted in chain", s.strike, s.typ)
		}
		premium := q.LastPrice(s.typ)
		if premium <= 0 {
			return models.CondorLegs{}, suppress(ReasonNoLiquidStrikes,
				"strike %.0f %s has no traded price", s.strike, s.typ)
		}
		*s.dest = models.Leg{Role: s.role, Type: s.typ, Strike: s.strike, Premium: premium}
	}

	// Each short wing must be worth selling on its own.
	if legs.ShortCall.Premium < cfg.MinWingPremium {
		return models.CondorLegs{}, suppress(ReasonNoLiquidStrikes,
			"CE leg premium %.2f below wing floor %.2f", legs.ShortCall.Premium, cfg.MinWingPremium)
	}
	if legs.ShortPut.Premium < cfg.MinWingPremium {
		return models.CondorLegs{}, suppress(ReasonNoLiquidStrikes,
			"PE leg premium %.2f below wing floor %.2f", legs.ShortPut.Premium, cfg.MinWingPremium)
	}

	return legs, nil
}

// minOpenInterest returns the smallest relevant-side open interest across
// the four selected strikes, the liquidity figure grading scores against.
func minOpenInterest(snap *models.MarketSnapshot, legs models.CondorLegs) int64 {
	min := int64(-1)
	for _, leg := range legs.All() {
		q, ok := snap.QuoteAt(leg.Strike)
		if !ok {
			return 0
		}
		oi := q.OpenInterest(leg.Type)
		if min < 0 || oi < min {
			min = oi
		}
	}
	if min < 0 {
		return 0
	}
	return min
}
