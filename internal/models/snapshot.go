// Package models provides the market data and position types shared across
// the signal engine.
package models

import (
	"fmt"
	"math"
	"time"
)

// StrikeMatchEpsilon defines the precision tolerance for matching strike prices.
// This ensures consistency between implementation and tests.
const StrikeMatchEpsilon = 1e-3

// OptionType identifies the option side of a quote or leg.
type OptionType string

// Option types use the NSE CE/PE convention.
const (
	OptionCall OptionType = "CE"
	OptionPut  OptionType = "PE"
)

// StrikeQuote is one row of the option chain: both sides of a single strike.
type StrikeQuote struct {
	Strike  float64 `json:"strike"`
	CallLTP float64 `json:"call_ltp"`
	PutLTP  float64 `json:"put_ltp"`
	CallOI  int64   `json:"call_oi"`
	PutOI   int64   `json:"put_oi"`
}

// LastPrice returns the last traded price of the requested side.
func (q StrikeQuote) LastPrice(t OptionType) float64 {
	if t == OptionCall {
		return q.CallLTP
	}
	return q.PutLTP
}

// OpenInterest returns the open interest of the requested side.
func (q StrikeQuote) OpenInterest(t OptionType) int64 {
	if t == OptionCall {
		return q.CallOI
	}
	return q.PutOI
}

// MarketSnapshot is one normalized option-chain read. It is treated as
// immutable once built: every evaluation is a pure function of a snapshot.
type MarketSnapshot struct {
	Symbol    string        `json:"symbol"`
	Spot      float64       `json:"spot"`
	VIX       float64       `json:"vix"`
	Expiry    string        `json:"expiry"`
	Strikes   []StrikeQuote `json:"strikes"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// Validate checks the strike-sequence invariant: strikes must be unique,
// ascending, and evenly spaced. The selector relies on this to do offset
// arithmetic, so a violation means the chain data is malformed.
func (s *MarketSnapshot) Validate() error {
	if s.Spot <= 0 {
		return fmt.Errorf("spot must be positive, got %.2f", s.Spot)
	}
	if s.VIX < 0 {
		return fmt.Errorf("volatility index must be non-negative, got %.2f", s.VIX)
	}
	if len(s.Strikes) < 2 {
		return fmt.Errorf("chain has %d strikes, need at least 2", len(s.Strikes))
	}

	step := s.Strikes[1].Strike - s.Strikes[0].Strike
	if step <= 0 {
		return fmt.Errorf("strikes not ascending: %.2f before %.2f",
			s.Strikes[0].Strike, s.Strikes[1].Strike)
	}
	for i := 1; i < len(s.Strikes); i++ {
		gap := s.Strikes[i].Strike - s.Strikes[i-1].Strike
		if math.Abs(gap-step) > StrikeMatchEpsilon {
			return fmt.Errorf("uneven strike interval at %.2f: gap %.2f, expected %.2f",
				s.Strikes[i].Strike, gap, step)
		}
	}

	for _, q := range s.Strikes {
		if q.CallLTP < 0 || q.PutLTP < 0 {
			return fmt.Errorf("negative last price at strike %.2f", q.Strike)
		}
		if q.CallOI < 0 || q.PutOI < 0 {
			return fmt.Errorf("negative open interest at strike %.2f", q.Strike)
		}
	}
	return nil
}

// Step returns the strike interval of the chain. Only meaningful after
// Validate has passed.
func (s *MarketSnapshot) Step() float64 {
	if len(s.Strikes) < 2 {
		return 0
	}
	return s.Strikes[1].Strike - s.Strikes[0].Strike
}

// ATMIndex returns the index of the strike closest to spot. When two strikes
// are equidistant the lower one wins, keeping selection deterministic.
func (s *MarketSnapshot) ATMIndex() int {
	best := 0
	bestDist := math.Abs(s.Strikes[0].Strike - s.Spot)
	for i := 1; i < len(s.Strikes); i++ {
		d := math.Abs(s.Strikes[i].Strike - s.Spot)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// QuoteAt looks up the quote for an exact strike price. Both the entry
// selector and the exit evaluator resolve strikes through this single lookup
// so the two can never drift apart.
func (s *MarketSnapshot) QuoteAt(strike float64) (StrikeQuote, bool) {
	for _, q := range s.Strikes {
		if math.Abs(q.Strike-strike) < StrikeMatchEpsilon {
			return q, true
		}
	}
	return StrikeQuote{}, false
}
