// Package strategy implements the iron condor signal engine: the filter
// stage, strike selection, premium/risk computation, grading, and the exit
// evaluator. Every evaluation is a pure function of (snapshot, config) or
// (snapshot, position, config, now); nothing in this package does I/O.
package strategy

import "fmt"

// Config holds the tunable parameters of the signal engine. Values outside
// their valid ranges are a startup failure, caught by Validate before any
// snapshot is processed.
type Config struct {
	// Entry selection
	OTMOffset   int     // strikes away from ATM for the short legs
	SpreadWidth float64 // points between short and long leg

	// Entry gates
	MaxVIX         float64 // reject above: too volatile to sell premium
	MinVIX         float64 // reject below: premiums not worth selling
	MinNetPremium  float64 // skip if total net credit is below this
	MinWingPremium float64 // each short leg must carry at least this premium
	PCRMin         float64 // optional hard gate; 0 disables
	PCRMax         float64 // optional hard gate; 0 disables

	// Exit levels
	TargetDecay  float64 // close once this fraction of the credit has decayed
	StopMultiple float64 // close if exit cost reaches this multiple of the credit
	CutoffMinute int     // forced exit at this minute-of-day, market time

	// Sizing and grading
	LotSize           int
	MinScoreThreshold int
	Grading           GradingWeights
}

// GradingWeights configures the weighted scoring of §grading. Each component
// is normalized to [0,1] before weighting, so the weights are also the
// maximum points a component can contribute.
type GradingWeights struct {
	VIX       float64 // volatility margin component
	Credit    float64 // net premium relative to spread width
	Liquidity float64 // minimum open interest across the four strikes

	VIXSaturation  float64 // headroom (points below MaxVIX) that earns full marks
	CreditRatioCap float64 // premium/width ratio that earns full marks
	OIFloor        int64   // open interest that earns full marks
}

// DefaultConfig returns the stock NIFTY weekly condor parameters.
func DefaultConfig() Config {
	return Config{
		OTMOffset:         1,
		SpreadWidth:       100,
		MaxVIX:            18,
		MinVIX:            10,
		MinNetPremium:     40,
		MinWingPremium:    15,
		TargetDecay:       0.40,
		StopMultiple:      2.0,
		CutoffMinute:      15*60 + 15, // 3:15 PM
		LotSize:           50,
		MinScoreThreshold: 35, // emit down to D, suppress F
		Grading: GradingWeights{
			VIX:            30,
			Credit:         40,
			Liquidity:      30,
			VIXSaturation:  6.0,
			CreditRatioCap: 0.5,
			OIFloor:        100000,
		},
	}
}

// Validate rejects configuration outside valid ranges. These are fatal at
// startup, never silently corrected.
func (c Config) Validate() error {
	if c.OTMOffset < 1 {
		return fmt.Errorf("otm offset must be >= 1, got %d", c.OTMOffset)
	}
	if c.SpreadWidth <= 0 {
		return fmt.Errorf("spread width must be positive, got %.2f", c.SpreadWidth)
	}
	if c.MinVIX < 0 || c.MaxVIX <= c.MinVIX {
		return fmt.Errorf("vix band [%.2f, %.2f] invalid", c.MinVIX, c.MaxVIX)
	}
	if c.MinNetPremium <= 0 {
		return fmt.Errorf("min net premium must be positive, got %.2f", c.MinNetPremium)
	}
	if c.MinWingPremium < 0 {
		return fmt.Errorf("min wing premium must be non-negative, got %.2f", c.MinWingPremium)
	}
	if c.PCRMin < 0 || c.PCRMax < 0 || (c.PCRMax > 0 && c.PCRMin > c.PCRMax) {
		return fmt.Errorf("pcr band [%.2f, %.2f] invalid", c.PCRMin, c.PCRMax)
	}
	if c.TargetDecay <= 0 || c.TargetDecay >= 1 {
		return fmt.Errorf("target decay must be in (0,1), got %.2f", c.TargetDecay)
	}
	if c.StopMultiple <= 1 {
		return fmt.Errorf("stop multiple must be > 1, got %.2f", c.StopMultiple)
	}
	if c.CutoffMinute <= 0 || c.CutoffMinute >= 24*60 {
		return fmt.Errorf("exit cutoff minute %d outside a trading day", c.CutoffMinute)
	}
	if c.LotSize <= 0 {
		return fmt.Errorf("lot size must be positive, got %d", c.LotSize)
	}
	if c.MinScoreThreshold < 0 || c.MinScoreThreshold > 100 {
		return fmt.Errorf("min score threshold must be in [0,100], got %d", c.MinScoreThreshold)
	}
	g := c.Grading
	if g.VIX < 0 || g.Credit < 0 || g.Liquidity < 0 || g.VIX+g.Credit+g.Liquidity <= 0 {
		return fmt.Errorf("grading weights must be non-negative and sum > 0")
	}
	if g.VIXSaturation <= 0 || g.CreditRatioCap <= 0 || g.OIFloor <= 0 {
		return fmt.Errorf("grading saturation parameters must be positive")
	}
	return nil
}
