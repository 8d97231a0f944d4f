package strategy

import "fmt"

// SuppressReason classifies why an entry evaluation produced no signal.
// Suppression is the expected frequent outcome of this strategy, not an
// error; none of these propagate as failures into the caller.
type SuppressReason string

const (
	// ReasonMalformedData means the snapshot violated the strike-sequence
	// invariant and cannot be evaluated.
	ReasonMalformedData SuppressReason = "malformed_data"
	// ReasonFilterRejected means the volatility or PCR gate tripped.
	ReasonFilterRejected SuppressReason = "filter_rejected"
	// ReasonNoLiquidStrikes means no valid condor can be formed from the
	// current chain.
	ReasonNoLiquidStrikes SuppressReason = "no_liquid_strikes"
	// ReasonNonPositiveCredit means the selected condor does not collect credit.
	ReasonNonPositiveCredit SuppressReason = "non_positive_credit"
	// ReasonLowCredit means the credit is below the configured minimum.
	ReasonLowCredit SuppressReason = "low_credit"
	// ReasonLowScore means the graded score fell below the signal threshold.
	ReasonLowScore SuppressReason = "low_score"
)

// Suppression explains a suppressed entry signal.
type Suppression struct {
	Reason SuppressReason
	Detail string
}

func (s *Suppression) String() string {
	return fmt.Sprintf("%s: %s", s.Reason, s.Detail)
}

// Reportable indicates whether the suppression warrants an outbound skip
// message. Filter and score rejections carry margins a subscriber wants to
// see; liquidity and credit misses are routine chain conditions that only
// get logged.
func (s *Suppression) Reportable() bool {
	return s.Reason == ReasonFilterRejected || s.Reason == ReasonLowScore
}

func suppress(reason SuppressReason, format string, args ...interface{}) *Suppression {
	return &Suppression{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}
