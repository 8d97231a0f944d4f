package strategy

import (
	"fmt"
	"time"

	"nifty-condor-bot/internal/models"
	"nifty-condor-bot/internal/util"
)

// ExitAction is the outcome of one exit evaluation.
type ExitAction string

const (
	// ActionHold means no exit condition is met, or the chain lacks the
	// quotes needed to decide.
	ActionHold ExitAction = "HOLD"
	// ActionExit means the position should be closed now.
	ActionExit ExitAction = "EXIT"
)

// ExitDecision is the result of evaluating a live snapshot against a
// recorded position. It never mutates the position.
type ExitDecision struct {
	Action      ExitAction
	Reason      models.ExitReason // set when Action == ActionExit
	CurrentCost float64           // cost to close the condor now
	PnL         float64           // approximate P&L per lot at that cost
	CostKnown   bool              // false when any leg quote is missing
	Note        string            // data-quality or context note
}

// EvaluateExit decides whether the recorded condor should be closed, given a
// fresh snapshot and the wall-clock time in market-local terms.
//
// The cutoff check runs first: if the operational window has ended the
// position must not stay open, whatever the price does, so FORCED_EXIT wins
// any tie with target or stop. Before the cutoff, a missing leg quote
// resolves to HOLD with a diagnostic; the evaluator never fabricates a
// price.
func EvaluateExit(snap *models.MarketSnapshot, pos *models.Position, cfg Config, now time.Time) ExitDecision {
	cost, known := CurrentCondorCost(snap, pos.Legs)

	decision := ExitDecision{
		Action:      ActionHold,
		CurrentCost: cost,
		CostKnown:   known,
	}
	if known {
		decision.PnL = util.Round2((pos.EntryPremium - cost) * float64(pos.LotSize))
	}

	minuteOfDay := now.Hour()*60 + now.Minute()
	if minuteOfDay >= cfg.CutoffMinute {
		decision.Action = ActionExit
		decision.Reason = models.ExitForced
		decision.Note = fmt.Sprintf("operational window closed at %02d:%02d",
			cfg.CutoffMinute/60, cfg.CutoffMinute%60)
		if !known {
			decision.Note += "; close cost unknown, one or more legs not quoted"
		}
		return decision
	}

	if !known {
		decision.Note = "one or more entry strikes missing from live chain, holding"
		return decision
	}

	switch {
	case cost <= pos.TargetExit:
		decision.Action = ActionExit
		decision.Reason = models.ExitTargetHit
		decision.Note = fmt.Sprintf("close cost %.2f at or below target %.2f", cost, pos.TargetExit)
	case cost >= pos.StopLoss:
		decision.Action = ActionExit
		decision.Reason = models.ExitStoppedOut
		decision.Note = fmt.Sprintf("close cost %.2f at or above stop %.2f", cost, pos.StopLoss)
	}
	return decision
}

// CurrentCondorCost reprices the condor from a live snapshot using the same
// four strikes recorded at entry: buy back the shorts, sell the longs. The
// second return is false when any leg is missing or quotes a zero-like
// price, which callers must treat as "cannot decide", never as zero cost.
func CurrentCondorCost(snap *models.MarketSnapshot, legs models.CondorLegs) (float64, bool) {
	prices := [4]float64{}
	for i, leg := range legs.All() {
		q, ok := snap.QuoteAt(leg.Strike)
		if !ok {
			return 0, false
		}
		p := q.LastPrice(leg.Type)
		if p <= 0 {
			return 0, false
		}
		prices[i] = p
	}
	// Reporting order is shortCall, longCall, shortPut, longPut.
	cost := prices[0] - prices[1] + prices[2] - prices[3]
	return util.Round2(cost), true
}
