package models

import (
	"fmt"
	"time"
)

// PositionState represents the lifecycle state of a condor position.
type PositionState string

// A position opens once and ends in exactly one of three terminal states.
const (
	StateOpen       PositionState = "open"
	StateTargetHit  PositionState = "target_hit"
	StateStoppedOut PositionState = "stopped_out"
	StateForcedExit PositionState = "forced_exit"
)

// ExitReason is the reason code attached to an exit recommendation.
type ExitReason string

const (
	ExitTargetHit  ExitReason = "TARGET_HIT"
	ExitStoppedOut ExitReason = "STOPPED_OUT"
	ExitForced     ExitReason = "FORCED_EXIT"
)

// State returns the terminal position state for the reason.
func (r ExitReason) State() PositionState {
	switch r {
	case ExitTargetHit:
		return StateTargetHit
	case ExitStoppedOut:
		return StateStoppedOut
	default:
		return StateForcedExit
	}
}

// StateTransition defines a valid state transition.
type StateTransition struct {
	From        PositionState
	To          PositionState
	Condition   string
	Description string
}

// ValidTransitions lists every legal move. All exits are terminal; there is
// no path back to open.
var ValidTransitions = []StateTransition{
	{StateOpen, StateTargetHit, "target_reached", "Close cost decayed to the target exit premium"},
	{StateOpen, StateStoppedOut, "stop_breached", "Close cost rose to the stop-loss premium"},
	{StateOpen, StateForcedExit, "cutoff_reached", "End-of-window cutoff reached regardless of price"},
}

// Position records the entry parameters a later exit evaluation needs. It is
// created once at entry and never mutated by evaluations; exits produce a new
// decision, and the only allowed write is the terminal state transition.
//
// Because no durable store is guaranteed between invocations, a Position must
// be reconstructible from its JSON form alone.
type Position struct {
	ID           string        `json:"id"`
	Symbol       string        `json:"symbol"`
	State        PositionState `json:"state"`
	Expiry       string        `json:"expiry"`
	Legs         CondorLegs    `json:"legs"`
	EntrySpot    float64       `json:"entry_spot"`
	EntryPremium float64       `json:"entry_premium"`
	TargetExit   float64       `json:"target_exit"`
	StopLoss     float64       `json:"stop_loss"`
	LotSize      int           `json:"lot_size"`
	OpenedAt     time.Time     `json:"opened_at"`
}

// NewPositionFromSignal builds the open position recorded when an entry
// signal is delivered.
func NewPositionFromSignal(sig *EntrySignal) *Position {
	return &Position{
		ID:           sig.ID,
		Symbol:       sig.Symbol,
		State:        StateOpen,
		Expiry:       sig.Expiry,
		Legs:         sig.Legs,
		EntrySpot:    sig.Spot,
		EntryPremium: sig.Risk.NetPremium,
		TargetExit:   sig.Risk.TargetExit,
		StopLoss:     sig.Risk.StopLoss,
		LotSize:      sig.Risk.LotSize,
		OpenedAt:     sig.GeneratedAt,
	}
}

// Transition moves the position to a new state, rejecting anything not in
// the transition table.
func (p *Position) Transition(to PositionState, condition string) error {
	for _, t := range ValidTransitions {
		if t.From == p.State && t.To == to && t.Condition == condition {
			p.State = to
			return nil
		}
	}
	return fmt.Errorf("invalid transition from %s to %s with condition %q",
		p.State, to, condition)
}

// IsTerminal reports whether the position has reached an exit state.
func (p *Position) IsTerminal() bool {
	return p.State != StateOpen
}

// Validate checks a position loaded from storage before it is trusted for an
// exit evaluation.
func (p *Position) Validate() error {
	if p.EntryPremium <= 0 {
		return fmt.Errorf("position %s: entry premium must be positive, got %.2f", p.ID, p.EntryPremium)
	}
	if p.TargetExit >= p.EntryPremium {
		return fmt.Errorf("position %s: target exit %.2f must be below entry premium %.2f",
			p.ID, p.TargetExit, p.EntryPremium)
	}
	if p.StopLoss <= p.EntryPremium {
		return fmt.Errorf("position %s: stop loss %.2f must be above entry premium %.2f",
			p.ID, p.StopLoss, p.EntryPremium)
	}
	if p.LotSize <= 0 {
		return fmt.Errorf("position %s: lot size must be positive, got %d", p.ID, p.LotSize)
	}
	if p.Legs.ShortCall.Strike <= p.Legs.ShortPut.Strike {
		return fmt.Errorf("position %s: short call %.2f must be above short put %.2f",
			p.ID, p.Legs.ShortCall.Strike, p.Legs.ShortPut.Strike)
	}
	return nil
}
