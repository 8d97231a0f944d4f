package models

import "time"

// LegRole marks a leg as sold (credit) or bought (protection).
type LegRole string

// Leg roles from the entry perspective. Exit messages reverse them.
const (
	RoleSell LegRole = "SELL"
	RoleBuy  LegRole = "BUY"
)

// Leg is one of the four option contracts making up the condor.
type Leg struct {
	Role    LegRole    `json:"role"`
	Type    OptionType `json:"type"`
	Strike  float64    `json:"strike"`
	Premium float64    `json:"premium"`
}

// CondorLegs is the four-leg structure derived from a snapshot. Immutable
// once computed.
type CondorLegs struct {
	ShortCall Leg `json:"short_call"`
	LongCall  Leg `json:"long_call"`
	ShortPut  Leg `json:"short_put"`
	LongPut   Leg `json:"long_put"`
}

// All returns the legs in reporting order: sell call, buy call, sell put, buy put.
func (c CondorLegs) All() [4]Leg {
	return [4]Leg{c.ShortCall, c.LongCall, c.ShortPut, c.LongPut}
}

// NetPremium is the credit collected per unit: short premiums minus long premiums.
func (c CondorLegs) NetPremium() float64 {
	return (c.ShortCall.Premium + c.ShortPut.Premium) -
		(c.LongCall.Premium + c.LongPut.Premium)
}

// SpreadWidth is the distance between short and long strikes. Call and put
// sides are equal by construction; the wider one wins if they ever differ.
func (c CondorLegs) SpreadWidth() float64 {
	callSide := c.LongCall.Strike - c.ShortCall.Strike
	putSide := c.ShortPut.Strike - c.LongPut.Strike
	if putSide > callSide {
		return putSide
	}
	return callSide
}

// RiskProfile carries the premium targets and per-lot exposure of a condor.
type RiskProfile struct {
	NetPremium  float64 `json:"net_premium"`
	TargetExit  float64 `json:"target_exit"`
	StopLoss    float64 `json:"stop_loss"`
	MaxProfit   float64 `json:"max_profit"`
	MaxLoss     float64 `json:"max_loss"`
	SpreadWidth float64 `json:"spread_width"`
	LotSize     int     `json:"lot_size"`
}

// SignalGrade is the 0-100 quality score with its letter band.
type SignalGrade struct {
	Score  int    `json:"score"`
	Letter string `json:"letter"`
}

// MarginReport carries the numeric distance from each filter threshold,
// recorded when a snapshot passes the filter stage and consumed by grading.
type MarginReport struct {
	VIX         float64 `json:"vix"`
	VIXHeadroom float64 `json:"vix_headroom"` // distance below the ceiling
	VIXFloor    float64 `json:"vix_floor"`    // distance above the floor
	PCR         float64 `json:"pcr"`
}

// OIAnalysis summarizes the open-interest landscape around the position.
type OIAnalysis struct {
	MaxPain float64 `json:"max_pain"`
	CEWall  float64 `json:"ce_wall"` // strike with highest call OI, resistance
	PEWall  float64 `json:"pe_wall"` // strike with highest put OI, support
}

// EntrySignal is the full entry recommendation payload.
type EntrySignal struct {
	ID          string      `json:"id"`
	Symbol      string      `json:"symbol"`
	Spot        float64     `json:"spot"`
	VIX         float64     `json:"vix"`
	PCR         float64     `json:"pcr"`
	Expiry      string      `json:"expiry"`
	Legs        CondorLegs  `json:"legs"`
	Risk        RiskProfile `json:"risk"`
	Grade       SignalGrade `json:"grade"`
	OI          OIAnalysis  `json:"oi"`
	GeneratedAt time.Time   `json:"generated_at"`
}
