// Package recorder persists signal history for later review.
package recorder

import (
	"time"

	"nifty-condor-bot/internal/models"
)

// SignalRow is one recorded entry signal, as served to the dashboard.
type SignalRow struct {
	ID          string    `json:"id"`
	Symbol      string    `json:"symbol"`
	Spot        float64   `json:"spot"`
	VIX         float64   `json:"vix"`
	PCR         float64   `json:"pcr"`
	Expiry      string    `json:"expiry"`
	ShortCall   float64   `json:"short_call"`
	LongCall    float64   `json:"long_call"`
	ShortPut    float64   `json:"short_put"`
	LongPut     float64   `json:"long_put"`
	NetPremium  float64   `json:"net_premium"`
	TargetExit  float64   `json:"target_exit"`
	StopLoss    float64   `json:"stop_loss"`
	Score       int       `json:"score"`
	Letter      string    `json:"letter"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Recorder persists the engine's decisions. Recording failures are logged
// and never block signal delivery.
type Recorder interface {
	RecordEntry(sig *models.EntrySignal) error
	RecordSuppression(reason, detail string, spot, vix float64) error
	RecordExit(positionID string, reason models.ExitReason, cost, pnl float64) error
	LatestSignal() (*SignalRow, error)
	ListSignals(limit int) ([]SignalRow, error)
	Close() error
}
