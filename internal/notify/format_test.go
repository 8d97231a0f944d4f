package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"nifty-condor-bot/internal/models"
	"nifty-condor-bot/internal/strategy"
)

func signalFixture() *models.EntrySignal {
	return &models.EntrySignal{
		ID:     "sig-1",
		Symbol: "NIFTY",
		Spot:   25454,
		VIX:    13.46,
		PCR:    1.0,
		Expiry: "28-Aug-2026",
		Legs: models.CondorLegs{
			ShortCall: models.Leg{Role: models.RoleSell, Type: models.OptionCall, Strike: 25550, Premium: 82},
			LongCall:  models.Leg{Role: models.RoleBuy, Type: models.OptionCall, Strike: 25650, Premium: 41},
			ShortPut:  models.Leg{Role: models.RoleSell, Type: models.OptionPut, Strike: 25350, Premium: 77},
			LongPut:   models.Leg{Role: models.RoleBuy, Type: models.OptionPut, Strike: 25250, Premium: 38},
		},
		Risk: models.RiskProfile{
			NetPremium: 80, TargetExit: 48, StopLoss: 160,
			MaxProfit: 4000, MaxLoss: 1000, SpreadWidth: 100, LotSize: 50,
		},
		Grade:       models.SignalGrade{Score: 93, Letter: "A"},
		OI:          models.OIAnalysis{MaxPain: 25450, CEWall: 25600, PEWall: 25300},
		GeneratedAt: time.Now().UTC(),
	}
}

func TestFormatEntrySignal(t *testing.T) {
	msg := FormatEntrySignal(signalFixture())

	assert.Contains(t, msg, "IRON CONDOR SIGNAL")
	assert.Contains(t, msg, "SELL 25550 CE @ ₹82.00")
	assert.Contains(t, msg, "BUY 25650 CE @ ₹41.00")
	assert.Contains(t, msg, "SELL 25350 PE @ ₹77.00")
	assert.Contains(t, msg, "BUY 25250 PE @ ₹38.00")
	assert.Contains(t, msg, "Net credit: ₹80.00")
	assert.Contains(t, msg, "Target exit: ₹48.00")
	assert.Contains(t, msg, "Stop loss: ₹160.00")
	assert.Contains(t, msg, "A (93/100)")
	assert.Contains(t, msg, "Max pain: 25450")
}

func TestFormatSkip(t *testing.T) {
	sup := &strategy.Suppression{
		Reason: strategy.ReasonFilterRejected,
		Detail: "VIX 21.30 above ceiling 18.00, market too volatile to sell premium",
	}

	msg := FormatSkip("NIFTY", sup)
	assert.Contains(t, msg, "NO TRADE TODAY")
	assert.Contains(t, msg, "filter_rejected")
	assert.Contains(t, msg, "VIX 21.30 above ceiling")
}

func TestFormatExitSignal(t *testing.T) {
	pos := models.NewPositionFromSignal(signalFixture())
	dec := strategy.ExitDecision{
		Action:      strategy.ActionExit,
		Reason:      models.ExitTargetHit,
		CurrentCost: 31,
		PnL:         2450,
		CostKnown:   true,
	}

	msg := FormatExitSignal(pos, dec)

	assert.Contains(t, msg, "TARGET_HIT")
	// Entry roles reverse on exit.
	assert.Contains(t, msg, "BUY BACK 25550 CE")
	assert.Contains(t, msg, "SELL 25650 CE")
	assert.Contains(t, msg, "BUY BACK 25350 PE")
	assert.Contains(t, msg, "SELL 25250 PE")
	assert.Contains(t, msg, "Close cost: ₹31.00")
	assert.Contains(t, msg, "₹2450.00")
}

func TestFormatExitSignalUnknownCost(t *testing.T) {
	pos := models.NewPositionFromSignal(signalFixture())
	dec := strategy.ExitDecision{
		Action:    strategy.ActionExit,
		Reason:    models.ExitForced,
		CostKnown: false,
		Note:      "close cost unknown, one or more legs not quoted",
	}

	msg := FormatExitSignal(pos, dec)
	assert.Contains(t, msg, "FORCED_EXIT")
	assert.Contains(t, msg, "Close cost: unavailable")
	assert.Contains(t, msg, "close cost unknown")
	assert.NotContains(t, msg, "P&amp;L")
}

func TestFormatStartupAndError(t *testing.T) {
	msg := FormatStartup("NIFTY", "0 25 9 * * 1-5", "0 */5 9-15 * * 1-5")
	assert.Contains(t, msg, "CONDOR BOT STARTED")
	assert.Contains(t, msg, "0 25 9 * * 1-5")

	errMsg := FormatError("entry snapshot", assert.AnError)
	assert.Contains(t, errMsg, "ERROR")
	assert.Contains(t, errMsg, "entry snapshot")
}
