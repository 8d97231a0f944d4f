package notify

import (
	"fmt"
	"strings"

	"nifty-condor-bot/internal/models"
	"nifty-condor-bot/internal/strategy"
)

// FormatEntrySignal renders a fired entry signal as a Telegram HTML message.
// Pure formatting: all numbers come from the signal, nothing is recomputed.
func FormatEntrySignal(sig *models.EntrySignal) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🦅 <b>IRON CONDOR SIGNAL</b> | %s\n\n", sig.Symbol))
	b.WriteString(fmt.Sprintf("Spot: %.2f | VIX: %.2f | PCR: %.2f\n", sig.Spot, sig.VIX, sig.PCR))
	b.WriteString(fmt.Sprintf("Expiry: %s\n", sig.Expiry))
	b.WriteString(fmt.Sprintf("Grade: <b>%s (%d/100)</b>\n\n", sig.Grade.Letter, sig.Grade.Score))

	b.WriteString("<b>Legs:</b>\n")
	for _, leg := range sig.Legs.All() {
		b.WriteString(fmt.Sprintf("  %s %.0f %s @ ₹%.2f\n",
			legVerb(leg.Role), leg.Strike, leg.Type, leg.Premium))
	}

	r := sig.Risk
	b.WriteString(fmt.Sprintf("\nNet credit: ₹%.2f/share\n", r.NetPremium))
	b.WriteString(fmt.Sprintf("Target exit: ₹%.2f | Stop loss: ₹%.2f\n", r.TargetExit, r.StopLoss))
	b.WriteString(fmt.Sprintf("Max profit: ₹%.0f | Max loss: ₹%.0f (lot %d)\n",
		r.MaxProfit, r.MaxLoss, r.LotSize))

	b.WriteString(fmt.Sprintf("\nMax pain: %.0f | CE wall: %.0f | PE wall: %.0f\n",
		sig.OI.MaxPain, sig.OI.CEWall, sig.OI.PEWall))

	return b.String()
}

// FormatSkip renders a reportable suppression: the operator sees why no
// signal fired today.
func FormatSkip(symbol string, sup *strategy.Suppression) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("😴 <b>NO TRADE TODAY</b> | %s\n\n", symbol))
	b.WriteString(fmt.Sprintf("Reason: %s\n", sup.Reason))
	if sup.Detail != "" {
		b.WriteString(fmt.Sprintf("Detail: %s\n", sup.Detail))
	}
	return b.String()
}

// FormatExitSignal renders an exit decision for an open position. The leg
// actions are reversed relative to entry: shorts are bought back, longs are
// sold.
func FormatExitSignal(pos *models.Position, dec strategy.ExitDecision) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s <b>%s</b> | %s\n\n", exitEmoji(dec.Reason), dec.Reason, pos.Symbol))

	b.WriteString("<b>Close legs:</b>\n")
	for _, leg := range pos.Legs.All() {
		verb := "BUY BACK"
		if leg.Role == models.RoleBuy {
			verb = "SELL"
		}
		b.WriteString(fmt.Sprintf("  %s %.0f %s\n", verb, leg.Strike, leg.Type))
	}

	b.WriteString(fmt.Sprintf("\nEntry credit: ₹%.2f\n", pos.EntryPremium))
	if dec.CostKnown {
		b.WriteString(fmt.Sprintf("Close cost: ₹%.2f\n", dec.CurrentCost))
		b.WriteString(fmt.Sprintf("P&amp;L: ₹%.2f (lot %d)\n", dec.PnL, pos.LotSize))
	} else {
		b.WriteString("Close cost: unavailable\n")
	}
	if dec.Note != "" {
		b.WriteString(fmt.Sprintf("\n%s\n", dec.Note))
	}
	return b.String()
}

// FormatStartup renders the daemon startup banner.
func FormatStartup(symbol string, entryCron, exitCron string) string {
	var b strings.Builder
	b.WriteString("🤖 <b>CONDOR BOT STARTED</b>\n\n")
	b.WriteString(fmt.Sprintf("Underlying: %s\n", symbol))
	b.WriteString(fmt.Sprintf("Entry schedule: <code>%s</code>\n", entryCron))
	b.WriteString(fmt.Sprintf("Exit schedule: <code>%s</code>\n", exitCron))
	return b.String()
}

// FormatError renders an operational failure notice.
func FormatError(stage string, err error) string {
	return fmt.Sprintf("⚠️ <b>ERROR</b> | %s\n\n<code>%v</code>", stage, err)
}

func legVerb(role models.LegRole) string {
	if role == models.RoleSell {
		return "SELL"
	}
	return "BUY"
}

func exitEmoji(reason models.ExitReason) string {
	switch reason {
	case models.ExitTargetHit:
		return "🎯"
	case models.ExitStoppedOut:
		return "🛑"
	default:
		return "⏰"
	}
}
