package strategy

import (
	"math"

	"nifty-condor-bot/internal/models"
	"nifty-condor-bot/internal/util"
)

// Grade combines the filter margins and risk metrics into a 0-100 score and
// letter band. Pure and deterministic: the weights and saturation points are
// configuration, not hidden logic.
//
// Components, each normalized to [0,1]:
//   - volatility margin: distance below the VIX ceiling, saturating at
//     VIXSaturation points of headroom
//   - credit quality: net premium relative to spread width, saturating at
//     CreditRatioCap
//   - liquidity: minimum open interest across the four strikes, scored
//     against OIFloor
func Grade(report models.MarginReport, risk models.RiskProfile, minOI int64, cfg Config) models.SignalGrade {
	g := cfg.Grading

	vixComp := util.Clamp01(report.VIXHeadroom / g.VIXSaturation)
	creditComp := util.Clamp01(risk.NetPremium / risk.SpreadWidth / g.CreditRatioCap)
	liqComp := util.Clamp01(float64(minOI) / float64(g.OIFloor))

	raw := g.VIX*vixComp + g.Credit*creditComp + g.Liquidity*liqComp
	score := int(math.Round(raw))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return models.SignalGrade{Score: score, Letter: letterFor(score)}
}

func letterFor(score int) string {
	switch {
	case score >= 80:
		return "A"
	case score >= 65:
		return "B"
	case score >= 50:
		return "C"
	case score >= 35:
		return "D"
	default:
		return "F"
	}
}
