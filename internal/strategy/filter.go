package strategy

import (
	"nifty-condor-bot/internal/models"
)

// Accept applies the volatility and sentiment gates to a snapshot. It is a
// pure function: no side effects, same report for the same snapshot.
//
// The returned MarginReport carries the numeric distance from each threshold
// so grading can reward comfortable margins. PCR is always computed and
// reported; it only hard-gates when a PCR band is configured.
func Accept(snap *models.MarketSnapshot, cfg Config) (models.MarginReport, *Suppression) {
	report := models.MarginReport{
		VIX:         snap.VIX,
		VIXHeadroom: cfg.MaxVIX - snap.VIX,
		VIXFloor:    snap.VIX - cfg.MinVIX,
		PCR:         PutCallRatio(snap),
	}

	if snap.VIX > cfg.MaxVIX {
		return report, suppress(ReasonFilterRejected,
			"VIX %.2f above ceiling %.2f, market too volatile to sell premium", snap.VIX, cfg.MaxVIX)
	}
	if snap.VIX < cfg.MinVIX {
		return report, suppress(ReasonFilterRejected,
			"VIX %.2f below floor %.2f, premiums not worth selling", snap.VIX, cfg.MinVIX)
	}

	if cfg.PCRMax > 0 || cfg.PCRMin > 0 {
		if cfg.PCRMin > 0 && report.PCR < cfg.PCRMin {
			return report, suppress(ReasonFilterRejected,
				"PCR %.2f below configured floor %.2f", report.PCR, cfg.PCRMin)
		}
		if cfg.PCRMax > 0 && report.PCR > cfg.PCRMax {
			return report, suppress(ReasonFilterRejected,
				"PCR %.2f above configured ceiling %.2f", report.PCR, cfg.PCRMax)
		}
	}

	return report, nil
}
