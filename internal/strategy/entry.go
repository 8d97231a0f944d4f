package strategy

import (
	"time"

	"github.com/google/uuid"

	"nifty-condor-bot/internal/models"
)

// EvaluateEntry runs the full entry pipeline over one snapshot: filter,
// strike selection, risk computation, grading. It returns either a complete
// entry signal or the suppression explaining why none fired.
//
// The evaluation is pure apart from the generated signal ID and timestamp;
// running it twice over the same snapshot yields identical legs, risk and
// grade.
func EvaluateEntry(snap *models.MarketSnapshot, cfg Config) (*models.EntrySignal, *Suppression) {
	if err := snap.Validate(); err != nil {
		return nil, suppress(ReasonMalformedData, "snapshot rejected: %v", err)
	}

	report, sup := Accept(snap, cfg)
	if sup != nil {
		return nil, sup
	}

	legs, sup := SelectLegs(snap, cfg)
	if sup != nil {
		return nil, sup
	}

	risk, sup := ComputeRisk(legs, cfg)
	if sup != nil {
		return nil, sup
	}

	grade := Grade(report, risk, minOpenInterest(snap, legs), cfg)
	if grade.Score < cfg.MinScoreThreshold {
		return nil, suppress(ReasonLowScore,
			"score %d (%s) below threshold %d", grade.Score, grade.Letter, cfg.MinScoreThreshold)
	}

	return &models.EntrySignal{
		ID:          uuid.NewString(),
		Symbol:      snap.Symbol,
		Spot:        snap.Spot,
		VIX:         snap.VIX,
		PCR:         report.PCR,
		Expiry:      snap.Expiry,
		Legs:        legs,
		Risk:        risk,
		Grade:       grade,
		OI:          AnalyzeOI(snap),
		GeneratedAt: time.Now().UTC(),
	}, nil
}
