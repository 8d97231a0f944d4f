package strategy

import (
	"nifty-condor-bot/internal/models"
	"nifty-condor-bot/internal/util"
)

// ComputeRisk derives the credit, exit levels and per-lot exposure from the
// selected legs.
//
// A condor that does not collect credit is not a valid signal, and one that
// collects too little does not cover transaction and pin risk; both suppress
// the entry rather than emitting a malformed trade.
func ComputeRisk(legs models.CondorLegs, cfg Config) (models.RiskProfile, *Suppression) {
	net := util.Round2(legs.NetPremium())
	if net <= 0 {
		return models.RiskProfile{}, suppress(ReasonNonPositiveCredit,
			"net premium %.2f, condor collects no credit", net)
	}
	if net < cfg.MinNetPremium {
		return models.RiskProfile{}, suppress(ReasonLowCredit,
			"net premium %.2f below minimum %.2f", net, cfg.MinNetPremium)
	}

	width := legs.SpreadWidth()
	lot := float64(cfg.LotSize)

	return models.RiskProfile{
		NetPremium:  net,
		TargetExit:  util.Round2(net * (1 - cfg.TargetDecay)),
		StopLoss:    util.Round2(net * cfg.StopMultiple),
		MaxProfit:   util.Round2(net * lot),
		MaxLoss:     util.Round2((width - net) * lot),
		SpreadWidth: width,
		LotSize:     cfg.LotSize,
	}, nil
}
