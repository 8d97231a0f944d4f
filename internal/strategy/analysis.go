package strategy

import (
	"nifty-condor-bot/internal/models"
	"nifty-condor-bot/internal/util"
)

// PutCallRatio computes the put/call open-interest ratio across the chain,
// a sentiment and skew indicator. Returns 1.0 (neutral) when there is no
// call open interest to divide by.
func PutCallRatio(snap *models.MarketSnapshot) float64 {
	var callOI, putOI int64
	for _, q := range snap.Strikes {
		callOI += q.CallOI
		putOI += q.PutOI
	}
	if callOI == 0 {
		return 1.0
	}
	return util.Round2(float64(putOI) / float64(callOI))
}

// AnalyzeOI summarizes the open-interest landscape: max pain plus the call
// and put OI walls that act as soft resistance and support.
func AnalyzeOI(snap *models.MarketSnapshot) models.OIAnalysis {
	return models.OIAnalysis{
		MaxPain: maxPain(snap),
		CEWall:  oiWall(snap, models.OptionCall),
		PEWall:  oiWall(snap, models.OptionPut),
	}
}

// maxPain finds the strike where total writer loss across the chain is
// minimal: the expiry level option sellers collectively "want".
func maxPain(snap *models.MarketSnapshot) float64 {
	best := snap.Strikes[0].Strike
	bestLoss := writerLossAt(snap, best)
	for _, target := range snap.Strikes[1:] {
		loss := writerLossAt(snap, target.Strike)
		if loss < bestLoss {
			best = target.Strike
			bestLoss = loss
		}
	}
	return best
}

func writerLossAt(snap *models.MarketSnapshot, settle float64) float64 {
	var loss float64
	for _, q := range snap.Strikes {
		if settle > q.Strike {
			loss += (settle - q.Strike) * float64(q.CallOI)
		}
		if q.Strike > settle {
			loss += (q.Strike - settle) * float64(q.PutOI)
		}
	}
	return loss
}

func oiWall(snap *models.MarketSnapshot, t models.OptionType) float64 {
	best := snap.Strikes[0]
	for _, q := range snap.Strikes[1:] {
		if q.OpenInterest(t) > best.OpenInterest(t) {
			best = q
		}
	}
	return best.Strike
}
