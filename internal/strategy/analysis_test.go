package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nifty-condor-bot/internal/models"
)

func TestPutCallRatio(t *testing.T) {
	snap := weeklySnapshot()
	assert.Equal(t, 1.0, PutCallRatio(snap))

	for i := range snap.Strikes {
		snap.Strikes[i].PutOI = 195000 // 1.3x the call OI
	}
	assert.Equal(t, 1.3, PutCallRatio(snap))

	for i := range snap.Strikes {
		snap.Strikes[i].CallOI = 0
	}
	assert.Equal(t, 1.0, PutCallRatio(snap), "no call OI reads as neutral")
}

func TestAnalyzeOI(t *testing.T) {
	snap := weeklySnapshot()

	// Pile call OI at 25600 and put OI at 25300; max pain should settle in
	// between where uniform OI is cheapest for writers.
	for i := range snap.Strikes {
		switch snap.Strikes[i].Strike {
		case 25600:
			snap.Strikes[i].CallOI = 900000
		case 25300:
			snap.Strikes[i].PutOI = 900000
		}
	}

	oi := AnalyzeOI(snap)
	assert.Equal(t, 25600.0, oi.CEWall)
	assert.Equal(t, 25300.0, oi.PEWall)
	assert.GreaterOrEqual(t, oi.MaxPain, 25300.0)
	assert.LessOrEqual(t, oi.MaxPain, 25600.0)
}

func TestMaxPainUniformChain(t *testing.T) {
	// With symmetric uniform OI, writer loss is minimal at the median strike.
	snap := weeklySnapshot()
	assert.Equal(t, 25450.0, AnalyzeOI(snap).MaxPain)
}

func TestOIWallPrefersHighestOI(t *testing.T) {
	snap := weeklySnapshot()
	snap.Strikes[2].CallOI = 500000

	assert.Equal(t, snap.Strikes[2].Strike, oiWall(snap, models.OptionCall))
}
