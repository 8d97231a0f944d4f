package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nifty-condor-bot/internal/models"
)

func TestSelectLegs(t *testing.T) {
	legs, sup := SelectLegs(weeklySnapshot(), weeklyConfig())
	require.Nil(t, sup)

	assert.Equal(t, models.RoleSell, legs.ShortCall.Role)
	assert.Equal(t, models.OptionCall, legs.ShortCall.Type)
	assert.Equal(t, 25550.0, legs.ShortCall.Strike)
	assert.Equal(t, 25650.0, legs.LongCall.Strike)
	assert.Equal(t, models.RoleBuy, legs.LongPut.Role)
	assert.Equal(t, models.OptionPut, legs.LongPut.Type)
	assert.Equal(t, 25350.0, legs.ShortPut.Strike)
	assert.Equal(t, 25250.0, legs.LongPut.Strike)
}

func TestSelectLegsOffsetOutOfRange(t *testing.T) {
	cfg := weeklyConfig()
	cfg.OTMOffset = 7 // ATM sits at index 6 of 13 strikes

	_, sup := SelectLegs(weeklySnapshot(), cfg)
	require.NotNil(t, sup)
	assert.Equal(t, ReasonNoLiquidStrikes, sup.Reason)
	assert.False(t, sup.Reportable())
}

func TestSelectLegsMissingWingStrike(t *testing.T) {
	cfg := weeklyConfig()
	cfg.SpreadWidth = 250 // 25800 CE / 25100 PE are not in the chain

	_, sup := SelectLegs(weeklySnapshot(), cfg)
	require.NotNil(t, sup)
	assert.Equal(t, ReasonNoLiquidStrikes, sup.Reason)
	assert.Contains(t, sup.Detail, "not quoted")
}

func TestSelectLegsZeroPremium(t *testing.T) {
	snap := weeklySnapshot()
	for i := range snap.Strikes {
		if snap.Strikes[i].Strike == 25650 {
			snap.Strikes[i].CallLTP = 0
		}
	}

	_, sup := SelectLegs(snap, weeklyConfig())
	require.NotNil(t, sup)
	assert.Equal(t, ReasonNoLiquidStrikes, sup.Reason)
	assert.Contains(t, sup.Detail, "no traded price")
}

func TestSelectLegsWingPremiumFloor(t *testing.T) {
	cfg := weeklyConfig()
	cfg.MinWingPremium = 90 // short call carries only 82

	_, sup := SelectLegs(weeklySnapshot(), cfg)
	require.NotNil(t, sup)
	assert.Equal(t, ReasonNoLiquidStrikes, sup.Reason)
	assert.Contains(t, sup.Detail, "wing floor")
}

func TestMinOpenInterest(t *testing.T) {
	snap := weeklySnapshot()
	legs, sup := SelectLegs(snap, weeklyConfig())
	require.Nil(t, sup)

	assert.Equal(t, int64(150000), minOpenInterest(snap, legs))

	// Only the relevant side of each selected strike counts.
	for i := range snap.Strikes {
		if snap.Strikes[i].Strike == 25350 {
			snap.Strikes[i].PutOI = 42000
			snap.Strikes[i].CallOI = 9 // call side of a put leg is ignored
		}
	}
	assert.Equal(t, int64(42000), minOpenInterest(snap, legs))
}
