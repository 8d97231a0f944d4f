package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceptWithinBand(t *testing.T) {
	report, sup := Accept(weeklySnapshot(), weeklyConfig())
	require.Nil(t, sup)

	assert.Equal(t, 13.46, report.VIX)
	assert.InDelta(t, 4.54, report.VIXHeadroom, 1e-9)
	assert.InDelta(t, 3.46, report.VIXFloor, 1e-9)
	assert.Equal(t, 1.0, report.PCR)
}

func TestAcceptVIXGates(t *testing.T) {
	cfg := weeklyConfig()

	t.Run("above ceiling", func(t *testing.T) {
		snap := weeklySnapshot()
		snap.VIX = 18.01
		_, sup := Accept(snap, cfg)
		require.NotNil(t, sup)
		assert.Equal(t, ReasonFilterRejected, sup.Reason)
		assert.Contains(t, sup.Detail, "above ceiling")
	})

	t.Run("exactly at ceiling passes", func(t *testing.T) {
		snap := weeklySnapshot()
		snap.VIX = 18.0
		_, sup := Accept(snap, cfg)
		assert.Nil(t, sup)
	})

	t.Run("below floor", func(t *testing.T) {
		snap := weeklySnapshot()
		snap.VIX = 9.2
		_, sup := Accept(snap, cfg)
		require.NotNil(t, sup)
		assert.Equal(t, ReasonFilterRejected, sup.Reason)
		assert.Contains(t, sup.Detail, "below floor")
	})

	t.Run("exactly at floor passes", func(t *testing.T) {
		snap := weeklySnapshot()
		snap.VIX = 10.0
		_, sup := Accept(snap, cfg)
		assert.Nil(t, sup)
	})
}

func TestAcceptPCRBand(t *testing.T) {
	// The fixture chain carries equal put and call OI, so PCR is exactly 1.
	t.Run("disabled by default", func(t *testing.T) {
		snap := weeklySnapshot()
		for i := range snap.Strikes {
			snap.Strikes[i].PutOI = 600000 // PCR 4.0
		}
		_, sup := Accept(snap, weeklyConfig())
		assert.Nil(t, sup)
	})

	t.Run("above ceiling", func(t *testing.T) {
		cfg := weeklyConfig()
		cfg.PCRMin = 0.7
		cfg.PCRMax = 1.5
		snap := weeklySnapshot()
		for i := range snap.Strikes {
			snap.Strikes[i].PutOI = 300000 // PCR 2.0
		}
		_, sup := Accept(snap, cfg)
		require.NotNil(t, sup)
		assert.Equal(t, ReasonFilterRejected, sup.Reason)
	})

	t.Run("below floor", func(t *testing.T) {
		cfg := weeklyConfig()
		cfg.PCRMin = 0.7
		cfg.PCRMax = 1.5
		snap := weeklySnapshot()
		for i := range snap.Strikes {
			snap.Strikes[i].PutOI = 75000 // PCR 0.5
		}
		_, sup := Accept(snap, cfg)
		require.NotNil(t, sup)
		assert.Equal(t, ReasonFilterRejected, sup.Reason)
	})

	t.Run("inside band", func(t *testing.T) {
		cfg := weeklyConfig()
		cfg.PCRMin = 0.7
		cfg.PCRMax = 1.5
		_, sup := Accept(weeklySnapshot(), cfg)
		assert.Nil(t, sup)
	})
}
