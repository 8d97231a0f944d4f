package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func condorFixture() CondorLegs {
	return CondorLegs{
		ShortCall: Leg{Role: RoleSell, Type: OptionCall, Strike: 25550, Premium: 82},
		LongCall:  Leg{Role: RoleBuy, Type: OptionCall, Strike: 25650, Premium: 41},
		ShortPut:  Leg{Role: RoleSell, Type: OptionPut, Strike: 25350, Premium: 77},
		LongPut:   Leg{Role: RoleBuy, Type: OptionPut, Strike: 25250, Premium: 38},
	}
}

func positionFixture() *Position {
	return &Position{
		ID:           "test-pos",
		Symbol:       "NIFTY",
		State:        StateOpen,
		Expiry:       "28-Aug-2026",
		Legs:         condorFixture(),
		EntrySpot:    25454,
		EntryPremium: 80,
		TargetExit:   48,
		StopLoss:     160,
		LotSize:      50,
		OpenedAt:     time.Now().UTC(),
	}
}

func TestCondorLegs(t *testing.T) {
	legs := condorFixture()

	assert.Equal(t, 80.0, legs.NetPremium())
	assert.Equal(t, 100.0, legs.SpreadWidth())

	all := legs.All()
	assert.Equal(t, legs.ShortCall, all[0])
	assert.Equal(t, legs.LongCall, all[1])
	assert.Equal(t, legs.ShortPut, all[2])
	assert.Equal(t, legs.LongPut, all[3])
}

func TestNewPositionFromSignal(t *testing.T) {
	sig := &EntrySignal{
		ID:     "sig-1",
		Symbol: "NIFTY",
		Spot:   25454,
		Expiry: "28-Aug-2026",
		Legs:   condorFixture(),
		Risk: RiskProfile{
			NetPremium: 80,
			TargetExit: 48,
			StopLoss:   160,
			LotSize:    50,
		},
		GeneratedAt: time.Now().UTC(),
	}

	pos := NewPositionFromSignal(sig)
	assert.Equal(t, "sig-1", pos.ID)
	assert.Equal(t, StateOpen, pos.State)
	assert.Equal(t, 80.0, pos.EntryPremium)
	assert.Equal(t, 48.0, pos.TargetExit)
	assert.Equal(t, 160.0, pos.StopLoss)
	assert.NoError(t, pos.Validate())
}

func TestPositionTransitions(t *testing.T) {
	tests := []struct {
		name      string
		to        PositionState
		condition string
		wantErr   bool
	}{
		{"open to target hit", StateTargetHit, "target_reached", false},
		{"open to stopped out", StateStoppedOut, "stop_breached", false},
		{"open to forced exit", StateForcedExit, "cutoff_reached", false},
		{"wrong condition", StateTargetHit, "stop_breached", true},
		{"unknown condition", StateForcedExit, "whatever", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := positionFixture()
			err := pos.Transition(tt.to, tt.condition)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, StateOpen, pos.State)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, pos.State)
			assert.True(t, pos.IsTerminal())
		})
	}
}

func TestTerminalStatesAreFinal(t *testing.T) {
	pos := positionFixture()
	require.NoError(t, pos.Transition(StateTargetHit, "target_reached"))

	// No route out of a terminal state, not even back to open.
	assert.Error(t, pos.Transition(StateOpen, "target_reached"))
	assert.Error(t, pos.Transition(StateStoppedOut, "stop_breached"))
}

func TestExitReasonState(t *testing.T) {
	assert.Equal(t, StateTargetHit, ExitTargetHit.State())
	assert.Equal(t, StateStoppedOut, ExitStoppedOut.State())
	assert.Equal(t, StateForcedExit, ExitForced.State())
}

func TestPositionValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, positionFixture().Validate())
	})

	t.Run("target above entry", func(t *testing.T) {
		pos := positionFixture()
		pos.TargetExit = 90
		assert.Error(t, pos.Validate())
	})

	t.Run("stop below entry", func(t *testing.T) {
		pos := positionFixture()
		pos.StopLoss = 70
		assert.Error(t, pos.Validate())
	})

	t.Run("inverted shorts", func(t *testing.T) {
		pos := positionFixture()
		pos.Legs.ShortCall.Strike = 25000
		assert.Error(t, pos.Validate())
	})

	t.Run("zero lot", func(t *testing.T) {
		pos := positionFixture()
		pos.LotSize = 0
		assert.Error(t, pos.Validate())
	})
}

func TestPositionJSONRoundTrip(t *testing.T) {
	// A position must be reconstructible from its JSON form alone: the exit
	// run may happen in a fresh process.
	pos := positionFixture()

	raw, err := json.Marshal(pos)
	require.NoError(t, err)

	var restored Position
	require.NoError(t, json.Unmarshal(raw, &restored))

	assert.Equal(t, pos.ID, restored.ID)
	assert.Equal(t, pos.State, restored.State)
	assert.Equal(t, pos.Legs, restored.Legs)
	assert.Equal(t, pos.TargetExit, restored.TargetExit)
	assert.NoError(t, restored.Validate())
}
