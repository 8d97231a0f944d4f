package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nifty-condor-bot/internal/models"
)

func newTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "signals.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rec.Close() })
	return rec
}

func entrySignal(id string, generatedAt time.Time) *models.EntrySignal {
	return &models.EntrySignal{
		ID:     id,
		Symbol: "NIFTY",
		Spot:   25454,
		VIX:    13.46,
		PCR:    1.0,
		Expiry: "28-Aug-2026",
		Legs: models.CondorLegs{
			ShortCall: models.Leg{Strike: 25550, Premium: 82},
			LongCall:  models.Leg{Strike: 25650, Premium: 41},
			ShortPut:  models.Leg{Strike: 25350, Premium: 77},
			LongPut:   models.Leg{Strike: 25250, Premium: 38},
		},
		Risk:        models.RiskProfile{NetPremium: 80, TargetExit: 48, StopLoss: 160, LotSize: 50},
		Grade:       models.SignalGrade{Score: 93, Letter: "A"},
		GeneratedAt: generatedAt,
	}
}

func TestRecordAndListSignals(t *testing.T) {
	rec := newTestRecorder(t)
	base := time.Date(2026, 8, 24, 9, 25, 0, 0, time.UTC)

	require.NoError(t, rec.RecordEntry(entrySignal("sig-1", base)))
	require.NoError(t, rec.RecordEntry(entrySignal("sig-2", base.Add(24*time.Hour))))

	rows, err := rec.ListSignals(10)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Newest first.
	assert.Equal(t, "sig-2", rows[0].ID)
	assert.Equal(t, "sig-1", rows[1].ID)

	assert.Equal(t, 25550.0, rows[1].ShortCall)
	assert.Equal(t, 80.0, rows[1].NetPremium)
	assert.Equal(t, 48.0, rows[1].TargetExit)
	assert.Equal(t, 93, rows[1].Score)
	assert.Equal(t, "A", rows[1].Letter)
	assert.Equal(t, base, rows[1].GeneratedAt)
}

func TestLatestSignal(t *testing.T) {
	rec := newTestRecorder(t)

	row, err := rec.LatestSignal()
	require.NoError(t, err)
	assert.Nil(t, row, "empty database has no latest signal")

	base := time.Date(2026, 8, 24, 9, 25, 0, 0, time.UTC)
	require.NoError(t, rec.RecordEntry(entrySignal("sig-1", base)))
	require.NoError(t, rec.RecordEntry(entrySignal("sig-2", base.Add(time.Hour))))

	row, err = rec.LatestSignal()
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "sig-2", row.ID)
}

func TestRecordSuppressionAndExit(t *testing.T) {
	rec := newTestRecorder(t)

	require.NoError(t, rec.RecordSuppression("filter_rejected", "VIX 21.30 above ceiling", 25454, 21.3))
	require.NoError(t, rec.RecordExit("sig-1", models.ExitTargetHit, 31, 2450))

	// Side tables do not pollute the signal listing.
	rows, err := rec.ListSignals(10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = Noop{}

	assert.NoError(t, rec.RecordEntry(entrySignal("x", time.Now())))
	assert.NoError(t, rec.RecordSuppression("low_score", "", 0, 0))
	assert.NoError(t, rec.RecordExit("x", models.ExitForced, 0, 0))

	row, err := rec.LatestSignal()
	assert.NoError(t, err)
	assert.Nil(t, row)
	assert.NoError(t, rec.Close())
}
