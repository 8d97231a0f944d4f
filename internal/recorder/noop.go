package recorder

import "nifty-condor-bot/internal/models"

// Noop discards everything. Used when no database path is configured.
type Noop struct{}

// RecordEntry implements Recorder.
func (Noop) RecordEntry(*models.EntrySignal) error { return nil }

// RecordSuppression implements Recorder.
func (Noop) RecordSuppression(string, string, float64, float64) error { return nil }

// RecordExit implements Recorder.
func (Noop) RecordExit(string, models.ExitReason, float64, float64) error { return nil }

// LatestSignal implements Recorder.
func (Noop) LatestSignal() (*SignalRow, error) { return nil, nil }

// ListSignals implements Recorder.
func (Noop) ListSignals(int) ([]SignalRow, error) { return nil, nil }

// Close implements Recorder.
func (Noop) Close() error { return nil }
