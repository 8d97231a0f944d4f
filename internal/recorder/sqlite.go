package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"nifty-condor-bot/internal/models"
)

// SQLiteRecorder persists signal history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	logger *logrus.Logger
	mu     sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *logrus.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = logrus.New()
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the dashboard can read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.WithField("path", dbPath).Info("Signal recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id           TEXT PRIMARY KEY,
			timestamp    INTEGER NOT NULL,
			symbol       TEXT NOT NULL,
			spot         REAL,
			vix          REAL,
			pcr          REAL,
			expiry       TEXT,
			short_call   REAL,
			long_call    REAL,
			short_put    REAL,
			long_put     REAL,
			net_premium  REAL,
			target_exit  REAL,
			stop_loss    REAL,
			score        INTEGER,
			letter       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_ts ON signals(timestamp)`,

		`CREATE TABLE IF NOT EXISTS suppressions (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			reason    TEXT NOT NULL,
			detail    TEXT,
			spot      REAL,
			vix       REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_suppressions_ts ON suppressions(timestamp)`,

		`CREATE TABLE IF NOT EXISTS exits (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			position_id TEXT NOT NULL,
			reason      TEXT NOT NULL,
			close_cost  REAL,
			pnl         REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exits_ts ON exits(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordEntry implements Recorder.
func (r *SQLiteRecorder) RecordEntry(sig *models.EntrySignal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO signals
		(id, timestamp, symbol, spot, vix, pcr, expiry,
		 short_call, long_call, short_put, long_put,
		 net_premium, target_exit, stop_loss, score, letter)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		sig.ID, sig.GeneratedAt.Unix(), sig.Symbol, sig.Spot, sig.VIX, sig.PCR, sig.Expiry,
		sig.Legs.ShortCall.Strike, sig.Legs.LongCall.Strike,
		sig.Legs.ShortPut.Strike, sig.Legs.LongPut.Strike,
		sig.Risk.NetPremium, sig.Risk.TargetExit, sig.Risk.StopLoss,
		sig.Grade.Score, sig.Grade.Letter,
	)
	return err
}

// RecordSuppression implements Recorder.
func (r *SQLiteRecorder) RecordSuppression(reason, detail string, spot, vix float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO suppressions (timestamp, reason, detail, spot, vix)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), reason, detail, spot, vix,
	)
	return err
}

// RecordExit implements Recorder.
func (r *SQLiteRecorder) RecordExit(positionID string, reason models.ExitReason, cost, pnl float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO exits (timestamp, position_id, reason, close_cost, pnl)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), positionID, string(reason), cost, pnl,
	)
	return err
}

// LatestSignal implements Recorder. Returns nil when no signal has been
// recorded yet.
func (r *SQLiteRecorder) LatestSignal() (*SignalRow, error) {
	rows, err := r.ListSignals(1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// ListSignals implements Recorder, newest first.
func (r *SQLiteRecorder) ListSignals(limit int) ([]SignalRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(`SELECT id, timestamp, symbol, spot, vix, pcr, expiry,
		short_call, long_call, short_put, long_put,
		net_premium, target_exit, stop_loss, score, letter
		FROM signals ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []SignalRow
	for rows.Next() {
		var row SignalRow
		var ts int64
		if err := rows.Scan(&row.ID, &ts, &row.Symbol, &row.Spot, &row.VIX, &row.PCR, &row.Expiry,
			&row.ShortCall, &row.LongCall, &row.ShortPut, &row.LongPut,
			&row.NetPremium, &row.TargetExit, &row.StopLoss, &row.Score, &row.Letter); err != nil {
			return nil, err
		}
		row.GeneratedAt = time.Unix(ts, 0).UTC()
		out = append(out, row)
	}
	return out, rows.Err()
}

// Close implements Recorder.
func (r *SQLiteRecorder) Close() error {
	r.logger.Info("Closing signal recorder")
	return r.db.Close()
}
