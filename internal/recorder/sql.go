package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"PortfolioSentinel/internal/model"
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know by name.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// SQLRecorder persists run history to SQLite or PostgreSQL.
type SQLRecorder struct {
	db      *sqlx.DB
	mu      sync.Mutex
	timeout time.Duration
}

// Open connects to the database and runs migrations. driver is "sqlite"
// (dsn is a file path) or "postgres".
func Open(driver, dsn string) (*SQLRecorder, error) {
	switch driver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported database driver %q: %w", driver, model.ErrConfiguration)
	}

	if driver == "sqlite" && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == "sqlite" {
		// WAL so readers do not block the writer.
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
		db.SetMaxOpenConns(1)
	}

	r := &SQLRecorder{db: db, timeout: 10 * time.Second}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("driver", driver).Msg("recorder opened")
	return r, nil
}

func (r *SQLRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id           TEXT PRIMARY KEY,
			run_trigger  TEXT NOT NULL,
			started_at   BIGINT NOT NULL,
			finished_at  BIGINT NOT NULL,
			regime       TEXT,
			holdings     INTEGER,
			failures     INTEGER,
			report       TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS recommendations (
			run_id            TEXT NOT NULL,
			symbol            TEXT NOT NULL,
			context_for       TEXT NOT NULL DEFAULT '',
			classification    TEXT NOT NULL,
			score             DOUBLE PRECISION,
			insufficient_data BOOLEAN,
			error_kind        TEXT,
			close_price       DOUBLE PRECISION,
			stop_loss         DOUBLE PRECISION,
			take_profit       DOUBLE PRECISION,
			recorded_at       BIGINT NOT NULL,
			PRIMARY KEY (run_id, symbol, context_for)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_recommendations_symbol ON recommendations(symbol, recorded_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores the run and one row per analyzed symbol in a single transaction.
func (r *SQLRecorder) RecordRun(ctx context.Context, report *model.RunReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, r.db.Rebind(`INSERT INTO runs
		(id, run_trigger, started_at, finished_at, regime, holdings, failures, report)
		VALUES (?,?,?,?,?,?,?,?)`),
		report.ID, string(report.Trigger), report.StartedAt.Unix(), report.FinishedAt.Unix(),
		string(report.Regime.Class), len(report.Holdings), report.Failures(), string(body),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	insert := r.db.Rebind(`INSERT INTO recommendations
		(run_id, symbol, context_for, classification, score, insufficient_data,
		 error_kind, close_price, stop_loss, take_profit, recorded_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`)
	for _, row := range rowsFor(report) {
		if _, err := tx.ExecContext(ctx, insert,
			row.RunID, row.Symbol, row.ContextFor, row.Classification, row.Score,
			row.InsufficientData, row.ErrorKind, row.Close, row.StopLoss, row.TakeProfit,
			row.RecordedUnix,
		); err != nil {
			return fmt.Errorf("insert recommendation %s: %w", row.Symbol, err)
		}
	}
	return tx.Commit()
}

func (r *SQLRecorder) LatestRun(ctx context.Context) (*model.RunReport, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var body string
	err := r.db.GetContext(ctx, &body, `SELECT report FROM runs ORDER BY started_at DESC, id DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}

	var report model.RunReport
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		return nil, fmt.Errorf("decode stored report: %w", err)
	}
	return &report, nil
}

// History returns the most recent recommendations for a symbol, newest first.
func (r *SQLRecorder) History(ctx context.Context, symbol string, limit int) ([]RecommendationRow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if limit <= 0 {
		limit = 30
	}
	var rows []RecommendationRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT run_id, symbol, context_for, classification, score, insufficient_data,
		       error_kind, close_price, stop_loss, take_profit, recorded_at
		FROM recommendations
		WHERE symbol = ?
		ORDER BY recorded_at DESC
		LIMIT ?`), symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", symbol, err)
	}
	for i := range rows {
		rows[i].RecordedAt = time.Unix(rows[i].RecordedUnix, 0)
	}
	return rows, nil
}

func (r *SQLRecorder) Close() error {
	log.Info().Msg("closing recorder")
	return r.db.Close()
}
