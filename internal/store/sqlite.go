package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tradehabit/internal/errors"
	"tradehabit/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Seen executions, keyed so overlapping re-uploads insert nothing new
	CREATE TABLE IF NOT EXISTS executions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trade_date TEXT NOT NULL,
		symbol TEXT NOT NULL,
		price REAL NOT NULL,
		side TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		charges REAL,
		trade_time TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(trade_date, symbol, price, side, quantity)
	);

	-- Last computed report per session
	CREATE TABLE IF NOT EXISTS reports (
		session_id TEXT PRIMARY KEY,
		stats TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Pre-declared trade plans
	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		side TEXT NOT NULL,
		entry_price REAL NOT NULL,
		stop_loss REAL,
		target REAL,
		quantity INTEGER,
		notes TEXT,
		status TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_executions_symbol ON executions(symbol, trade_date);
	CREATE INDEX IF NOT EXISTS idx_plans_status ON plans(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// HasExecution reports whether an execution with the same identity key was
// recorded by a previous upload.
func (s *SQLiteStore) HasExecution(ctx context.Context, trade models.Trade) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM executions
		 WHERE trade_date = ? AND symbol = ? AND price = ? AND side = ? AND quantity = ?`,
		trade.Date, trade.Symbol, trade.Price, string(trade.Side), trade.FullQty,
	).Scan(&count)
	if err != nil {
		return false, errors.NewStoreError("has_execution", trade.Symbol, err)
	}
	return count > 0, nil
}

// SaveExecution records a newly-seen execution. It returns false without
// error when the row already exists; the unique index backstops the
// check-then-insert against concurrent writers.
func (s *SQLiteStore) SaveExecution(ctx context.Context, trade models.Trade) (bool, error) {
	seen, err := s.HasExecution(ctx, trade)
	if err != nil {
		return false, err
	}
	if seen {
		return false, nil
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO executions (trade_date, symbol, price, side, quantity, charges, trade_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		trade.Date, trade.Symbol, trade.Price, string(trade.Side), trade.FullQty, trade.Charges, trade.Time,
	)
	if err != nil {
		return false, errors.NewStoreError("save_execution", trade.Symbol, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// CountExecutions returns the total number of recorded executions.
func (s *SQLiteStore) CountExecutions(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM executions`).Scan(&count); err != nil {
		return 0, errors.NewStoreError("count_executions", "", err)
	}
	return count, nil
}

// SaveReport stores the last computed report for a session, overwriting
// any previous one.
func (s *SQLiteStore) SaveReport(ctx context.Context, sessionID string, stats *models.Stats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return errors.NewStoreError("save_report", sessionID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (session_id, stats, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(session_id) DO UPDATE SET stats = excluded.stats, updated_at = CURRENT_TIMESTAMP`,
		sessionID, string(payload),
	)
	if err != nil {
		return errors.NewStoreError("save_report", sessionID, err)
	}
	return nil
}

// GetReport returns the session's last report, or ErrReportNotFound.
func (s *SQLiteStore) GetReport(ctx context.Context, sessionID string) (*models.Stats, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT stats FROM reports WHERE session_id = ?`, sessionID,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, errors.ErrReportNotFound
	}
	if err != nil {
		return nil, errors.NewStoreError("get_report", sessionID, err)
	}

	stats := &models.Stats{}
	if err := json.Unmarshal([]byte(payload), stats); err != nil {
		return nil, errors.NewStoreError("get_report", sessionID, err)
	}
	return stats, nil
}

// SavePlan stores a trade plan.
func (s *SQLiteStore) SavePlan(ctx context.Context, plan *models.TradePlan) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO plans (id, symbol, side, entry_price, stop_loss, target, quantity, notes, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		plan.ID, plan.Symbol, string(plan.Side), plan.EntryPrice, plan.StopLoss,
		plan.Target, plan.Quantity, plan.Notes, string(plan.Status), plan.CreatedAt,
	)
	if err != nil {
		return errors.NewStoreError("save_plan", plan.ID, err)
	}
	return nil
}

// GetPlans returns plans matching the filter, newest first.
func (s *SQLiteStore) GetPlans(ctx context.Context, filter PlanFilter) ([]models.TradePlan, error) {
	query := `SELECT id, symbol, side, entry_price, stop_loss, target, quantity, notes, status, created_at
	          FROM plans WHERE 1=1`
	var args []interface{}

	if filter.Symbol != "" {
		query += ` AND symbol = ?`
		args = append(args, filter.Symbol)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewStoreError("get_plans", filter.Symbol, err)
	}
	defer rows.Close()

	var plans []models.TradePlan
	for rows.Next() {
		var p models.TradePlan
		var side, status string
		if err := rows.Scan(&p.ID, &p.Symbol, &side, &p.EntryPrice, &p.StopLoss,
			&p.Target, &p.Quantity, &p.Notes, &status, &p.CreatedAt); err != nil {
			return nil, errors.NewStoreError("get_plans", filter.Symbol, err)
		}
		p.Side = models.Side(side)
		p.Status = models.PlanStatus(status)
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// UpdatePlanStatus updates the status of a plan.
func (s *SQLiteStore) UpdatePlanStatus(ctx context.Context, planID string, status models.PlanStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE plans SET status = ? WHERE id = ?`, string(status), planID,
	)
	if err != nil {
		return errors.NewStoreError("update_plan", planID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.ErrDataNotFound
	}
	return nil
}
