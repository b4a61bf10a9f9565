package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// ErrDuplicateRun is returned when a result with the same run id exists.
var ErrDuplicateRun = errors.New("run already recorded")

const schema = `CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	seed       INTEGER NOT NULL,
	act        TEXT NOT NULL,
	class      TEXT NOT NULL,
	outcome    TEXT NOT NULL,
	encounters INTEGER NOT NULL,
	hands      INTEGER NOT NULL,
	chips      INTEGER NOT NULL,
	damage     INTEGER NOT NULL
)`

// Result is the summary row of one finished run.
type Result struct {
	ID         string
	Seed       uint64
	Act        string
	Class      string
	Outcome    string // "victory", "defeat" or "abandoned"
	Encounters int
	Hands      int
	Chips      int
	Damage     int
}

// Summary aggregates the recorded runs.
type Summary struct {
	Runs          int
	Victories     int
	AvgEncounters float64
	AvgHands      float64
	AvgChips      float64
	AvgDamage     float64
}

// WinRate is the share of victories, 0 with no runs.
func (s Summary) WinRate() float64 {
	if s.Runs == 0 {
		return 0
	}
	return float64(s.Victories) / float64(s.Runs)
}

// ResultsDB stores simulation results in SQLite.
type ResultsDB struct {
	sqlDB *sql.DB
}

// OpenResults opens a results database and creates its table.
func OpenResults(path string) (*ResultsDB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	if path == ":memory:" {
		dsn = path
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create runs table: %w", err)
	}
	return &ResultsDB{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (db *ResultsDB) Close() error {
	if db == nil || db.sqlDB == nil {
		return nil
	}
	return db.sqlDB.Close()
}

// Record inserts one run result.
func (db *ResultsDB) Record(ctx context.Context, r Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("run id is required")
	}
	_, err := db.sqlDB.ExecContext(ctx,
		`INSERT INTO runs (id, seed, act, class, outcome, encounters, hands, chips, damage)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, int64(r.Seed), r.Act, r.Class, r.Outcome, r.Encounters, r.Hands, r.Chips, r.Damage,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", r.ID, ErrDuplicateRun)
		}
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Summary aggregates every run, optionally restricted to one act.
func (db *ResultsDB) Summary(ctx context.Context, act string) (Summary, error) {
	query := `SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN outcome = 'victory' THEN 1 ELSE 0 END), 0),
		COALESCE(AVG(encounters), 0), COALESCE(AVG(hands), 0),
		COALESCE(AVG(chips), 0), COALESCE(AVG(damage), 0)
		FROM runs`
	var args []any
	if act != "" {
		query += ` WHERE act = ?`
		args = append(args, act)
	}
	var s Summary
	err := db.sqlDB.QueryRowContext(ctx, query, args...).Scan(
		&s.Runs, &s.Victories, &s.AvgEncounters, &s.AvgHands, &s.AvgChips, &s.AvgDamage,
	)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize runs: %w", err)
	}
	return s, nil
}

// Get returns one recorded run.
func (db *ResultsDB) Get(ctx context.Context, id string) (Result, error) {
	var r Result
	var seed int64
	err := db.sqlDB.QueryRowContext(ctx,
		`SELECT id, seed, act, class, outcome, encounters, hands, chips, damage FROM runs WHERE id = ?`, id,
	).Scan(&r.ID, &seed, &r.Act, &r.Class, &r.Outcome, &r.Encounters, &r.Hands, &r.Chips, &r.Damage)
	if err != nil {
		return Result{}, fmt.Errorf("get run %s: %w", id, err)
	}
	r.Seed = uint64(seed)
	return r, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
