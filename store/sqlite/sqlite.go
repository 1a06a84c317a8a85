/*
Package sqlite provides a SQLite-backed implementation of scenario.Store.

PURPOSE:
  Persists saved scenarios and the last good live holiday calendar.
  Curves and instruments are never stored; they are recomputed from a
  scenario on every request.

INTERFACES IMPLEMENTED:
  scenario.Store:        Saved scenario CRUD
  holidays.Cache:        Last successful live holiday set

KEY TABLES:
  scenarios:  One row per scenario (rates and turn premiums)
  meetings:   Meeting rows per scenario, ordered by seq
  holidays:   Cached holiday calendar, replaced wholesale on refresh

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. A ":memory:" database is pinned
  to a single connection so every query sees the same schema.

WAL MODE:
  File databases are opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/stir.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - scenario/store.go: Interface definition
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/stir-engine/curve"
	"github.com/warp/stir-engine/scenario"
)

const memoryPath = ":memory:"

// Store implements scenario.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == memoryPath {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scenarios (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		base_sofr REAL NOT NULL,
		base_effr REAL,
		turn_month_end REAL NOT NULL DEFAULT 0,
		turn_quarter_end REAL NOT NULL DEFAULT 0,
		turn_year_end REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scenarios_name
		ON scenarios(name);

	-- seq keeps same-day meetings in the order they were saved
	CREATE TABLE IF NOT EXISTS meetings (
		scenario_id TEXT NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		date TEXT NOT NULL,
		hike_bps INTEGER NOT NULL,
		PRIMARY KEY (scenario_id, seq)
	);

	CREATE TABLE IF NOT EXISTS holidays (
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		local_name TEXT,
		fetched_at TEXT NOT NULL,
		PRIMARY KEY (date, name)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SCENARIO STORE (scenario.Store interface)
// =============================================================================

// List returns all scenarios ordered by name, then id.
func (s *Store) List(ctx context.Context) ([]curve.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, base_sofr, base_effr, turn_month_end, turn_quarter_end, turn_year_end
		FROM scenarios ORDER BY name, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scenarios := []curve.Scenario{}
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range scenarios {
		meetings, err := s.loadMeetings(ctx, scenarios[i].ID)
		if err != nil {
			return nil, err
		}
		scenarios[i].Meetings = meetings
	}
	return scenarios, nil
}

// Get retrieves a scenario by ID.
func (s *Store) Get(ctx context.Context, id string) (curve.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, base_sofr, base_effr, turn_month_end, turn_quarter_end, turn_year_end
		FROM scenarios WHERE id = ?`, id,
	)
	sc, err := scanScenario(row)
	if err == sql.ErrNoRows {
		return curve.Scenario{}, scenario.ErrNotFound
	}
	if err != nil {
		return curve.Scenario{}, err
	}

	sc.Meetings, err = s.loadMeetings(ctx, id)
	if err != nil {
		return curve.Scenario{}, err
	}
	return sc, nil
}

// Put upserts the scenario row and replaces its meetings atomically.
func (s *Store) Put(ctx context.Context, sc curve.Scenario) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	var effr sql.NullFloat64
	if sc.BaseEFFR != nil {
		effr = sql.NullFloat64{Float64: *sc.BaseEFFR, Valid: true}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = sqlTx.ExecContext(ctx, `
		INSERT INTO scenarios (id, name, base_sofr, base_effr, turn_month_end, turn_quarter_end, turn_year_end, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			base_sofr = excluded.base_sofr,
			base_effr = excluded.base_effr,
			turn_month_end = excluded.turn_month_end,
			turn_quarter_end = excluded.turn_quarter_end,
			turn_year_end = excluded.turn_year_end,
			updated_at = excluded.updated_at`,
		sc.ID, sc.Name, sc.BaseSOFR, effr,
		sc.Turns.MonthEnd, sc.Turns.QuarterEnd, sc.Turns.YearEnd,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save scenario: %w", err)
	}

	if _, err := sqlTx.ExecContext(ctx, "DELETE FROM meetings WHERE scenario_id = ?", sc.ID); err != nil {
		return fmt.Errorf("failed to clear meetings: %w", err)
	}
	for i, m := range sc.Meetings {
		_, err := sqlTx.ExecContext(ctx,
			"INSERT INTO meetings (scenario_id, seq, date, hike_bps) VALUES (?, ?, ?, ?)",
			sc.ID, i, m.Date.String(), m.HikeBps,
		)
		if err != nil {
			return fmt.Errorf("failed to save meeting %s: %w", m.Date, err)
		}
	}

	return sqlTx.Commit()
}

// Delete removes a scenario and, by cascade, its meetings.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM scenarios WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return scenario.ErrNotFound
	}
	return nil
}

func (s *Store) loadMeetings(ctx context.Context, scenarioID string) ([]curve.Meeting, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT date, hike_bps FROM meetings WHERE scenario_id = ? ORDER BY seq",
		scenarioID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meetings := []curve.Meeting{}
	for rows.Next() {
		var date string
		var m curve.Meeting
		if err := rows.Scan(&date, &m.HikeBps); err != nil {
			return nil, err
		}
		if m.Date, err = civil.ParseDate(date); err != nil {
			return nil, fmt.Errorf("corrupt meeting date %q: %w", date, err)
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScenario(row rowScanner) (curve.Scenario, error) {
	var sc curve.Scenario
	var effr sql.NullFloat64
	err := row.Scan(&sc.ID, &sc.Name, &sc.BaseSOFR, &effr,
		&sc.Turns.MonthEnd, &sc.Turns.QuarterEnd, &sc.Turns.YearEnd)
	if err != nil {
		return curve.Scenario{}, err
	}
	if effr.Valid {
		v := effr.Float64
		sc.BaseEFFR = &v
	}
	return sc, nil
}

// =============================================================================
// HOLIDAY CACHE
// =============================================================================

// CachedHolidays returns the last cached holiday set in date order, nil
// when the cache is empty.
func (s *Store) CachedHolidays(ctx context.Context) ([]curve.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT date, name, local_name FROM holidays ORDER BY date, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []curve.Holiday
	for rows.Next() {
		var date string
		var local sql.NullString
		var h curve.Holiday
		if err := rows.Scan(&date, &h.Name, &local); err != nil {
			return nil, err
		}
		if h.Date, err = civil.ParseDate(date); err != nil {
			return nil, fmt.Errorf("corrupt holiday date %q: %w", date, err)
		}
		h.LocalName = local.String
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// CacheHolidays replaces the cached set.
func (s *Store) CacheHolidays(ctx context.Context, holidays []curve.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if _, err := sqlTx.ExecContext(ctx, "DELETE FROM holidays"); err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for _, h := range holidays {
		_, err := sqlTx.ExecContext(ctx, `
			INSERT INTO holidays (date, name, local_name, fetched_at) VALUES (?, ?, ?, ?)
			ON CONFLICT(date, name) DO NOTHING`,
			h.Date.String(), h.Name, nullString(h.LocalName), now,
		)
		if err != nil {
			return fmt.Errorf("failed to cache holiday %s: %w", h.Date, err)
		}
	}
	return sqlTx.Commit()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"meetings", "scenarios", "holidays"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
