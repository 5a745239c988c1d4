/*
Package sqlite provides a SQLite-backed implementation of calendar.TxStore.

KEY TABLES:
  work_entries:  one row per work entry, point lookups by id
  leave_days:    at most one row per (user_id, date)
  training_days: at most one row per (user_id, date)

INDEXES:
  - idx_work_entries_user_date: day and month scans (hot path)
  - idx_leave_days_user_date (UNIQUE): one leave per day
  - idx_training_days_user_date (UNIQUE): one training per day

STORAGE FORMATS:
  date        TEXT  YYYY-MM-DD (the UTC-noon anchor is restored on read)
  amount      TEXT  decimal string, never REAL
  created_at  TEXT  fixed-width UTC nanoseconds (sorts as text), ties broken by rowid

CONCURRENCY:
  Writers are serialized with a mutex around WithTx and every write, so the
  read-remaining-then-insert sequence of one date is never interleaved.
  SQLite is opened in WAL mode.

USAGE:
  store, err := sqlite.New("./data/daycal.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  cal := calendar.New(store)
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/daycal/calendar"
)

// Store implements calendar.TxStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ calendar.TxStore = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each pooled connection would otherwise open its own empty database.
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
	CREATE TABLE IF NOT EXISTS work_entries (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		client TEXT NOT NULL,
		ticket TEXT,
		comment TEXT NOT NULL,
		amount TEXT NOT NULL,
		activity_type TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_work_entries_user_date
		ON work_entries(user_id, date, created_at);

	CREATE TABLE IF NOT EXISTS leave_days (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		label TEXT NOT NULL,
		amount TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_leave_days_user_date
		ON leave_days(user_id, date);

	CREATE TABLE IF NOT EXISTS training_days (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		label TEXT NOT NULL,
		amount TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_training_days_user_date
		ON training_days(user_id, date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// TRANSACTIONAL STORE (calendar.TxStore interface)
// =============================================================================

// WithTx executes a function within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(store calendar.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{q: sqlTx}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

// txStore runs every call on the open sql.Tx; the parent lock is held.
type txStore struct {
	q querier
}

func (t *txStore) Entries(ctx context.Context, userID calendar.UserID, period calendar.Period) ([]calendar.WorkEntry, error) {
	return queryEntries(ctx, t.q, userID, period)
}

func (t *txStore) Entry(ctx context.Context, id calendar.EntryID) (calendar.WorkEntry, error) {
	return getEntry(ctx, t.q, id)
}

func (t *txStore) InsertEntry(ctx context.Context, e calendar.WorkEntry) error {
	return insertEntry(ctx, t.q, e)
}

func (t *txStore) UpdateEntry(ctx context.Context, e calendar.WorkEntry) error {
	return updateEntry(ctx, t.q, e)
}

func (t *txStore) DeleteEntry(ctx context.Context, id calendar.EntryID) error {
	return deleteEntry(ctx, t.q, id)
}

func (t *txStore) DeleteUserEntries(ctx context.Context, userID calendar.UserID) (int, error) {
	return deleteUserEntries(ctx, t.q, userID)
}

func (t *txStore) Leaves(ctx context.Context, userID calendar.UserID, period calendar.Period) ([]calendar.LeaveDay, error) {
	return queryLeaves(ctx, t.q, userID, period)
}

func (t *txStore) PutLeave(ctx context.Context, l calendar.LeaveDay) error {
	return putDayPart(ctx, t.q, "leave_days", string(l.ID), l.UserID, l.Date, l.Label, l.Amount)
}

func (t *txStore) DeleteLeave(ctx context.Context, userID calendar.UserID, date calendar.Date) error {
	return deleteDayPart(ctx, t.q, "leave_days", userID, date)
}

func (t *txStore) Trainings(ctx context.Context, userID calendar.UserID, period calendar.Period) ([]calendar.TrainingDay, error) {
	return queryTrainings(ctx, t.q, userID, period)
}

func (t *txStore) PutTraining(ctx context.Context, tr calendar.TrainingDay) error {
	return putDayPart(ctx, t.q, "training_days", string(tr.ID), tr.UserID, tr.Date, tr.Label, tr.Amount)
}

func (t *txStore) DeleteTraining(ctx context.Context, userID calendar.UserID, date calendar.Date) error {
	return deleteDayPart(ctx, t.q, "training_days", userID, date)
}

func (t *txStore) DeleteUser(ctx context.Context, userID calendar.UserID) error {
	return deleteUser(ctx, t.q, userID)
}

// =============================================================================
// DIRECT ACCESS (calendar.Store interface)
// =============================================================================

func (s *Store) Entries(ctx context.Context, userID calendar.UserID, period calendar.Period) ([]calendar.WorkEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return queryEntries(ctx, s.db, userID, period)
}

func (s *Store) Entry(ctx context.Context, id calendar.EntryID) (calendar.WorkEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getEntry(ctx, s.db, id)
}

func (s *Store) InsertEntry(ctx context.Context, e calendar.WorkEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insertEntry(ctx, s.db, e)
}

func (s *Store) UpdateEntry(ctx context.Context, e calendar.WorkEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateEntry(ctx, s.db, e)
}

func (s *Store) DeleteEntry(ctx context.Context, id calendar.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteEntry(ctx, s.db, id)
}

func (s *Store) DeleteUserEntries(ctx context.Context, userID calendar.UserID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteUserEntries(ctx, s.db, userID)
}

func (s *Store) Leaves(ctx context.Context, userID calendar.UserID, period calendar.Period) ([]calendar.LeaveDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return queryLeaves(ctx, s.db, userID, period)
}

func (s *Store) PutLeave(ctx context.Context, l calendar.LeaveDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return putDayPart(ctx, s.db, "leave_days", string(l.ID), l.UserID, l.Date, l.Label, l.Amount)
}

func (s *Store) DeleteLeave(ctx context.Context, userID calendar.UserID, date calendar.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteDayPart(ctx, s.db, "leave_days", userID, date)
}

func (s *Store) Trainings(ctx context.Context, userID calendar.UserID, period calendar.Period) ([]calendar.TrainingDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return queryTrainings(ctx, s.db, userID, period)
}

func (s *Store) PutTraining(ctx context.Context, t calendar.TrainingDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return putDayPart(ctx, s.db, "training_days", string(t.ID), t.UserID, t.Date, t.Label, t.Amount)
}

func (s *Store) DeleteTraining(ctx context.Context, userID calendar.UserID, date calendar.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteDayPart(ctx, s.db, "training_days", userID, date)
}

// DeleteUser removes the user's rows from all three tables atomically.
func (s *Store) DeleteUser(ctx context.Context, userID calendar.UserID) error {
	return s.WithTx(ctx, func(st calendar.Store) error {
		return st.DeleteUser(ctx, userID)
	})
}

// =============================================================================
// WORK ENTRIES
// =============================================================================

const entryColumns = `id, user_id, date, client, ticket, comment, amount, activity_type, created_at`

// createdAtLayout keeps every timestamp the same width so ORDER BY created_at is chronological.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

func queryEntries(ctx context.Context, q querier, userID calendar.UserID, period calendar.Period) ([]calendar.WorkEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM work_entries
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC, created_at ASC, rowid ASC
	`
	rows, err := q.QueryContext(ctx, query, userID, period.Start.String(), period.End.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []calendar.WorkEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func getEntry(ctx context.Context, q querier, id calendar.EntryID) (calendar.WorkEntry, error) {
	row := q.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM work_entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return calendar.WorkEntry{}, &calendar.NotFoundError{Resource: "entry", ID: string(id)}
	}
	return e, err
}

func insertEntry(ctx context.Context, q querier, e calendar.WorkEntry) error {
	query := `
		INSERT INTO work_entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.ExecContext(ctx, query,
		e.ID,
		e.UserID,
		e.Date.String(),
		e.Client,
		nullString(e.Ticket),
		e.Comment,
		e.Amount.String(),
		nullString(e.ActivityType),
		e.CreatedAt.UTC().Format(createdAtLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func updateEntry(ctx context.Context, q querier, e calendar.WorkEntry) error {
	query := `
		UPDATE work_entries
		SET date = ?, client = ?, ticket = ?, comment = ?, amount = ?, activity_type = ?
		WHERE id = ?
	`
	res, err := q.ExecContext(ctx, query,
		e.Date.String(),
		e.Client,
		nullString(e.Ticket),
		e.Comment,
		e.Amount.String(),
		nullString(e.ActivityType),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &calendar.NotFoundError{Resource: "entry", ID: string(e.ID)}
	}
	return nil
}

func deleteEntry(ctx context.Context, q querier, id calendar.EntryID) error {
	_, err := q.ExecContext(ctx, "DELETE FROM work_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

func deleteUserEntries(ctx context.Context, q querier, userID calendar.UserID) (int, error) {
	res, err := q.ExecContext(ctx, "DELETE FROM work_entries WHERE user_id = ?", userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete entries: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (calendar.WorkEntry, error) {
	var (
		e            calendar.WorkEntry
		date         string
		ticket       sql.NullString
		amount       string
		activityType sql.NullString
		createdAt    string
	)

	err := row.Scan(&e.ID, &e.UserID, &date, &e.Client, &ticket, &e.Comment, &amount, &activityType, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("failed to scan entry: %w", err)
	}

	if e.Date, err = calendar.ParseDate(date); err != nil {
		return e, err
	}
	if e.Amount, err = calendar.ParseAmount(amount); err != nil {
		return e, fmt.Errorf("failed to parse amount %q: %w", amount, err)
	}
	e.Ticket = fromNull(ticket)
	e.ActivityType = fromNull(activityType)
	if e.CreatedAt, err = time.Parse(createdAtLayout, createdAt); err != nil {
		return e, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
	}
	return e, nil
}

// =============================================================================
// LEAVE & TRAINING
// =============================================================================

// putDayPart upserts a leave or training row keyed by (user_id, date).
func putDayPart(ctx context.Context, q querier, table, id string, userID calendar.UserID, date calendar.Date, label string, amount calendar.Amount) error {
	query := `
		INSERT INTO ` + table + ` (id, user_id, date, label, amount)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			id = excluded.id,
			label = excluded.label,
			amount = excluded.amount
	`
	_, err := q.ExecContext(ctx, query, id, userID, date.String(), label, amount.String())
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", strings.TrimSuffix(table, "_days"), err)
	}
	return nil
}

func deleteDayPart(ctx context.Context, q querier, table string, userID calendar.UserID, date calendar.Date) error {
	_, err := q.ExecContext(ctx, "DELETE FROM "+table+" WHERE user_id = ? AND date = ?", userID, date.String())
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", strings.TrimSuffix(table, "_days"), err)
	}
	return nil
}

type dayPartRow struct {
	id     string
	userID calendar.UserID
	date   calendar.Date
	label  string
	amount calendar.Amount
}

func queryDayParts(ctx context.Context, q querier, table string, userID calendar.UserID, period calendar.Period) ([]dayPartRow, error) {
	query := `
		SELECT id, user_id, date, label, amount
		FROM ` + table + `
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`
	rows, err := q.QueryContext(ctx, query, userID, period.Start.String(), period.End.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var result []dayPartRow
	for rows.Next() {
		var (
			r      dayPartRow
			date   string
			amount string
		)
		if err := rows.Scan(&r.id, &r.userID, &date, &r.label, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		if r.date, err = calendar.ParseDate(date); err != nil {
			return nil, err
		}
		if r.amount, err = calendar.ParseAmount(amount); err != nil {
			return nil, fmt.Errorf("failed to parse amount %q: %w", amount, err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func queryLeaves(ctx context.Context, q querier, userID calendar.UserID, period calendar.Period) ([]calendar.LeaveDay, error) {
	rows, err := queryDayParts(ctx, q, "leave_days", userID, period)
	if err != nil {
		return nil, err
	}
	leaves := make([]calendar.LeaveDay, len(rows))
	for i, r := range rows {
		leaves[i] = calendar.LeaveDay{ID: calendar.LeaveID(r.id), UserID: r.userID, Date: r.date, Label: r.label, Amount: r.amount}
	}
	return leaves, nil
}

func queryTrainings(ctx context.Context, q querier, userID calendar.UserID, period calendar.Period) ([]calendar.TrainingDay, error) {
	rows, err := queryDayParts(ctx, q, "training_days", userID, period)
	if err != nil {
		return nil, err
	}
	trainings := make([]calendar.TrainingDay, len(rows))
	for i, r := range rows {
		trainings[i] = calendar.TrainingDay{ID: calendar.TrainingID(r.id), UserID: r.userID, Date: r.date, Label: r.label, Amount: r.amount}
	}
	return trainings, nil
}

func deleteUser(ctx context.Context, q querier, userID calendar.UserID) error {
	for _, table := range []string{"work_entries", "leave_days", "training_days"} {
		if _, err := q.ExecContext(ctx, "DELETE FROM "+table+" WHERE user_id = ?", userID); err != nil {
			return fmt.Errorf("failed to delete user from %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
