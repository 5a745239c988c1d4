/*
store.go - Persistence interface for work entries, leave and training

PURPOSE:
  Defines the interface between the allocation engine and the database.
  Three keyed collections, each indexed by (user, date) for range scans;
  work entries are additionally addressable by their own id.

KEY INTERFACES:
  Store:   Reads and writes for the three collections
  TxStore: Store plus WithTx, the unit of atomicity for one date

ATOMICITY:
  Every single-date mutation (create/update/delete an entry, toggle leave or
  training, copy a day) reads the day and writes it inside one WithTx call.
  Implementations serialize writers, so two inserts can never both observe
  the same stale remaining capacity.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - calendar/store/memory.go: In-memory for tests
*/
package calendar

import "context"

// Store handles persistence of the three record kinds.
type Store interface {
	// Entries returns the user's entries in the period, ordered by date then CreatedAt.
	Entries(ctx context.Context, userID UserID, period Period) ([]WorkEntry, error)

	// Entry returns a single entry by id. Returns *NotFoundError if missing.
	Entry(ctx context.Context, id EntryID) (WorkEntry, error)

	InsertEntry(ctx context.Context, e WorkEntry) error
	UpdateEntry(ctx context.Context, e WorkEntry) error
	DeleteEntry(ctx context.Context, id EntryID) error

	// DeleteUserEntries removes every entry of the user and returns how many were removed.
	DeleteUserEntries(ctx context.Context, userID UserID) (int, error)

	Leaves(ctx context.Context, userID UserID, period Period) ([]LeaveDay, error)
	// PutLeave inserts or replaces the leave for (UserID, Date).
	PutLeave(ctx context.Context, l LeaveDay) error
	DeleteLeave(ctx context.Context, userID UserID, date Date) error

	Trainings(ctx context.Context, userID UserID, period Period) ([]TrainingDay, error)
	// PutTraining inserts or replaces the training for (UserID, Date).
	PutTraining(ctx context.Context, t TrainingDay) error
	DeleteTraining(ctx context.Context, userID UserID, date Date) error

	// DeleteUser cascades to all three collections.
	DeleteUser(ctx context.Context, userID UserID) error
}

// TxStore wraps Store with transaction support.
type TxStore interface {
	Store

	// WithTx executes fn within a transaction.
	// If fn returns error, everything fn wrote is rolled back.
	WithTx(ctx context.Context, fn func(Store) error) error
}
