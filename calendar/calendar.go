/*
calendar.go - Operation dispatcher

PURPOSE:
  Calendar is the entry point used by transports (HTTP, CLI, importers).
  It owns the storage handle it was constructed with and runs every
  single-date mutation as one WithTx unit:

    load Day -> conflict checks -> capacity decision -> write

OPERATIONS:
  ListDay, ListRange            read-only views
  CreateWorkEntry               hard-capped at the day's remaining capacity
  UpdateWorkEntry               capacity re-checked only if date or amount grows
  DeleteWorkEntry               owner only
  SetLeave, SetTraining         create / replace / remove (nil amount)
  CopyDay                       clip source entries into the target's remaining
  Bulk*                         see bulk.go
  ImportEntries                 see import.go
  Aggregate                     see aggregate.go
  DeleteUser                    cascade

EXAMPLE:
  cal := calendar.New(sqliteStore)
  entry, err := cal.CreateWorkEntry(ctx, "u-1", calendar.EntryDraft{
      Date: calendar.NewDate(2025, time.March, 10), Client: "acme",
      Comment: "sprint review", Amount: calendar.HalfDay,
  })
*/
package calendar

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Calendar applies allocation operations against a TxStore.
type Calendar struct {
	store TxStore
	now   func() time.Time
	newID func() string

	mu        sync.Mutex
	lastStamp time.Time
}

// Option configures a Calendar.
type Option func(*Calendar)

// WithClock overrides the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Calendar) { c.now = now }
}

// WithIDGenerator overrides id generation (uuid v4 by default).
func WithIDGenerator(fn func() string) Option {
	return func(c *Calendar) { c.newID = fn }
}

// New creates a Calendar over the given store.
func New(store TxStore, opts ...Option) *Calendar {
	c := &Calendar{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the underlying storage handle.
func (c *Calendar) Store() TxStore { return c.store }

// stamp returns a strictly increasing creation time so entry order is total.
func (c *Calendar) stamp() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC()
	if !t.After(c.lastStamp) {
		t = c.lastStamp.Add(time.Microsecond)
	}
	c.lastStamp = t
	return t
}

func (c *Calendar) newEntry(userID UserID, draft EntryDraft, date Date, amount Amount) WorkEntry {
	return WorkEntry{
		ID:           EntryID(c.newID()),
		UserID:       userID,
		Date:         date,
		Client:       draft.Client,
		Ticket:       draft.Ticket,
		Comment:      draft.Comment,
		Amount:       amount,
		ActivityType: draft.ActivityType,
		CreatedAt:    c.stamp(),
	}
}

// =============================================================================
// READS
// =============================================================================

// ListDay returns the current ledger state of one date.
func (c *Calendar) ListDay(ctx context.Context, userID UserID, date Date) (Day, error) {
	if err := validateUser(userID); err != nil {
		return Day{}, err
	}
	if date.IsZero() {
		return Day{}, &ValidationError{Field: "date", Message: "is required"}
	}
	return LoadDay(ctx, c.store, userID, date)
}

// ListRange returns one Day per date of the period.
func (c *Calendar) ListRange(ctx context.Context, userID UserID, period Period) ([]Day, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	if _, err := NewPeriod(period.Start, period.End); err != nil {
		return nil, err
	}
	return LoadDays(ctx, c.store, userID, period)
}

// =============================================================================
// WORK ENTRIES
// =============================================================================

// CreateWorkEntry adds one entry on draft.Date. The amount must fit in the
// day's remaining capacity; it is never trimmed silently.
func (c *Calendar) CreateWorkEntry(ctx context.Context, userID UserID, draft EntryDraft) (WorkEntry, error) {
	if err := validateUser(userID); err != nil {
		return WorkEntry{}, err
	}
	draft, err := draft.normalize(true)
	if err != nil {
		return WorkEntry{}, err
	}

	var created WorkEntry
	err = c.store.WithTx(ctx, func(s Store) error {
		day, err := LoadDay(ctx, s, userID, draft.Date)
		if err != nil {
			return err
		}
		if err := CheckEntryCreate(day); err != nil {
			return err
		}
		if !day.Remaining().IsPositive() {
			return &ConflictError{Date: day.Date, Reason: ReasonNoCapacity}
		}
		if !Fits(day.Used(), draft.Amount, FullDay) {
			return &ConflictError{Date: day.Date, Reason: ReasonOverCapacity}
		}
		created = c.newEntry(userID, draft, draft.Date, draft.Amount)
		return s.InsertEntry(ctx, created)
	})
	if err != nil {
		return WorkEntry{}, err
	}
	return created, nil
}

// UpdateWorkEntry patches an entry owned by userID. Text-only patches never
// touch capacity; moving the entry or growing its amount is checked against
// the target date.
func (c *Calendar) UpdateWorkEntry(ctx context.Context, userID UserID, id EntryID, patch EntryPatch) (WorkEntry, error) {
	if err := validateUser(userID); err != nil {
		return WorkEntry{}, err
	}
	if err := patch.validate(); err != nil {
		return WorkEntry{}, err
	}

	var updated WorkEntry
	err := c.store.WithTx(ctx, func(s Store) error {
		current, err := ownedEntry(ctx, s, userID, id)
		if err != nil {
			return err
		}
		updated = patch.apply(current)

		moved := !updated.Date.Equal(current.Date)
		grown := updated.Amount.GreaterThan(current.Amount)
		if moved || grown {
			day, err := LoadDay(ctx, s, userID, updated.Date)
			if err != nil {
				return err
			}
			used := day.Used()
			if moved {
				if err := CheckEntryMove(day); err != nil {
					return err
				}
			} else {
				used = used.Sub(current.Amount)
			}
			if !Fits(used, updated.Amount, FullDay) {
				return &ConflictError{Date: day.Date, Reason: ReasonOverCapacity}
			}
		}
		return s.UpdateEntry(ctx, updated)
	})
	if err != nil {
		return WorkEntry{}, err
	}
	return updated, nil
}

// DeleteWorkEntry removes an entry owned by userID.
func (c *Calendar) DeleteWorkEntry(ctx context.Context, userID UserID, id EntryID) error {
	if err := validateUser(userID); err != nil {
		return err
	}
	return c.store.WithTx(ctx, func(s Store) error {
		if _, err := ownedEntry(ctx, s, userID, id); err != nil {
			return err
		}
		return s.DeleteEntry(ctx, id)
	})
}

func ownedEntry(ctx context.Context, s Store, userID UserID, id EntryID) (WorkEntry, error) {
	e, err := s.Entry(ctx, id)
	if err != nil {
		return WorkEntry{}, err
	}
	if e.UserID != userID {
		return WorkEntry{}, &OwnershipError{ID: string(id)}
	}
	return e, nil
}

// =============================================================================
// LEAVE & TRAINING
// =============================================================================

// SetLeave creates, replaces or (amount == nil) removes the leave on date.
// Replacing is delete-then-recreate, so eviction runs against the entries
// present at that moment. Returns nil when the leave was removed.
func (c *Calendar) SetLeave(ctx context.Context, userID UserID, date Date, amount *Amount) (*LeaveDay, error) {
	if err := validateToggle(userID, "leave", amount); err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, &ValidationError{Field: "date", Message: "is required"}
	}
	var leave *LeaveDay
	err := c.store.WithTx(ctx, func(s Store) error {
		var err error
		leave, err = c.setLeave(ctx, s, userID, date, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return leave, nil
}

func (c *Calendar) setLeave(ctx context.Context, s Store, userID UserID, date Date, amount *Amount) (*LeaveDay, error) {
	day, err := LoadDay(ctx, s, userID, date)
	if err != nil {
		return nil, err
	}
	if day.Leave != nil {
		if err := s.DeleteLeave(ctx, userID, date); err != nil {
			return nil, err
		}
		day.Leave = nil
	}
	if amount == nil {
		return nil, nil
	}
	if err := CheckLeaveCreate(day); err != nil {
		return nil, err
	}
	if err := deleteEntries(ctx, s, EntriesToEvict(day.Entries, day.Reserved().Add(*amount))); err != nil {
		return nil, err
	}

	leave := LeaveDay{
		ID:     LeaveID(c.newID()),
		UserID: userID,
		Date:   date,
		Label:  dayPartLabel("Leave", *amount),
		Amount: *amount,
	}
	if err := s.PutLeave(ctx, leave); err != nil {
		return nil, err
	}
	return &leave, nil
}

// SetTraining creates, replaces or (amount == nil) removes the training on
// date. A zero amount means a full day.
func (c *Calendar) SetTraining(ctx context.Context, userID UserID, date Date, amount *Amount) (*TrainingDay, error) {
	amount = defaultTraining(amount)
	if err := validateToggle(userID, "training", amount); err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, &ValidationError{Field: "date", Message: "is required"}
	}
	var training *TrainingDay
	err := c.store.WithTx(ctx, func(s Store) error {
		var err error
		training, err = c.setTraining(ctx, s, userID, date, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return training, nil
}

func (c *Calendar) setTraining(ctx context.Context, s Store, userID UserID, date Date, amount *Amount) (*TrainingDay, error) {
	day, err := LoadDay(ctx, s, userID, date)
	if err != nil {
		return nil, err
	}
	if day.Training != nil {
		if err := s.DeleteTraining(ctx, userID, date); err != nil {
			return nil, err
		}
		day.Training = nil
	}
	if amount == nil {
		return nil, nil
	}
	if err := CheckTrainingCreate(day, *amount); err != nil {
		return nil, err
	}
	if err := deleteEntries(ctx, s, EntriesToEvict(day.Entries, day.Reserved().Add(*amount))); err != nil {
		return nil, err
	}

	training := TrainingDay{
		ID:     TrainingID(c.newID()),
		UserID: userID,
		Date:   date,
		Label:  dayPartLabel("Training", *amount),
		Amount: *amount,
	}
	if err := s.PutTraining(ctx, training); err != nil {
		return nil, err
	}
	return &training, nil
}

func validateToggle(userID UserID, field string, amount *Amount) error {
	if err := validateUser(userID); err != nil {
		return err
	}
	if amount != nil {
		return validateDayPart(field, *amount)
	}
	return nil
}

func defaultTraining(amount *Amount) *Amount {
	if amount != nil && amount.IsZero() {
		full := FullDay
		return &full
	}
	return amount
}

func dayPartLabel(kind string, amount Amount) string {
	if amount.LessThan(FullDay) {
		return "Half-day " + strings.ToLower(kind)
	}
	return kind
}

func deleteEntries(ctx context.Context, s Store, entries []WorkEntry) error {
	for _, e := range entries {
		if err := s.DeleteEntry(ctx, e.ID); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// COPY
// =============================================================================

// CopyDay copies the source date's entries onto target, clipped to what the
// target has left. Source entries that no longer fit are not copied.
func (c *Calendar) CopyDay(ctx context.Context, userID UserID, source, target Date) ([]WorkEntry, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	if source.IsZero() || target.IsZero() {
		return nil, &ValidationError{Field: "date", Message: "source and target are required"}
	}

	var copied []WorkEntry
	err := c.store.WithTx(ctx, func(s Store) error {
		src, err := LoadDay(ctx, s, userID, source)
		if err != nil {
			return err
		}
		dst, err := LoadDay(ctx, s, userID, target)
		if err != nil {
			return err
		}
		if err := CheckEntryCreate(dst); err != nil {
			return err
		}

		plan := PlanCopy(src.Entries, dst.Capacity())
		copied = make([]WorkEntry, 0, len(plan))
		for i, amount := range plan {
			e := src.Entries[i]
			draft := EntryDraft{Client: e.Client, Ticket: e.Ticket, Comment: e.Comment, ActivityType: e.ActivityType}
			entry := c.newEntry(userID, draft, target, amount)
			if err := s.InsertEntry(ctx, entry); err != nil {
				return err
			}
			copied = append(copied, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return copied, nil
}

// =============================================================================
// ACCOUNT
// =============================================================================

// DeleteUser removes every entry, leave and training of the user.
func (c *Calendar) DeleteUser(ctx context.Context, userID UserID) error {
	if err := validateUser(userID); err != nil {
		return err
	}
	return c.store.WithTx(ctx, func(s Store) error {
		return s.DeleteUser(ctx, userID)
	})
}
