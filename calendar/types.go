/*
Package calendar provides the day-capacity allocation engine.

PURPOSE:
  A single user logs how fractions of each workday are spent across clients,
  tickets and activity types. Leave days and training days compete with those
  work entries for the same day. Every date has a capacity of exactly one day;
  this package decides what is admitted, what is rejected and what must be
  evicted when a day would overflow.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A fraction of a day (0.5, 1.0, ...) backed by decimal.Decimal
  - WorkEntry: Time spent on a client/ticket on one date
  - LeaveDay / TrainingDay: At most one of each per (user, date)
  - UserID / EntryID: Type-safe identifiers

DESIGN PRINCIPLES:
  1. Precision: decimal arithmetic, rounded to one decimal place (Round1)
  2. Ownership: every record is scoped by UserID, supplied by the caller
  3. Explicit storage: the Calendar owns a TxStore handed to it by New()

SEE ALSO:
  - ledger.go: Day view and remaining capacity
  - conflict.go: Date-level exclusions
  - allocator.go: Admission, eviction and copy planning
  - calendar.go: Operation dispatcher
*/
package calendar

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Fraction of a working day
// =============================================================================

// Amount is a quantity of days. All capacity math happens on Amount.
type Amount struct {
	Value decimal.Decimal
}

var (
	// ZeroDay is an empty allocation.
	ZeroDay = Amount{Value: decimal.Zero}
	// HalfDay is the half-day unit used by leave and training.
	HalfDay = Amount{Value: decimal.NewFromFloat(0.5)}
	// FullDay is the capacity of a single date.
	FullDay = Amount{Value: decimal.NewFromInt(1)}
)

func NewAmount(value float64) Amount { return Amount{Value: decimal.NewFromFloat(value)} }

// ParseAmount parses a decimal string such as "0.5".
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Amount{}, err
	}
	return Amount{Value: d}, nil
}

// Round1 rounds to the nearest 0.1 so repeated additions never drift.
func (a Amount) Round1() Amount { return Amount{Value: a.Value.Round(1)} }

func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value)} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value)} }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) Equal(b Amount) bool          { return a.Value.Equal(b.Value) }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }
func (a Amount) GreaterOrEqual(b Amount) bool { return a.Value.GreaterThanOrEqual(b.Value) }
func (a Amount) Float64() float64             { return a.Value.InexactFloat64() }
func (a Amount) String() string               { return a.Value.String() }

func (a Amount) Min(b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

// UserID is the opaque owner key supplied by the authentication layer.
type UserID string

type EntryID string
type LeaveID string
type TrainingID string

// =============================================================================
// RECORDS
// =============================================================================

// UndefinedType is the aggregation bucket for entries without an activity type.
const UndefinedType = "undefined"

// WorkEntry is time spent on one date for one client.
type WorkEntry struct {
	ID           EntryID
	UserID       UserID
	Date         Date
	Client       string
	Ticket       *string
	Comment      string
	Amount       Amount
	ActivityType *string
	CreatedAt    time.Time
}

// TypeKey returns the activity type, or UndefinedType when none is set.
func (e WorkEntry) TypeKey() string {
	if e.ActivityType == nil || strings.TrimSpace(*e.ActivityType) == "" {
		return UndefinedType
	}
	return *e.ActivityType
}

// LeaveDay marks a date (or half of it) as leave.
type LeaveDay struct {
	ID     LeaveID
	UserID UserID
	Date   Date
	Label  string
	Amount Amount
}

// TrainingDay marks a date (or half of it) as training.
type TrainingDay struct {
	ID     TrainingID
	UserID UserID
	Date   Date
	Label  string
	Amount Amount
}

// IsFull reports whether the leave occupies the whole day.
func (l LeaveDay) IsFull() bool { return l.Amount.GreaterOrEqual(FullDay) }

// IsFull reports whether the training occupies the whole day.
func (t TrainingDay) IsFull() bool { return t.Amount.GreaterOrEqual(FullDay) }

// =============================================================================
// DRAFTS - Caller-supplied shapes before ids and timestamps exist
// =============================================================================

// EntryDraft is the content of a work entry to create.
type EntryDraft struct {
	Date         Date
	Client       string
	Ticket       *string
	Comment      string
	Amount       Amount
	ActivityType *string
}

// EntryPatch changes selected fields of an existing entry. Nil means unchanged.
type EntryPatch struct {
	Date         *Date
	Client       *string
	Ticket       *string
	Comment      *string
	Amount       *Amount
	ActivityType *string
}

// ImportRow is one pre-parsed row from an external file reader.
type ImportRow = EntryDraft

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
