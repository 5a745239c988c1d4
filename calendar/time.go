package calendar

import (
	"time"
)

// =============================================================================
// DATE - Calendar day anchored at 12:00 UTC
// =============================================================================

// DateLayout is the wire format of a Date.
const DateLayout = "2006-01-02"

// Date is a calendar day. The underlying time is always 12:00 UTC, so the
// weekday and month never depend on the caller's timezone.
type Date struct {
	Time time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 12, 0, 0, 0, time.UTC)}
}

// DateOf anchors any instant to its UTC calendar day.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, &ValidationError{Field: "date", Message: "expected YYYY-MM-DD, got " + s}
	}
	return DateOf(t), nil
}

func Today() Date { return DateOf(time.Now()) }

// Comparison
func (d Date) Before(o Date) bool        { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool         { return d.Time.After(o.Time) }
func (d Date) Equal(o Date) bool         { return d.Time.Equal(o.Time) }
func (d Date) BeforeOrEqual(o Date) bool { return !d.After(o) }

// Arithmetic
func (d Date) AddDays(n int) Date { return DateOf(d.Time.AddDate(0, 0, n)) }

// Properties
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// MonthKey returns the YYYY-MM bucket used by aggregation.
func (d Date) MonthKey() string { return d.Time.Format("2006-01") }

func (d Date) String() string { return d.Time.Format(DateLayout) }

// =============================================================================
// PERIOD - Inclusive date range
// =============================================================================

// Period is the inclusive range [Start, End].
type Period struct {
	Start Date
	End   Date
}

// NewPeriod validates that end is not before start.
func NewPeriod(start, end Date) (Period, error) {
	if start.IsZero() || end.IsZero() {
		return Period{}, &ValidationError{Field: "period", Message: "start and end are required"}
	}
	if end.Before(start) {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Start: start, End: end}, nil
}

// MonthPeriod covers a whole calendar month.
func MonthPeriod(year int, month time.Month) Period {
	start := NewDate(year, month, 1)
	end := DateOf(time.Date(year, month+1, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, -1))
	return Period{Start: start, End: end}
}

func (p Period) Contains(d Date) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// Days returns every date in the period, weekends included.
func (p Period) Days() []Date {
	var days []Date
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// SingleDay is the period containing only d.
func SingleDay(d Date) Period { return Period{Start: d, End: d} }
