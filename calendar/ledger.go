/*
ledger.go - Day Ledger: what already occupies a date

PURPOSE:
  Answers "what is on this day" for a user and a date, and derives how much
  of the day's 1.0 capacity is left. Read-only; every mutating operation
  loads a Day first and decides from it.

ARITHMETIC:
  used      = leave + training + Σ entries
  remaining = round1(1.0 - used)

STATES:
  weekend, empty, partial, full, on_leave_full, on_leave_half,
  in_training_full, in_training_half
*/
package calendar

import (
	"context"
	"sort"
)

// Day is the derived view of one date. Entries are ordered oldest first.
type Day struct {
	Date     Date
	Leave    *LeaveDay
	Training *TrainingDay
	Entries  []WorkEntry
}

// Reserved is what leave and training take from the day.
func (d Day) Reserved() Amount {
	total := ZeroDay
	if d.Leave != nil {
		total = total.Add(d.Leave.Amount)
	}
	if d.Training != nil {
		total = total.Add(d.Training.Amount)
	}
	return total
}

// Worked is the sum of all entry amounts.
func (d Day) Worked() Amount {
	total := ZeroDay
	for _, e := range d.Entries {
		total = total.Add(e.Amount)
	}
	return total
}

// Used is leave + training + entries.
func (d Day) Used() Amount { return d.Reserved().Add(d.Worked()) }

// Capacity is the exact unrounded capacity still free for work entries.
func (d Day) Capacity() Amount { return FullDay.Sub(d.Used()) }

// Remaining is Capacity rounded to 0.1.
func (d Day) Remaining() Amount { return d.Capacity().Round1() }

// DayStatus is the state of a date in the allocation state machine.
type DayStatus string

const (
	StatusWeekend        DayStatus = "weekend"
	StatusEmpty          DayStatus = "empty"
	StatusPartial        DayStatus = "partial"
	StatusFull           DayStatus = "full"
	StatusOnLeaveFull    DayStatus = "on_leave_full"
	StatusOnLeaveHalf    DayStatus = "on_leave_half"
	StatusInTrainingFull DayStatus = "in_training_full"
	StatusInTrainingHalf DayStatus = "in_training_half"
)

// Status classifies the day. Training outranks leave, which outranks work.
func (d Day) Status() DayStatus {
	switch {
	case d.Date.IsWeekend():
		return StatusWeekend
	case d.Training != nil && d.Training.IsFull():
		return StatusInTrainingFull
	case d.Training != nil:
		return StatusInTrainingHalf
	case d.Leave != nil && d.Leave.IsFull():
		return StatusOnLeaveFull
	case d.Leave != nil:
		return StatusOnLeaveHalf
	case len(d.Entries) == 0:
		return StatusEmpty
	case d.Remaining().IsPositive():
		return StatusPartial
	default:
		return StatusFull
	}
}

// LoadDay reads the ledger state of one date.
func LoadDay(ctx context.Context, s Store, userID UserID, date Date) (Day, error) {
	days, err := LoadDays(ctx, s, userID, SingleDay(date))
	if err != nil {
		return Day{}, err
	}
	return days[0], nil
}

// LoadDays returns one Day per date of the period, in date order.
func LoadDays(ctx context.Context, s Store, userID UserID, period Period) ([]Day, error) {
	entries, err := s.Entries(ctx, userID, period)
	if err != nil {
		return nil, err
	}
	leaves, err := s.Leaves(ctx, userID, period)
	if err != nil {
		return nil, err
	}
	trainings, err := s.Trainings(ctx, userID, period)
	if err != nil {
		return nil, err
	}

	dates := period.Days()
	index := make(map[string]int, len(dates))
	days := make([]Day, len(dates))
	for i, d := range dates {
		days[i] = Day{Date: d}
		index[d.String()] = i
	}

	for _, e := range entries {
		if i, ok := index[e.Date.String()]; ok {
			days[i].Entries = append(days[i].Entries, e)
		}
	}
	for i := range leaves {
		if j, ok := index[leaves[i].Date.String()]; ok {
			l := leaves[i]
			days[j].Leave = &l
		}
	}
	for i := range trainings {
		if j, ok := index[trainings[i].Date.String()]; ok {
			t := trainings[i]
			days[j].Training = &t
		}
	}
	for i := range days {
		sortByCreation(days[i].Entries)
	}
	return days, nil
}

// sortByCreation orders entries oldest first; ids break timestamp ties.
func sortByCreation(entries []WorkEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
}
