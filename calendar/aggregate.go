package calendar

import (
	"context"
	"sort"
)

// =============================================================================
// AGGREGATION - Read-side totals
// =============================================================================

// Report holds totals for a period. Work amounts are in days; training is
// counted in records, not amounts.
type Report struct {
	Period          Period
	ByClient        map[string]Amount
	ByType          map[string]Amount
	ByMonth         map[string]Amount
	TrainingByMonth map[string]int
	LeaveByMonth    map[string]Amount
	TotalDays       Amount
	TotalTraining   int
	TotalLeave      Amount
}

// Summarize folds entries, trainings and leaves into a Report. Records
// outside the period are ignored.
func Summarize(period Period, entries []WorkEntry, trainings []TrainingDay, leaves []LeaveDay) Report {
	r := Report{
		Period:          period,
		ByClient:        make(map[string]Amount),
		ByType:          make(map[string]Amount),
		ByMonth:         make(map[string]Amount),
		TrainingByMonth: make(map[string]int),
		LeaveByMonth:    make(map[string]Amount),
		TotalDays:       ZeroDay,
		TotalLeave:      ZeroDay,
	}

	for _, e := range entries {
		if !period.Contains(e.Date) {
			continue
		}
		r.ByClient[e.Client] = addTo(r.ByClient, e.Client, e.Amount)
		r.ByType[e.TypeKey()] = addTo(r.ByType, e.TypeKey(), e.Amount)
		month := e.Date.MonthKey()
		r.ByMonth[month] = addTo(r.ByMonth, month, e.Amount)
		r.TotalDays = r.TotalDays.Add(e.Amount)
	}
	for _, t := range trainings {
		if !period.Contains(t.Date) {
			continue
		}
		r.TrainingByMonth[t.Date.MonthKey()]++
		r.TotalTraining++
	}
	for _, l := range leaves {
		if !period.Contains(l.Date) {
			continue
		}
		month := l.Date.MonthKey()
		r.LeaveByMonth[month] = addTo(r.LeaveByMonth, month, l.Amount)
		r.TotalLeave = r.TotalLeave.Add(l.Amount)
	}
	return r
}

func addTo(m map[string]Amount, key string, a Amount) Amount {
	current, ok := m[key]
	if !ok {
		current = ZeroDay
	}
	return current.Add(a)
}

// SortedKeys returns the keys of a bucket map in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Aggregate computes the Report for the user over the period.
func (c *Calendar) Aggregate(ctx context.Context, userID UserID, period Period) (Report, error) {
	if err := validateUser(userID); err != nil {
		return Report{}, err
	}
	if _, err := NewPeriod(period.Start, period.End); err != nil {
		return Report{}, err
	}

	entries, err := c.store.Entries(ctx, userID, period)
	if err != nil {
		return Report{}, err
	}
	trainings, err := c.store.Trainings(ctx, userID, period)
	if err != nil {
		return Report{}, err
	}
	leaves, err := c.store.Leaves(ctx, userID, period)
	if err != nil {
		return Report{}, err
	}
	return Summarize(period, entries, trainings, leaves), nil
}
