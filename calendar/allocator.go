/*
allocator.go - Capacity Allocator

PURPOSE:
  Pure functions that decide how much of a requested allocation a day can
  take, and which existing entries must go when leave or training claims
  part of the day. They operate on snapshots and return plans; the caller
  applies the plan afterwards, so nothing is deleted while being iterated.

EVICTION RULE (leave/training creation):
  reserved >= 1.0  -> every entry of the date is evicted
  reserved <  1.0  -> maxTime = 1 - reserved; walk entries newest first,
                      accumulating usedTime; an entry that would push
                      usedTime past maxTime is evicted whole.
  The walk never backtracks. Newest entries survive, oldest go first.

PRECISION:
  Running totals are kept exact. Rounding to 0.1 happens only when a total
  is compared against a limit, so the error never compounds and a day
  stays below 1.05.

COPY RULE:
  Each source entry, in order, gets min(amount, capacity); capacity is
  decremented exactly; the copy stops once it rounds to zero.
*/
package calendar

import "sort"

// EntriesToEvict returns the entries to delete so that the rest fit next to reserved.
func EntriesToEvict(entries []WorkEntry, reserved Amount) []WorkEntry {
	if len(entries) == 0 {
		return nil
	}
	if reserved.GreaterOrEqual(FullDay) {
		return append([]WorkEntry(nil), entries...)
	}

	maxTime := FullDay.Sub(reserved).Round1()

	ordered := append([]WorkEntry(nil), entries...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].ID > ordered[j].ID
		}
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})

	var evicted []WorkEntry
	usedTime := ZeroDay
	for _, e := range ordered {
		if !Fits(usedTime, e.Amount, maxTime) {
			evicted = append(evicted, e)
			continue
		}
		usedTime = usedTime.Add(e.Amount)
	}
	return evicted
}

// Fits reports whether used + amount stays within limit at 0.1 precision.
// used must be the exact total, never a rounded one.
func Fits(used, amount, limit Amount) bool {
	return !used.Add(amount).Round1().GreaterThan(limit)
}

// Admit returns how much of requested fits in the exact free capacity.
// Zero means nothing fits.
func Admit(capacity, requested Amount) Amount {
	if !capacity.Round1().IsPositive() || !requested.IsPositive() {
		return ZeroDay
	}
	return requested.Min(capacity)
}

// PlanCopy returns the amount to give each source entry on the target day.
// The result may be shorter than source: copying stops when capacity runs out.
func PlanCopy(source []WorkEntry, capacity Amount) []Amount {
	var plan []Amount
	for _, e := range source {
		amount := Admit(capacity, e.Amount)
		if amount.IsZero() {
			break
		}
		plan = append(plan, amount)
		capacity = capacity.Sub(amount)
	}
	return plan
}
