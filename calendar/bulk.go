/*
bulk.go - Bulk Operation Engine

PURPOSE:
  Applies one logical operation to many dates. Each date is its own
  WithTx unit: its Day is re-read, checked and written independently.
  A conflict on one date becomes a Skip; it never aborts the others and
  earlier dates are never rolled back.

OPERATIONS:
  BulkAddEntry       same entry on every date, clipped to each date's remaining
  BulkSetLeave       toggle leave on every date
  BulkSetTraining    toggle training on every date
  BulkDeleteEntries  remove every entry of every date
*/
package calendar

import (
	"context"
	"log"
)

// Skip records a date the operation did not apply to.
type Skip struct {
	Date   Date
	Reason ConflictReason
	Err    error
}

// BulkResult reports which dates were applied and which were skipped.
type BulkResult struct {
	Applied []Date
	Skipped []Skip
	Entries []WorkEntry
}

// SkippedDates returns the dates of all skips.
func (r BulkResult) SkippedDates() []Date {
	dates := make([]Date, len(r.Skipped))
	for i, s := range r.Skipped {
		dates[i] = s.Date
	}
	return dates
}

type dateOp func(ctx context.Context, s Store, date Date) error

// forEachDate runs op once per distinct date, each inside its own transaction.
func (c *Calendar) forEachDate(ctx context.Context, name string, userID UserID, dates []Date, op dateOp) BulkResult {
	var result BulkResult
	for _, date := range uniqueDates(dates) {
		err := c.store.WithTx(ctx, func(s Store) error {
			return op(ctx, s, date)
		})
		if err != nil {
			reason := reasonOf(err)
			if reason == ReasonError {
				log.Printf("[Calendar] %s user=%s date=%s failed: %v", name, userID, date, err)
			}
			result.Skipped = append(result.Skipped, Skip{Date: date, Reason: reason, Err: err})
			continue
		}
		result.Applied = append(result.Applied, date)
	}
	if len(result.Skipped) > 0 {
		log.Printf("[Calendar] %s user=%s applied=%d skipped=%d", name, userID, len(result.Applied), len(result.Skipped))
	}
	return result
}

// BulkAddEntry creates the template entry on every date that accepts it.
// Weekends, training days and full-leave days are skipped, as are dates with
// no capacity left. The amount is clipped to each date's remaining capacity.
func (c *Calendar) BulkAddEntry(ctx context.Context, userID UserID, dates []Date, template EntryDraft) (BulkResult, error) {
	if err := validateUser(userID); err != nil {
		return BulkResult{}, err
	}
	template, err := template.normalize(false)
	if err != nil {
		return BulkResult{}, err
	}

	var created []WorkEntry
	result := c.forEachDate(ctx, "bulk add", userID, dates, func(ctx context.Context, s Store, date Date) error {
		entry, err := c.addClipped(ctx, s, userID, template, date)
		if err != nil {
			return err
		}
		created = append(created, entry)
		return nil
	})
	applied := make(map[string]bool, len(result.Applied))
	for _, d := range result.Applied {
		applied[d.String()] = true
	}
	for _, e := range created {
		if applied[e.Date.String()] {
			result.Entries = append(result.Entries, e)
		}
	}
	return result, nil
}

// addClipped inserts the template on date with amount min(template, remaining).
func (c *Calendar) addClipped(ctx context.Context, s Store, userID UserID, template EntryDraft, date Date) (WorkEntry, error) {
	day, err := LoadDay(ctx, s, userID, date)
	if err != nil {
		return WorkEntry{}, err
	}
	if err := CheckEntryCreate(day); err != nil {
		return WorkEntry{}, err
	}
	amount := Admit(day.Capacity(), template.Amount)
	if amount.IsZero() {
		return WorkEntry{}, &ConflictError{Date: date, Reason: ReasonNoCapacity}
	}
	entry := c.newEntry(userID, template, date, amount)
	if err := s.InsertEntry(ctx, entry); err != nil {
		return WorkEntry{}, err
	}
	return entry, nil
}

// BulkSetLeave sets (or with nil amount removes) leave on every date.
func (c *Calendar) BulkSetLeave(ctx context.Context, userID UserID, dates []Date, amount *Amount) (BulkResult, error) {
	if err := validateToggle(userID, "leave", amount); err != nil {
		return BulkResult{}, err
	}
	return c.forEachDate(ctx, "bulk leave", userID, dates, func(ctx context.Context, s Store, date Date) error {
		_, err := c.setLeave(ctx, s, userID, date, amount)
		return err
	}), nil
}

// BulkSetTraining sets (or with nil amount removes) training on every date.
func (c *Calendar) BulkSetTraining(ctx context.Context, userID UserID, dates []Date, amount *Amount) (BulkResult, error) {
	amount = defaultTraining(amount)
	if err := validateToggle(userID, "training", amount); err != nil {
		return BulkResult{}, err
	}
	return c.forEachDate(ctx, "bulk training", userID, dates, func(ctx context.Context, s Store, date Date) error {
		_, err := c.setTraining(ctx, s, userID, date, amount)
		return err
	}), nil
}

// BulkDeleteEntries removes all work entries on every date.
func (c *Calendar) BulkDeleteEntries(ctx context.Context, userID UserID, dates []Date) (BulkResult, error) {
	if err := validateUser(userID); err != nil {
		return BulkResult{}, err
	}
	return c.forEachDate(ctx, "bulk delete", userID, dates, func(ctx context.Context, s Store, date Date) error {
		day, err := LoadDay(ctx, s, userID, date)
		if err != nil {
			return err
		}
		return deleteEntries(ctx, s, day.Entries)
	}), nil
}

// uniqueDates drops zero and repeated dates, keeping first-seen order.
func uniqueDates(dates []Date) []Date {
	seen := make(map[string]bool, len(dates))
	out := make([]Date, 0, len(dates))
	for _, d := range dates {
		if d.IsZero() || seen[d.String()] {
			continue
		}
		seen[d.String()] = true
		out = append(out, d)
	}
	return out
}
