package calendar_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/daycal/calendar"
	"github.com/warp/daycal/calendar/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

const alice calendar.UserID = "alice"

var (
	saturday = calendar.NewDate(2025, time.March, 8)
	sunday   = calendar.NewDate(2025, time.March, 9)
	monday   = calendar.NewDate(2025, time.March, 10)
	tuesday  = calendar.NewDate(2025, time.March, 11)
	thursday = calendar.NewDate(2025, time.March, 13)
	friday   = calendar.NewDate(2025, time.March, 14)
)

// newTestCalendar returns a calendar over a fresh memory store with a fixed
// clock and sequential ids.
func newTestCalendar(t *testing.T) (*calendar.Calendar, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	base := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	cal := calendar.New(mem,
		calendar.WithClock(func() time.Time { return base }),
		calendar.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%03d", n)
		}),
	)
	return cal, mem
}

func amt(s string) calendar.Amount {
	a, err := calendar.ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func ptr[T any](v T) *T { return &v }

func assertAmount(t *testing.T, want string, got calendar.Amount) {
	t.Helper()
	assert.Truef(t, amt(want).Equal(got), "want %s, got %s", want, got)
}

// assertWithinCapacity checks a day never holds more than 1.0 + 0.05.
func assertWithinCapacity(t *testing.T, day calendar.Day) {
	t.Helper()
	assert.Falsef(t, day.Used().GreaterThan(amt("1.05")), "%s used %s", day.Date, day.Used())
	assert.Falsef(t, day.Remaining().IsNegative(), "%s remaining %s", day.Date, day.Remaining())
}

func draft(date calendar.Date, client string, amount string) calendar.EntryDraft {
	return calendar.EntryDraft{
		Date:    date,
		Client:  client,
		Comment: "work on " + client,
		Amount:  amt(amount),
	}
}

func mustCreate(t *testing.T, cal *calendar.Calendar, d calendar.EntryDraft) calendar.WorkEntry {
	t.Helper()
	e, err := cal.CreateWorkEntry(context.Background(), alice, d)
	require.NoError(t, err)
	return e
}

func mustDay(t *testing.T, cal *calendar.Calendar, date calendar.Date) calendar.Day {
	t.Helper()
	day, err := cal.ListDay(context.Background(), alice, date)
	require.NoError(t, err)
	return day
}

func requireConflict(t *testing.T, err error, reason calendar.ConflictReason) {
	t.Helper()
	require.Error(t, err)
	var c *calendar.ConflictError
	require.ErrorAs(t, err, &c)
	assert.Equal(t, reason, c.Reason)
	assert.ErrorIs(t, err, calendar.ErrConflict)
}

func entryAmounts(entries []calendar.WorkEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Amount.Round1().String()
	}
	return out
}

func newMemory() *store.Memory { return store.NewMemory() }
