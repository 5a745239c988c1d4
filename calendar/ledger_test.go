package calendar_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/daycal/calendar"
	"github.com/warp/daycal/calendar/store"
)

func TestDay_Remaining(t *testing.T) {
	day := calendar.Day{
		Date:    monday,
		Leave:   leave("0.5"),
		Entries: entriesAt("0.1", "0.2"),
	}

	assertAmount(t, "0.8", day.Used())
	assertAmount(t, "0.2", day.Remaining())
}

func TestDay_RemainingRoundsRepeatedTenths(t *testing.T) {
	day := calendar.Day{Date: monday, Entries: entriesAt("0.1", "0.1", "0.1")}

	assertAmount(t, "0.7", day.Remaining())
}

func TestDay_Status(t *testing.T) {
	tests := []struct {
		name string
		day  calendar.Day
		want calendar.DayStatus
	}{
		{"weekend", calendar.Day{Date: saturday}, calendar.StatusWeekend},
		{"empty", calendar.Day{Date: monday}, calendar.StatusEmpty},
		{"partial", calendar.Day{Date: monday, Entries: entriesAt("0.5")}, calendar.StatusPartial},
		{"full", calendar.Day{Date: monday, Entries: entriesAt("0.5", "0.5")}, calendar.StatusFull},
		{"full leave", calendar.Day{Date: monday, Leave: leave("1")}, calendar.StatusOnLeaveFull},
		{"half leave", calendar.Day{Date: monday, Leave: leave("0.5"), Entries: entriesAt("0.5")}, calendar.StatusOnLeaveHalf},
		{"full training", calendar.Day{Date: monday, Training: training("1")}, calendar.StatusInTrainingFull},
		{"half training", calendar.Day{Date: monday, Training: training("0.5"), Leave: leave("0.5")}, calendar.StatusInTrainingHalf},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.day.Status())
		})
	}
}

func TestLoadDays_OneDayPerDateOldestEntryFirst(t *testing.T) {
	// GIVEN: entries inserted out of creation order
	ctx := context.Background()
	mem := store.NewMemory()
	base := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	newer := calendar.WorkEntry{ID: "n", UserID: alice, Date: monday, Client: "a", Comment: "c", Amount: amt("0.2"), CreatedAt: base.Add(time.Hour)}
	older := calendar.WorkEntry{ID: "o", UserID: alice, Date: monday, Client: "a", Comment: "c", Amount: amt("0.3"), CreatedAt: base}
	require.NoError(t, mem.InsertEntry(ctx, newer))
	require.NoError(t, mem.InsertEntry(ctx, older))
	require.NoError(t, mem.PutLeave(ctx, calendar.LeaveDay{ID: "l", UserID: alice, Date: tuesday, Amount: calendar.HalfDay}))
	require.NoError(t, mem.PutTraining(ctx, calendar.TrainingDay{ID: "t", UserID: "bob", Date: monday, Amount: calendar.FullDay}))

	// WHEN
	period, err := calendar.NewPeriod(sunday, tuesday)
	require.NoError(t, err)
	days, err := calendar.LoadDays(ctx, mem, alice, period)
	require.NoError(t, err)

	// THEN
	require.Len(t, days, 3)
	assert.Equal(t, calendar.StatusWeekend, days[0].Status())
	assert.Equal(t, []calendar.EntryID{"o", "n"}, ids(days[1].Entries))
	assert.Nil(t, days[1].Training, "other users' records are not visible")
	require.NotNil(t, days[2].Leave)
	assertAmount(t, "0.5", days[2].Remaining())
}

func TestPeriod(t *testing.T) {
	_, err := calendar.NewPeriod(tuesday, monday)
	assert.ErrorIs(t, err, calendar.ErrInvalidPeriod)
	assert.ErrorIs(t, err, calendar.ErrValidation)

	feb := calendar.MonthPeriod(2024, time.February)
	assert.Equal(t, "2024-02-29", feb.End.String())
	assert.Len(t, feb.Days(), 29)
	assert.True(t, feb.Contains(calendar.NewDate(2024, time.February, 1)))
	assert.False(t, feb.Contains(calendar.NewDate(2024, time.March, 1)))
}

func TestParseDate(t *testing.T) {
	d, err := calendar.ParseDate("2025-03-08")
	require.NoError(t, err)
	assert.True(t, d.IsWeekend())
	assert.Equal(t, 12, d.Time.Hour(), "dates are anchored at noon UTC")
	assert.Equal(t, "2025-03", d.MonthKey())

	_, err = calendar.ParseDate("08/03/2025")
	assert.ErrorIs(t, err, calendar.ErrValidation)
}
