package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/daycal/calendar"
)

var (
	monday = calendar.NewDate(2025, time.March, 10)
	week   = calendar.Period{Start: monday, End: monday.AddDays(6)}
)

func workEntry(id string, user calendar.UserID, createdAt time.Time) calendar.WorkEntry {
	return calendar.WorkEntry{
		ID:        calendar.EntryID(id),
		UserID:    user,
		Date:      monday,
		Client:    "acme",
		Comment:   "work",
		Amount:    calendar.HalfDay,
		CreatedAt: createdAt,
	}
}

func TestMemory_WithTxRollsBack(t *testing.T) {
	// GIVEN: one committed entry
	m := NewMemory()
	ctx := context.Background()
	base := time.Now()
	require.NoError(t, m.InsertEntry(ctx, workEntry("keep", "alice", base)))

	// WHEN: a transaction writes everywhere then fails
	boom := errors.New("boom")
	err := m.WithTx(ctx, func(s calendar.Store) error {
		require.NoError(t, s.InsertEntry(ctx, workEntry("tmp", "alice", base.Add(time.Second))))
		require.NoError(t, s.DeleteEntry(ctx, "keep"))
		require.NoError(t, s.PutLeave(ctx, calendar.LeaveDay{ID: "l", UserID: "alice", Date: monday, Amount: calendar.FullDay}))
		return boom
	})

	// THEN: nothing of it is visible
	assert.ErrorIs(t, err, boom)
	entries, _ := m.Entries(ctx, "alice", week)
	require.Len(t, entries, 1)
	assert.Equal(t, calendar.EntryID("keep"), entries[0].ID)
	leaves, _ := m.Leaves(ctx, "alice", week)
	assert.Empty(t, leaves)
}

func TestMemory_WithTxCommits(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	err := m.WithTx(ctx, func(s calendar.Store) error {
		if err := s.InsertEntry(ctx, workEntry("e1", "alice", time.Now())); err != nil {
			return err
		}
		return s.PutTraining(ctx, calendar.TrainingDay{ID: "t", UserID: "alice", Date: monday, Amount: calendar.HalfDay})
	})
	require.NoError(t, err)

	day, err := calendar.LoadDay(ctx, m, "alice", monday)
	require.NoError(t, err)
	assert.Len(t, day.Entries, 1)
	assert.NotNil(t, day.Training)
}

func TestMemory_CancelledContext(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := m.WithTx(ctx, func(calendar.Store) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestMemory_EntryLifecycle(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	base := time.Now()
	require.NoError(t, m.InsertEntry(ctx, workEntry("b", "alice", base)))
	require.NoError(t, m.InsertEntry(ctx, workEntry("a", "alice", base)))
	require.NoError(t, m.InsertEntry(ctx, workEntry("c", "bob", base)))

	entries, err := m.Entries(ctx, "alice", week)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, calendar.EntryID("a"), entries[0].ID, "ids break timestamp ties")

	e := entries[0]
	e.Comment = "edited"
	require.NoError(t, m.UpdateEntry(ctx, e))
	got, err := m.Entry(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Comment)

	assert.True(t, calendar.IsNotFound(m.UpdateEntry(ctx, workEntry("zzz", "alice", base))))

	n, err := m.DeleteUserEntries(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, m.DeleteUser(ctx, "bob"))
	_, err = m.Entry(ctx, "c")
	assert.True(t, calendar.IsNotFound(err))
}
