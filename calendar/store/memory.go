// Package store provides in-memory calendar.TxStore implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/daycal/calendar"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.Mutex
	entries   map[calendar.EntryID]calendar.WorkEntry
	leaves    map[dayKey]calendar.LeaveDay
	trainings map[dayKey]calendar.TrainingDay
}

type dayKey struct {
	UserID calendar.UserID
	Date   string
}

func keyOf(userID calendar.UserID, d calendar.Date) dayKey {
	return dayKey{UserID: userID, Date: d.String()}
}

func NewMemory() *Memory {
	return &Memory{
		entries:   make(map[calendar.EntryID]calendar.WorkEntry),
		leaves:    make(map[dayKey]calendar.LeaveDay),
		trainings: make(map[dayKey]calendar.TrainingDay),
	}
}

var _ calendar.TxStore = (*Memory)(nil)

// WithTx executes fn with writers excluded.
// Simulated with a snapshot + rollback on error.
func (m *Memory) WithTx(ctx context.Context, fn func(calendar.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot := m.snapshot()
	if err := fn(&view{m: m}); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

type memorySnapshot struct {
	entries   map[calendar.EntryID]calendar.WorkEntry
	leaves    map[dayKey]calendar.LeaveDay
	trainings map[dayKey]calendar.TrainingDay
}

func (m *Memory) snapshot() memorySnapshot {
	s := memorySnapshot{
		entries:   make(map[calendar.EntryID]calendar.WorkEntry, len(m.entries)),
		leaves:    make(map[dayKey]calendar.LeaveDay, len(m.leaves)),
		trainings: make(map[dayKey]calendar.TrainingDay, len(m.trainings)),
	}
	for k, v := range m.entries {
		s.entries[k] = v
	}
	for k, v := range m.leaves {
		s.leaves[k] = v
	}
	for k, v := range m.trainings {
		s.trainings[k] = v
	}
	return s
}

func (m *Memory) restore(s memorySnapshot) {
	m.entries = s.entries
	m.leaves = s.leaves
	m.trainings = s.trainings
}

// Public methods lock; the view used inside WithTx runs on the already-held lock.

func (m *Memory) Entries(ctx context.Context, userID calendar.UserID, period calendar.Period) ([]calendar.WorkEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entriesLocked(userID, period), nil
}

func (m *Memory) Entry(ctx context.Context, id calendar.EntryID) (calendar.WorkEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entryLocked(id)
}

func (m *Memory) InsertEntry(ctx context.Context, e calendar.WorkEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.ID] = e
	return nil
}

func (m *Memory) UpdateEntry(ctx context.Context, e calendar.WorkEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateEntryLocked(e)
}

func (m *Memory) DeleteEntry(ctx context.Context, id calendar.EntryID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *Memory) DeleteUserEntries(ctx context.Context, userID calendar.UserID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteUserEntriesLocked(userID), nil
}

func (m *Memory) Leaves(ctx context.Context, userID calendar.UserID, period calendar.Period) ([]calendar.LeaveDay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.leavesLocked(userID, period), nil
}

func (m *Memory) PutLeave(ctx context.Context, l calendar.LeaveDay) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves[keyOf(l.UserID, l.Date)] = l
	return nil
}

func (m *Memory) DeleteLeave(ctx context.Context, userID calendar.UserID, date calendar.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.leaves, keyOf(userID, date))
	return nil
}

func (m *Memory) Trainings(ctx context.Context, userID calendar.UserID, period calendar.Period) ([]calendar.TrainingDay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trainingsLocked(userID, period), nil
}

func (m *Memory) PutTraining(ctx context.Context, t calendar.TrainingDay) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trainings[keyOf(t.UserID, t.Date)] = t
	return nil
}

func (m *Memory) DeleteTraining(ctx context.Context, userID calendar.UserID, date calendar.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.trainings, keyOf(userID, date))
	return nil
}

func (m *Memory) DeleteUser(ctx context.Context, userID calendar.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteUserLocked(userID)
	return nil
}

// =============================================================================
// LOCKED HELPERS
// =============================================================================

func (m *Memory) entriesLocked(userID calendar.UserID, period calendar.Period) []calendar.WorkEntry {
	var result []calendar.WorkEntry
	for _, e := range m.entries {
		if e.UserID == userID && period.Contains(e.Date) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func (m *Memory) entryLocked(id calendar.EntryID) (calendar.WorkEntry, error) {
	e, ok := m.entries[id]
	if !ok {
		return calendar.WorkEntry{}, &calendar.NotFoundError{Resource: "entry", ID: string(id)}
	}
	return e, nil
}

func (m *Memory) updateEntryLocked(e calendar.WorkEntry) error {
	if _, ok := m.entries[e.ID]; !ok {
		return &calendar.NotFoundError{Resource: "entry", ID: string(e.ID)}
	}
	m.entries[e.ID] = e
	return nil
}

func (m *Memory) deleteUserEntriesLocked(userID calendar.UserID) int {
	n := 0
	for id, e := range m.entries {
		if e.UserID == userID {
			delete(m.entries, id)
			n++
		}
	}
	return n
}

func (m *Memory) leavesLocked(userID calendar.UserID, period calendar.Period) []calendar.LeaveDay {
	var result []calendar.LeaveDay
	for k, l := range m.leaves {
		if k.UserID == userID && period.Contains(l.Date) {
			result = append(result, l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result
}

func (m *Memory) trainingsLocked(userID calendar.UserID, period calendar.Period) []calendar.TrainingDay {
	var result []calendar.TrainingDay
	for k, t := range m.trainings {
		if k.UserID == userID && period.Contains(t.Date) {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result
}

func (m *Memory) deleteUserLocked(userID calendar.UserID) {
	m.deleteUserEntriesLocked(userID)
	for k := range m.leaves {
		if k.UserID == userID {
			delete(m.leaves, k)
		}
	}
	for k := range m.trainings {
		if k.UserID == userID {
			delete(m.trainings, k)
		}
	}
}

// =============================================================================
// TRANSACTIONAL VIEW
// =============================================================================

// view is the Store handed to WithTx callbacks. The parent lock is held.
type view struct {
	m *Memory
}

func (v *view) Entries(ctx context.Context, userID calendar.UserID, period calendar.Period) ([]calendar.WorkEntry, error) {
	return v.m.entriesLocked(userID, period), nil
}

func (v *view) Entry(ctx context.Context, id calendar.EntryID) (calendar.WorkEntry, error) {
	return v.m.entryLocked(id)
}

func (v *view) InsertEntry(ctx context.Context, e calendar.WorkEntry) error {
	v.m.entries[e.ID] = e
	return nil
}

func (v *view) UpdateEntry(ctx context.Context, e calendar.WorkEntry) error {
	return v.m.updateEntryLocked(e)
}

func (v *view) DeleteEntry(ctx context.Context, id calendar.EntryID) error {
	delete(v.m.entries, id)
	return nil
}

func (v *view) DeleteUserEntries(ctx context.Context, userID calendar.UserID) (int, error) {
	return v.m.deleteUserEntriesLocked(userID), nil
}

func (v *view) Leaves(ctx context.Context, userID calendar.UserID, period calendar.Period) ([]calendar.LeaveDay, error) {
	return v.m.leavesLocked(userID, period), nil
}

func (v *view) PutLeave(ctx context.Context, l calendar.LeaveDay) error {
	v.m.leaves[keyOf(l.UserID, l.Date)] = l
	return nil
}

func (v *view) DeleteLeave(ctx context.Context, userID calendar.UserID, date calendar.Date) error {
	delete(v.m.leaves, keyOf(userID, date))
	return nil
}

func (v *view) Trainings(ctx context.Context, userID calendar.UserID, period calendar.Period) ([]calendar.TrainingDay, error) {
	return v.m.trainingsLocked(userID, period), nil
}

func (v *view) PutTraining(ctx context.Context, t calendar.TrainingDay) error {
	v.m.trainings[keyOf(t.UserID, t.Date)] = t
	return nil
}

func (v *view) DeleteTraining(ctx context.Context, userID calendar.UserID, date calendar.Date) error {
	delete(v.m.trainings, keyOf(userID, date))
	return nil
}

func (v *view) DeleteUser(ctx context.Context, userID calendar.UserID) error {
	v.m.deleteUserLocked(userID)
	return nil
}
