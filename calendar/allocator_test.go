package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/daycal/calendar"
)

// entriesAt builds entries on monday, oldest first, one minute apart.
func entriesAt(amounts ...string) []calendar.WorkEntry {
	base := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	out := make([]calendar.WorkEntry, len(amounts))
	for i, a := range amounts {
		out[i] = calendar.WorkEntry{
			ID:        calendar.EntryID(string(rune('a' + i))),
			UserID:    alice,
			Date:      monday,
			Client:    "acme",
			Comment:   "x",
			Amount:    amt(a),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return out
}

func ids(entries []calendar.WorkEntry) []calendar.EntryID {
	out := make([]calendar.EntryID, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

// =============================================================================
// EVICTION
// =============================================================================

func TestEntriesToEvict_FullReservationEvictsAll(t *testing.T) {
	entries := entriesAt("0.2", "0.3")

	evicted := calendar.EntriesToEvict(entries, calendar.FullDay)

	assert.Equal(t, []calendar.EntryID{"a", "b"}, ids(evicted))
}

func TestEntriesToEvict_HalfLeaveDropsOlderEntry(t *testing.T) {
	// GIVEN: 0.3 (older) and 0.5 (newer)
	entries := entriesAt("0.3", "0.5")

	// WHEN: half a day is reserved
	evicted := calendar.EntriesToEvict(entries, calendar.HalfDay)

	// THEN: the newer entry survives
	assert.Equal(t, []calendar.EntryID{"a"}, ids(evicted))
}

func TestEntriesToEvict_WholeEntriesNoBacktracking(t *testing.T) {
	// GIVEN: 0.1, 0.5, 0.3 oldest to newest, maxTime 0.5
	entries := entriesAt("0.1", "0.5", "0.3")

	evicted := calendar.EntriesToEvict(entries, calendar.HalfDay)

	// THEN: 0.3 fits, 0.5 would overflow and goes whole, 0.1 still fits
	assert.Equal(t, []calendar.EntryID{"b"}, ids(evicted))
}

func TestEntriesToEvict_NothingWhenEverythingFits(t *testing.T) {
	entries := entriesAt("0.2", "0.3")

	assert.Empty(t, calendar.EntriesToEvict(entries, calendar.HalfDay))
	assert.Empty(t, calendar.EntriesToEvict(nil, calendar.FullDay))
}

func TestEntriesToEvict_SmallAmountsDoNotAccumulateRoundingError(t *testing.T) {
	// GIVEN: six 0.149 entries; each rounds down to 0.1 on its own
	entries := entriesAt("0.149", "0.149", "0.149", "0.149", "0.149", "0.149")

	// WHEN: half a day is reserved
	evicted := calendar.EntriesToEvict(entries, calendar.HalfDay)

	// THEN: only the three newest (0.447) fit under 0.5
	assert.Equal(t, []calendar.EntryID{"c", "b", "a"}, ids(evicted))
}

func TestFits(t *testing.T) {
	tests := []struct {
		used, amount, limit string
		want                bool
	}{
		{"0.5", "0.5", "1", true},
		{"0.95", "0.149", "1", false},
		{"0.95", "0.04", "1", true},
		{"0.447", "0.149", "0.5", false},
		{"0.298", "0.149", "0.5", true},
	}
	for _, tt := range tests {
		t.Run(tt.used+"+"+tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, calendar.Fits(amt(tt.used), amt(tt.amount), amt(tt.limit)))
		})
	}
}

func TestEntriesToEvict_DoesNotReorderInput(t *testing.T) {
	entries := entriesAt("0.4", "0.4", "0.4")

	calendar.EntriesToEvict(entries, calendar.HalfDay)

	assert.Equal(t, []calendar.EntryID{"a", "b", "c"}, ids(entries))
}

// =============================================================================
// ADMISSION & COPY
// =============================================================================

func TestAdmit(t *testing.T) {
	tests := []struct {
		remaining, requested, want string
	}{
		{"1", "0.5", "0.5"},
		{"0.3", "0.5", "0.3"},
		{"0.5", "0.5", "0.5"},
		{"0", "0.5", "0"},
		{"-0.2", "0.5", "0"},
		{"1", "0.149", "0.149"},
		{"0.05", "0.5", "0.05"},
		{"0.04", "0.5", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.remaining+"/"+tt.requested, func(t *testing.T) {
			assertAmount(t, tt.want, calendar.Admit(amt(tt.remaining), amt(tt.requested)))
		})
	}
}

func TestPlanCopy_ClipsToRemaining(t *testing.T) {
	plan := calendar.PlanCopy(entriesAt("0.5", "0.5"), amt("0.5"))

	assert.Len(t, plan, 1)
	assertAmount(t, "0.5", plan[0])
}

func TestPlanCopy_LastEntryTrimmed(t *testing.T) {
	plan := calendar.PlanCopy(entriesAt("0.3", "0.4", "0.6"), calendar.FullDay)

	assert.Len(t, plan, 3)
	assertAmount(t, "0.3", plan[0])
	assertAmount(t, "0.4", plan[1])
	assertAmount(t, "0.3", plan[2])
}

func TestPlanCopy_NoCapacity(t *testing.T) {
	assert.Empty(t, calendar.PlanCopy(entriesAt("0.5"), calendar.ZeroDay))
}

func TestPlanCopy_TracksExactCapacity(t *testing.T) {
	// GIVEN: more 0.149 entries than a day can hold
	source := entriesAt("0.149", "0.149", "0.149", "0.149", "0.149", "0.149", "0.149", "0.149")

	// WHEN
	plan := calendar.PlanCopy(source, calendar.FullDay)

	// THEN: six copies plus the 0.106 left over, exactly one day
	require.Len(t, plan, 7)
	assertAmount(t, "0.106", plan[6])
	total := calendar.ZeroDay
	for _, a := range plan {
		total = total.Add(a)
	}
	assertAmount(t, "1", total)
}
