package factory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/daycal/calendar"
)

func TestFromJSON(t *testing.T) {
	f := NewEntryFactory()
	amount := decimal.RequireFromString("0.5")

	draft, err := f.FromJSON(EntryJSON{Date: "2025-03-10", Client: "acme", Comment: "review", Amount: &amount})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", draft.Date.String())
	assert.True(t, draft.Amount.Equal(calendar.HalfDay))
}

func TestFromJSON_Errors(t *testing.T) {
	f := NewEntryFactory()
	amount := decimal.RequireFromString("0.5")

	_, err := f.FromJSON(EntryJSON{Date: "2025-03-10", Client: "acme", Comment: "x"})
	assert.ErrorIs(t, err, calendar.ErrValidation, "missing amount")

	_, err = f.FromJSON(EntryJSON{Date: "10/03/2025", Client: "acme", Comment: "x", Amount: &amount})
	assert.ErrorIs(t, err, calendar.ErrValidation, "bad date")
}

func TestFromJSON_TemplateWithoutDate(t *testing.T) {
	amount := decimal.RequireFromString("1")

	draft, err := NewEntryFactory().FromJSON(EntryJSON{Client: "acme", Comment: "x", Amount: &amount})

	require.NoError(t, err)
	assert.True(t, draft.Date.IsZero())
}

func TestPatchFromJSON(t *testing.T) {
	date := "2025-03-11"
	comment := "new"
	amount := decimal.RequireFromString("0.2")

	patch, err := NewEntryFactory().PatchFromJSON(PatchJSON{Date: &date, Comment: &comment, Amount: &amount})
	require.NoError(t, err)

	require.NotNil(t, patch.Date)
	assert.Equal(t, date, patch.Date.String())
	assert.Equal(t, "new", *patch.Comment)
	assert.Nil(t, patch.Client)
	assert.Equal(t, "0.2", patch.Amount.String())
}

func TestParseRows(t *testing.T) {
	f := NewEntryFactory()

	t.Run("array", func(t *testing.T) {
		rows, err := f.ParseRows([]byte(`[
			{"date": "2025-03-10", "client": "acme", "comment": "a", "amount": 0.1},
			{"date": "2025-03-11", "client": "globex", "ticket": "G-7", "comment": "b", "amount": "0.5", "activity_type": "dev"}
		]`))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "0.1", rows[0].Amount.String(), "no float drift")
		assert.Equal(t, "G-7", *rows[1].Ticket)
		assert.Equal(t, "dev", *rows[1].ActivityType)
	})

	t.Run("document", func(t *testing.T) {
		rows, err := f.ParseRows([]byte(` {"rows": [{"date": "2025-03-10", "client": "acme", "comment": "a", "amount": 1}]}`))
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("bad row", func(t *testing.T) {
		_, err := f.ParseRows([]byte(`[{"date": "2025-03-10", "client": "acme", "comment": "a", "amount": 1}, {"date": "nope", "amount": 1}]`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 1")
		assert.ErrorIs(t, err, calendar.ErrValidation)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := f.ParseRows([]byte(`date,client`))
		assert.Error(t, err)
	})
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2025-03-01", "2025-03-31")
	require.NoError(t, err)
	assert.Len(t, p.Days(), 31)

	_, err = ParsePeriod("2025-03-31", "2025-03-01")
	assert.ErrorIs(t, err, calendar.ErrInvalidPeriod)

	_, err = ParsePeriod("", "2025-03-01")
	assert.ErrorIs(t, err, calendar.ErrValidation)
}

func TestDayPart(t *testing.T) {
	assert.Nil(t, DayPart(nil))

	half := decimal.RequireFromString("0.5")
	assert.True(t, DayPart(&half).Equal(calendar.HalfDay))
}
