/*
Package factory provides JSON to calendar draft conversion.

PURPOSE:
  Transports (HTTP handlers, the CLI import command) receive entries as JSON.
  The factory turns those documents into calendar.EntryDraft / EntryPatch
  values, parsing dates and amounts. File formats (CSV, XLSX) are handled by
  whatever produced the JSON; the factory only sees typed rows.

JSON SCHEMA:
  {
    "date": "2025-03-10",
    "client": "acme",
    "ticket": "ACME-42",          // optional
    "comment": "sprint review",
    "amount": 0.5,
    "activity_type": "meeting"    // optional
  }

  An import document is either an array of such objects or {"rows": [...]}.

USAGE:
  f := factory.NewEntryFactory()
  rows, err := f.ParseRows(data)
  result, err := cal.ImportEntries(ctx, user, rows, false)
*/
package factory

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/daycal/calendar"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// EntryJSON is the JSON representation of an entry to create.
// Amounts are decoded as decimals so 0.1 stays 0.1.
type EntryJSON struct {
	Date         string           `json:"date,omitempty"`
	Client       string           `json:"client"`
	Ticket       *string          `json:"ticket,omitempty"`
	Comment      string           `json:"comment"`
	Amount       *decimal.Decimal `json:"amount"`
	ActivityType *string          `json:"activity_type,omitempty"`
}

// PatchJSON is the JSON representation of an entry update. Absent fields are unchanged.
type PatchJSON struct {
	Date         *string          `json:"date,omitempty"`
	Client       *string          `json:"client,omitempty"`
	Ticket       *string          `json:"ticket,omitempty"`
	Comment      *string          `json:"comment,omitempty"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	ActivityType *string          `json:"activity_type,omitempty"`
}

type importDocument struct {
	Rows []EntryJSON `json:"rows"`
}

// =============================================================================
// ENTRY FACTORY
// =============================================================================

// EntryFactory converts JSON entries to calendar drafts.
type EntryFactory struct{}

// NewEntryFactory creates a new entry factory.
func NewEntryFactory() *EntryFactory {
	return &EntryFactory{}
}

// FromJSON converts an EntryJSON into a draft. The date may be empty for
// templates that are applied to many dates.
func (f *EntryFactory) FromJSON(ej EntryJSON) (calendar.EntryDraft, error) {
	draft := calendar.EntryDraft{
		Client:       ej.Client,
		Ticket:       ej.Ticket,
		Comment:      ej.Comment,
		ActivityType: ej.ActivityType,
	}
	if ej.Date != "" {
		d, err := calendar.ParseDate(ej.Date)
		if err != nil {
			return draft, err
		}
		draft.Date = d
	}
	if ej.Amount == nil {
		return draft, &calendar.ValidationError{Field: "amount", Message: "is required"}
	}
	draft.Amount = calendar.Amount{Value: *ej.Amount}
	return draft, nil
}

// PatchFromJSON converts a PatchJSON into an EntryPatch.
func (f *EntryFactory) PatchFromJSON(pj PatchJSON) (calendar.EntryPatch, error) {
	patch := calendar.EntryPatch{
		Client:       pj.Client,
		Ticket:       pj.Ticket,
		Comment:      pj.Comment,
		ActivityType: pj.ActivityType,
	}
	if pj.Date != nil {
		d, err := calendar.ParseDate(*pj.Date)
		if err != nil {
			return patch, err
		}
		patch.Date = &d
	}
	if pj.Amount != nil {
		patch.Amount = &calendar.Amount{Value: *pj.Amount}
	}
	return patch, nil
}

// ParseRows parses an import document into rows.
func (f *EntryFactory) ParseRows(data []byte) ([]calendar.ImportRow, error) {
	var items []EntryJSON
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var doc importDocument
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse import JSON: %w", err)
		}
		items = doc.Rows
	} else if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("failed to parse import JSON: %w", err)
	}
	return f.FromJSONRows(items)
}

// FromJSONRows converts rows, naming the first bad row in the error.
func (f *EntryFactory) FromJSONRows(items []EntryJSON) ([]calendar.ImportRow, error) {
	rows := make([]calendar.ImportRow, 0, len(items))
	for i, item := range items {
		draft, err := f.FromJSON(item)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, draft)
	}
	return rows, nil
}

// =============================================================================
// SHARED PARSERS
// =============================================================================

// ParseDates parses a list of YYYY-MM-DD strings.
func ParseDates(values []string) ([]calendar.Date, error) {
	dates := make([]calendar.Date, 0, len(values))
	for _, v := range values {
		d, err := calendar.ParseDate(v)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// ParsePeriod parses an inclusive from/to pair.
func ParsePeriod(from, to string) (calendar.Period, error) {
	start, err := calendar.ParseDate(from)
	if err != nil {
		return calendar.Period{}, err
	}
	end, err := calendar.ParseDate(to)
	if err != nil {
		return calendar.Period{}, err
	}
	return calendar.NewPeriod(start, end)
}

// DayPart converts an optional JSON amount for leave/training toggles.
// nil stays nil, which means "remove".
func DayPart(amount *decimal.Decimal) *calendar.Amount {
	if amount == nil {
		return nil
	}
	return &calendar.Amount{Value: *amount}
}
