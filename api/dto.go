/*
dto.go - Data Transfer Objects for API requests and responses

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

Entry bodies reuse factory.EntryJSON / factory.PatchJSON so the HTTP API and
the CLI import accept the same shape.
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/daycal/calendar"
	"github.com/warp/daycal/factory"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// DayPartRequest sets leave or training on a date. A missing amount removes it.
type DayPartRequest struct {
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// CopyDayRequest copies a day's entries onto target.
type CopyDayRequest struct {
	Target string `json:"target"`
}

// BulkEntryRequest applies one entry to many dates.
type BulkEntryRequest struct {
	Dates []string          `json:"dates"`
	Entry factory.EntryJSON `json:"entry"`
}

// BulkDayPartRequest toggles leave or training on many dates.
type BulkDayPartRequest struct {
	Dates  []string         `json:"dates"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// BulkDeleteRequest clears entries on many dates.
type BulkDeleteRequest struct {
	Dates []string `json:"dates"`
}

// ImportRequest carries pre-parsed rows.
type ImportRequest struct {
	Rows            []factory.EntryJSON `json:"rows"`
	ReplaceExisting bool                `json:"replace_existing"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// EntryDTO represents a work entry.
type EntryDTO struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	Client       string  `json:"client"`
	Ticket       *string `json:"ticket,omitempty"`
	Comment      string  `json:"comment"`
	Amount       float64 `json:"amount"`
	ActivityType *string `json:"activity_type,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// DayPartDTO represents a leave or training day.
type DayPartDTO struct {
	ID     string  `json:"id"`
	Date   string  `json:"date"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// DayDTO is the ledger view of one date.
type DayDTO struct {
	Date      string      `json:"date"`
	Status    string      `json:"status"`
	Leave     *DayPartDTO `json:"leave,omitempty"`
	Training  *DayPartDTO `json:"training,omitempty"`
	Entries   []EntryDTO  `json:"entries"`
	Used      float64     `json:"used"`
	Remaining float64     `json:"remaining"`
}

// SkipDTO is a date (or import row) an operation did not apply to.
type SkipDTO struct {
	Date   string `json:"date"`
	Row    *int   `json:"row,omitempty"`
	Reason string `json:"reason"`
}

// BulkResultDTO reports a bulk operation.
type BulkResultDTO struct {
	Applied []string   `json:"applied"`
	Skipped []SkipDTO  `json:"skipped"`
	Entries []EntryDTO `json:"entries,omitempty"`
}

// ImportResultDTO reports an import.
type ImportResultDTO struct {
	Imported int       `json:"imported"`
	Replaced int       `json:"replaced"`
	Skipped  []SkipDTO `json:"skipped"`
}

// BucketDTO is one aggregation bucket.
type BucketDTO struct {
	Key    string  `json:"key"`
	Amount float64 `json:"amount"`
}

// ReportDTO is the aggregation of a period.
type ReportDTO struct {
	From             string         `json:"from"`
	To               string         `json:"to"`
	ByClient         []BucketDTO    `json:"by_client"`
	ByType           []BucketDTO    `json:"by_type"`
	ByMonth          []BucketDTO    `json:"by_month"`
	FormationByMonth map[string]int `json:"formation_by_month"`
	LeaveByMonth     []BucketDTO    `json:"leave_by_month"`
	TotalDays        float64        `json:"total_days"`
	TotalFormation   int            `json:"total_formation"`
	TotalLeave       float64        `json:"total_leave"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEntryDTO(e calendar.WorkEntry) EntryDTO {
	return EntryDTO{
		ID:           string(e.ID),
		Date:         e.Date.String(),
		Client:       e.Client,
		Ticket:       e.Ticket,
		Comment:      e.Comment,
		Amount:       e.Amount.Float64(),
		ActivityType: e.ActivityType,
		CreatedAt:    e.CreatedAt.Format(time.RFC3339Nano),
	}
}

func toEntryDTOs(entries []calendar.WorkEntry) []EntryDTO {
	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toEntryDTO(e)
	}
	return dtos
}

func toLeaveDTO(l *calendar.LeaveDay) *DayPartDTO {
	if l == nil {
		return nil
	}
	return &DayPartDTO{ID: string(l.ID), Date: l.Date.String(), Label: l.Label, Amount: l.Amount.Float64()}
}

func toTrainingDTO(t *calendar.TrainingDay) *DayPartDTO {
	if t == nil {
		return nil
	}
	return &DayPartDTO{ID: string(t.ID), Date: t.Date.String(), Label: t.Label, Amount: t.Amount.Float64()}
}

func toDayDTO(d calendar.Day) DayDTO {
	return DayDTO{
		Date:      d.Date.String(),
		Status:    string(d.Status()),
		Leave:     toLeaveDTO(d.Leave),
		Training:  toTrainingDTO(d.Training),
		Entries:   toEntryDTOs(d.Entries),
		Used:      d.Used().Float64(),
		Remaining: d.Remaining().Float64(),
	}
}

func toBulkResultDTO(r calendar.BulkResult) BulkResultDTO {
	dto := BulkResultDTO{
		Applied: make([]string, len(r.Applied)),
		Skipped: make([]SkipDTO, len(r.Skipped)),
	}
	for i, d := range r.Applied {
		dto.Applied[i] = d.String()
	}
	for i, s := range r.Skipped {
		dto.Skipped[i] = SkipDTO{Date: s.Date.String(), Reason: string(s.Reason)}
	}
	if len(r.Entries) > 0 {
		dto.Entries = toEntryDTOs(r.Entries)
	}
	return dto
}

func toImportResultDTO(r calendar.ImportResult) ImportResultDTO {
	dto := ImportResultDTO{
		Imported: r.Imported,
		Replaced: r.Replaced,
		Skipped:  make([]SkipDTO, len(r.Skipped)),
	}
	for i, s := range r.Skipped {
		row := s.Row
		dto.Skipped[i] = SkipDTO{Date: s.Date.String(), Row: &row, Reason: string(s.Reason)}
	}
	return dto
}

func toBuckets(m map[string]calendar.Amount) []BucketDTO {
	keys := calendar.SortedKeys(m)
	buckets := make([]BucketDTO, len(keys))
	for i, k := range keys {
		buckets[i] = BucketDTO{Key: k, Amount: m[k].Float64()}
	}
	return buckets
}

func toReportDTO(r calendar.Report) ReportDTO {
	return ReportDTO{
		From:             r.Period.Start.String(),
		To:               r.Period.End.String(),
		ByClient:         toBuckets(r.ByClient),
		ByType:           toBuckets(r.ByType),
		ByMonth:          toBuckets(r.ByMonth),
		FormationByMonth: r.TrainingByMonth,
		LeaveByMonth:     toBuckets(r.LeaveByMonth),
		TotalDays:        r.TotalDays.Float64(),
		TotalFormation:   r.TotalTraining,
		TotalLeave:       r.TotalLeave.Float64(),
	}
}
