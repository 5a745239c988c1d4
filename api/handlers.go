/*
handlers.go - HTTP API handlers for the daily allocation calendar

PURPOSE:
  Exposes the calendar engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates every decision to calendar.Calendar.

ENDPOINTS (all under /api/users/{user}):
  Days:
    GET    /days/{date}            Ledger view of one date
    GET    /days?from=&to=         Ledger view of a range
    POST   /days/{date}/copy       Copy the date's entries onto another date

  Entries:
    POST   /entries                Create entry
    PATCH  /entries/{id}           Update entry
    DELETE /entries/{id}           Delete entry

  Leave / training:
    PUT    /leave/{date}           {"amount": 0.5|1} sets, {} removes
    PUT    /training/{date}        same contract, amount defaults to 1

  Bulk:
    POST   /bulk/entries           Same entry on many dates
    POST   /bulk/leave             Toggle leave on many dates
    POST   /bulk/training          Toggle training on many dates
    POST   /bulk/delete            Clear entries on many dates

  Other:
    POST   /import                 Insert pre-parsed rows
    GET    /report?from=&to=       Totals by client, type, month
    DELETE /                       Delete every record of the user

IDENTITY:
  {user} is the opaque owner key; authenticating it is the job of whatever
  sits in front of this API.

ERROR HANDLING:
  - 400: Validation errors, invalid input
  - 403: Entity owned by someone else
  - 404: Entity not found
  - 409: Date conflict (weekend, training, full leave, capacity)
  - 500: Internal errors
*/
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warp/daycal/calendar"
	"github.com/warp/daycal/factory"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Calendar     *calendar.Calendar
	EntryFactory *factory.EntryFactory
}

// NewHandler creates a new handler over the given calendar.
func NewHandler(cal *calendar.Calendar) *Handler {
	return &Handler{
		Calendar:     cal,
		EntryFactory: factory.NewEntryFactory(),
	}
}

func userOf(r *http.Request) calendar.UserID {
	return calendar.UserID(chi.URLParam(r, "user"))
}

// =============================================================================
// DAY HANDLERS
// =============================================================================

// GetDay returns the ledger view of one date.
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	date, err := calendar.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	day, err := h.Calendar.ListDay(r.Context(), userOf(r), date)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDayDTO(day))
}

// ListDays returns the ledger view of every date in [from, to].
func (h *Handler) ListDays(w http.ResponseWriter, r *http.Request) {
	period, err := factory.ParsePeriod(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	days, err := h.Calendar.ListRange(r.Context(), userOf(r), period)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]DayDTO, len(days))
	for i, d := range days {
		dtos[i] = toDayDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CopyDay copies the entries of {date} onto the target date.
func (h *Handler) CopyDay(w http.ResponseWriter, r *http.Request) {
	source, err := calendar.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var req CopyDayRequest
	if !decode(w, r, &req) {
		return
	}
	target, err := calendar.ParseDate(req.Target)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	copied, err := h.Calendar.CopyDay(r.Context(), userOf(r), source, target)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryDTOs(copied))
}

// =============================================================================
// ENTRY HANDLERS
// =============================================================================

// CreateEntry creates a work entry.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req factory.EntryJSON
	if !decode(w, r, &req) {
		return
	}
	draft, err := h.EntryFactory.FromJSON(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	entry, err := h.Calendar.CreateWorkEntry(r.Context(), userOf(r), draft)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryDTO(entry))
}

// UpdateEntry patches a work entry.
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req factory.PatchJSON
	if !decode(w, r, &req) {
		return
	}
	patch, err := h.EntryFactory.PatchFromJSON(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	id := calendar.EntryID(chi.URLParam(r, "id"))
	entry, err := h.Calendar.UpdateWorkEntry(r.Context(), userOf(r), id, patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(entry))
}

// DeleteEntry deletes a work entry.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := calendar.EntryID(chi.URLParam(r, "id"))
	if err := h.Calendar.DeleteWorkEntry(r.Context(), userOf(r), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// LEAVE & TRAINING HANDLERS
// =============================================================================

// SetLeave sets or removes the leave on {date}.
func (h *Handler) SetLeave(w http.ResponseWriter, r *http.Request) {
	date, req, ok := h.dayPartRequest(w, r)
	if !ok {
		return
	}
	leave, err := h.Calendar.SetLeave(r.Context(), userOf(r), date, factory.DayPart(req.Amount))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if leave == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveDTO(leave))
}

// SetTraining sets or removes the training on {date}.
func (h *Handler) SetTraining(w http.ResponseWriter, r *http.Request) {
	date, req, ok := h.dayPartRequest(w, r)
	if !ok {
		return
	}
	training, err := h.Calendar.SetTraining(r.Context(), userOf(r), date, factory.DayPart(req.Amount))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if training == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, toTrainingDTO(training))
}

func (h *Handler) dayPartRequest(w http.ResponseWriter, r *http.Request) (calendar.Date, DayPartRequest, bool) {
	var req DayPartRequest
	date, err := calendar.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeDomainError(w, err)
		return date, req, false
	}
	if !decode(w, r, &req) {
		return date, req, false
	}
	return date, req, true
}

// =============================================================================
// BULK HANDLERS
// =============================================================================

// BulkAddEntry creates the same entry on many dates.
func (h *Handler) BulkAddEntry(w http.ResponseWriter, r *http.Request) {
	var req BulkEntryRequest
	if !decode(w, r, &req) {
		return
	}
	dates, err := factory.ParseDates(req.Dates)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	template, err := h.EntryFactory.FromJSON(req.Entry)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	result, err := h.Calendar.BulkAddEntry(r.Context(), userOf(r), dates, template)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBulkResultDTO(result))
}

// BulkSetLeave toggles leave on many dates.
func (h *Handler) BulkSetLeave(w http.ResponseWriter, r *http.Request) {
	var req BulkDayPartRequest
	if !decode(w, r, &req) {
		return
	}
	dates, err := factory.ParseDates(req.Dates)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	result, err := h.Calendar.BulkSetLeave(r.Context(), userOf(r), dates, factory.DayPart(req.Amount))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBulkResultDTO(result))
}

// BulkSetTraining toggles training on many dates.
func (h *Handler) BulkSetTraining(w http.ResponseWriter, r *http.Request) {
	var req BulkDayPartRequest
	if !decode(w, r, &req) {
		return
	}
	dates, err := factory.ParseDates(req.Dates)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	result, err := h.Calendar.BulkSetTraining(r.Context(), userOf(r), dates, factory.DayPart(req.Amount))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBulkResultDTO(result))
}

// BulkDeleteEntries clears entries on many dates.
func (h *Handler) BulkDeleteEntries(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteRequest
	if !decode(w, r, &req) {
		return
	}
	dates, err := factory.ParseDates(req.Dates)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	result, err := h.Calendar.BulkDeleteEntries(r.Context(), userOf(r), dates)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBulkResultDTO(result))
}

// =============================================================================
// IMPORT / REPORT / ACCOUNT
// =============================================================================

// Import inserts pre-parsed rows.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if !decode(w, r, &req) {
		return
	}
	rows, err := h.EntryFactory.FromJSONRows(req.Rows)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	result, err := h.Calendar.ImportEntries(r.Context(), userOf(r), rows, req.ReplaceExisting)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toImportResultDTO(result))
}

// GetReport returns totals for [from, to].
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	period, err := factory.ParsePeriod(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	report, err := h.Calendar.Aggregate(r.Context(), userOf(r), period)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportDTO(report))
}

// DeleteUser removes every record of the user.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Calendar.DeleteUser(r.Context(), userOf(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps calendar errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var conflict *calendar.ConflictError
	switch {
	case errors.As(err, &conflict):
		resp := ErrorResponse{Error: "Date conflict", Code: string(conflict.Reason), Details: err.Error()}
		writeJSON(w, http.StatusConflict, resp)
	case errors.Is(err, calendar.ErrValidation):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	case errors.Is(err, calendar.ErrNotOwner):
		writeError(w, http.StatusForbidden, "Forbidden", nil)
	case calendar.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	default:
		log.Printf("[API] internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
