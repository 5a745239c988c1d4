/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Populates one user's calendar with a realistic week so the frontend (and
  anyone trying the API) can see capacity, eviction and conflicts without
  typing entries by hand. Every record goes through calendar.Calendar, so
  scenarios obey exactly the same rules as real traffic.

AVAILABLE SCENARIOS:
  busy-week:      Mixed clients and types, one day left partial
  leave-eviction: 0.3 then 0.5 logged, then a half-day leave evicts the 0.3
  training-week:  Full training, half training + half leave, blocked entries
  imported-month: A month of rows pushed through ImportEntries

HOW SCENARIOS WORK:
  1. Delete every record of the user
  2. Anchor on the Monday of week_of (default: this week)
  3. Apply the scenario's operations in order

USAGE VIA API:
  POST /api/users/{user}/scenarios/load
  {"scenario_id": "leave-eviction", "week_of": "2025-03-12"}

USAGE VIA CLI:
  daycal seed --user alice --scenario busy-week

NOTE:
  Scenarios wipe the user. Only use in development/demo environments.
*/
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/warp/daycal/calendar"
)

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario and the week it is anchored on.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
	WeekOf     string `json:"week_of,omitempty"`
}

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenarioLoader func(ctx context.Context, cal *calendar.Calendar, user calendar.UserID, monday calendar.Date) error

type scenario struct {
	ScenarioDTO
	load scenarioLoader
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{ID: "busy-week", Name: "Busy Week", Description: "Mixed clients and activity types, Friday left partial"},
		load:        loadBusyWeek,
	},
	{
		ScenarioDTO: ScenarioDTO{ID: "leave-eviction", Name: "Leave Eviction", Description: "A half-day leave evicts the oldest entry that no longer fits"},
		load:        loadLeaveEviction,
	},
	{
		ScenarioDTO: ScenarioDTO{ID: "training-week", Name: "Training Week", Description: "Training days block work entries, half training shares a day with half leave"},
		load:        loadTrainingWeek,
	},
	{
		ScenarioDTO: ScenarioDTO{ID: "imported-month", Name: "Imported Month", Description: "A month of rows imported, weekend and overflow rows skipped"},
		load:        loadImportedMonth,
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = s.ScenarioDTO
	}
	writeJSON(w, http.StatusOK, dtos)
}

// LoadScenario wipes the user and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !decode(w, r, &req) {
		return
	}

	week := calendar.Today()
	if req.WeekOf != "" {
		d, err := calendar.ParseDate(req.WeekOf)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		week = d
	}

	user := userOf(r)
	if err := ApplyScenario(r.Context(), h.Calendar, user, req.ScenarioID, week); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ApplyScenario resets user and applies the named scenario on the week containing weekOf.
func ApplyScenario(ctx context.Context, cal *calendar.Calendar, user calendar.UserID, id string, weekOf calendar.Date) error {
	var found *scenario
	for i := range scenarios {
		if scenarios[i].ID == id {
			found = &scenarios[i]
			break
		}
	}
	if found == nil {
		return &calendar.ValidationError{Field: "scenario_id", Message: fmt.Sprintf("unknown scenario %q", id)}
	}

	if err := cal.DeleteUser(ctx, user); err != nil {
		return fmt.Errorf("failed to reset user: %w", err)
	}
	if err := found.load(ctx, cal, user, mondayOf(weekOf)); err != nil {
		return fmt.Errorf("failed to load scenario %s: %w", id, err)
	}

	log.Printf("[Scenario] loaded %s for user=%s week=%s", id, user, mondayOf(weekOf))
	return nil
}

func mondayOf(d calendar.Date) calendar.Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func entry(date calendar.Date, client, comment, amount string, activity string) calendar.EntryDraft {
	a, _ := calendar.ParseAmount(amount)
	d := calendar.EntryDraft{Date: date, Client: client, Comment: comment, Amount: a}
	if activity != "" {
		d.ActivityType = &activity
	}
	return d
}

func createAll(ctx context.Context, cal *calendar.Calendar, user calendar.UserID, drafts ...calendar.EntryDraft) error {
	for _, d := range drafts {
		if _, err := cal.CreateWorkEntry(ctx, user, d); err != nil {
			return err
		}
	}
	return nil
}

func loadBusyWeek(ctx context.Context, cal *calendar.Calendar, user calendar.UserID, monday calendar.Date) error {
	return createAll(ctx, cal, user,
		entry(monday, "acme", "Sprint planning", "0.5", "meeting"),
		entry(monday, "acme", "Checkout API", "0.5", "development"),
		entry(monday.AddDays(1), "globex", "Data migration", "1", "development"),
		entry(monday.AddDays(2), "initech", "Incident follow-up", "0.3", "support"),
		entry(monday.AddDays(2), "acme", "Checkout API", "0.7", "development"),
		entry(monday.AddDays(3), "globex", "Workshop", "0.5", "meeting"),
		entry(monday.AddDays(3), "internal", "Hiring interviews", "0.5", ""),
		entry(monday.AddDays(4), "acme", "Release", "0.5", "development"),
	)
}

func loadLeaveEviction(ctx context.Context, cal *calendar.Calendar, user calendar.UserID, monday calendar.Date) error {
	if err := createAll(ctx, cal, user,
		entry(monday, "acme", "Morning support", "0.3", "support"),
		entry(monday, "globex", "Design review", "0.5", "meeting"),
	); err != nil {
		return err
	}
	half := calendar.HalfDay
	_, err := cal.SetLeave(ctx, user, monday, &half)
	return err
}

func loadTrainingWeek(ctx context.Context, cal *calendar.Calendar, user calendar.UserID, monday calendar.Date) error {
	full, half := calendar.FullDay, calendar.HalfDay
	if _, err := cal.SetTraining(ctx, user, monday.AddDays(1), &full); err != nil {
		return err
	}
	if _, err := cal.SetLeave(ctx, user, monday.AddDays(3), &half); err != nil {
		return err
	}
	if _, err := cal.SetTraining(ctx, user, monday.AddDays(3), &half); err != nil {
		return err
	}
	if err := createAll(ctx, cal, user,
		entry(monday, "acme", "Prep for training", "1", ""),
		entry(monday.AddDays(2), "acme", "Apply what was learned", "0.5", "development"),
	); err != nil {
		return err
	}
	// Tuesday and Thursday are skipped.
	_, err := cal.BulkAddEntry(ctx, user, []calendar.Date{monday.AddDays(1), monday.AddDays(3), monday.AddDays(4)},
		entry(calendar.Date{}, "globex", "Support rotation", "0.5", "support"))
	return err
}

func loadImportedMonth(ctx context.Context, cal *calendar.Calendar, user calendar.UserID, monday calendar.Date) error {
	start := calendar.NewDate(monday.Time.Year(), monday.Time.Month(), 1)
	period := calendar.MonthPeriod(start.Time.Year(), start.Time.Month())

	clients := []string{"acme", "globex", "initech"}
	var rows []calendar.ImportRow
	for i, d := range period.Days() {
		rows = append(rows,
			entry(d, clients[i%len(clients)], "Imported work", "0.6", "development"),
			entry(d, "internal", "Imported admin", "0.6", ""),
		)
	}
	_, err := cal.ImportEntries(ctx, user, rows, true)
	return err
}
