package calendar

import (
	"strings"
)

// Input validation. Everything here runs before any store lookup.

func validateUser(userID UserID) error {
	if strings.TrimSpace(string(userID)) == "" {
		return &ValidationError{Field: "user", Message: "is required"}
	}
	return nil
}

// validateEntryAmount accepts 0 < amount <= 1. Half-day steps are a UI
// convention and are not enforced.
func validateEntryAmount(a Amount) error {
	if !a.IsPositive() {
		return &ValidationError{Field: "amount", Message: "must be positive"}
	}
	if a.GreaterThan(FullDay) {
		return &ValidationError{Field: "amount", Message: "must not exceed one day"}
	}
	return nil
}

// validateDayPart accepts exactly 0.5 or 1.0.
func validateDayPart(field string, a Amount) error {
	if a.Equal(HalfDay) || a.Equal(FullDay) {
		return nil
	}
	return &ValidationError{Field: field, Message: "must be 0.5 or 1"}
}

// normalize trims text fields and validates the draft. The date is only
// required when the draft targets a single day.
func (d EntryDraft) normalize(requireDate bool) (EntryDraft, error) {
	d.Client = strings.TrimSpace(d.Client)
	d.Comment = strings.TrimSpace(d.Comment)
	d.Ticket = optional(d.Ticket)
	d.ActivityType = optional(d.ActivityType)

	if requireDate && d.Date.IsZero() {
		return d, &ValidationError{Field: "date", Message: "is required"}
	}
	if d.Client == "" {
		return d, &ValidationError{Field: "client", Message: "is required"}
	}
	if d.Comment == "" {
		return d, &ValidationError{Field: "comment", Message: "is required"}
	}
	if err := validateEntryAmount(d.Amount); err != nil {
		return d, err
	}
	return d, nil
}

func (p EntryPatch) validate() error {
	if p.Date != nil && p.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "is required"}
	}
	if p.Client != nil && strings.TrimSpace(*p.Client) == "" {
		return &ValidationError{Field: "client", Message: "must not be empty"}
	}
	if p.Comment != nil && strings.TrimSpace(*p.Comment) == "" {
		return &ValidationError{Field: "comment", Message: "must not be empty"}
	}
	if p.Amount != nil {
		return validateEntryAmount(*p.Amount)
	}
	return nil
}

// apply returns e with the patch applied. An empty ticket or type clears it.
func (p EntryPatch) apply(e WorkEntry) WorkEntry {
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Client != nil {
		e.Client = strings.TrimSpace(*p.Client)
	}
	if p.Ticket != nil {
		e.Ticket = optional(p.Ticket)
	}
	if p.Comment != nil {
		e.Comment = strings.TrimSpace(*p.Comment)
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.ActivityType != nil {
		e.ActivityType = optional(p.ActivityType)
	}
	return e
}
