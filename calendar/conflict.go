package calendar

// =============================================================================
// CONFLICT RESOLVER - Date-level exclusions, checked before capacity math
// =============================================================================
//
// Rules:
//   - Nothing is ever written on a Saturday or Sunday.
//   - A training day blocks new work entries whatever its amount.
//   - A full-day leave blocks new work entries; a half-day leave only
//     reduces what remains.
//   - A training day blocks leave.
//   - Training may join a half-day leave only if both still fit in one day.
//
// The training/leave asymmetry (training always blocks entries, leave only
// when full) is existing behavior and is kept as is.

// CheckEntryCreate rejects a new work entry on the day.
func CheckEntryCreate(day Day) error {
	switch {
	case day.Date.IsWeekend():
		return &ConflictError{Date: day.Date, Reason: ReasonWeekend}
	case day.Training != nil:
		return &ConflictError{Date: day.Date, Reason: ReasonTraining}
	case day.Leave != nil && day.Leave.IsFull():
		return &ConflictError{Date: day.Date, Reason: ReasonFullLeave}
	}
	return nil
}

// CheckEntryMove applies to an update that moves an entry to another date.
func CheckEntryMove(target Day) error { return CheckEntryCreate(target) }

// CheckLeaveCreate rejects a new leave on the day.
func CheckLeaveCreate(day Day) error {
	switch {
	case day.Date.IsWeekend():
		return &ConflictError{Date: day.Date, Reason: ReasonWeekend}
	case day.Training != nil:
		return &ConflictError{Date: day.Date, Reason: ReasonTraining}
	}
	return nil
}

// CheckTrainingCreate rejects a new training of the given amount on the day.
func CheckTrainingCreate(day Day, amount Amount) error {
	if day.Date.IsWeekend() {
		return &ConflictError{Date: day.Date, Reason: ReasonWeekend}
	}
	if day.Leave != nil && day.Leave.Amount.Add(amount).Round1().GreaterThan(FullDay) {
		return &ConflictError{Date: day.Date, Reason: ReasonOverCapacity}
	}
	return nil
}
