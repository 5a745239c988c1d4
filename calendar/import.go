package calendar

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// ImportSkip is a row that passed validation but did not fit its date.
type ImportSkip struct {
	Row    int
	Date   Date
	Reason ConflictReason
}

// ImportResult summarizes an import.
type ImportResult struct {
	Imported int
	Replaced int
	Skipped  []ImportSkip
}

// ImportEntries inserts pre-parsed rows for the user.
//
// Every row is validated before anything is written; one bad row rejects the
// whole import. With replaceExisting, the user's entries are deleted and the
// rows inserted in the same transaction, so a failure leaves the old entries
// in place. Rows are admitted with the bulk rules: a row on a weekend,
// training or full-leave date is skipped, and amounts are clipped to what the
// date has left.
func (c *Calendar) ImportEntries(ctx context.Context, userID UserID, rows []ImportRow, replaceExisting bool) (ImportResult, error) {
	if err := validateUser(userID); err != nil {
		return ImportResult{}, err
	}

	drafts := make([]EntryDraft, len(rows))
	for i, row := range rows {
		d, err := row.normalize(true)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				return ImportResult{}, &ValidationError{Field: fmt.Sprintf("rows[%d].%s", i, ve.Field), Message: ve.Message}
			}
			return ImportResult{}, err
		}
		drafts[i] = d
	}

	var result ImportResult
	err := c.store.WithTx(ctx, func(s Store) error {
		result = ImportResult{}
		if replaceExisting {
			n, err := s.DeleteUserEntries(ctx, userID)
			if err != nil {
				return err
			}
			result.Replaced = n
		}
		for i, draft := range drafts {
			_, err := c.addClipped(ctx, s, userID, draft, draft.Date)
			if err != nil {
				if !IsConflict(err) {
					return err
				}
				result.Skipped = append(result.Skipped, ImportSkip{Row: i, Date: draft.Date, Reason: reasonOf(err)})
				continue
			}
			result.Imported++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	log.Printf("[Import] user=%s imported=%d skipped=%d replaced=%d", userID, result.Imported, len(result.Skipped), result.Replaced)
	return result, nil
}
