package journal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/safari-erp/safari/internal/id"
	"github.com/safari-erp/safari/internal/model"
)

// Rules checked by ValidateEntries.
const (
	RulePositiveAmount = iota + 1
	RuleCents
	RuleKnownAccount
	RulePostableAccount
	RuleStatusVocabulary
	RuleDateInMonth
	RuleSequentialIDs
)

// ValidationError describes a single rule violation.
type ValidationError struct {
	Rule        int
	EntryID     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("rule %d [%s]: %s", e.Rule, e.EntryID, e.Description)
}

// AccountLookup resolves account codes against the chart of accounts.
type AccountLookup interface {
	Get(code string) (model.Account, bool)
}

// ValidateEntries checks a month's entries before they are written.
func ValidateEntries(entries []model.Entry, accounts AccountLookup, year, month int) []ValidationError {
	var errs []ValidationError
	hundred := decimal.NewFromInt(100)

	for _, e := range entries {
		if !e.Amount.IsPositive() {
			errs = append(errs, ValidationError{
				Rule:        RulePositiveAmount,
				EntryID:     e.ID,
				Description: fmt.Sprintf("amount %s must be positive", e.Amount),
			})
		}

		if cents := e.Amount.Mul(hundred); !cents.Equal(cents.Floor()) {
			errs = append(errs, ValidationError{
				Rule:        RuleCents,
				EntryID:     e.ID,
				Description: fmt.Sprintf("amount %s has more than 2 decimal places", e.Amount),
			})
		}

		acct, ok := accounts.Get(e.AccountCode)
		if !ok {
			errs = append(errs, ValidationError{
				Rule:        RuleKnownAccount,
				EntryID:     e.ID,
				Description: fmt.Sprintf("unknown account %s", e.AccountCode),
			})
		} else {
			if !acct.AcceptsPostings {
				errs = append(errs, ValidationError{
					Rule:        RulePostableAccount,
					EntryID:     e.ID,
					Description: fmt.Sprintf("account %s is synthetic and does not accept postings", acct.Code),
				})
			}
			if !e.Status.ValidFor(acct.Nature) {
				errs = append(errs, ValidationError{
					Rule:        RuleStatusVocabulary,
					EntryID:     e.ID,
					Description: fmt.Sprintf("status %q is not valid for %s accounts", e.Status, acct.Nature),
				})
			}
		}

		if e.CompetenceDate.Year() != year || int(e.CompetenceDate.Month()) != month {
			errs = append(errs, ValidationError{
				Rule:        RuleDateInMonth,
				EntryID:     e.ID,
				Description: fmt.Sprintf("competence date %s not in %04d-%02d", e.CompetenceDate.Format(dateFormat), year, month),
			})
		}
	}

	// IDs are unique and contiguous 1..N within the month.
	seen := make(map[int]bool)
	for _, e := range entries {
		_, _, seq, err := id.ParseEntryID(e.ID)
		if err != nil {
			errs = append(errs, ValidationError{
				Rule:        RuleSequentialIDs,
				EntryID:     e.ID,
				Description: fmt.Sprintf("invalid entry ID: %v", err),
			})
			continue
		}
		if seen[seq] {
			errs = append(errs, ValidationError{
				Rule:        RuleSequentialIDs,
				EntryID:     e.ID,
				Description: "duplicate entry ID",
			})
		}
		seen[seq] = true
	}
	var missing []int
	for i := 1; i <= len(seen); i++ {
		if !seen[i] {
			missing = append(missing, i)
		}
	}
	for _, i := range missing {
		errs = append(errs, ValidationError{
			Rule:        RuleSequentialIDs,
			EntryID:     fmt.Sprintf("seq %d", i),
			Description: fmt.Sprintf("missing sequence %d in 1..%d", i, len(seen)),
		})
	}

	return errs
}
