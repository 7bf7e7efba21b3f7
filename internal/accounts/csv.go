package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/safari-erp/safari/internal/model"
)

const (
	numFields   = 4
	colCode     = 0
	colDesc     = 1
	colNature   = 2
	colPostings = 3
)

// Header is the CSV header for chart-of-accounts.csv.
var Header = []string{"code", "description", "nature", "accepts_postings"}

// ReadAccounts reads chart-of-accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes chart-of-accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colCode] = acct.Code
	row[colDesc] = acct.Description
	row[colNature] = string(acct.Nature)
	row[colPostings] = strconv.FormatBool(acct.AcceptsPostings)
	return row
}

// UnmarshalAccount converts a CSV row to an Account. Nature and the
// postings flag are re-derived from the code; a stored value that
// disagrees is an error rather than an override.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	acct := New(record[colCode], record[colDesc])

	if stored := strings.TrimSpace(record[colNature]); stored != "" && model.Nature(stored) != acct.Nature {
		return model.Account{}, fmt.Errorf("account %s: nature %q does not match code (want %q)", acct.Code, stored, acct.Nature)
	}
	if stored := strings.TrimSpace(record[colPostings]); stored != "" {
		b, err := strconv.ParseBool(stored)
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing accepts_postings %q: %w", stored, err)
		}
		if b != acct.AcceptsPostings {
			return model.Account{}, fmt.Errorf("account %s: accepts_postings %t does not match code", acct.Code, b)
		}
	}
	return acct, nil
}

// ImportChart reads a two-column sheet export (description, code), the
// layout the finance team keeps its chart in. The first row is a header.
// Rows with an empty code are skipped.
func ImportChart(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chart sheet: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		if len(rec) < 2 {
			return nil, fmt.Errorf("row %d: expected 2 fields, got %d", i+2, len(rec))
		}
		if strings.TrimSpace(rec[1]) == "" {
			continue
		}
		accounts = append(accounts, New(rec[1], rec[0]))
	}
	return accounts, nil
}
