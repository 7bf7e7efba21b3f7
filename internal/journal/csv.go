package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/safari-erp/safari/internal/model"
)

// Header is the CSV header for entries.csv.
const Header = "entry_id,competence_date,payment_date,amount,status,account_code,cost_center,unit,project,notes"

const (
	numFields     = 10
	dateFormat    = "2006-01-02"
	colEntryID    = 0
	colCompetence = 1
	colPayment    = 2
	colAmount     = 3
	colStatus     = 4
	colAccount    = 5
	colCostCenter = 6
	colUnit       = 7
	colProject    = 8
	colNotes      = 9
)

// ReadEntries reads all entries from an entries.csv reader.
func ReadEntries(r io.Reader) ([]model.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading entries CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var entries []model.Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteEntries writes entries to an entries.csv writer (including header).
func WriteEntries(w io.Writer, entries []model.Entry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// AppendEntries appends entries to an existing entries.csv writer (no header).
func AppendEntries(w io.Writer, entries []model.Entry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return cw.Error()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e model.Entry) []string {
	row := make([]string, numFields)
	row[colEntryID] = e.ID
	row[colCompetence] = formatDate(e.CompetenceDate)
	row[colPayment] = formatDate(e.PaymentDate)
	row[colAmount] = e.Amount.StringFixed(2)
	row[colStatus] = string(e.Status)
	row[colAccount] = e.AccountCode
	row[colCostCenter] = e.CostCenter
	row[colUnit] = e.Unit
	row[colProject] = e.Project
	row[colNotes] = e.Notes
	return row
}

// UnmarshalEntry converts a CSV row to an Entry. An empty payment_date
// yields a zero PaymentDate.
func UnmarshalEntry(record []string) (model.Entry, error) {
	if len(record) != numFields {
		return model.Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	competence, err := parseDate(record[colCompetence])
	if err != nil {
		return model.Entry{}, fmt.Errorf("parsing competence_date %q: %w", record[colCompetence], err)
	}

	payment, err := parseDate(record[colPayment])
	if err != nil {
		return model.Entry{}, fmt.Errorf("parsing payment_date %q: %w", record[colPayment], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Entry{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	return model.Entry{
		ID:             record[colEntryID],
		CompetenceDate: competence,
		PaymentDate:    payment,
		Amount:         amount,
		Status:         model.EntryStatus(record[colStatus]),
		AccountCode:    record[colAccount],
		CostCenter:     record[colCostCenter],
		Unit:           record[colUnit],
		Project:        record[colProject],
		Notes:          record[colNotes],
	}, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateFormat)
}

func parseDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateFormat, strings.TrimSpace(s))
}
