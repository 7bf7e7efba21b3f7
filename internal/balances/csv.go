package balances

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/safari-erp/safari/internal/model"
)

const (
	numFields  = 5
	dateFormat = "2006-01-02"
	colID      = 0
	colDate    = 1
	colType    = 2
	colAmount  = 3
	colNote    = 4
)

// Header is the CSV header for snapshots.csv.
var Header = []string{"id", "reference_date", "type", "amount", "note"}

// ReadSnapshots reads snapshots.csv.
func ReadSnapshots(r io.Reader) ([]model.BalanceSnapshot, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading snapshots CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var snaps []model.BalanceSnapshot
	for i, rec := range records[1:] {
		s, err := UnmarshalSnapshot(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		snaps = append(snaps, s)
	}
	return snaps, nil
}

// WriteSnapshots writes snapshots.csv.
func WriteSnapshots(w io.Writer, snaps []model.BalanceSnapshot) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, s := range snaps {
		if err := cw.Write(MarshalSnapshot(s)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalSnapshot converts a BalanceSnapshot to a CSV row.
func MarshalSnapshot(s model.BalanceSnapshot) []string {
	row := make([]string, numFields)
	row[colID] = strconv.Itoa(s.ID)
	row[colDate] = s.Date.Format(dateFormat)
	row[colType] = string(s.Type)
	row[colAmount] = s.Amount.StringFixed(2)
	row[colNote] = s.Note
	return row
}

// UnmarshalSnapshot converts a CSV row to a BalanceSnapshot.
func UnmarshalSnapshot(record []string) (model.BalanceSnapshot, error) {
	if len(record) != numFields {
		return model.BalanceSnapshot{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	id, err := strconv.Atoi(strings.TrimSpace(record[colID]))
	if err != nil {
		return model.BalanceSnapshot{}, fmt.Errorf("parsing id %q: %w", record[colID], err)
	}

	date, err := time.Parse(dateFormat, strings.TrimSpace(record[colDate]))
	if err != nil {
		return model.BalanceSnapshot{}, fmt.Errorf("parsing reference_date %q: %w", record[colDate], err)
	}

	typ, err := ParseType(record[colType])
	if err != nil {
		return model.BalanceSnapshot{}, err
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(record[colAmount]))
	if err != nil {
		return model.BalanceSnapshot{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	return model.BalanceSnapshot{
		ID:     id,
		Date:   date,
		Type:   typ,
		Amount: amount,
		Note:   record[colNote],
	}, nil
}

// ParseType accepts "Inicial" or "Final".
func ParseType(s string) (model.SnapshotType, error) {
	switch t := model.SnapshotType(strings.TrimSpace(s)); t {
	case model.SnapshotOpening, model.SnapshotClosing:
		return t, nil
	default:
		return "", fmt.Errorf("unknown snapshot type %q (want %q or %q)", s, model.SnapshotOpening, model.SnapshotClosing)
	}
}
