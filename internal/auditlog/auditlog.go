package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Actions recorded in the audit trail.
const (
	ActionSimulate = "simulate"
	ActionPromote  = "promote"
	ActionInit     = "init"
)

// Record is one row in the audit log.
type Record struct {
	ID         string
	Timestamp  time.Time
	Actor      string
	Action     string
	Details    string
	Config     string
	CommitHash string
}

// Header is the CSV header for audit-log.csv.
const Header = "id,timestamp,actor,action,details,config,commit_hash"

const (
	numFields     = 7
	logDir        = "logs"
	logFile       = "logs/audit-log.csv"
	colID         = 0
	colTimestamp  = 1
	colActor      = 2
	colAction     = 3
	colDetails    = 4
	colConfig     = 5
	colCommitHash = 6
)

// New returns a record stamped with a fresh ID and the given time.
func New(now time.Time, actor, action, details, config string) Record {
	return Record{
		ID:        uuid.NewString(),
		Timestamp: now.UTC().Truncate(time.Second),
		Actor:     actor,
		Action:    action,
		Details:   details,
		Config:    config,
	}
}

// MarshalRecord converts a Record to a CSV row.
func MarshalRecord(r Record) []string {
	row := make([]string, numFields)
	row[colID] = r.ID
	row[colTimestamp] = r.Timestamp.Format(time.RFC3339)
	row[colActor] = r.Actor
	row[colAction] = r.Action
	row[colDetails] = r.Details
	row[colConfig] = r.Config
	row[colCommitHash] = r.CommitHash
	return row
}

// UnmarshalRecord converts a CSV row to a Record.
func UnmarshalRecord(record []string) (Record, error) {
	if len(record) != numFields {
		return Record{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	if _, err := uuid.Parse(record[colID]); err != nil {
		return Record{}, fmt.Errorf("parsing id %q: %w", record[colID], err)
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Record{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Record{
		ID:         record[colID],
		Timestamp:  ts,
		Actor:      record[colActor],
		Action:     record[colAction],
		Details:    record[colDetails],
		Config:     record[colConfig],
		CommitHash: record[colCommitHash],
	}, nil
}

// Path returns the location of the audit log inside a project.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, logFile)
}

// Append writes records to <repoRoot>/logs/audit-log.csv, creating the file and header if needed.
func Append(repoRoot string, records []Record) error {
	dir := filepath.Join(repoRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(repoRoot)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, r := range records {
		if err := cw.Write(MarshalRecord(r)); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all records from <repoRoot>/logs/audit-log.csv, oldest first.
// Returns an empty slice if the file does not exist.
func Read(repoRoot string) ([]Record, error) {
	f, err := os.Open(Path(repoRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	return readRecords(f)
}

// Last returns up to n of the most recent records, newest first.
func Last(repoRoot string, n int) ([]Record, error) {
	records, err := Read(repoRoot)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(records))
	for i := len(records) - 1; i >= 0 && (n < 0 || len(out) < n); i-- {
		out = append(out, records[i])
	}
	return out, nil
}

func readRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit log CSV: %w", err)
	}

	if len(rows) <= 1 {
		return nil, nil
	}

	var records []Record
	for i, row := range rows[1:] {
		rec, err := UnmarshalRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
