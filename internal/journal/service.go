package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/safari-erp/safari/internal/accounts"
	"github.com/safari-erp/safari/internal/code"
	"github.com/safari-erp/safari/internal/id"
	"github.com/safari-erp/safari/internal/model"
)

// ErrNotFound is returned when an entry ID does not exist.
var ErrNotFound = errors.New("entry not found")

const fileName = "entries.csv"

// Service provides business logic for ledger entries.
type Service struct {
	repoRoot string
	accounts AccountLookup
}

// NewService creates a journal Service.
func NewService(repoRoot string, lookup AccountLookup) *Service {
	return &Service{repoRoot: repoRoot, accounts: lookup}
}

// AddParams holds parameters for recording a ledger entry.
type AddParams struct {
	CompetenceDate time.Time
	PaymentDate    time.Time
	Amount         decimal.Decimal
	Status         model.EntryStatus // empty means the nature's default
	AccountCode    string
	CostCenter     string
	Unit           string
	Project        string
	Notes          string
}

// Add validates and appends an entry to its competence month's
// entries.csv. Returns the entry ID.
func (s *Service) Add(params AddParams) (string, error) {
	acct, ok := s.accounts.Get(params.AccountCode)
	if !ok {
		return "", fmt.Errorf("account %s: %w", params.AccountCode, accounts.ErrUnknownAccount)
	}

	status := params.Status
	if status == "" {
		status = model.DefaultStatus(acct.Nature)
	}

	year := params.CompetenceDate.Year()
	month := int(params.CompetenceDate.Month())

	existing, err := s.ReadMonth(year, month)
	if err != nil {
		return "", err
	}

	entry := model.Entry{
		ID:             id.FormatEntryID(year, month, nextSeq(existing)),
		CompetenceDate: params.CompetenceDate,
		PaymentDate:    params.PaymentDate,
		Amount:         params.Amount,
		Status:         status,
		AccountCode:    code.Normalize(params.AccountCode),
		CostCenter:     params.CostCenter,
		Unit:           params.Unit,
		Project:        params.Project,
		Notes:          params.Notes,
	}

	// Validate the whole month with the new entry in place.
	all := append(existing, entry)
	if err := validationFailure(ValidateEntries(all, s.accounts, year, month)); err != nil {
		return "", err
	}

	journalPath := s.monthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(journalPath), 0o755); err != nil {
		return "", fmt.Errorf("creating journal dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(journalPath); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(journalPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return "", fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendEntries(f, []model.Entry{entry}); err != nil {
		return "", fmt.Errorf("appending entry: %w", err)
	}

	return entry.ID, nil
}

// ReadMonth reads all entries for a given year/month.
func (s *Service) ReadMonth(year, month int) ([]model.Entry, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	entries, err := ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return entries, nil
}

// ReadAll reads every month in the project, oldest first.
func (s *Service) ReadAll() ([]model.Entry, error) {
	months, err := s.Months()
	if err != nil {
		return nil, err
	}

	var all []model.Entry
	for _, m := range months {
		entries, err := s.ReadMonth(m.Year(), int(m.Month()))
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	return all, nil
}

// Months lists the months that have an entries.csv, oldest first.
func (s *Service) Months() ([]time.Time, error) {
	years, err := os.ReadDir(s.repoRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading project dir: %w", err)
	}

	var months []time.Time
	for _, y := range years {
		year, ok := numericDir(y, 4)
		if !ok {
			continue
		}
		ms, err := os.ReadDir(filepath.Join(s.repoRoot, y.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading year dir %s: %w", y.Name(), err)
		}
		for _, m := range ms {
			month, ok := numericDir(m, 2)
			if !ok || month < 1 || month > 12 {
				continue
			}
			if _, err := os.Stat(s.monthPath(year, month)); err != nil {
				continue
			}
			months = append(months, time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC))
		}
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months, nil
}

// Get returns a single entry by ID.
func (s *Service) Get(entryID string) (model.Entry, error) {
	year, month, _, err := id.ParseEntryID(entryID)
	if err != nil {
		return model.Entry{}, err
	}
	entries, err := s.ReadMonth(year, month)
	if err != nil {
		return model.Entry{}, err
	}
	for _, e := range entries {
		if e.ID == entryID {
			return e, nil
		}
	}
	return model.Entry{}, fmt.Errorf("%s: %w", entryID, ErrNotFound)
}

// SetStatus moves an entry to a new status. Settling statuses (Pago for
// outflows, Recebido for inflows) also set the payment date to paidOn
// when it is non-zero.
func (s *Service) SetStatus(entryID string, status model.EntryStatus, paidOn time.Time) (model.Entry, error) {
	year, month, _, err := id.ParseEntryID(entryID)
	if err != nil {
		return model.Entry{}, err
	}
	entries, err := s.ReadMonth(year, month)
	if err != nil {
		return model.Entry{}, err
	}

	idx := -1
	for i, e := range entries {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Entry{}, fmt.Errorf("%s: %w", entryID, ErrNotFound)
	}

	e := entries[idx]
	acct, ok := s.accounts.Get(e.AccountCode)
	if !ok {
		return model.Entry{}, fmt.Errorf("account %s: %w", e.AccountCode, accounts.ErrUnknownAccount)
	}
	if !status.ValidFor(acct.Nature) {
		return model.Entry{}, fmt.Errorf("status %q is not valid for %s accounts", status, acct.Nature)
	}

	e.Status = status
	if status.Settles(acct.Nature) && !paidOn.IsZero() {
		e.PaymentDate = paidOn
	}
	entries[idx] = e

	if err := s.writeMonth(year, month, entries); err != nil {
		return model.Entry{}, err
	}
	return e, nil
}

// MarkOverdue flags scheduled entries (A pagar / A receber) whose payment
// date is before today as Atrasado. Returns the number of entries changed.
func (s *Service) MarkOverdue(today time.Time) (int, error) {
	months, err := s.Months()
	if err != nil {
		return 0, err
	}

	y, m, d := today.Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	changed := 0
	for _, mo := range months {
		entries, err := s.ReadMonth(mo.Year(), int(mo.Month()))
		if err != nil {
			return changed, err
		}
		dirty := false
		for i, e := range entries {
			if !e.Status.Open() || e.PaymentDate.IsZero() || !e.PaymentDate.Before(cutoff) {
				continue
			}
			entries[i].Status = model.StatusOverdue
			dirty = true
			changed++
		}
		if dirty {
			if err := s.writeMonth(mo.Year(), int(mo.Month()), entries); err != nil {
				return changed, err
			}
		}
	}
	return changed, nil
}

func (s *Service) writeMonth(year, month int, entries []model.Entry) error {
	path := s.monthPath(year, month)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating journal %s: %w", tmp, err)
	}
	if err := WriteEntries(f, entries); err != nil {
		f.Close()
		return fmt.Errorf("writing journal %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing journal %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing journal %s: %w", path, err)
	}
	return nil
}

func (s *Service) monthPath(year, month int) string {
	return filepath.Join(s.repoRoot, MonthPath(year, month))
}

// MonthPath returns the entries file of a month relative to the project
// root, e.g. 2025/01/entries.csv.
func MonthPath(year, month int) string {
	return filepath.Join(fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), fileName)
}

func nextSeq(entries []model.Entry) int {
	maxSeq := 0
	for _, e := range entries {
		_, _, seq, err := id.ParseEntryID(e.ID)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}

func validationFailure(verrs []ValidationError) error {
	if len(verrs) == 0 {
		return nil
	}
	msgs := make([]string, len(verrs))
	for i, ve := range verrs {
		msgs[i] = ve.Error()
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

func numericDir(e fs.DirEntry, width int) (int, bool) {
	if !e.IsDir() || len(e.Name()) != width {
		return 0, false
	}
	n, err := strconv.Atoi(e.Name())
	if err != nil {
		return 0, false
	}
	return n, true
}
