package balances

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/safari-erp/safari/internal/model"
)

// Service manages recorded balance snapshots.
type Service struct {
	snaps []model.BalanceSnapshot
}

// NewService creates a Service over an existing list of snapshots.
func NewService(snaps []model.BalanceSnapshot) *Service {
	return &Service{snaps: snaps}
}

// Path returns the location of snapshots.csv inside a project.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, "balances", "snapshots.csv")
}

// Load reads snapshots.csv from a project root. A missing file yields an
// empty Service.
func Load(repoRoot string) (*Service, error) {
	f, err := os.Open(Path(repoRoot))
	if errors.Is(err, fs.ErrNotExist) {
		return NewService(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening snapshots: %w", err)
	}
	defer f.Close()

	snaps, err := ReadSnapshots(f)
	if err != nil {
		return nil, fmt.Errorf("reading snapshots: %w", err)
	}
	return NewService(snaps), nil
}

// All returns the snapshots in insertion order.
func (s *Service) All() []model.BalanceSnapshot {
	return s.snaps
}

// List returns the snapshots ordered by reference date, newest first.
func (s *Service) List() []model.BalanceSnapshot {
	out := make([]model.BalanceSnapshot, len(s.snaps))
	copy(out, s.snaps)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// Record stores a snapshot, replacing any existing one with the same
// reference date and type. The new snapshot always gets the next ID.
func (s *Service) Record(date time.Time, typ model.SnapshotType, amount decimal.Decimal, note string) (model.BalanceSnapshot, error) {
	if _, err := ParseType(string(typ)); err != nil {
		return model.BalanceSnapshot{}, err
	}
	y, m, d := date.Date()
	date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	kept := s.snaps[:0:0]
	next := 1
	for _, snap := range s.snaps {
		if snap.ID >= next {
			next = snap.ID + 1
		}
		if snap.Type == typ && snap.Date.Equal(date) {
			continue
		}
		kept = append(kept, snap)
	}

	snap := model.BalanceSnapshot{
		ID:     next,
		Date:   date,
		Type:   typ,
		Amount: amount,
		Note:   note,
	}
	s.snaps = append(kept, snap)
	return snap, nil
}

// Save writes the snapshots to balances/snapshots.csv.
func (s *Service) Save(repoRoot string) error {
	path := Path(repoRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating balances dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshots file: %w", err)
	}
	defer f.Close()

	if err := WriteSnapshots(f, s.snaps); err != nil {
		return fmt.Errorf("writing snapshots: %w", err)
	}
	return nil
}
