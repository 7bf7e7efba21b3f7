package accounts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/safari-erp/safari/internal/code"
	"github.com/safari-erp/safari/internal/model"
)

// ErrUnknownAccount is returned when a code is not in the chart.
var ErrUnknownAccount = errors.New("unknown account")

// Service provides in-memory lookup over the chart of accounts.
type Service struct {
	accounts []model.Account
	byCode   map[string]model.Account
}

// NewService creates a Service from a slice of accounts, sorted by code.
// When a code appears twice the first occurrence wins.
func NewService(accounts []model.Account) *Service {
	byCode := make(map[string]model.Account, len(accounts))
	var unique []model.Account
	for _, a := range accounts {
		if _, dup := byCode[a.Code]; dup {
			continue
		}
		byCode[a.Code] = a
		unique = append(unique, a)
	}
	sort.SliceStable(unique, func(i, j int) bool { return unique[i].Code < unique[j].Code })
	return &Service{accounts: unique, byCode: byCode}
}

// Path returns the location of the chart inside a project.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, "accounts", "chart-of-accounts.csv")
}

// Load reads chart-of-accounts.csv from a project root and returns a Service.
func Load(repoRoot string) (*Service, error) {
	f, err := os.Open(Path(repoRoot))
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts sorted by code.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by code. Short codes are padded first.
func (s *Service) Get(c string) (model.Account, bool) {
	a, ok := s.byCode[code.Normalize(c)]
	return a, ok
}

// Exists reports whether a code is in the chart.
func (s *Service) Exists(c string) bool {
	_, ok := s.Get(c)
	return ok
}

// ByNature returns all accounts of the given nature.
func (s *Service) ByNature(n model.Nature) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Nature == n {
			result = append(result, a)
		}
	}
	return result
}

// Postable returns the accounts that accept postings.
func (s *Service) Postable() []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.AcceptsPostings {
			result = append(result, a)
		}
	}
	return result
}

// Save writes the chart of accounts to accounts/chart-of-accounts.csv.
func (s *Service) Save(repoRoot string) error {
	path := Path(repoRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}
