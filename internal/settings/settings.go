// Package settings stores the official engine configuration as key/value
// pairs in config/settings.csv. Booleans are the literal strings "True"
// and "False"; readers compare against "True" exactly.
package settings

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/safari-erp/safari/internal/dfc"
)

// Keys of the official engine configuration.
const (
	KeyFormula              = "modelo_dfc_oficial"
	KeyUseRecordedOpening   = "usar_saldo_lancado"
	KeyUseComputedOpening   = "usar_saldo_calculado"
	KeyReconciledOnly       = "considerar_somente_conciliados"
	KeyForceOutflowNegative = "forcar_saida_negativa"
)

const (
	True  = "True"
	False = "False"
)

// Header is the CSV header for settings.csv.
var Header = []string{"key", "value"}

// Store is an ordered key/value map.
type Store struct {
	values map[string]string
}

// New returns an empty Store.
func New() *Store {
	return &Store{values: make(map[string]string)}
}

// Path returns the location of settings.csv inside a project.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, "config", "settings.csv")
}

// Load reads settings.csv from a project root. A missing file yields an
// empty Store, which reads back as the default config.
func Load(repoRoot string) (*Store, error) {
	f, err := os.Open(Path(repoRoot))
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening settings: %w", err)
	}
	defer f.Close()

	s, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	return s, nil
}

// Read parses a settings CSV. A repeated key keeps its last value.
func Read(r io.Reader) (*Store, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading settings CSV: %w", err)
	}

	s := New()
	if len(records) == 0 {
		return s, nil
	}
	for i, rec := range records[1:] {
		key := strings.TrimSpace(rec[0])
		if key == "" {
			return nil, fmt.Errorf("row %d: empty key", i+2)
		}
		s.values[key] = rec[1]
	}
	return s, nil
}

// Write writes the store as CSV, keys sorted.
func (s *Store) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, k := range s.Keys() {
		if err := cw.Write([]string{k, s.values[k]}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// Save writes config/settings.csv.
func (s *Store) Save(repoRoot string) error {
	path := Path(repoRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating settings file: %w", err)
	}
	defer f.Close()

	if err := s.Write(f); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the raw value of key.
func (s *Store) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores a raw value.
func (s *Store) Set(key, value string) {
	s.values[key] = value
}

// Bool reads key as a boolean. Only the exact literal "True" is true; a
// missing key yields def.
func (s *Store) Bool(key string, def bool) bool {
	v, ok := s.values[key]
	if !ok {
		return def
	}
	return v == True
}

// SetBool stores b as "True" or "False".
func (s *Store) SetBool(key string, b bool) {
	s.values[key] = FormatBool(b)
}

// FormatBool renders b the way settings are persisted.
func FormatBool(b bool) string {
	if b {
		return True
	}
	return False
}

// Official builds the engine config from the store, falling back to
// dfc.DefaultConfig for missing keys. An unrecognized formula id falls back
// to dfc.DefaultFormula.
func (s *Store) Official() dfc.Config {
	def := dfc.DefaultConfig()
	cfg := dfc.Config{
		Formula:              def.Formula,
		UseRecordedOpening:   s.Bool(KeyUseRecordedOpening, def.UseRecordedOpening),
		UseComputedOpening:   s.Bool(KeyUseComputedOpening, def.UseComputedOpening),
		ReconciledOnly:       s.Bool(KeyReconciledOnly, def.ReconciledOnly),
		ForceOutflowNegative: s.Bool(KeyForceOutflowNegative, def.ForceOutflowNegative),
	}
	if v, ok := s.values[KeyFormula]; ok {
		cfg.Formula, _ = dfc.ParseFormula(v)
	}
	return cfg
}

// SetOfficial stores cfg as the official engine config.
func (s *Store) SetOfficial(cfg dfc.Config) {
	s.values[KeyFormula] = string(cfg.Formula)
	s.SetBool(KeyUseRecordedOpening, cfg.UseRecordedOpening)
	s.SetBool(KeyUseComputedOpening, cfg.UseComputedOpening)
	s.SetBool(KeyReconciledOnly, cfg.ReconciledOnly)
	s.SetBool(KeyForceOutflowNegative, cfg.ForceOutflowNegative)
}
