package project

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safari-erp/safari/internal/accounts"
	"github.com/safari-erp/safari/internal/auditlog"
	"github.com/safari-erp/safari/internal/config"
	"github.com/safari-erp/safari/internal/dfc"
	"github.com/safari-erp/safari/internal/journal"
	"github.com/safari-erp/safari/internal/logging"
	"github.com/safari-erp/safari/internal/model"
	"github.com/safari-erp/safari/internal/settings"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// newTestProject writes a project without git so tests run anywhere.
func newTestProject(t *testing.T) *Project {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default("Padaria")
	cfg.Git.AutoCommit = false
	require.NoError(t, config.Save(config.Path(dir), cfg))
	require.NoError(t, accounts.NewService(accounts.DefaultChart()).Save(dir))

	p, err := Open(dir, logging.Discard())
	require.NoError(t, err)
	p.SetClock(func() time.Time { return date(2025, 2, 1) })
	return p
}

func seed(t *testing.T, p *Project) {
	t.Helper()
	add := func(competence, payment time.Time, amount, code string, status model.EntryStatus) {
		_, err := p.Journal().Add(journal.AddParams{
			CompetenceDate: competence,
			PaymentDate:    payment,
			Amount:         dec(amount),
			Status:         status,
			AccountCode:    code,
		})
		require.NoError(t, err)
	}
	add(date(2024, 12, 10), date(2024, 12, 20), "500", "1.01.01.01", model.StatusReceived)
	add(date(2025, 1, 2), date(2025, 1, 5), "1500", "1.01.01.01", model.StatusReceived)
	add(date(2025, 1, 3), date(2025, 1, 10), "400", "2.01.00.01", model.StatusPaid)
	add(date(2025, 1, 8), date(2025, 1, 25), "99", "1.01.01.02", model.StatusToReceive)

	_, err := p.Balances().Record(date(2025, 1, 1), model.SnapshotOpening, dec("1000"), "")
	require.NoError(t, err)
	_, err = p.Balances().Record(date(2025, 1, 31), model.SnapshotClosing, dec("2100"), "")
	require.NoError(t, err)
}

func january() dfc.Period {
	return dfc.NewPeriod(date(2025, 1, 1), date(2025, 1, 31))
}

func TestOpen_MissingConfig(t *testing.T) {
	_, err := Open(t.TempDir(), logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestOfficial_DefaultsWithoutSettingsFile(t *testing.T) {
	p := newTestProject(t)
	assert.Equal(t, dfc.DefaultConfig(), p.Official())
}

func TestReport_Official(t *testing.T) {
	p := newTestProject(t)
	seed(t, p)

	rep, err := p.Report(p.Official(), january())
	require.NoError(t, err)

	assert.True(t, rep.Opening.Balance.Equal(dec("1000")), "opening %s", rep.Opening.Balance)
	assert.True(t, rep.TotalInflows.Equal(dec("1500")))
	assert.True(t, rep.TotalOutflows.Equal(dec("400")))
	assert.True(t, rep.Closing.Equal(dec("2900")), "closing %s", rep.Closing)
	assert.Len(t, rep.Movements, 2, "A receber is excluded")
}

func TestReport_SameAsEngine(t *testing.T) {
	p := newTestProject(t)
	seed(t, p)
	cfg := dfc.Config{Formula: dfc.FormulaPlusOutflows, UseComputedOpening: true, ForceOutflowNegative: true}

	got, err := p.Report(cfg, january())
	require.NoError(t, err)

	entries, err := p.Journal().ReadAll()
	require.NoError(t, err)
	want := dfc.Run(p.Accounts().All(), entries, p.Balances().All(), cfg, january())
	assert.Equal(t, want, got)
}

func TestSimulate_WritesAuditAndKeepsOfficial(t *testing.T) {
	p := newTestProject(t)
	seed(t, p)

	cfg := p.Official()
	cfg.ReconciledOnly = false
	rep, err := p.Simulate("auditor", cfg, january())
	require.NoError(t, err)
	assert.True(t, rep.TotalInflows.Equal(dec("1599")))

	assert.Equal(t, dfc.DefaultConfig(), p.Official(), "simulation does not touch the official config")
	_, err = os.Stat(settings.Path(p.Root()))
	assert.True(t, os.IsNotExist(err))

	records, err := auditlog.Read(p.Root())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, auditlog.ActionSimulate, records[0].Action)
	assert.Equal(t, "auditor", records[0].Actor)
	assert.Equal(t, cfg.String(), records[0].Config)
	assert.Contains(t, records[0].Details, "inflows=1599.00")
	assert.True(t, records[0].Timestamp.Equal(date(2025, 2, 1)))
}

func TestPromote_PersistsOfficial(t *testing.T) {
	p := newTestProject(t)
	cfg := dfc.Config{Formula: dfc.FormulaNetMovement, UseRecordedOpening: true, UseComputedOpening: true}

	rec, err := p.Promote("gerente", cfg)
	require.NoError(t, err)
	assert.Equal(t, auditlog.ActionPromote, rec.Action)
	assert.Empty(t, rec.CommitHash, "auto_commit is off")
	assert.Contains(t, rec.Details, "previous: "+dfc.DefaultConfig().String())

	reopened, err := Open(p.Root(), logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, cfg, reopened.Official())

	data, err := os.ReadFile(settings.Path(p.Root()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "usar_saldo_calculado,True")
	assert.Contains(t, string(data), "considerar_somente_conciliados,False")
}

func TestPromote_SimulationMatchesOfficialAfterwards(t *testing.T) {
	p := newTestProject(t)
	seed(t, p)
	cfg := dfc.Config{Formula: dfc.FormulaInflowsOnly, ReconciledOnly: true, ForceOutflowNegative: true}

	simulated, err := p.Simulate("auditor", cfg, january())
	require.NoError(t, err)
	_, err = p.Promote("auditor", cfg)
	require.NoError(t, err)

	official, err := p.Report(p.Official(), january())
	require.NoError(t, err)
	assert.Equal(t, simulated, official)
}

func TestInit_CreatesProject(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()

	cfg, hash, err := Init(dir, "Padaria Safári")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.Equal(t, "Padaria Safári", cfg.Business.Name)

	for _, f := range []string{"safari.yaml", "accounts/chart-of-accounts.csv", "balances/snapshots.csv", "config/settings.csv", "logs/audit-log.csv", "import/.gitkeep", ".gitignore"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, "%s should exist", f)
	}

	p, err := Open(dir, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, dfc.DefaultConfig(), p.Official())
	assert.Len(t, p.Accounts().All(), len(accounts.DefaultChart()))

	_, _, err = Init(dir, "Outra")
	assert.Error(t, err, "init refuses an existing project")
}

func TestPromote_CommitsWhenAutoCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	_, _, err := Init(dir, "Padaria")
	require.NoError(t, err)

	p, err := Open(dir, logging.Discard())
	require.NoError(t, err)

	cfg := p.Official()
	cfg.UseComputedOpening = true
	rec, err := p.Promote("gerente", cfg)
	require.NoError(t, err)
	require.NotEmpty(t, rec.CommitHash)

	show := exec.Command("git", "show", "--name-only", "--format=%s", rec.CommitHash)
	show.Dir = dir
	out, err := show.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "settings: promote official DFC config")
	assert.Contains(t, string(out), "config/settings.csv")

	status := exec.Command("git", "status", "--porcelain")
	status.Dir = dir
	out, err = status.Output()
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(string(out)), "audit log is committed too")
}

func TestPromote_SaveFailureKeepsOfficial(t *testing.T) {
	p := newTestProject(t)
	require.NoError(t, os.RemoveAll(filepath.Join(p.Root(), "config")))
	require.NoError(t, os.WriteFile(filepath.Join(p.Root(), "config"), nil, 0o644))

	cfg := p.Official()
	cfg.UseComputedOpening = true
	_, err := p.Promote("gerente", cfg)
	require.Error(t, err)

	assert.Equal(t, dfc.DefaultConfig(), p.Official())
	records, err := auditlog.Read(p.Root())
	require.NoError(t, err)
	assert.Empty(t, records, "nothing promoted, nothing audited")
}

func TestPromote_CommitFailureStillAudits(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	_, _, err := Init(dir, "Padaria")
	require.NoError(t, err)

	p, err := Open(dir, logging.Discard())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "index.lock"), nil, 0o644))

	cfg := p.Official()
	cfg.UseComputedOpening = true
	rec, err := p.Promote("gerente", cfg)
	require.Error(t, err)
	assert.Empty(t, rec.CommitHash)

	records, err := auditlog.Read(dir)
	require.NoError(t, err)
	last := records[len(records)-1]
	assert.Equal(t, auditlog.ActionPromote, last.Action)
	assert.Equal(t, cfg.String(), last.Config)

	reopened, err := Open(dir, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, cfg, reopened.Official())
}
