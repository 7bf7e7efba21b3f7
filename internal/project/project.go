// Package project ties the file-backed stores of a Safári project
// directory together and runs the cash-flow engine over them.
package project

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/safari-erp/safari/internal/accounts"
	"github.com/safari-erp/safari/internal/auditlog"
	"github.com/safari-erp/safari/internal/balances"
	"github.com/safari-erp/safari/internal/config"
	"github.com/safari-erp/safari/internal/dfc"
	"github.com/safari-erp/safari/internal/gitops"
	"github.com/safari-erp/safari/internal/importer"
	"github.com/safari-erp/safari/internal/journal"
	"github.com/safari-erp/safari/internal/model"
	"github.com/safari-erp/safari/internal/settings"
)

// TopMovements is how many movements a simulation lists.
const TopMovements = 20

// Project holds references to every store of a project directory.
type Project struct {
	root     string
	cfg      *config.Config
	accounts *accounts.Service
	journal  *journal.Service
	balances *balances.Service
	settings *settings.Store
	log      *slog.Logger
	now      func() time.Time
}

// Open loads config, chart, snapshots and settings from a project root.
func Open(root string, logger *slog.Logger) (*Project, error) {
	cfg, err := config.Load(config.Path(root))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	accts, err := accounts.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}

	snaps, err := balances.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading balances: %w", err)
	}

	store, err := settings.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	return &Project{
		root:     root,
		cfg:      cfg,
		accounts: accts,
		journal:  journal.NewService(root, accts),
		balances: snaps,
		settings: store,
		log:      logger.With("project", cfg.Business.Name),
		now:      time.Now,
	}, nil
}

func (p *Project) Root() string                { return p.root }
func (p *Project) Config() *config.Config      { return p.cfg }
func (p *Project) Accounts() *accounts.Service { return p.accounts }
func (p *Project) Journal() *journal.Service   { return p.journal }
func (p *Project) Balances() *balances.Service { return p.balances }
func (p *Project) Settings() *settings.Store   { return p.settings }

// Chart returns the chart of accounts in file order.
func (p *Project) Chart() []model.Account { return p.accounts.All() }

// Snapshots returns recorded balances, newest first.
func (p *Project) Snapshots() []model.BalanceSnapshot { return p.balances.List() }

// Logger returns the project's logger.
func (p *Project) Logger() *slog.Logger { return p.log }

// SetClock replaces the time source used for audit records.
func (p *Project) SetClock(now func() time.Time) { p.now = now }

// Official returns the persisted engine config.
func (p *Project) Official() dfc.Config {
	return p.settings.Official()
}

// Report runs the engine over the whole ledger with cfg for period.
// The official view and audit simulations both go through here.
func (p *Project) Report(cfg dfc.Config, period dfc.Period) (*dfc.Report, error) {
	entries, err := p.journal.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}

	rep := dfc.Run(p.accounts.All(), entries, p.balances.All(), cfg, period)

	p.log.Info("dfc run",
		"period", period.String(),
		"formula", string(cfg.Formula),
		"entries", len(entries),
		"movements", len(rep.Movements),
		"opening", rep.Opening.Balance.StringFixed(2),
		"inflows", rep.TotalInflows.StringFixed(2),
		"outflows", rep.TotalOutflows.StringFixed(2),
		"closing", rep.Closing.StringFixed(2),
	)
	return rep, nil
}

// Simulate runs cfg without touching the official config and records the
// run in the audit log.
func (p *Project) Simulate(actor string, cfg dfc.Config, period dfc.Period) (*dfc.Report, error) {
	rep, err := p.Report(cfg, period)
	if err != nil {
		return nil, err
	}

	rec := auditlog.New(p.now(), actor, auditlog.ActionSimulate, Summary(rep), cfg.String())
	if err := auditlog.Append(p.root, []auditlog.Record{rec}); err != nil {
		return nil, fmt.Errorf("writing audit log: %w", err)
	}
	return rep, nil
}

// Promote makes cfg the official config, records it in the audit log and,
// when git.auto_commit is set, commits the settings with the audit record
// pointing at that commit. A failed save leaves the official config
// unchanged; once saved, the promotion is always audited, even when the
// commit fails.
func (p *Project) Promote(actor string, cfg dfc.Config) (auditlog.Record, error) {
	previous := p.settings.Official()
	p.settings.SetOfficial(cfg)
	if err := p.settings.Save(p.root); err != nil {
		p.settings.SetOfficial(previous)
		return auditlog.Record{}, err
	}

	rec := auditlog.New(p.now(), actor, auditlog.ActionPromote, "previous: "+previous.String(), cfg.String())

	hash, commitErr := p.commit("settings: promote official DFC config", settingsPath)
	rec.CommitHash = hash

	if err := auditlog.Append(p.root, []auditlog.Record{rec}); err != nil {
		return auditlog.Record{}, errors.Join(fmt.Errorf("writing audit log: %w", err), commitErr)
	}
	if commitErr != nil {
		return rec, commitErr
	}
	if _, err := p.commit("audit: record promotion", auditPath); err != nil {
		return rec, err
	}

	p.log.Info("official config promoted", "actor", actor, "config", cfg.String(), "commit", hash)
	return rec, nil
}

// Commit commits paths when git.auto_commit is set and the project is a
// git repository. Returns the short hash, or "" when nothing was committed.
func (p *Project) Commit(message string, paths ...string) (string, error) {
	return p.commit(message, paths...)
}

func (p *Project) commit(message string, paths ...string) (string, error) {
	if !p.cfg.Git.AutoCommit || !gitops.IsRepo(p.root) {
		return "", nil
	}
	repo := gitops.Repo{Dir: p.root, AuthorName: p.cfg.Git.AuthorName, AuthorEmail: p.cfg.Git.AuthorEmail}
	hash, err := repo.Commit(message, paths...)
	if errors.Is(err, gitops.ErrNothingToCommit) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}
	p.log.Debug("committed", "message", message, "commit", hash)
	return hash, nil
}

// Summary renders a one-line digest of a report for the audit log.
func Summary(rep *dfc.Report) string {
	return fmt.Sprintf("period=%s opening=%s inflows=%s outflows=%s closing=%s cash_generated=%s",
		rep.Period,
		rep.Opening.Balance.StringFixed(2),
		rep.TotalInflows.StringFixed(2),
		rep.TotalOutflows.StringFixed(2),
		rep.Closing.StringFixed(2),
		rep.CashGenerated.StringFixed(2),
	)
}

var (
	settingsPath = filepath.Join("config", "settings.csv")
	auditPath    = filepath.Join("logs", "audit-log.csv")
)

// Init creates a project at dir: directory layout, safari.yaml, the
// default chart and official settings, a git repository and an initial
// commit. dir must not already hold a safari.yaml.
func Init(dir, name string) (*config.Config, string, error) {
	if _, err := os.Stat(config.Path(dir)); err == nil {
		return nil, "", fmt.Errorf("%s already exists", config.Path(dir))
	}

	for _, d := range []string{"accounts", "balances", "config", "logs", importer.ProcessedDir} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return nil, "", fmt.Errorf("creating directory %s: %w", d, err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, importer.Dir, ".gitkeep"), nil, 0o644); err != nil {
		return nil, "", fmt.Errorf("writing .gitkeep: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(".env\n*.tmp\n"), 0o644); err != nil {
		return nil, "", fmt.Errorf("writing .gitignore: %w", err)
	}

	cfg := config.Default(name)
	if err := config.Save(config.Path(dir), cfg); err != nil {
		return nil, "", fmt.Errorf("writing config: %w", err)
	}

	if err := accounts.NewService(accounts.DefaultChart()).Save(dir); err != nil {
		return nil, "", fmt.Errorf("writing chart of accounts: %w", err)
	}

	if err := balances.NewService(nil).Save(dir); err != nil {
		return nil, "", fmt.Errorf("writing balances: %w", err)
	}

	store := settings.New()
	store.SetOfficial(dfc.DefaultConfig())
	if err := store.Save(dir); err != nil {
		return nil, "", fmt.Errorf("writing settings: %w", err)
	}

	rec := auditlog.New(time.Now(), cfg.Git.AuthorName, auditlog.ActionInit, "project "+name, dfc.DefaultConfig().String())
	if err := auditlog.Append(dir, []auditlog.Record{rec}); err != nil {
		return nil, "", fmt.Errorf("writing audit log: %w", err)
	}

	if err := gitops.Init(dir); err != nil {
		return nil, "", err
	}
	repo := gitops.Repo{Dir: dir, AuthorName: cfg.Git.AuthorName, AuthorEmail: cfg.Git.AuthorEmail}
	hash, err := repo.CommitAll("init: Initialize " + name)
	if err != nil {
		return nil, "", fmt.Errorf("initial commit: %w", err)
	}
	return cfg, hash, nil
}
