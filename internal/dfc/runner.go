package dfc

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/safari-erp/safari/internal/model"
)

// Report is the full result of one engine run.
type Report struct {
	Period  Period
	Config  Config
	Opening Opening

	Inflows  []Node // Entrada roots
	Outflows []Node // Saída roots
	Totals   map[Key]decimal.Decimal

	TotalInflows   decimal.Decimal
	TotalOutflows  decimal.Decimal // raw
	SignedOutflows decimal.Decimal
	Closing        decimal.Decimal
	CashGenerated  decimal.Decimal

	// RecordedClosing is the latest Final snapshot on or before the end of
	// the period, shown next to the computed closing for audit.
	RecordedClosing *model.BalanceSnapshot

	Movements []Movement // admitted movements within the period
}

// Difference returns the computed closing minus the recorded one.
func (r *Report) Difference() (decimal.Decimal, bool) {
	if r.RecordedClosing == nil {
		return decimal.Zero, false
	}
	return r.Closing.Sub(r.RecordedClosing.Amount), true
}

// Total returns the rolled-up total of an account for nature n.
func (r *Report) Total(c string, n model.Nature) decimal.Decimal {
	return r.Totals[Key{c, n}]
}

// Empty reports whether no movement was admitted in the period.
func (r *Report) Empty() bool {
	return len(r.Movements) == 0
}

// Top returns up to n period movements with the largest amounts, largest
// first. Equal amounts keep payment-date order.
func (r *Report) Top(n int) []Movement {
	out := make([]Movement, len(r.Movements))
	copy(out, r.Movements)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Entry.Amount.GreaterThan(out[j].Entry.Amount)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Run computes the cash-flow report for period under cfg. It reads its
// arguments only and keeps no state between calls, so the official view
// and any simulation share this single code path.
func Run(accounts []model.Account, entries []model.Entry, snapshots []model.BalanceSnapshot, cfg Config, period Period) *Report {
	period = NewPeriod(period.Start, period.End)

	h := Resolve(accounts)
	admitted := Reconcile(Join(entries, h), cfg.ReconciledOnly)
	opening := ResolveOpening(admitted, snapshots, period.Start, cfg)
	rollup := Aggregate(h, admitted, period)
	bal := Evaluate(opening.Balance, rollup.TotalInflows, rollup.TotalOutflows, cfg)

	rep := &Report{
		Period:         period,
		Config:         cfg,
		Opening:        opening,
		Inflows:        rollup.Tree(model.NatureInflow),
		Outflows:       rollup.Tree(model.NatureOutflow),
		Totals:         rollup.Totals(),
		TotalInflows:   rollup.TotalInflows,
		TotalOutflows:  rollup.TotalOutflows,
		SignedOutflows: bal.SignedOutflows,
		Closing:        bal.Closing,
		CashGenerated:  bal.CashGenerated,
		Movements:      rollup.InPeriod,
	}
	if s, ok := LatestSnapshot(snapshots, model.SnapshotClosing, period.End); ok {
		rep.RecordedClosing = &s
	}
	return rep
}
