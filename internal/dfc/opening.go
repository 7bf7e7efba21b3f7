package dfc

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/safari-erp/safari/internal/model"
)

// Opening is the opening balance of a period and where it came from.
type Opening struct {
	Balance decimal.Decimal

	// Recorded is the Inicial snapshot that contributed, if any.
	Recorded *model.BalanceSnapshot
	// Computed is the signed sum of admitted movements paid before the
	// period. Zero unless Config.UseComputedOpening is set.
	Computed     decimal.Decimal
	UsedComputed bool
}

// ResolveOpening derives the opening balance for a period starting at
// start. When both sources are enabled their contributions are added
// together.
func ResolveOpening(admitted []Movement, snapshots []model.BalanceSnapshot, start time.Time, cfg Config) Opening {
	var o Opening

	if cfg.UseRecordedOpening {
		if s, ok := LatestSnapshot(snapshots, model.SnapshotOpening, start); ok {
			o.Recorded = &s
			o.Balance = o.Balance.Add(s.Amount)
		}
	}

	if cfg.UseComputedOpening {
		cutoff := Day(start)
		for _, m := range admitted {
			if !Day(m.Entry.PaymentDate).Before(cutoff) {
				continue
			}
			o.Computed = o.Computed.Add(signed(m))
		}
		o.UsedComputed = true
		o.Balance = o.Balance.Add(o.Computed)
	}

	return o
}

// LatestSnapshot returns the snapshot of type typ with the latest date on
// or before cutoff. Ties on the date go to the highest ID, then to the
// later position in the slice.
func LatestSnapshot(snapshots []model.BalanceSnapshot, typ model.SnapshotType, cutoff time.Time) (model.BalanceSnapshot, bool) {
	cutoff = Day(cutoff)

	var best model.BalanceSnapshot
	found := false
	for _, s := range snapshots {
		if s.Type != typ {
			continue
		}
		d := Day(s.Date)
		if d.After(cutoff) {
			continue
		}
		if found {
			bd := Day(best.Date)
			if d.Before(bd) || (d.Equal(bd) && s.ID < best.ID) {
				continue
			}
		}
		best = s
		found = true
	}
	return best, found
}

func signed(m Movement) decimal.Decimal {
	if m.Nature == model.NatureInflow {
		return m.Entry.Amount
	}
	return m.Entry.Amount.Neg()
}
