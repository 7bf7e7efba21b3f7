package dfc

import (
	"github.com/safari-erp/safari/internal/code"
	"github.com/safari-erp/safari/internal/model"
)

// Movement is a ledger entry joined to its account's nature.
type Movement struct {
	Entry       model.Entry
	AccountCode string // normalized
	Description string // account description
	Nature      model.Nature
}

// Join attaches every entry to its account. Entries that reference a code
// missing from the chart, or that carry no payment date, are dropped:
// reporting them is the importer's job, not the engine's.
func Join(entries []model.Entry, h *Hierarchy) []Movement {
	out := make([]Movement, 0, len(entries))
	for _, e := range entries {
		if e.PaymentDate.IsZero() {
			continue
		}
		c := code.Normalize(e.AccountCode)
		acct, ok := h.Account(c)
		if !ok {
			continue
		}
		out = append(out, Movement{
			Entry:       e,
			AccountCode: c,
			Description: acct.Description,
			Nature:      acct.Nature,
		})
	}
	return out
}

// Reconcile returns the admissible movements. With reconciledOnly set, an
// inflow counts only when Recebido and an outflow only when Pago;
// otherwise every movement counts. Opening balance and rollup must both be
// fed from the same output of this function.
func Reconcile(movements []Movement, reconciledOnly bool) []Movement {
	if !reconciledOnly {
		return movements
	}
	out := make([]Movement, 0, len(movements))
	for _, m := range movements {
		if m.Entry.Status.Settles(m.Nature) {
			out = append(out, m)
		}
	}
	return out
}
