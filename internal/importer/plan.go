package importer

import (
	"fmt"
	"strings"

	"github.com/safari-erp/safari/internal/code"
	"github.com/safari-erp/safari/internal/journal"
	"github.com/safari-erp/safari/internal/model"
)

// Ready is a row that can be added to the journal.
type Ready struct {
	Line   int
	Params journal.AddParams
}

// Divergence is a row whose sheet description differs from the chart's.
// It is still imported; the chart's description wins.
type Divergence struct {
	Row              Row
	ChartDescription string
}

// Rejection is a row that cannot be imported.
type Rejection struct {
	Row    Row
	Reason string
}

// Plan is the outcome of checking sheet rows against the chart.
type Plan struct {
	Ready     []Ready
	Divergent []Divergence
	Rejected  []Rejection
}

// Options controls how rows become entries.
type Options struct {
	// Reconciled imports entries already settled (Recebido / Pago)
	// instead of scheduled (A receber / A pagar).
	Reconciled bool
	// Remap replaces account codes missing from the chart with known ones.
	Remap map[string]string
}

// Check matches rows to the chart. Unknown codes are looked up in
// opts.Remap first; rows that still do not resolve to a postable account,
// or whose amount the journal would refuse, are rejected.
func Check(rows []Row, accounts journal.AccountLookup, opts Options) Plan {
	remap := make(map[string]string, len(opts.Remap))
	for from, to := range opts.Remap {
		remap[code.Normalize(from)] = to
	}

	var plan Plan
	for _, row := range rows {
		c := code.Normalize(row.AccountCode)
		acct, ok := accounts.Get(c)
		if !ok {
			if to, mapped := remap[c]; mapped {
				c = code.Normalize(to)
				acct, ok = accounts.Get(c)
			}
		}

		switch {
		case row.AccountCode == "":
			plan.Rejected = append(plan.Rejected, Rejection{Row: row, Reason: "missing account code"})
			continue
		case !ok:
			plan.Rejected = append(plan.Rejected, Rejection{Row: row, Reason: fmt.Sprintf("account %s is not in the chart", row.AccountCode)})
			continue
		case !acct.AcceptsPostings:
			plan.Rejected = append(plan.Rejected, Rejection{Row: row, Reason: fmt.Sprintf("account %s does not accept postings", acct.Code)})
			continue
		case !row.Amount.IsPositive():
			plan.Rejected = append(plan.Rejected, Rejection{Row: row, Reason: "amount must be positive"})
			continue
		case !row.Amount.Equal(row.Amount.Round(2)):
			plan.Rejected = append(plan.Rejected, Rejection{Row: row, Reason: "amount has more than 2 decimal places"})
			continue
		}

		if row.Description != "" && !strings.EqualFold(row.Description, acct.Description) {
			plan.Divergent = append(plan.Divergent, Divergence{Row: row, ChartDescription: acct.Description})
		}

		var status model.EntryStatus
		if opts.Reconciled {
			status = model.SettledStatus(acct.Nature)
		}
		plan.Ready = append(plan.Ready, Ready{
			Line: row.Line,
			Params: journal.AddParams{
				CompetenceDate: row.CompetenceDate,
				PaymentDate:    row.PaymentDate,
				Amount:         row.Amount,
				Status:         status,
				AccountCode:    acct.Code,
				CostCenter:     row.CostCenter,
				Unit:           row.Unit,
				Project:        row.Project,
			},
		})
	}
	return plan
}

// Apply adds every ready row to the journal in order. On failure it
// returns the IDs added so far along with the error.
func Apply(svc *journal.Service, ready []Ready) ([]string, error) {
	ids := make([]string, 0, len(ready))
	for _, r := range ready {
		entryID, err := svc.Add(r.Params)
		if err != nil {
			return ids, fmt.Errorf("line %d: %w", r.Line, err)
		}
		ids = append(ids, entryID)
	}
	return ids, nil
}
