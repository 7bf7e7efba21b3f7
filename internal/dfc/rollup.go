package dfc

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/safari-erp/safari/internal/model"
)

// Key identifies a rollup total.
type Key struct {
	Code   string
	Nature model.Nature
}

// Node is one account of the rendered cash-flow tree.
type Node struct {
	Code        string
	Description string
	Nature      model.Nature
	Total       decimal.Decimal
	Children    []Node
}

// Rollup holds the per-account totals of one aggregation run. It is
// immutable once Aggregate returns.
type Rollup struct {
	h      *Hierarchy
	own    map[Key]decimal.Decimal
	totals map[Key]decimal.Decimal

	TotalInflows  decimal.Decimal
	TotalOutflows decimal.Decimal // raw, positive for ordinary data
	InPeriod      []Movement      // sorted by payment date, then entry ID
}

// Aggregate sums the admitted movements paid within p and rolls them up
// the hierarchy. A node's total for nature n is its own movements of
// nature n plus the totals of its children that also have nature n;
// children of the other nature never contribute.
func Aggregate(h *Hierarchy, admitted []Movement, p Period) *Rollup {
	r := &Rollup{
		h:      h,
		own:    make(map[Key]decimal.Decimal),
		totals: make(map[Key]decimal.Decimal, 2*len(h.Codes())),
	}

	for _, m := range admitted {
		if !p.Contains(m.Entry.PaymentDate) {
			continue
		}
		k := Key{Code: m.AccountCode, Nature: m.Nature}
		r.own[k] = r.own[k].Add(m.Entry.Amount)
		r.InPeriod = append(r.InPeriod, m)
	}
	sort.SliceStable(r.InPeriod, func(i, j int) bool {
		a, b := r.InPeriod[i].Entry, r.InPeriod[j].Entry
		if !a.PaymentDate.Equal(b.PaymentDate) {
			return a.PaymentDate.Before(b.PaymentDate)
		}
		return a.ID < b.ID
	})

	for _, n := range model.Natures() {
		for _, c := range h.Codes() {
			r.fill(c, n)
		}
	}

	for _, c := range h.Roots(model.NatureInflow) {
		r.TotalInflows = r.TotalInflows.Add(r.totals[Key{c, model.NatureInflow}])
	}
	for _, c := range h.Roots(model.NatureOutflow) {
		r.TotalOutflows = r.TotalOutflows.Add(r.totals[Key{c, model.NatureOutflow}])
	}
	return r
}

// fill computes the total of (start, n) and of every descendant it needs,
// post-order, using an explicit stack. Results land in r.totals, which
// doubles as the memo for the run.
func (r *Rollup) fill(start string, n model.Nature) {
	type frame struct {
		code     string
		expanded bool
	}

	stack := []frame{{code: start}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		key := Key{f.code, n}
		if _, done := r.totals[key]; done {
			continue
		}

		children := r.h.ChildrenOf(f.code, n)
		if !f.expanded {
			stack = append(stack, frame{code: f.code, expanded: true})
			for _, ch := range children {
				if _, done := r.totals[Key{ch, n}]; !done {
					stack = append(stack, frame{code: ch})
				}
			}
			continue
		}

		sum := r.own[key]
		for _, ch := range children {
			sum = sum.Add(r.totals[Key{ch, n}])
		}
		r.totals[key] = sum
	}
}

// Total returns the rolled-up total of code for nature n. Unknown codes
// total zero.
func (r *Rollup) Total(c string, n model.Nature) decimal.Decimal {
	return r.totals[Key{c, n}]
}

// Own returns the sum of the movements posted directly to code.
func (r *Rollup) Own(c string, n model.Nature) decimal.Decimal {
	return r.own[Key{c, n}]
}

// Totals returns a copy of every (code, nature) total.
func (r *Rollup) Totals() map[Key]decimal.Decimal {
	out := make(map[Key]decimal.Decimal, len(r.totals))
	for k, v := range r.totals {
		out[k] = v
	}
	return out
}

// Tree returns the accounts of nature n as nested nodes, roots first,
// children sorted by code.
func (r *Rollup) Tree(n model.Nature) []Node {
	roots := r.h.Roots(n)
	out := make([]Node, 0, len(roots))
	for _, c := range roots {
		out = append(out, r.node(c, n))
	}
	return out
}

func (r *Rollup) node(c string, n model.Nature) Node {
	acct, _ := r.h.Account(c)
	nd := Node{
		Code:        c,
		Description: acct.Description,
		Nature:      n,
		Total:       r.Total(c, n),
	}
	for _, ch := range r.h.ChildrenOf(c, n) {
		nd.Children = append(nd.Children, r.node(ch, n))
	}
	return nd
}
