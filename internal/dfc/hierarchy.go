package dfc

import (
	"sort"

	"github.com/safari-erp/safari/internal/code"
	"github.com/safari-erp/safari/internal/model"
)

// Hierarchy is the forest inferred from a chart of accounts. It is built
// once per run and never shared.
type Hierarchy struct {
	accounts map[string]model.Account
	parent   map[string]string
	children map[string][]string
	codes    []string
}

// Resolve infers each account's parent from its code: the first of its
// ancestor candidates (see code.Code.Ancestors) that exists in the chart.
// Missing intermediate levels are skipped. Accounts without an existing
// ancestor, including malformed codes, are roots. Duplicate codes keep the
// first occurrence.
func Resolve(accounts []model.Account) *Hierarchy {
	h := &Hierarchy{
		accounts: make(map[string]model.Account, len(accounts)),
		parent:   make(map[string]string, len(accounts)),
		children: make(map[string][]string, len(accounts)),
	}

	for _, a := range accounts {
		a.Code = code.Normalize(a.Code)
		if _, dup := h.accounts[a.Code]; dup {
			continue
		}
		h.accounts[a.Code] = a
		h.codes = append(h.codes, a.Code)
	}
	sort.Strings(h.codes)

	for _, c := range h.codes {
		for _, candidate := range code.Parse(c).Ancestors() {
			if _, ok := h.accounts[candidate]; ok {
				h.parent[c] = candidate
				h.children[candidate] = append(h.children[candidate], c)
				break
			}
		}
	}
	// h.codes is sorted and unique, so every children slice already is.

	return h
}

// Codes returns every account code in sorted order.
func (h *Hierarchy) Codes() []string {
	return h.codes
}

// Account returns the account with the given code.
func (h *Hierarchy) Account(c string) (model.Account, bool) {
	a, ok := h.accounts[c]
	return a, ok
}

// Has reports whether c is in the chart.
func (h *Hierarchy) Has(c string) bool {
	_, ok := h.accounts[c]
	return ok
}

// Parent returns the nearest existing ancestor of c. ok is false for roots
// and for unknown codes.
func (h *Hierarchy) Parent(c string) (parent string, ok bool) {
	parent, ok = h.parent[c]
	return parent, ok
}

// Children returns the direct children of c sorted by code.
func (h *Hierarchy) Children(c string) []string {
	return h.children[c]
}

// ChildrenOf returns the direct children of c that share nature n.
func (h *Hierarchy) ChildrenOf(c string, n model.Nature) []string {
	var out []string
	for _, ch := range h.children[c] {
		if h.accounts[ch].Nature == n {
			out = append(out, ch)
		}
	}
	return out
}

// Roots returns the accounts of nature n sorted by code whose parent is
// missing or has the other nature. Every account of nature n is reached
// from exactly one root through ChildrenOf.
func (h *Hierarchy) Roots(n model.Nature) []string {
	var out []string
	for _, c := range h.codes {
		if h.accounts[c].Nature != n {
			continue
		}
		if parent, hasParent := h.parent[c]; hasParent && h.accounts[parent].Nature == n {
			continue
		}
		out = append(out, c)
	}
	return out
}
