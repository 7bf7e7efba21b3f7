package dfc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safari-erp/safari/internal/model"
)

func periodMovements() []Movement {
	h := Resolve(chart())
	return Join([]model.Entry{
		entry("2025-01-001", "1.01.01.01", "100", model.StatusReceived, date(2025, 1, 1)),
		entry("2025-01-002", "1.01.01.00", "10", model.StatusReceived, date(2025, 1, 10)),
		entry("2025-01-003", "1.02.00.00", "7.50", model.StatusReceived, date(2025, 1, 31)),
		entry("2025-01-004", "2.01.00.01", "40", model.StatusPaid, date(2025, 1, 15)),
		entry("2025-01-005", "3.00.00.00", "5", model.StatusPaid, date(2025, 1, 20)),
		entry("2025-02-001", "1.01.01.01", "999", model.StatusReceived, date(2025, 2, 1)),
		entry("2024-12-001", "2.01.00.01", "999", model.StatusPaid, date(2024, 12, 31)),
	}, h)
}

func TestAggregate_Rollup(t *testing.T) {
	h := Resolve(chart())
	r := Aggregate(h, periodMovements(), NewPeriod(date(2025, 1, 1), date(2025, 1, 31)))

	tests := []struct {
		code   string
		nature model.Nature
		want   string
	}{
		{"1.01.01.01", model.NatureInflow, "100"},
		{"1.01.01.00", model.NatureInflow, "110"},
		{"1.01.00.00", model.NatureInflow, "110"},
		{"1.02.00.00", model.NatureInflow, "7.5"},
		{"1.00.00.00", model.NatureInflow, "117.5"},
		{"2.01.00.01", model.NatureOutflow, "40"},
		{"2.00.00.00", model.NatureOutflow, "40"},
		{"3.00.00.00", model.NatureOutflow, "5"},
		{"1.00.00.00", model.NatureOutflow, "0"},
		{"9.00.00.00", model.NatureOutflow, "0"},
	}
	for _, tt := range tests {
		got := r.Total(tt.code, tt.nature)
		assert.True(t, got.Equal(dec(tt.want)), "Total(%s, %s) = %s, want %s", tt.code, tt.nature, got, tt.want)
	}

	assert.True(t, r.TotalInflows.Equal(dec("117.5")), "inflows %s", r.TotalInflows)
	assert.True(t, r.TotalOutflows.Equal(dec("45")), "outflows %s", r.TotalOutflows)
	assert.Len(t, r.InPeriod, 5, "range bounds are inclusive")
}

func TestAggregate_NodeEqualsOwnPlusChildren(t *testing.T) {
	h := Resolve(chart())
	r := Aggregate(h, periodMovements(), NewPeriod(date(2025, 1, 1), date(2025, 1, 31)))

	for _, n := range model.Natures() {
		for _, c := range h.Codes() {
			want := r.Own(c, n)
			for _, ch := range h.ChildrenOf(c, n) {
				want = want.Add(r.Total(ch, n))
			}
			assert.True(t, r.Total(c, n).Equal(want), "%s/%s", c, n)
		}
	}
}

func TestAggregate_Lossless(t *testing.T) {
	h := Resolve(chart())
	movements := periodMovements()
	p := NewPeriod(date(2024, 1, 1), date(2025, 12, 31))
	r := Aggregate(h, movements, p)

	flat := map[model.Nature]decimal.Decimal{}
	for _, m := range movements {
		flat[m.Nature] = flat[m.Nature].Add(m.Entry.Amount)
	}
	assert.True(t, r.TotalInflows.Equal(flat[model.NatureInflow]))
	assert.True(t, r.TotalOutflows.Equal(flat[model.NatureOutflow]))
}

func TestAggregate_OppositeNatureChildIgnored(t *testing.T) {
	root := acct("2.00.00.00", "Despesas")
	odd := acct("2.01.00.00", "Estorno")
	odd.Nature = model.NatureInflow
	h := Resolve([]model.Account{root, odd})

	movements := []Movement{
		{Entry: entry("1", "2.01.00.00", "15", model.StatusReceived, date(2025, 1, 2)), AccountCode: "2.01.00.00", Nature: model.NatureInflow},
		{Entry: entry("2", "2.00.00.00", "4", model.StatusPaid, date(2025, 1, 2)), AccountCode: "2.00.00.00", Nature: model.NatureOutflow},
	}
	r := Aggregate(h, movements, NewPeriod(date(2025, 1, 1), date(2025, 1, 31)))

	assert.True(t, r.Total("2.00.00.00", model.NatureOutflow).Equal(dec("4")))
	assert.True(t, r.Total("2.01.00.00", model.NatureInflow).Equal(dec("15")))
}

func TestAggregate_LosslessWithMixedNatures(t *testing.T) {
	root := acct("2.00.00.00", "Despesas")
	odd := acct("2.01.00.00", "Estorno")
	odd.Nature = model.NatureInflow
	leaf := acct("2.01.00.01", "Estorno de fornecedor")
	h := Resolve([]model.Account{root, odd, leaf})

	movements := []Movement{
		{Entry: entry("1", "2.01.00.00", "15", model.StatusReceived, date(2025, 1, 2)), AccountCode: "2.01.00.00", Nature: model.NatureInflow},
		{Entry: entry("2", "2.00.00.00", "4", model.StatusPaid, date(2025, 1, 2)), AccountCode: "2.00.00.00", Nature: model.NatureOutflow},
		{Entry: entry("3", "2.01.00.01", "6", model.StatusPaid, date(2025, 1, 3)), AccountCode: "2.01.00.01", Nature: model.NatureOutflow},
	}
	r := Aggregate(h, movements, NewPeriod(date(2025, 1, 1), date(2025, 1, 31)))

	assert.Equal(t, []string{"2.01.00.00"}, h.Roots(model.NatureInflow))
	assert.Equal(t, []string{"2.00.00.00", "2.01.00.01"}, h.Roots(model.NatureOutflow))
	assert.True(t, r.TotalInflows.Equal(dec("15")), "inflows %s", r.TotalInflows)
	assert.True(t, r.TotalOutflows.Equal(dec("10")), "outflows %s", r.TotalOutflows)

	tree := r.Tree(model.NatureInflow)
	require.Len(t, tree, 1)
	assert.Equal(t, "2.01.00.00", tree[0].Code)
}

func TestAggregate_DeepChain(t *testing.T) {
	accounts := []model.Account{
		acct("1.00.00.00", "L1"),
		acct("1.01.00.00", "L2"),
		acct("1.01.01.00", "L3"),
		acct("1.01.01.01", "L4a"),
		acct("1.01.01.02", "L4b"),
	}
	h := Resolve(accounts)
	var entries []model.Entry
	for _, a := range accounts {
		entries = append(entries, entry(a.Code, a.Code, "1", model.StatusReceived, date(2025, 1, 1)))
	}
	r := Aggregate(h, Join(entries, h), NewPeriod(date(2025, 1, 1), date(2025, 1, 1)))

	assert.True(t, r.Total("1.01.01.00", model.NatureInflow).Equal(dec("3")))
	assert.True(t, r.Total("1.00.00.00", model.NatureInflow).Equal(dec("5")))
}

func TestTree(t *testing.T) {
	h := Resolve(chart())
	r := Aggregate(h, periodMovements(), NewPeriod(date(2025, 1, 1), date(2025, 1, 31)))

	tree := r.Tree(model.NatureInflow)
	require.Len(t, tree, 1)
	assert.Equal(t, "1.00.00.00", tree[0].Code)
	assert.Equal(t, "Receitas", tree[0].Description)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "1.01.00.00", tree[0].Children[0].Code)
	assert.Equal(t, "1.02.00.00", tree[0].Children[1].Code)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "1.01.01.01", tree[0].Children[0].Children[0].Children[0].Code)

	out := r.Tree(model.NatureOutflow)
	require.Len(t, out, 2)
	assert.Equal(t, "2.00.00.00", out[0].Code)
	assert.Equal(t, "3.00.00.00", out[1].Code)
}

func TestAggregate_InPeriodOrder(t *testing.T) {
	h := Resolve(chart())
	r := Aggregate(h, periodMovements(), NewPeriod(date(2025, 1, 1), date(2025, 1, 31)))

	var ids []string
	for _, m := range r.InPeriod {
		ids = append(ids, m.Entry.ID)
	}
	assert.Equal(t, []string{"2025-01-001", "2025-01-002", "2025-01-004", "2025-01-005", "2025-01-003"}, ids)
}
