package model

// Nature classifies accounts and entries as inbound or outbound cash.
type Nature string

const (
	NatureInflow  Nature = "Entrada"
	NatureOutflow Nature = "Saída"
)

// Natures lists both natures in display order.
func Natures() []Nature {
	return []Nature{NatureInflow, NatureOutflow}
}

// Opposite returns the other nature.
func (n Nature) Opposite() Nature {
	if n == NatureInflow {
		return NatureOutflow
	}
	return NatureInflow
}

// Account represents a row in chart-of-accounts.csv.
// Nature and AcceptsPostings are derived from Code; see accounts.New.
type Account struct {
	Code            string
	Description     string
	Nature          Nature
	AcceptsPostings bool // false for synthetic (grouping) accounts
}
