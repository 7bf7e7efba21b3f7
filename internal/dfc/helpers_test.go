package dfc

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/safari-erp/safari/internal/code"
	"github.com/safari-erp/safari/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func acct(c, desc string) model.Account {
	p := code.Parse(c)
	n := model.NatureOutflow
	if p.Inflow() {
		n = model.NatureInflow
	}
	return model.Account{Code: p.String(), Description: desc, Nature: n, AcceptsPostings: !p.Synthetic()}
}

func entry(id, account, amount string, status model.EntryStatus, paid time.Time) model.Entry {
	return model.Entry{
		ID:             id,
		CompetenceDate: paid,
		PaymentDate:    paid,
		Amount:         dec(amount),
		Status:         status,
		AccountCode:    account,
	}
}

func chart() []model.Account {
	return []model.Account{
		acct("1.00.00.00", "Receitas"),
		acct("1.01.00.00", "Vendas"),
		acct("1.01.01.00", "Vendas à vista"),
		acct("1.01.01.01", "Loja"),
		acct("1.02.00.00", "Outras receitas"),
		acct("2.00.00.00", "Despesas"),
		acct("2.01.00.00", "Pessoal"),
		acct("2.01.00.01", "Salários"),
		acct("3.00.00.00", "Investimentos"),
	}
}
