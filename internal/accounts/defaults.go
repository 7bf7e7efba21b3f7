package accounts

import "github.com/safari-erp/safari/internal/model"

// DefaultChart returns the starter chart of accounts for a new project.
func DefaultChart() []model.Account {
	rows := [][2]string{
		{"1.00.00.00", "Receitas"},
		{"1.01.00.00", "Receitas operacionais"},
		{"1.01.01.00", "Vendas"},
		{"1.01.01.01", "Vendas à vista"},
		{"1.01.01.02", "Vendas a prazo"},
		{"1.02.00.00", "Receitas financeiras"},
		{"1.02.00.01", "Rendimentos de aplicações"},
		{"2.00.00.00", "Despesas"},
		{"2.01.00.00", "Despesas com pessoal"},
		{"2.01.00.01", "Salários"},
		{"2.01.00.02", "Encargos sociais"},
		{"2.02.00.00", "Despesas administrativas"},
		{"2.02.00.01", "Aluguel"},
		{"2.02.00.02", "Energia e água"},
		{"3.00.00.00", "Investimentos"},
		{"3.01.00.01", "Compra de equipamentos"},
	}
	chart := make([]model.Account, 0, len(rows))
	for _, r := range rows {
		chart = append(chart, New(r[0], r[1]))
	}
	return chart
}
