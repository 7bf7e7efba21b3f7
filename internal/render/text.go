package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/safari-erp/safari/internal/dfc"
	"github.com/safari-erp/safari/internal/model"
)

const displayDate = "02/01/2006"

// Options controls what a report rendering includes.
type Options struct {
	Details bool // list the period's movements
	Theme   Theme
}

type row struct {
	label  string
	amount string
	total  bool
}

// Text writes the report as an aligned terminal layout.
func Text(w io.Writer, rep *dfc.Report, opts Options) error {
	t := opts.Theme
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", t.Heading("Resumo do Período"), rep.Period)
	writeRows(&b, t, []row{
		{label: "Saldo inicial", amount: BRL(rep.Opening.Balance)},
		{label: "Entradas", amount: BRL(rep.TotalInflows)},
		{label: "Saídas", amount: BRL(rep.TotalOutflows)},
		{label: "Saldo final (calculado)", amount: BRL(rep.Closing), total: true},
	})
	for _, c := range Captions(rep) {
		fmt.Fprintf(&b, "  %s\n", t.Muted(c))
	}
	if rep.Empty() {
		fmt.Fprintf(&b, "  %s\n", t.Muted("Sem movimentação no período selecionado."))
	}

	b.WriteString("\n")
	writeTree(&b, t, "RECEBIMENTOS no período", rep.Inflows, model.NatureInflow)
	b.WriteString("\n")
	writeTree(&b, t, "PAGAMENTOS no período", rep.Outflows, model.NatureOutflow)

	b.WriteString("\n")
	fmt.Fprintf(&b, "%s\n", t.Heading("Geração de Caixa no Período"))
	writeRows(&b, t, []row{{label: "Saldo final - Saldo inicial", amount: BRL(rep.CashGenerated), total: true}})

	if opts.Details {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s\n", t.Heading("Lançamentos do período"))
		writeMovements(&b, t, rep.Movements)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Captions explains where the opening balance came from and how the
// computed closing compares with the recorded one.
func Captions(rep *dfc.Report) []string {
	var out []string
	out = append(out, "Fórmula: "+string(rep.Config.Formula))
	if rec := rep.Opening.Recorded; rec != nil {
		out = append(out, fmt.Sprintf("Saldo inicial lançado usado: %s (ref.: %s)", BRL(rec.Amount), rec.Date.Format(displayDate)))
	} else if rep.Config.UseRecordedOpening {
		out = append(out, "Nenhum saldo inicial lançado até o início do período.")
	}
	if rep.Opening.UsedComputed {
		out = append(out, fmt.Sprintf("Saldo inicial calculado (histórico): %s", BRL(rep.Opening.Computed)))
	}
	if diff, ok := rep.Difference(); ok {
		out = append(out, fmt.Sprintf("Saldo final lançado: %s (ref.: %s) | Diferença (Calc - Lançado): %s",
			BRL(rep.RecordedClosing.Amount), rep.RecordedClosing.Date.Format(displayDate), BRL(diff)))
	}
	return out
}

// Movements writes a table of movements, as listed by simulations.
func Movements(w io.Writer, movs []dfc.Movement, t Theme) error {
	var b strings.Builder
	writeMovements(&b, t, movs)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTree(b *strings.Builder, t Theme, title string, roots []dfc.Node, n model.Nature) {
	fmt.Fprintf(b, "%s\n", t.Heading(title))
	if len(roots) == 0 {
		fmt.Fprintf(b, "  %s\n", t.Muted(fmt.Sprintf("Nenhuma raiz de %s encontrada no plano de contas.", n)))
		return
	}
	var rows []row
	var walk func(nodes []dfc.Node, depth int)
	walk = func(nodes []dfc.Node, depth int) {
		for _, node := range nodes {
			rows = append(rows, row{
				label:  strings.Repeat("  ", depth) + node.Code + " " + node.Description,
				amount: Signed(node.Total, n == model.NatureOutflow),
				total:  depth == 0,
			})
			walk(node.Children, depth+1)
		}
	}
	walk(roots, 0)
	writeRows(b, t, rows)
}

func writeRows(b *strings.Builder, t Theme, rows []row) {
	labelWidth, amountWidth := 0, 0
	for _, r := range rows {
		labelWidth = max(labelWidth, runewidth.StringWidth(r.label))
		amountWidth = max(amountWidth, runewidth.StringWidth(r.amount))
	}
	for _, r := range rows {
		label := runewidth.FillRight(r.label, labelWidth)
		amount := t.Amount(runewidth.FillLeft(r.amount, amountWidth))
		if r.total {
			label = t.Total(label)
		}
		fmt.Fprintf(b, "  %s  %s\n", label, amount)
	}
}

func writeMovements(b *strings.Builder, t Theme, movs []dfc.Movement) {
	if len(movs) == 0 {
		fmt.Fprintf(b, "  %s\n", t.Muted("Nenhum lançamento."))
		return
	}
	table := [][]string{{"Data", "Lançamento", "Código", "Descrição", "Valor", "Status", "Natureza"}}
	for _, m := range movs {
		table = append(table, []string{
			m.Entry.PaymentDate.Format(displayDate),
			m.Entry.ID,
			m.AccountCode,
			m.Description,
			BRL(m.Entry.Amount),
			string(m.Entry.Status),
			string(m.Nature),
		})
	}
	writeTable(b, t, table, 4)
}

// writeTable aligns columns by display width. Column amountCol is right
// aligned; the first row is a header.
func writeTable(b *strings.Builder, t Theme, table [][]string, amountCol int) {
	widths := make([]int, len(table[0]))
	for _, r := range table {
		for i, cell := range r {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for ri, r := range table {
		cells := make([]string, len(r))
		for i, cell := range r {
			if i == amountCol {
				cells[i] = runewidth.FillLeft(cell, widths[i])
			} else {
				cells[i] = runewidth.FillRight(cell, widths[i])
			}
		}
		line := strings.TrimRight(strings.Join(cells, "  "), " ")
		if ri == 0 {
			line = t.Total(line)
		}
		fmt.Fprintf(b, "  %s\n", line)
	}
}
