package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/safari-erp/safari/internal/dfc"
	"github.com/safari-erp/safari/internal/model"
)

// Markdown writes the report as GitHub-flavored Markdown tables.
func Markdown(w io.Writer, rep *dfc.Report, opts Options) error {
	var b strings.Builder

	fmt.Fprintf(&b, "## Resumo do Período %s\n\n", rep.Period)
	b.WriteString("| | Valor |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Saldo inicial | %s |\n", BRL(rep.Opening.Balance))
	fmt.Fprintf(&b, "| Entradas | %s |\n", BRL(rep.TotalInflows))
	fmt.Fprintf(&b, "| Saídas | %s |\n", BRL(rep.TotalOutflows))
	fmt.Fprintf(&b, "| **Saldo final (calculado)** | **%s** |\n\n", BRL(rep.Closing))
	for _, c := range Captions(rep) {
		fmt.Fprintf(&b, "- %s\n", escapeCell(c))
	}
	if rep.Empty() {
		b.WriteString("- Sem movimentação no período selecionado.\n")
	}
	b.WriteString("\n")

	markdownTree(&b, "RECEBIMENTOS no período", rep.Inflows, model.NatureInflow)
	markdownTree(&b, "PAGAMENTOS no período", rep.Outflows, model.NatureOutflow)

	b.WriteString("## Geração de Caixa no Período\n\n")
	fmt.Fprintf(&b, "Saldo final - Saldo inicial: **%s**\n", BRL(rep.CashGenerated))

	if opts.Details {
		b.WriteString("\n## Lançamentos do período\n\n")
		b.WriteString("| Data | Lançamento | Código | Descrição | Valor | Status | Natureza |\n")
		b.WriteString("|---|---|---|---|---:|---|---|\n")
		for _, m := range rep.Movements {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
				m.Entry.PaymentDate.Format(displayDate),
				m.Entry.ID,
				m.AccountCode,
				escapeCell(m.Description),
				BRL(m.Entry.Amount),
				m.Entry.Status,
				m.Nature,
			)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func markdownTree(b *strings.Builder, title string, roots []dfc.Node, n model.Nature) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if len(roots) == 0 {
		fmt.Fprintf(b, "Nenhuma raiz de %s encontrada no plano de contas.\n\n", n)
		return
	}
	b.WriteString("| Conta | Valor |\n|---|---:|\n")
	var walk func(nodes []dfc.Node, depth int)
	walk = func(nodes []dfc.Node, depth int) {
		for _, node := range nodes {
			label := escapeCell(node.Code + " " + node.Description)
			amount := Signed(node.Total, n == model.NatureOutflow)
			if depth == 0 {
				label, amount = "**"+label+"**", "**"+amount+"**"
			}
			fmt.Fprintf(b, "| %s%s | %s |\n", strings.Repeat("&nbsp;&nbsp;", depth), label, amount)
			walk(node.Children, depth+1)
		}
	}
	walk(roots, 0)
	b.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML writes the report as a standalone HTML page built from its
// Markdown rendering.
func HTML(w io.Writer, rep *dfc.Report, opts Options) error {
	var src bytes.Buffer
	if err := Markdown(&src, rep, opts); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := markdown.Convert(src.Bytes(), &body); err != nil {
		return fmt.Errorf("converting markdown: %w", err)
	}

	_, err := fmt.Fprintf(w, htmlPage, rep.Period, body.String())
	return err
}

const htmlPage = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>DFC %s</title>
<style>
body { font-family: sans-serif; max-width: 60rem; margin: 2rem auto; }
table { border-collapse: collapse; margin-bottom: 1.5rem; }
th, td { padding: 0.25rem 0.75rem; border-bottom: 1px solid #ddd; }
</style>
</head>
<body>
%s</body>
</html>
`
