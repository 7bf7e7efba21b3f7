package render

import (
	"io"
	"strconv"
	"strings"

	"github.com/safari-erp/safari/internal/auditlog"
	"github.com/safari-erp/safari/internal/model"
)

// Accounts writes the chart of accounts as a table.
func Accounts(w io.Writer, accts []model.Account, t Theme) error {
	table := [][]string{{"Código", "Descrição", "Natureza", "Lançamentos"}}
	for _, a := range accts {
		postings := "não"
		if a.AcceptsPostings {
			postings = "sim"
		}
		table = append(table, []string{a.Code, a.Description, string(a.Nature), postings})
	}
	var b strings.Builder
	writeTable(&b, t, table, -1)
	_, err := io.WriteString(w, b.String())
	return err
}

// Snapshots writes recorded balances as a table.
func Snapshots(w io.Writer, snaps []model.BalanceSnapshot, t Theme) error {
	table := [][]string{{"ID", "Data", "Tipo", "Valor", "Observação"}}
	for _, s := range snaps {
		table = append(table, []string{
			strconv.Itoa(s.ID),
			s.Date.Format(displayDate),
			string(s.Type),
			BRL(s.Amount),
			s.Note,
		})
	}
	var b strings.Builder
	writeTable(&b, t, table, 3)
	_, err := io.WriteString(w, b.String())
	return err
}

// AuditRecords writes audit-log records, one per line.
func AuditRecords(w io.Writer, recs []auditlog.Record, t Theme) error {
	table := [][]string{{"Quando", "Quem", "Ação", "Detalhes", "Commit"}}
	for _, r := range recs {
		table = append(table, []string{
			r.Timestamp.Local().Format("02/01/2006 15:04"),
			r.Actor,
			r.Action,
			r.Details,
			r.CommitHash,
		})
	}
	var b strings.Builder
	writeTable(&b, t, table, -1)
	_, err := io.WriteString(w, b.String())
	return err
}
