package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Column headers of the entries sheet.
const (
	ColCompetence  = "Competência"
	ColPayment     = "Data Pagamento"
	ColAmount      = "Valor (R$)"
	ColAccountCode = "Codigo Natureza"
	ColDescription = "Plano de Natureza Financeira"
	ColCostCenter  = "Centro de Custo"
	ColUnit        = "Empresa"
	ColProject     = "Código Contrato"
)

var requiredColumns = []string{ColCompetence, ColPayment, ColAmount, ColAccountCode}

var sheetDateFormats = []string{"2006-01-02", "02/01/2006", "2006-01-02 15:04:05"}

// SheetParser reads the finance team's entries sheet exported as CSV.
// Columns are located by header name, so their order does not matter.
type SheetParser struct{}

// Format returns the parser name.
func (p *SheetParser) Format() string { return "planilha" }

// Parse reads the sheet. Missing required columns are an error; rows whose
// dates or amount cannot be read are dropped and reported by line.
func (p *SheetParser) Parse(r io.Reader) (ParseResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return ParseResult{}, fmt.Errorf("reading sheet: %w", err)
	}
	if len(records) == 0 {
		return ParseResult{}, nil
	}

	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return ParseResult{}, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	get := func(rec []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var res ParseResult
	for i, rec := range records[1:] {
		line := i + 2
		competence, err1 := parseSheetDate(get(rec, ColCompetence))
		payment, err2 := parseSheetDate(get(rec, ColPayment))
		amount, err3 := parseSheetAmount(get(rec, ColAmount))
		if err1 != nil || err2 != nil || err3 != nil {
			res.Dropped = append(res.Dropped, line)
			continue
		}
		res.Rows = append(res.Rows, Row{
			Line:           line,
			CompetenceDate: competence,
			PaymentDate:    payment,
			Amount:         amount,
			AccountCode:    get(rec, ColAccountCode),
			Description:    get(rec, ColDescription),
			CostCenter:     get(rec, ColCostCenter),
			Unit:           get(rec, ColUnit),
			Project:        get(rec, ColProject),
		})
	}
	return res, nil
}

func parseSheetDate(s string) (time.Time, error) {
	for _, layout := range sheetDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q", s)
}

// parseSheetAmount accepts "1234.56" and the Brazilian "1.234,56".
func parseSheetAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}
