// Package dfc computes the cash-flow statement (Demonstração do Fluxo de
// Caixa): it infers the chart hierarchy from account codes, rolls entry
// amounts up that hierarchy, and derives opening and closing balances
// under a configurable formula.
//
// Every function in this package is pure. Run takes all of its inputs as
// arguments, so the official view and an audit simulation fed with the
// same data and config produce identical reports.
package dfc

import (
	"fmt"
	"strings"
)

// Formula selects how the closing balance is derived.
type Formula string

const (
	FormulaMinusOutflows Formula = "Saldo + Entradas - Saídas"
	FormulaPlusOutflows  Formula = "Saldo + Entradas + Saídas"
	FormulaNetMovement   Formula = "Saldo + (Entradas - Saídas)"
	FormulaInflowsOnly   Formula = "Saldo + Somente Entradas"
	FormulaOutflowsOnly  Formula = "Saldo + Somente Saídas"
)

// DefaultFormula is used when a formula id is not recognized.
const DefaultFormula = FormulaMinusOutflows

// Formulas returns every supported formula in menu order.
func Formulas() []Formula {
	return []Formula{
		FormulaMinusOutflows,
		FormulaPlusOutflows,
		FormulaNetMovement,
		FormulaInflowsOnly,
		FormulaOutflowsOnly,
	}
}

// ParseFormula maps a stored or typed formula id to a Formula. The minus
// sign may be written as "-" or "−" (U+2212). Unknown ids yield
// DefaultFormula and ok=false.
func ParseFormula(s string) (f Formula, ok bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "−", "-"))
	for _, f := range Formulas() {
		if string(f) == s {
			return f, true
		}
	}
	return DefaultFormula, false
}

// Config holds the engine toggles. It is a plain value: callers pass the
// official config or an ad hoc one, and the engine never looks anything
// up on its own.
type Config struct {
	Formula              Formula
	UseRecordedOpening   bool
	UseComputedOpening   bool
	ReconciledOnly       bool
	ForceOutflowNegative bool
}

// DefaultConfig is the official config of a fresh project.
func DefaultConfig() Config {
	return Config{
		Formula:              DefaultFormula,
		UseRecordedOpening:   true,
		UseComputedOpening:   false,
		ReconciledOnly:       true,
		ForceOutflowNegative: true,
	}
}

// String renders the config on one line, for logs and the audit trail.
func (c Config) String() string {
	return fmt.Sprintf("formula=%q recorded_opening=%t computed_opening=%t reconciled_only=%t force_outflow_negative=%t",
		c.Formula, c.UseRecordedOpening, c.UseComputedOpening, c.ReconciledOnly, c.ForceOutflowNegative)
}
