package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/safari-erp/safari/internal/dfc"
)

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// parseAmount accepts "1234.56" and, when no dot is present, the Brazilian
// decimal comma "1234,56".
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// parseFormula accepts a formula by name or by its 1-based menu position.
func parseFormula(s string) (dfc.Formula, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		all := dfc.Formulas()
		if n < 1 || n > len(all) {
			return "", fmt.Errorf("formula %d out of range 1-%d", n, len(all))
		}
		return all[n-1], nil
	}
	f, ok := dfc.ParseFormula(s)
	if !ok {
		return "", fmt.Errorf("unknown formula %q", s)
	}
	return f, nil
}

// periodFlags binds --from and --to.
type periodFlags struct {
	from, to string
}

func (p *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.from, "from", "", "period start, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&p.to, "to", "", "period end, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
}

func (p *periodFlags) period() (dfc.Period, error) {
	return dfc.ParsePeriod(p.from, p.to)
}

// configFlags binds the engine toggles. Only flags set on the command line
// override the base config.
type configFlags struct {
	formula       string
	recorded      bool
	computed      bool
	reconciled    bool
	forceNegative bool
}

func (c *configFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.formula, "formula", "", "closing formula, by name or number 1-5")
	cmd.Flags().BoolVar(&c.recorded, "recorded", false, "use the recorded opening balance")
	cmd.Flags().BoolVar(&c.computed, "computed", false, "add the opening balance computed from history")
	cmd.Flags().BoolVar(&c.reconciled, "reconciled", false, "consider settled entries only")
	cmd.Flags().BoolVar(&c.forceNegative, "force-negative", false, "force outflows negative")
}

func (c *configFlags) apply(cmd *cobra.Command, base dfc.Config) (dfc.Config, error) {
	cfg := base
	if cmd.Flags().Changed("formula") {
		f, err := parseFormula(c.formula)
		if err != nil {
			return cfg, err
		}
		cfg.Formula = f
	}
	if cmd.Flags().Changed("recorded") {
		cfg.UseRecordedOpening = c.recorded
	}
	if cmd.Flags().Changed("computed") {
		cfg.UseComputedOpening = c.computed
	}
	if cmd.Flags().Changed("reconciled") {
		cfg.ReconciledOnly = c.reconciled
	}
	if cmd.Flags().Changed("force-negative") {
		cfg.ForceOutflowNegative = c.forceNegative
	}
	return cfg, nil
}

// today is the local calendar date at midnight UTC, the form every stored
// date takes.
func today() time.Time {
	return dfc.Day(time.Now())
}
