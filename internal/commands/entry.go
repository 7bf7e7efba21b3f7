package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/safari-erp/safari/internal/id"
	"github.com/safari-erp/safari/internal/journal"
	"github.com/safari-erp/safari/internal/model"
)

func newEntryCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Ledger entries (lançamentos)",
	}
	cmd.AddCommand(
		newEntryAddCommand(opts),
		newEntryStatusCommand(opts),
		newEntryMarkOverdueCommand(opts),
		newEntryImportCommand(opts),
	)
	return cmd
}

func newEntryAddCommand(opts *rootOptions) *cobra.Command {
	var competence, payment, amount, account, status string
	var params journal.AddParams

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an entry to its competence month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.open(cmd)
			if err != nil {
				return err
			}

			if params.CompetenceDate, err = parseDate(competence); err != nil {
				return err
			}
			if payment != "" {
				if params.PaymentDate, err = parseDate(payment); err != nil {
					return err
				}
			}
			if params.Amount, err = parseAmount(amount); err != nil {
				return err
			}
			params.AccountCode = account
			params.Status = model.EntryStatus(status)

			entryID, err := p.Journal().Add(params)
			if err != nil {
				return err
			}

			path := journal.MonthPath(params.CompetenceDate.Year(), int(params.CompetenceDate.Month()))
			if _, err := p.Commit("entries: add "+entryID, path); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), entryID)
			return nil
		},
	}

	cmd.Flags().StringVar(&competence, "competence", "", "competence date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&payment, "payment", "", "payment or due date, YYYY-MM-DD")
	cmd.Flags().StringVar(&amount, "amount", "", "positive amount with at most 2 decimals (required)")
	cmd.Flags().StringVar(&account, "account", "", "account code (required)")
	cmd.Flags().StringVar(&status, "status", "", "status; defaults to A receber / A pagar by nature")
	cmd.Flags().StringVar(&params.CostCenter, "cost-center", "", "cost center")
	cmd.Flags().StringVar(&params.Unit, "unit", "", "business unit")
	cmd.Flags().StringVar(&params.Project, "project", "", "project")
	cmd.Flags().StringVar(&params.Notes, "notes", "", "notes")
	for _, f := range []string{"competence", "amount", "account"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}

func newEntryStatusCommand(opts *rootOptions) *cobra.Command {
	var paidOn string

	cmd := &cobra.Command{
		Use:   "status <entry-id> <status>",
		Short: "Change an entry's status; settling sets the payment date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.open(cmd)
			if err != nil {
				return err
			}

			on := today()
			if paidOn != "" {
				if on, err = parseDate(paidOn); err != nil {
					return err
				}
			}

			e, err := p.Journal().SetStatus(args[0], model.EntryStatus(args[1]), on)
			if err != nil {
				return err
			}

			month, err := id.Month(e.ID)
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("entries: %s -> %s", e.ID, e.Status)
			if _, err := p.Commit(msg, journal.MonthPath(month.Year(), int(month.Month()))); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (pagamento %s)\n", e.ID, e.Status, formatOptionalDate(e.PaymentDate))
			return nil
		},
	}

	cmd.Flags().StringVar(&paidOn, "paid-on", "", "payment date for Pago/Recebido, YYYY-MM-DD (default today)")
	return cmd
}

func newEntryMarkOverdueCommand(opts *rootOptions) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "mark-overdue",
		Short: "Mark scheduled entries past their payment date as Atrasado",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.open(cmd)
			if err != nil {
				return err
			}

			day := today()
			if asOf != "" {
				if day, err = parseDate(asOf); err != nil {
					return err
				}
			}

			n, err := p.Journal().MarkOverdue(day)
			if err != nil {
				return err
			}
			if n > 0 {
				months, err := p.Journal().Months()
				if err != nil {
					return err
				}
				paths := make([]string, 0, len(months))
				for _, m := range months {
					paths = append(paths, journal.MonthPath(m.Year(), int(m.Month())))
				}
				if _, err := p.Commit(fmt.Sprintf("entries: mark %d overdue", n), paths...); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d entries marked %s\n", n, model.StatusOverdue)
			return nil
		},
	}

	cmd.Flags().StringVar(&asOf, "today", "", "reference date, YYYY-MM-DD (default today)")
	return cmd
}

func formatOptionalDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}
