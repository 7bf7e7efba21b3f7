package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/safari-erp/safari/internal/balances"
	"github.com/safari-erp/safari/internal/render"
)

func newBalanceCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Recorded cash balances (saldos lançados)",
	}
	cmd.AddCommand(newBalanceAddCommand(opts), newBalanceListCommand(opts))
	return cmd
}

func newBalanceAddCommand(opts *rootOptions) *cobra.Command {
	var date, typ, amount, note string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an Inicial or Final balance; replaces one with the same date and type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.open(cmd)
			if err != nil {
				return err
			}

			d, err := parseDate(date)
			if err != nil {
				return err
			}
			t, err := balances.ParseType(typ)
			if err != nil {
				return err
			}
			a, err := parseAmount(amount)
			if err != nil {
				return err
			}

			snap, err := p.Balances().Record(d, t, a, note)
			if err != nil {
				return err
			}
			if err := p.Balances().Save(p.Root()); err != nil {
				return err
			}
			msg := fmt.Sprintf("balances: %s %s", snap.Type, snap.Date.Format(dateLayout))
			if _, err := p.Commit(msg, balances.Path("")); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saldo %s #%d em %s: %s\n", snap.Type, snap.ID, snap.Date.Format(dateLayout), render.BRL(snap.Amount))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "reference date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&typ, "type", "", "Inicial or Final (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "balance amount, may be negative (required)")
	cmd.Flags().StringVar(&note, "note", "", "note")
	for _, f := range []string{"date", "type", "amount"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}

func newBalanceListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded balances, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.open(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return render.Snapshots(out, p.Snapshots(), render.ThemeFor(out))
		},
	}
}
