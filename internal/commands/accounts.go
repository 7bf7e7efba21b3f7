package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/safari-erp/safari/internal/accounts"
	"github.com/safari-erp/safari/internal/render"
)

func newAccountsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Chart of accounts",
	}
	cmd.AddCommand(newAccountsImportCommand(opts), newAccountsListCommand(opts))
	return cmd
}

func newAccountsImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Replace the chart with a two-column (description, code) sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.open(cmd)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening chart: %w", err)
			}
			defer f.Close()

			chart, err := accounts.ImportChart(f)
			if err != nil {
				return err
			}
			if len(chart) == 0 {
				return errors.New("no accounts found in " + args[0])
			}

			if err := accounts.NewService(chart).Save(p.Root()); err != nil {
				return err
			}
			if _, err := p.Commit(fmt.Sprintf("accounts: import %d accounts", len(chart)), accounts.Path("")); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d accounts\n", len(chart))
			return nil
		},
	}
}

func newAccountsListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the chart of accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.open(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return render.Accounts(out, p.Chart(), render.ThemeFor(out))
		},
	}
}
