package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/safari-erp/safari/internal/auditlog"
	"github.com/safari-erp/safari/internal/project"
	"github.com/safari-erp/safari/internal/render"
)

func newAuditCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Simulate alternative DFC configs and promote one to official",
	}
	cmd.AddCommand(
		newAuditShowCommand(opts),
		newAuditSimulateCommand(opts),
		newAuditPromoteCommand(opts),
	)
	return cmd
}

func newAuditShowCommand(opts *rootOptions) *cobra.Command {
	var last int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the official config and the latest audit records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.open(cmd)
			if err != nil {
				return err
			}
			recs, err := auditlog.Last(p.Root(), last)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			theme := render.ThemeFor(out)
			fmt.Fprintf(out, "%s\n  %s\n\n", theme.Heading("Configuração oficial"), p.Official())
			fmt.Fprintf(out, "%s\n", theme.Heading("Registro de auditoria"))
			return render.AuditRecords(out, recs, theme)
		},
	}

	cmd.Flags().IntVarP(&last, "last", "n", 20, "number of records, newest first (-1 for all)")
	return cmd
}

func newAuditSimulateCommand(opts *rootOptions) *cobra.Command {
	var period periodFlags
	var overrides configFlags
	var actor string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the DFC with the official config plus overrides, without changing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			per, err := period.period()
			if err != nil {
				return err
			}
			p, err := opts.open(cmd)
			if err != nil {
				return err
			}
			cfg, err := overrides.apply(cmd, p.Official())
			if err != nil {
				return err
			}

			rep, err := p.Simulate(actorOrDefault(actor, p), cfg, per)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			theme := render.ThemeFor(out)
			fmt.Fprintf(out, "%s\n  %s\n\n", theme.Heading("Simulação"), cfg)
			if err := render.Text(out, rep, render.Options{Theme: theme}); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s\n", theme.Heading(fmt.Sprintf("Maiores lançamentos (até %d)", project.TopMovements)))
			return render.Movements(out, rep.Top(project.TopMovements), theme)
		},
	}

	period.register(cmd)
	overrides.register(cmd)
	cmd.Flags().StringVar(&actor, "actor", "", "who ran the simulation (default git.author_name)")
	return cmd
}

func newAuditPromoteCommand(opts *rootOptions) *cobra.Command {
	var overrides configFlags
	var actor string

	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Make the official config plus overrides the new official config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.open(cmd)
			if err != nil {
				return err
			}
			cfg, err := overrides.apply(cmd, p.Official())
			if err != nil {
				return err
			}

			rec, err := p.Promote(actorOrDefault(actor, p), cfg)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuração oficial atualizada: %s\n", rec.Config)
			if rec.CommitHash != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "commit %s\n", rec.CommitHash)
			}
			return nil
		},
	}

	overrides.register(cmd)
	cmd.Flags().StringVar(&actor, "actor", "", "who promoted the config (default git.author_name)")
	return cmd
}

func actorOrDefault(actor string, p *project.Project) string {
	if actor != "" {
		return actor
	}
	return p.Config().Git.AuthorName
}
