package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/safari-erp/safari/internal/dfc"
	"github.com/safari-erp/safari/internal/render"
)

// Report formats accepted by --format.
const (
	formatText     = "text"
	formatMarkdown = "markdown"
	formatHTML     = "html"
	formatJSON     = "json"
)

func newDFCCommand(opts *rootOptions) *cobra.Command {
	var period periodFlags
	var details, asJSON bool
	var format string

	cmd := &cobra.Command{
		Use:   "dfc",
		Short: "Print the official cash-flow statement for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			per, err := period.period()
			if err != nil {
				return err
			}
			if asJSON {
				format = formatJSON
			}

			p, err := opts.open(cmd)
			if err != nil {
				return err
			}
			rep, err := p.Report(p.Official(), per)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), rep, format, details)
		},
	}

	period.register(cmd)
	cmd.Flags().BoolVar(&details, "details", false, "list the period's entries")
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, markdown, html or json")
	cmd.Flags().BoolVar(&asJSON, "json", false, "shorthand for --format json")

	return cmd
}

func writeReport(w io.Writer, rep *dfc.Report, format string, details bool) error {
	switch format {
	case formatText:
		return render.Text(w, rep, render.Options{Details: details, Theme: render.ThemeFor(w)})
	case formatMarkdown:
		return render.Markdown(w, rep, render.Options{Details: details})
	case formatHTML:
		return render.HTML(w, rep, render.Options{Details: details})
	case formatJSON:
		return render.JSON(w, rep, details)
	default:
		return fmt.Errorf("unknown format %q: want text, markdown, html or json", format)
	}
}
