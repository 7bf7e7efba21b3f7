package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/safari-erp/safari/internal/id"
	"github.com/safari-erp/safari/internal/importer"
	"github.com/safari-erp/safari/internal/journal"
	"github.com/safari-erp/safari/internal/project"
)

func newEntryImportCommand(opts *rootOptions) *cobra.Command {
	var format string
	var reconciled, dryRun, strict bool
	var remap map[string]string

	cmd := &cobra.Command{
		Use:   "import [file.csv...]",
		Short: "Import entries from sheet exports (default: every CSV in import/)",
		Long: `Import entries from the entries sheet exported as CSV. Columns are
matched by header: Competência, Data Pagamento, Valor (R$) and Codigo Natureza
are required; Plano de Natureza Financeira, Centro de Custo, Empresa and
Código Contrato are optional.

Rows with an unknown code can be pointed at an existing account with
--map OLD=NEW. Files read from import/ move to import/processed/ once imported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.open(cmd)
			if err != nil {
				return err
			}

			parser := importer.DefaultRegistry().Get(format)
			if parser == nil {
				return fmt.Errorf("unknown format %q", format)
			}

			files, fromDir, err := importFiles(p.Root(), args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import")
				return nil
			}

			out := cmd.OutOrStdout()
			var added []string
			touched := map[string]bool{}
			for _, path := range files {
				ids, err := importFile(out, p, parser, path, importer.Options{Reconciled: reconciled, Remap: remap}, dryRun, strict)
				added = append(added, ids...)
				for _, entryID := range ids {
					touched[monthPathOf(entryID)] = true
				}
				if err != nil {
					return commitImport(p, added, touched, fmt.Errorf("%s: %w", filepath.Base(path), err))
				}
				if fromDir && !dryRun {
					if err := importer.MarkProcessed(p.Root(), filepath.Base(path)); err != nil {
						return commitImport(p, added, touched, err)
					}
					touched[importer.Dir] = true
				}
			}
			return commitImport(p, added, touched, nil)
		},
	}

	cmd.Flags().StringVar(&format, "format", "planilha", "sheet format")
	cmd.Flags().BoolVar(&reconciled, "reconciled", false, "import as settled (Recebido / Pago)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "check the sheet without writing entries")
	cmd.Flags().BoolVar(&strict, "strict", false, "refuse the whole file when any row is rejected")
	cmd.Flags().StringToStringVar(&remap, "map", nil, "replace an unknown account code, OLD=NEW (repeatable)")

	return cmd
}

// importFiles returns the files named on the command line or, with none,
// the CSVs waiting in import/.
func importFiles(root string, args []string) (files []string, fromDir bool, err error) {
	if len(args) > 0 {
		return args, false, nil
	}
	found, err := importer.Scan(root)
	if err != nil {
		return nil, false, err
	}
	for _, f := range found {
		files = append(files, f.Path)
	}
	sort.Strings(files)
	return files, true, nil
}

func importFile(w io.Writer, p *project.Project, parser importer.Parser, path string, opts importer.Options, dryRun, strict bool) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sheet: %w", err)
	}
	defer f.Close()

	res, err := parser.Parse(f)
	if err != nil {
		return nil, err
	}
	plan := importer.Check(res.Rows, p.Accounts(), opts)

	fmt.Fprintf(w, "%s: %d ready, %d divergent, %d rejected, %d dropped\n",
		filepath.Base(path), len(plan.Ready), len(plan.Divergent), len(plan.Rejected), len(res.Dropped))
	for _, line := range res.Dropped {
		fmt.Fprintf(w, "  line %d: missing or unreadable date or amount\n", line)
	}
	for _, d := range plan.Divergent {
		fmt.Fprintf(w, "  line %d: description %q differs from chart %q (chart kept)\n", d.Row.Line, d.Row.Description, d.ChartDescription)
	}
	for _, r := range plan.Rejected {
		fmt.Fprintf(w, "  line %d: %s\n", r.Row.Line, r.Reason)
	}

	if strict && len(plan.Rejected) > 0 {
		return nil, errors.New("rows rejected; fix them or use --map")
	}
	if dryRun {
		return nil, nil
	}

	ids, err := importer.Apply(p.Journal(), plan.Ready)
	if len(ids) > 0 {
		fmt.Fprintf(w, "  added %s\n", strings.Join(ids, ", "))
	}
	return ids, err
}

// commitImport commits whatever was written, then reports cause.
func commitImport(p *project.Project, added []string, touched map[string]bool, cause error) error {
	if len(touched) > 0 {
		paths := make([]string, 0, len(touched))
		for path := range touched {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		if _, err := p.Commit(fmt.Sprintf("entries: import %d entries", len(added)), paths...); err != nil {
			return errors.Join(cause, err)
		}
	}
	return cause
}

func monthPathOf(entryID string) string {
	m, err := id.Month(entryID)
	if err != nil {
		return ""
	}
	return journal.MonthPath(m.Year(), int(m.Month()))
}
