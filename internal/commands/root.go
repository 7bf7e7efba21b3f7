package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/safari-erp/safari/internal/buildinfo"
	"github.com/safari-erp/safari/internal/config"
	"github.com/safari-erp/safari/internal/logging"
	"github.com/safari-erp/safari/internal/project"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	repo      string
	logLevel  string
	logFormat string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "safari",
		Short:   "Cash-flow statement (DFC) for small businesses",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.repo, "repo", ".", "project directory")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides safari.yaml and LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format: text or json (overrides safari.yaml and LOG_FORMAT)")

	rootCmd.AddCommand(
		newInitCommand(),
		newAccountsCommand(opts),
		newEntryCommand(opts),
		newBalanceCommand(opts),
		newDFCCommand(opts),
		newAuditCommand(opts),
		newServeCommand(opts),
	)

	return rootCmd
}

// open loads the project at --repo with a logger configured from
// safari.yaml, the environment and the flags, in increasing precedence.
func (o *rootOptions) open(cmd *cobra.Command) (*project.Project, error) {
	root, err := filepath.Abs(o.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(config.Path(root))
	if err != nil {
		return nil, fmt.Errorf("%s is not a Safári project (run `safari init`): %w", root, err)
	}
	cfg.ApplyEnv(os.Getenv)

	p, err := project.Open(root, o.logger(cmd, cfg))
	if err != nil {
		return nil, err
	}
	p.Config().ApplyEnv(os.Getenv)
	return p, nil
}

func (o *rootOptions) logger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	level, format := cfg.Logging.Level, cfg.Logging.Format
	if o.logLevel != "" {
		level = o.logLevel
	}
	if o.logFormat != "" {
		format = o.logFormat
	}
	return logging.New(cmd.ErrOrStderr(), level, format)
}
