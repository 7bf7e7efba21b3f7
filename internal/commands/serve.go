package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/safari-erp/safari/internal/httpapi"
	"github.com/safari-erp/safari/internal/project"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart, balances and DFC over a read-only HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.open(cmd)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = p.Config().Server.Addr
			}
			logger := p.Logger()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              addr,
				Handler:           httpapi.New(reopen(p.Root(), logger), logger).Handler(),
				ReadTimeout:       5 * time.Second,
				ReadHeaderTimeout: 5 * time.Second,
				WriteTimeout:      10 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("safari listening", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Error("server shutdown error", "err", err)
					return err
				}
				logger.Info("server stopped")
				return nil
			case err := <-errCh:
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr, or SAFARI_ADDR)")
	return cmd
}

// reopen loads the project afresh for every request, so the API serves
// what `safari dfc` would print at that moment.
func reopen(root string, logger *slog.Logger) httpapi.Opener {
	return func() (httpapi.Source, error) {
		p, err := project.Open(root, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}
