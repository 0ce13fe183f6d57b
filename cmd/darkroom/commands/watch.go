package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/darkroom/internal/app"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func (c *CLI) newWatchCmd() *cobra.Command {
	var input, metricsAddr string

	cmd := &cobra.Command{
		Use:   "watch [target]",
		Short: "Re-render whenever the document or input image changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, ctx := errgroup.WithContext(cmd.Context())

			if metricsAddr != "" {
				srv := &http.Server{
					Addr:              metricsAddr,
					Handler:           c.components.Metrics.Handler(),
					ReadHeaderTimeout: time.Second,
				}
				g.Go(func() error {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return zerr.With(zerr.Wrap(err, "metrics server failed"), "addr", metricsAddr)
					}
					return nil
				})
				g.Go(func() error {
					<-ctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
					defer cancel()
					return srv.Shutdown(shutdownCtx)
				})
			}

			g.Go(func() error {
				return c.components.App.Watch(ctx, app.WatchOptions{
					Document: c.document,
					Input:    input,
					Target:   targetArg(args),
				})
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Image file for the document's input node")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	return cmd
}
