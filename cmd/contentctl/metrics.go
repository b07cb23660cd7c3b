package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/annel0/voxel-content/internal/eventbus"
	"github.com/annel0/voxel-content/internal/observability"
)

func newMetricsCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Serve Prometheus /metrics until interrupted",
		Long: `Metrics serves the process metrics (content counters, eventbus
counters) over HTTP. With --world the configured world is loaded and
stepped, so the counters reflect live use.

Example:
  contentctl metrics --addr :2112`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = fmt.Sprintf(":%d", a.cfg.Metrics.GetMetricsPort())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			withWorld, _ := cmd.Flags().GetBool("world")
			if withWorld {
				s, err := a.openWorld(ctx)
				if err != nil {
					return err
				}
				defer s.Close()

				if s.bus != nil {
					exporter := eventbus.NewMetricsExporter(s.bus, time.Second)
					defer exporter.Stop()
				}

				done := make(chan error, 1)
				go func() { done <- s.world.Run(ctx, 50*time.Millisecond, time.Minute) }()
				defer func() {
					stop()
					if err := <-done; err != nil {
						fmt.Fprintln(cmd.ErrOrStderr(), "world:", err)
					}
				}()
			}

			return observability.ServeMetrics(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: :<metrics.port>)")
	cmd.Flags().Bool("world", false, "load and run the configured world while serving")
	return cmd
}
