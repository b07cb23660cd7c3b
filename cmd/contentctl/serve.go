package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/annel0/voxel-content/internal/api"
	"github.com/annel0/voxel-content/internal/content"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr      string
		withWorld bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the admin REST API until interrupted",
		Long: `Serve exposes the registry (tags, descriptors, round trips) over
HTTP. With --world the configured world is loaded and stepped in the
background; its stats, blocks and event queue become available under
/api/world.

Example:
  contentctl serve --addr :8080 --world`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = fmt.Sprintf(":%d", a.cfg.API.GetAPIPort())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			conf := api.Config{Addr: addr, Registry: content.Default()}
			if withWorld {
				s, err := a.openWorld(ctx)
				if err != nil {
					return err
				}
				defer s.Close()
				conf.World = s.world

				done := make(chan error, 1)
				go func() { done <- s.world.Run(ctx, 50*time.Millisecond, time.Minute) }()
				defer func() {
					stop()
					if err := <-done; err != nil {
						fmt.Fprintln(cmd.ErrOrStderr(), "world:", err)
					}
				}()
			}

			return api.NewRestServer(conf).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: :<api.port>)")
	cmd.Flags().BoolVar(&withWorld, "world", false, "load and run the configured world while serving")
	return cmd
}
