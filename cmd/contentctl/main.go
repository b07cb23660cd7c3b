// Package main provides contentctl, a CLI for inspecting the content
// registry and the worlds stored with it.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/annel0/voxel-content/internal/config"
	_ "github.com/annel0/voxel-content/internal/content/implementations"
	"github.com/annel0/voxel-content/internal/logging"
	"github.com/annel0/voxel-content/internal/observability"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app — состояние, общее для подкоманд одного запуска
type app struct {
	configFile string
	cfg        *config.Config
	shutdown   func(context.Context) error
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "contentctl",
		Short: "contentctl inspects voxel content types and worlds",
		Long: `contentctl works with the statically linked content registry:
it lists types by capability tag, round-trips payload bytes through
the registry and generates or inspects worlds in the configured store.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default: $CONTENT_CONFIG or built-in defaults)")

	root.AddCommand(newTagsCmd())
	root.AddCommand(newLookupCmd())
	root.AddCommand(newRoundTripCmd())
	root.AddCommand(newWorldCmd(a))
	root.AddCommand(newMetricsCmd(a))
	root.AddCommand(newServeCmd(a))
	return root
}

// init загружает конфигурацию, включает логирование и телеметрию
func (a *app) init(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	if err := logging.InitDefaultLoggerIn(cfg.Log.Dir, "contentctl"); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	console, ok := logging.ParseLevel(cfg.Log.ConsoleLevel)
	if !ok {
		console = logging.INFO
	}
	file, ok := logging.ParseLevel(cfg.Log.FileLevel)
	if !ok {
		file = logging.DEBUG
	}
	logging.SetDefaultLevels(console, file)
	for component, name := range cfg.Log.Components {
		level, ok := logging.ParseLevel(name)
		if !ok {
			return fmt.Errorf("log level %q for component %s", name, component)
		}
		logging.GetLoggerManager().SetLogLevel(component, level, level)
	}

	shutdown, err := observability.InitTelemetry(cmd.Context(), cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	a.shutdown = shutdown
	return nil
}

func (a *app) close(ctx context.Context) error {
	defer logging.CloseDefaultLogger()
	if a.shutdown == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return a.shutdown(ctx)
}
