package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/inventario/config"
	"github.com/yourusername/inventario/internal/delivery/cli"
	"github.com/yourusername/inventario/pkg/logger"
)

type rootOptions struct {
	file    string
	envFile string
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "inventario",
		Short:         "Gestión de inventario de productos y proveedores",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app) error {
				menu := cli.NewMenu(a.inventory, a.activity, cmd.InOrStdin(), cmd.OutOrStdout(), logger.Named(a.logger, "cli.menu"))
				return menu.Run(cmd.Context())
			})
		},
	}

	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "catalog JSON file (overrides INVENTORY_FILE)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "env file to load instead of .env")

	root.AddCommand(
		newImportCmd(opts),
		newExportCmd(opts),
		newHistoryCmd(opts),
	)
	return root
}

// withApp loads config, builds the logger and the app, runs fn and reports its error on stderr.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(*app) error) error {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "config:", err)
		return err
	}
	if opts.file != "" {
		cfg.InventoryFile = opts.file
	}

	baseLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "logger:", err)
		return err
	}
	zap.ReplaceGlobals(baseLogger)

	a, err := newApp(cfg, baseLogger)
	if err != nil {
		baseLogger.Error("failed to init app", zap.Error(err))
		fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
		return err
	}
	defer a.Close()

	if err := fn(a); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
		return err
	}
	return nil
}
