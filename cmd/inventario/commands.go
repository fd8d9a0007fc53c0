package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/inventario/internal/usecase"
)

// stdinSource is the import argument that reads the workbook from stdin
const stdinSource = "-"

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx|->",
		Short: "Añade al inventario los productos de una hoja de cálculo y guarda",
		Long:  "Añade al inventario los productos de una hoja de cálculo y guarda. Con \"-\" la hoja se lee de la entrada estándar.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				ctx := cmd.Context()
				// a malformed catalog must not be overwritten by the save below
				if err := a.inventory.Load(ctx); err != nil {
					return err
				}

				report, err := importWorkbook(ctx, a.inventory, args[0], cmd.InOrStdin())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Productos añadidos: %d\n", report.Added)
				if len(report.Duplicates) > 0 {
					fmt.Fprintf(out, "Códigos ya existentes (omitidos): %s\n", strings.Join(report.Duplicates, ", "))
				}
				for _, rej := range report.Rejected {
					fmt.Fprintf(out, "Fila %d omitida: %s\n", rej.Row, rej.Reason)
				}

				a.record(ctx, "import", fmt.Sprintf("%s: %d added", args[0], report.Added))

				if report.Added == 0 {
					return nil
				}
				if err := a.inventory.Save(ctx); err != nil {
					return err
				}
				fmt.Fprintf(out, "Inventario guardado en %s.\n", a.inventory.Source())
				return nil
			})
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Exporta el inventario a una hoja de cálculo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				ctx := cmd.Context()
				if err := a.inventory.Load(ctx); err != nil {
					return err
				}
				if err := a.inventory.ExportExcel(ctx, args[0]); err != nil {
					return err
				}
				a.record(ctx, "export", args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "Inventario exportado a %s.\n", args[0])
				return nil
			})
		},
	}
}

func importWorkbook(ctx context.Context, inventory usecase.InventoryUseCase, source string, stdin io.Reader) (*usecase.ImportReport, error) {
	if source != stdinSource {
		return inventory.ImportExcel(ctx, source)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return inventory.ImportExcelData(ctx, "stdin", data)
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var (
		limit    int
		clearAll bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Muestra las últimas operaciones registradas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app) error {
				if clearAll {
					if err := a.activity.Clear(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Historial borrado.")
					return nil
				}

				activities, err := a.activity.Recent(cmd.Context(), limit)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(activities) == 0 {
					fmt.Fprintln(out, "Sin operaciones registradas.")
					return nil
				}
				for _, act := range activities {
					status := "ok"
					if act.Failed {
						status = "error"
					}
					fmt.Fprintf(out, "%s  %-12s %-5s %s\n", act.Timestamp.Format("2006-01-02 15:04:05"), act.Action, status, act.Details)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show (0 = all)")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete every recorded entry")
	return cmd
}
