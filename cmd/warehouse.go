package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/fundamentals/internal/warehouse"
)

var (
	seedKind   string
	seedAppend bool
)

var warehouseCmd = &cobra.Command{
	Use:   "warehouse",
	Short: "Manage a local fundamentals warehouse",
}

var warehouseMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the fundamentals tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, closeFn, err := openWriter(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		if err := w.Migrate(cmd.Context()); err != nil {
			return err
		}
		zap.L().Info("warehouse migrated", zap.String("driver", cfg.Warehouse.Driver))
		return nil
	},
}

var warehouseSeedCmd = &cobra.Command{
	Use:   "seed FILE...",
	Short: "Load CSV, XLSX or JSON rows into the warehouse",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, closeFn, err := openWriter(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		if pg, ok := w.(*warehouse.PostgresSource); ok {
			pg.Append = seedAppend
		}
		return seedFiles(cmd.Context(), w, warehouse.Kind(seedKind), args)
	},
}

func seedFiles(ctx context.Context, w warehouse.Writer, kind warehouse.Kind, paths []string) error {
	var total int64
	for _, path := range paths {
		n, err := warehouse.Seed(ctx, w, kind, path)
		if err != nil {
			return err
		}
		total += n
	}
	zap.L().Info("seed complete", zap.Int("files", len(paths)), zap.Int64("rows", total))
	return nil
}

// openWriter opens the configured backend as a Writer. BigQuery tables are
// managed outside this tool.
func openWriter(ctx context.Context) (warehouse.Writer, func(), error) {
	if err := cfg.Validate("warehouse"); err != nil {
		return nil, nil, err
	}
	src, err := warehouse.Open(ctx, cfg.WarehouseOptions())
	if err != nil {
		return nil, nil, err
	}
	w, ok := src.(warehouse.Writer)
	if !ok {
		_ = src.Close()
		return nil, nil, eris.Errorf("warehouse: driver %s does not support migrate or seed", cfg.Warehouse.Driver)
	}
	return w, func() { _ = src.Close() }, nil
}

func init() {
	warehouseSeedCmd.Flags().StringVar(&seedKind, "kind", string(warehouse.KindFundamentals), "row kind: fundamentals or quarterly")
	warehouseSeedCmd.Flags().BoolVar(&seedAppend, "append", false, "postgres only: bulk COPY without upserting")
	warehouseCmd.AddCommand(warehouseMigrateCmd, warehouseSeedCmd)
	rootCmd.AddCommand(warehouseCmd)
}
