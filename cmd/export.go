package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/fundamentals/internal/flow"
	"github.com/sells-group/fundamentals/internal/render"
	"github.com/sells-group/fundamentals/internal/statement"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the flow figure of every configured company as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("export"); err != nil {
			return err
		}
		return exportFigures(cmd.Context(), newLoader(cfg), cfg.Companies, exportOut, cfg.Export.Concurrency)
	},
}

// exportFigures renders each company independently. One company's failure
// is logged and does not stop the others; the command fails if any did.
func exportFigures(ctx context.Context, loader statement.Loader, codes []string, dir string, concurrency int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "create %s", dir)
	}

	zap.L().Info("exporting flow figures",
		zap.Int("companies", len(codes)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	var succeeded, failed atomic.Int64

	for _, code := range codes {
		g.Go(func() error {
			log := zap.L().With(zap.String("code", code))

			path, err := exportFigure(gctx, loader, code, dir)
			if err != nil {
				failed.Add(1)
				log.Error("export failed", zap.Error(err))
				return nil
			}

			succeeded.Add(1)
			log.Info("figure written", zap.String("path", path))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "export")
	}

	zap.L().Info("export complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	if n := failed.Load(); n > 0 {
		return eris.Errorf("export: %d of %d companies failed", n, len(codes))
	}
	return nil
}

func exportFigure(ctx context.Context, loader statement.Loader, code, dir string) (string, error) {
	st, err := loader.Load(ctx, code)
	if err != nil {
		return "", err
	}
	g, err := flow.Build(st.Table, st.Meta)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(render.Sankey(g))
	if err != nil {
		return "", eris.Wrap(err, "marshal figure")
	}
	path := filepath.Join(dir, st.Code+".figure.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", eris.Wrapf(err, "write %s", path)
	}
	return path, nil
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "figures", "output directory")
	rootCmd.AddCommand(exportCmd)
}
