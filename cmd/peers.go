package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/fundamentals/internal/dashboard"
	"github.com/sells-group/fundamentals/internal/peers"
)

var (
	peersXLSX string
	peersJSON bool
)

var peersCmd = &cobra.Command{
	Use:   "peers CODE",
	Short: "Compare a company's core metrics with its largest sector peers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context(), cfg, "peers")
		if err != nil {
			return err
		}
		defer env.Close()

		return runPeers(cmd.Context(), cmd.OutOrStdout(), env.Service, args[0])
	},
}

func runPeers(ctx context.Context, w io.Writer, svc *dashboard.Service, code string) error {
	t, err := svc.Peers(ctx, code)
	if err != nil {
		return err
	}
	if t.Warning != "" {
		_, err := fmt.Fprintln(w, t.Warning)
		return err
	}

	if peersXLSX != "" {
		if err := writePeersWorkbook(peersXLSX, t); err != nil {
			return err
		}
		zap.L().Info("peer workbook written", zap.String("code", t.Code), zap.String("path", peersXLSX))
	}
	if peersJSON {
		return writeIndented(w, t)
	}
	return writePeersText(w, t)
}

func writePeersWorkbook(path string, t *peers.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	if err := peers.WriteXLSX(f, t); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "close %s", path)
}

func writePeersText(w io.Writer, t *peers.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Header(), "\t"))
	for _, row := range t.Rows {
		cells := []string{string(row.Segment), row.Metric}
		for _, c := range row.Cells {
			cells = append(cells, c.Text)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func init() {
	peersCmd.Flags().StringVar(&peersXLSX, "xlsx", "", "also write the table to this Excel file")
	peersCmd.Flags().BoolVar(&peersJSON, "json", false, "print the table as JSON")
	rootCmd.AddCommand(peersCmd)
}
