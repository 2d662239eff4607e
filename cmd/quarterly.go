package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sells-group/fundamentals/internal/dashboard"
	"github.com/sells-group/fundamentals/internal/render"
	"github.com/sells-group/fundamentals/internal/trend"
)

var (
	quarterlyLeft  string
	quarterlyRight string
	quarterlySpec  bool
	quarterlyList  bool
)

var quarterlyCmd = &cobra.Command{
	Use:   "quarterly CODE",
	Short: "Chart two quarterly fundamentals for a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context(), cfg, "quarterly")
		if err != nil {
			return err
		}
		defer env.Close()

		return runQuarterly(cmd.Context(), cmd.OutOrStdout(), env.Service, args[0])
	},
}

func runQuarterly(ctx context.Context, w io.Writer, svc *dashboard.Service, code string) error {
	if quarterlyList {
		params, err := svc.Parameters(ctx, code)
		if err != nil {
			return err
		}
		for _, p := range params {
			if _, err := fmt.Fprintln(w, p); err != nil {
				return err
			}
		}
		return nil
	}

	c, err := svc.Quarterly(ctx, code, trend.Selection{Left: quarterlyLeft, Right: quarterlyRight})
	if err != nil {
		return err
	}
	if c.Warning != "" {
		_, err := fmt.Fprintln(w, c.Warning)
		return err
	}
	if quarterlySpec {
		return writeIndented(w, render.TrendSpec(c))
	}
	if _, err := fmt.Fprintln(w, c.Caption); err != nil {
		return err
	}
	return writeIndented(w, c)
}

func init() {
	quarterlyCmd.Flags().StringVar(&quarterlyLeft, "left", "", "left axis parameter (default: revenue)")
	quarterlyCmd.Flags().StringVar(&quarterlyRight, "right", "", "right axis parameter (default: net income)")
	quarterlyCmd.Flags().BoolVar(&quarterlySpec, "spec", false, "print the Vega-Lite spec")
	quarterlyCmd.Flags().BoolVar(&quarterlyList, "list", false, "list available parameters")
	rootCmd.AddCommand(quarterlyCmd)
}
