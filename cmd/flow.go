package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/sells-group/fundamentals/internal/flow"
	"github.com/sells-group/fundamentals/internal/render"
	"github.com/sells-group/fundamentals/internal/statement"
)

var (
	flowJSON   bool
	flowFigure bool
)

var flowCmd = &cobra.Command{
	Use:   "flow CODE",
	Short: "Print the income statement flow for a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("flow"); err != nil {
			return err
		}
		return runFlow(cmd.Context(), cmd.OutOrStdout(), newLoader(cfg), args[0])
	},
}

func runFlow(ctx context.Context, w io.Writer, loader statement.Loader, code string) error {
	st, err := loader.Load(ctx, code)
	if err != nil {
		return err
	}
	g, err := flow.Build(st.Table, st.Meta)
	if err != nil {
		return err
	}

	switch {
	case flowFigure:
		return writeIndented(w, render.Sankey(g))
	case flowJSON:
		return writeIndented(w, g)
	default:
		return render.FlowText(w, g)
	}
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	flowCmd.Flags().BoolVar(&flowJSON, "json", false, "print the graph as JSON")
	flowCmd.Flags().BoolVar(&flowFigure, "figure", false, "print the Plotly figure as JSON")
	rootCmd.AddCommand(flowCmd)
}
