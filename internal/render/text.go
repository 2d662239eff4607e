package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/sells-group/fundamentals/internal/flow"
)

// FlowText writes g as two aligned tables: nodes, then edges.
func FlowText(w io.Writer, g *flow.Graph) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "%s\n%s\n\n", g.Company, g.Title())
	fmt.Fprintln(tw, "ID\tROLE\tNAME\tVALUE\tSHARE")
	for _, n := range g.Nodes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", n.ID, n.Role, n.Name, n.ValueLabel, n.PercentLabel)
	}

	fmt.Fprintln(tw, "\nFROM\tTO\tVALUE\tOF SOURCE")
	for _, e := range g.Edges {
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%.1f%%\n", g.Nodes[e.Source].Name, g.Nodes[e.Target].Name, e.Value, e.PercentOfSource)
	}

	return eris.Wrap(tw.Flush(), "render: flush flow table")
}
