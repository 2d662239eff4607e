package flow

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/sells-group/fundamentals/internal/model"
	"github.com/sells-group/fundamentals/internal/statement"
	"github.com/sells-group/fundamentals/internal/units"
)

// percentBase names the node a role's percentage is measured against.
var percentBase = map[Role]Role{
	RoleSegment:      RoleRevenue,
	RoleCOGS:         RoleRevenue,
	RoleGrossProfit:  RoleRevenue,
	RoleOpex:         RoleGrossProfit,
	RoleEBIT:         RoleGrossProfit,
	RolePreTaxProfit: RoleEBIT,
	RoleTax:          RolePreTaxProfit,
	RoleNetProfit:    RolePreTaxProfit,
}

var baseName = map[Role]string{
	RoleRevenue:      "Revenue",
	RoleGrossProfit:  "Gross profit",
	RoleEBIT:         "EBIT",
	RolePreTaxProfit: "PBT",
}

// Build converts a statement table into a styled flow graph. Every required
// anchor must appear exactly once; segment rows are optional.
func Build(table statement.Table, meta model.StatementMeta) (*Graph, error) {
	g, err := build(table, meta)
	if err != nil {
		return nil, err
	}
	Layout(g)
	Style(g, DefaultPalette)
	return g, nil
}

func build(table statement.Table, meta model.StatementMeta) (*Graph, error) {
	meta = meta.WithDefaults()
	if _, ok := units.TDivisor(meta.Unit); !ok {
		zap.L().Warn("flow: unknown statement unit, assuming million",
			zap.String("company", meta.Company), zap.String("unit", meta.Unit))
	}

	// amount holds each fixed role's magnitude: cost rows as absolute values,
	// profit rows as reported.
	amount := make(map[Role]float64, len(stages))
	names := make(map[Role]string, len(stages))
	for _, s := range stages {
		row, err := table.Require(s.anchor)
		if err != nil {
			return nil, err
		}
		v := row.Current
		if s.cost {
			v = math.Abs(v)
		}
		amount[s.role] = v
		names[s.role] = row.DisplayName
	}
	segments := table.All(model.AnchorSegment)

	nSeg := len(segments)
	nodes := make([]Node, 0, nSeg+len(stages))
	for _, seg := range segments {
		nodes = append(nodes, Node{Role: RoleSegment, Name: seg.DisplayName})
	}
	index := make(map[Role]int, len(stages))
	for _, s := range stages {
		index[s.role] = len(nodes)
		nodes = append(nodes, Node{Role: s.role, Name: names[s.role]})
	}
	for i := range nodes {
		nodes[i].ID = i
	}

	edges := make([]Edge, 0, nSeg+len(stages)-1)
	link := func(from, to int, v float64) {
		edges = append(edges, Edge{Source: from, Target: to, Value: weight(v)})
	}
	for i, seg := range segments {
		link(i, index[RoleRevenue], seg.Current)
	}
	link(index[RoleRevenue], index[RoleCOGS], amount[RoleCOGS])
	link(index[RoleRevenue], index[RoleGrossProfit], amount[RoleGrossProfit])
	link(index[RoleGrossProfit], index[RoleOpex], amount[RoleOpex])
	link(index[RoleGrossProfit], index[RoleEBIT], amount[RoleEBIT])
	// Everything between operating profit and pre-tax profit travels as one
	// pass-through edge.
	link(index[RoleEBIT], index[RolePreTaxProfit], amount[RolePreTaxProfit])
	link(index[RolePreTaxProfit], index[RoleTax], amount[RoleTax])
	link(index[RolePreTaxProfit], index[RoleNetProfit], amount[RoleNetProfit])

	// Node magnitude is the largest edge touching it.
	for _, e := range edges {
		nodes[e.Source].Value = math.Max(nodes[e.Source].Value, e.Value)
		nodes[e.Target].Value = math.Max(nodes[e.Target].Value, e.Value)
	}

	for i := range nodes {
		n := &nodes[i]
		n.ValueLabel = units.StatementValue(meta.Currency, n.Value, meta.Unit)
		if n.Role == RoleRevenue {
			n.PercentLabel = "100.0% of Revenue"
			continue
		}
		num := amount[n.Role]
		if n.Role == RoleSegment {
			num = segments[i].Current
		}
		base := percentBase[n.Role]
		n.PercentLabel = percentLabel(num, amount[base], baseName[base])
	}

	outflow := make(map[int]float64, len(nodes))
	for _, e := range edges {
		outflow[e.Source] += e.Value
	}
	for i := range edges {
		if total := outflow[edges[i].Source]; total != 0 {
			edges[i].PercentOfSource = 100 * edges[i].Value / total
		}
	}

	return &Graph{
		Company:     meta.Company,
		PeriodLabel: meta.PeriodLabel,
		Currency:    meta.Currency,
		Unit:        meta.Unit,
		Nodes:       nodes,
		Edges:       edges,
	}, nil
}

// weight clamps a flow to a drawable, non-negative value. Losses reported on
// profit rows therefore carry no width; their node labels still show the sign.
func weight(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

// percentLabel renders "12.3% of <base>", or "" when the base is zero.
func percentLabel(num, denom float64, base string) string {
	if denom == 0 || math.IsNaN(denom) {
		return ""
	}
	return fmt.Sprintf("%.1f%% of %s", 100*num/denom, base)
}
