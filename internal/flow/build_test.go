package flow

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/fundamentals/internal/model"
	"github.com/sells-group/fundamentals/internal/statement"
)

type amounts struct {
	rev, cogs, gp, opex, ebit, pbt, tax, net float64
}

var example = amounts{rev: 1000, cogs: -400, gp: 600, opex: -300, ebit: 300, pbt: 280, tax: -70, net: 210}

func tableOf(a amounts, segments ...float64) statement.Table {
	var t statement.Table
	for i, v := range segments {
		t = append(t, model.LineItemRecord{Anchor: model.AnchorSegment, DisplayName: fmt.Sprintf("Segment %d", i+1), Current: v})
	}
	return append(t,
		model.LineItemRecord{Anchor: model.AnchorRevenue, DisplayName: "Revenue", Current: a.rev},
		model.LineItemRecord{Anchor: model.AnchorCOGS, DisplayName: "COGS", Current: a.cogs},
		model.LineItemRecord{Anchor: model.AnchorGrossProfit, DisplayName: "Gross profit", Current: a.gp},
		model.LineItemRecord{Anchor: model.AnchorOpex, DisplayName: "Operating expenses", Current: a.opex},
		model.LineItemRecord{Anchor: model.AnchorEBIT, DisplayName: "EBIT", Current: a.ebit},
		model.LineItemRecord{Anchor: model.AnchorPreTaxProfit, DisplayName: "Profit before tax", Current: a.pbt},
		model.LineItemRecord{Anchor: model.AnchorTax, DisplayName: "Income tax", Current: a.tax},
		model.LineItemRecord{Anchor: model.AnchorNetProfit, DisplayName: "Net profit", Current: a.net},
	)
}

var testMeta = model.StatementMeta{Company: "PT Contoh Tbk", PeriodLabel: "FY 2024"}

func mustNode(t *testing.T, g *Graph, r Role) Node {
	t.Helper()
	n, ok := g.NodeByRole(r)
	require.True(t, ok, "node %s", r)
	return n
}

func TestBuild_Example(t *testing.T) {
	g, err := Build(tableOf(example), testMeta)
	require.NoError(t, err)
	require.NoError(t, g.Validate())

	assert.Len(t, g.Nodes, 8)
	assert.Len(t, g.Edges, 7)
	assert.Equal(t, 0, g.SegmentCount())

	assert.Equal(t, "100.0% of Revenue", mustNode(t, g, RoleRevenue).PercentLabel)
	assert.Equal(t, "40.0% of Revenue", mustNode(t, g, RoleCOGS).PercentLabel)
	assert.Equal(t, "60.0% of Revenue", mustNode(t, g, RoleGrossProfit).PercentLabel)
	assert.Equal(t, "50.0% of Gross profit", mustNode(t, g, RoleOpex).PercentLabel)
	assert.Equal(t, "50.0% of Gross profit", mustNode(t, g, RoleEBIT).PercentLabel)
	assert.Equal(t, "93.3% of EBIT", mustNode(t, g, RolePreTaxProfit).PercentLabel)
	assert.Equal(t, "25.0% of PBT", mustNode(t, g, RoleTax).PercentLabel)
	assert.Equal(t, "75.0% of PBT", mustNode(t, g, RoleNetProfit).PercentLabel)

	assert.Equal(t, "PT Contoh Tbk", g.Company)
	assert.Equal(t, "IDR", g.Currency)
	assert.Equal(t, "million", g.Unit)
	assert.Equal(t, "FY 2024 Income Statement Flow", g.Title())
}

func TestBuild_EdgeTopology(t *testing.T) {
	g, err := Build(tableOf(example, 700, 300), testMeta)
	require.NoError(t, err)

	want := []struct {
		from, to Role
		value    float64
	}{
		{RoleRevenue, RoleCOGS, 400},
		{RoleRevenue, RoleGrossProfit, 600},
		{RoleGrossProfit, RoleOpex, 300},
		{RoleGrossProfit, RoleEBIT, 300},
		{RoleEBIT, RolePreTaxProfit, 280},
		{RolePreTaxProfit, RoleTax, 70},
		{RolePreTaxProfit, RoleNetProfit, 210},
	}

	require.Len(t, g.Edges, 2+len(want))
	assert.Equal(t, Edge{Source: 0, Target: 2, Value: 700, Color: DefaultPalette.NeutralLink, PercentOfSource: 100}, g.Edges[0])
	assert.Equal(t, Edge{Source: 1, Target: 2, Value: 300, Color: DefaultPalette.NeutralLink, PercentOfSource: 100}, g.Edges[1])
	for i, w := range want {
		e := g.Edges[2+i]
		assert.Equal(t, w.from, g.Nodes[e.Source].Role, "edge %d source", i)
		assert.Equal(t, w.to, g.Nodes[e.Target].Role, "edge %d target", i)
		assert.Equal(t, w.value, e.Value, "edge %d value", i)
	}
}

func TestBuild_NodeAndEdgeCounts(t *testing.T) {
	for nSeg := 0; nSeg <= 6; nSeg++ {
		t.Run(fmt.Sprintf("segments=%d", nSeg), func(t *testing.T) {
			segs := make([]float64, nSeg)
			for i := range segs {
				segs[i] = 1000 / float64(nSeg)
			}
			g, err := Build(tableOf(example, segs...), testMeta)
			require.NoError(t, err)
			assert.Len(t, g.Nodes, nSeg+8)
			assert.Len(t, g.Edges, nSeg+7)
			for i, n := range g.Nodes {
				assert.Equal(t, i, n.ID)
				if i < nSeg {
					assert.Equal(t, RoleSegment, n.Role)
				} else {
					assert.Equal(t, stages[i-nSeg].role, n.Role)
				}
			}
		})
	}
}

func TestBuild_NoSegmentsHasNoSegmentEdges(t *testing.T) {
	g, err := Build(tableOf(example), testMeta)
	require.NoError(t, err)

	rev := mustNode(t, g, RoleRevenue)
	assert.Equal(t, 0, rev.ID)
	for _, e := range g.Edges {
		assert.NotEqual(t, rev.ID, e.Target, "revenue should have no inbound edges")
	}
}

func TestBuild_CostSignsNormalized(t *testing.T) {
	positive := example
	positive.cogs, positive.opex, positive.tax = 400, 300, 70

	gNeg, err := Build(tableOf(example), testMeta)
	require.NoError(t, err)
	gPos, err := Build(tableOf(positive), testMeta)
	require.NoError(t, err)

	for i := range gNeg.Edges {
		assert.GreaterOrEqual(t, gNeg.Edges[i].Value, 0.0)
		assert.Equal(t, gPos.Edges[i].Value, gNeg.Edges[i].Value)
	}
	assert.Equal(t, mustNode(t, gPos, RoleTax).PercentLabel, mustNode(t, gNeg, RoleTax).PercentLabel)
}

func TestBuild_LossesNeverProduceNegativeEdges(t *testing.T) {
	loss := amounts{rev: 500, cogs: -450, gp: 50, opex: -120, ebit: -70, pbt: -90, tax: 10, net: -100}

	g, err := Build(tableOf(loss, 600, -100), testMeta)
	require.NoError(t, err)
	require.NoError(t, g.Validate())
	for _, e := range g.Edges {
		assert.GreaterOrEqual(t, e.Value, 0.0)
	}
	// Labels keep the sign of the reported figure.
	assert.Equal(t, "-140.0% of Gross profit", mustNode(t, g, RoleEBIT).PercentLabel)
	assert.Equal(t, "-20.0% of Revenue", g.Nodes[1].PercentLabel)
}

func TestBuild_NodeValueIsMaxTouchingEdge(t *testing.T) {
	g, err := Build(tableOf(example, 700, 300), testMeta)
	require.NoError(t, err)

	assert.Equal(t, 700.0, mustNode(t, g, RoleRevenue).Value)
	assert.Equal(t, 600.0, mustNode(t, g, RoleGrossProfit).Value)
	assert.Equal(t, 300.0, mustNode(t, g, RoleEBIT).Value)
	assert.Equal(t, 280.0, mustNode(t, g, RolePreTaxProfit).Value)
	assert.Equal(t, 70.0, mustNode(t, g, RoleTax).Value)
	assert.Equal(t, 300.0, g.Nodes[1].Value)
	assert.Equal(t, "IDR 0.7T", mustNode(t, g, RoleRevenue).ValueLabel)
}

func TestBuild_ValueLabelHonorsUnit(t *testing.T) {
	meta := testMeta
	meta.Currency = "USD"
	meta.Unit = "billion"

	g, err := Build(tableOf(example), meta)
	require.NoError(t, err)
	assert.Equal(t, "USD 400.0T", mustNode(t, g, RoleCOGS).ValueLabel)
	assert.Equal(t, "USD 1,000.0T", mustNode(t, g, RoleRevenue).ValueLabel)
}

func TestBuild_SegmentPercentages(t *testing.T) {
	g, err := Build(tableOf(example, 750, 250), testMeta)
	require.NoError(t, err)
	assert.Equal(t, "75.0% of Revenue", g.Nodes[0].PercentLabel)
	assert.Equal(t, "25.0% of Revenue", g.Nodes[1].PercentLabel)
}

func TestBuild_ZeroDenominatorsYieldEmptyLabels(t *testing.T) {
	tests := []struct {
		name  string
		a     amounts
		empty []Role
	}{
		{"zero revenue", amounts{rev: 0, cogs: -1, gp: 1, opex: -1, ebit: 1, pbt: 1, tax: -1, net: 1}, []Role{RoleSegment, RoleCOGS, RoleGrossProfit}},
		{"zero gross profit", amounts{rev: 10, cogs: -10, gp: 0, opex: -1, ebit: 1, pbt: 1, tax: -1, net: 1}, []Role{RoleOpex, RoleEBIT}},
		{"zero ebit", amounts{rev: 10, cogs: -5, gp: 5, opex: -5, ebit: 0, pbt: 1, tax: -1, net: 1}, []Role{RolePreTaxProfit}},
		{"zero pbt", amounts{rev: 10, cogs: -5, gp: 5, opex: -2, ebit: 3, pbt: 0, tax: 0, net: 0}, []Role{RoleTax, RoleNetProfit}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tableOf(tt.a, 4), testMeta)
			require.NoError(t, err)
			for _, n := range g.Nodes {
				for _, r := range tt.empty {
					if n.Role == r {
						assert.Empty(t, n.PercentLabel, "role %s", r)
					}
				}
			}
			assert.Equal(t, "100.0% of Revenue", mustNode(t, g, RoleRevenue).PercentLabel)
		})
	}
}

func TestBuild_EdgePercentOfSourceSumsTo100(t *testing.T) {
	g, err := Build(tableOf(example, 123, 456, 421), testMeta)
	require.NoError(t, err)

	sums := map[int]float64{}
	for _, e := range g.Edges {
		sums[e.Source] += e.PercentOfSource
	}
	for src, sum := range sums {
		if g.Outflow(src) == 0 {
			continue
		}
		assert.InDelta(t, 100, sum, 1e-9, "source %d", src)
	}

	rev := mustNode(t, g, RoleRevenue)
	for _, e := range g.Edges {
		if e.Source == rev.ID && g.Nodes[e.Target].Role == RoleCOGS {
			assert.InDelta(t, 40, e.PercentOfSource, 1e-9)
		}
	}
}

func TestBuild_ZeroOutflowEdgePercentIsZero(t *testing.T) {
	a := amounts{rev: 10, cogs: -5, gp: 5, opex: -5, ebit: 0, pbt: 0, tax: 0, net: 0}

	g, err := Build(tableOf(a), testMeta)
	require.NoError(t, err)
	for _, e := range g.Edges {
		if g.Outflow(e.Source) == 0 {
			assert.Zero(t, e.PercentOfSource)
			assert.False(t, math.IsNaN(e.PercentOfSource))
		}
	}
}

func TestBuild_MissingAnchor(t *testing.T) {
	var tbl statement.Table
	for _, r := range tableOf(example) {
		if r.Anchor != model.AnchorEBIT {
			tbl = append(tbl, r)
		}
	}

	g, err := Build(tbl, testMeta)
	require.Error(t, err)
	assert.Nil(t, g)

	var missing *statement.MissingAnchorError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, model.AnchorEBIT, missing.Anchor)
}

func TestBuild_DoesNotBalanceFlows(t *testing.T) {
	unbalanced := amounts{rev: 1000, cogs: -100, gp: 100, opex: -10, ebit: 5, pbt: 999, tax: -1, net: 2}

	g, err := Build(tableOf(unbalanced), testMeta)
	require.NoError(t, err)
	assert.Equal(t, 999.0, mustNode(t, g, RolePreTaxProfit).Value)
}

func TestNode_Label(t *testing.T) {
	g, err := Build(tableOf(example), testMeta)
	require.NoError(t, err)

	assert.Equal(t, "COGS\nIDR 0.4T\n40.0% of Revenue", mustNode(t, g, RoleCOGS).Label())
	assert.Equal(t, "X\nIDR 0.0T", Node{Name: "X", ValueLabel: "IDR 0.0T"}.Label())
}
