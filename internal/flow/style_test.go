package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyle_NodeColors(t *testing.T) {
	g, err := Build(tableOf(example, 600, 400), testMeta)
	require.NoError(t, err)

	want := map[Role]string{
		RoleSegment:      DefaultPalette.NeutralNode,
		RoleRevenue:      DefaultPalette.NeutralNode,
		RoleCOGS:         DefaultPalette.CostNode,
		RoleOpex:         DefaultPalette.CostNode,
		RoleTax:          DefaultPalette.CostNode,
		RoleGrossProfit:  DefaultPalette.ProfitNode,
		RoleEBIT:         DefaultPalette.ProfitNode,
		RolePreTaxProfit: DefaultPalette.ProfitNode,
		RoleNetProfit:    DefaultPalette.ProfitNode,
	}
	for _, n := range g.Nodes {
		assert.Equal(t, want[n.Role], n.Color, "node %d (%s)", n.ID, n.Role)
	}
}

func TestStyle_EdgeColorsFollowTarget(t *testing.T) {
	g, err := Build(tableOf(example, 600, 400), testMeta)
	require.NoError(t, err)

	for _, e := range g.Edges {
		switch g.Nodes[e.Target].Role {
		case RoleCOGS, RoleOpex, RoleTax:
			assert.Equal(t, DefaultPalette.CostLink, e.Color)
		case RoleRevenue:
			assert.Equal(t, DefaultPalette.NeutralLink, e.Color)
		default:
			assert.Equal(t, DefaultPalette.ProfitLink, e.Color)
		}
	}
}

func TestStyle_CustomPalette(t *testing.T) {
	g, err := Build(tableOf(example), testMeta)
	require.NoError(t, err)

	p := Palette{NeutralNode: "n", CostNode: "c", ProfitNode: "p", NeutralLink: "nl", CostLink: "cl", ProfitLink: "pl"}
	Style(g, p)
	assert.Equal(t, "c", mustNode(t, g, RoleTax).Color)
	assert.Equal(t, "cl", g.Edges[0].Color)
	assert.Equal(t, "pl", g.Edges[1].Color)
}
