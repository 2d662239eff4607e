package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout_SegmentSpread(t *testing.T) {
	tests := []struct {
		name string
		segs []float64
		want []float64
	}{
		{"single", []float64{1000}, []float64{0.4}},
		{"two", []float64{600, 400}, []float64{0.2, 0.8}},
		{"three", []float64{500, 300, 200}, []float64{0.2, 0.5, 0.8}},
		{"five", []float64{200, 200, 200, 200, 200}, []float64{0.2, 0.35, 0.5, 0.65, 0.8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tableOf(example, tt.segs...), testMeta)
			require.NoError(t, err)
			for i, y := range tt.want {
				assert.Equal(t, xSegments, g.Nodes[i].X)
				assert.InDelta(t, y, g.Nodes[i].Y, 1e-9, "segment %d", i)
			}
		})
	}
}

func TestLayout_FixedStages(t *testing.T) {
	g, err := Build(tableOf(example, 1000), testMeta)
	require.NoError(t, err)

	wantX := map[Role]float64{
		RoleRevenue:      0.25,
		RoleCOGS:         0.45,
		RoleGrossProfit:  0.45,
		RoleOpex:         0.65,
		RoleEBIT:         0.65,
		RolePreTaxProfit: 0.82,
		RoleTax:          0.98,
		RoleNetProfit:    0.98,
	}
	for role, x := range wantX {
		n := mustNode(t, g, role)
		assert.Equal(t, x, n.X, "role %s", role)
		assert.GreaterOrEqual(t, n.Y, 0.0)
		assert.LessOrEqual(t, n.Y, 1.0)
	}
	assert.Less(t, mustNode(t, g, RoleGrossProfit).Y, mustNode(t, g, RoleCOGS).Y)
	assert.Less(t, mustNode(t, g, RoleNetProfit).Y, mustNode(t, g, RoleTax).Y)
}
