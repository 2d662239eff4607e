package flow

// Horizontal stage positions, left to right.
const (
	xSegments = 0.05
	xRevenue  = 0.25
	xGross    = 0.45
	xOperate  = 0.65
	xPreTax   = 0.82
	xNet      = 0.98
)

// position is the fixed (x, y) of each non-segment role.
var position = map[Role][2]float64{
	RoleRevenue:      {xRevenue, 0.40},
	RoleCOGS:         {xGross, 0.80},
	RoleGrossProfit:  {xGross, 0.15},
	RoleOpex:         {xOperate, 0.45},
	RoleEBIT:         {xOperate, 0.10},
	RolePreTaxProfit: {xPreTax, 0.08},
	RoleTax:          {xNet, 0.30},
	RoleNetProfit:    {xNet, 0.05},
}

// Layout assigns normalized coordinates to every node. Segment nodes sit in
// the leftmost column, spread evenly over y in [0.2, 0.8]; a lone segment is
// placed at 0.4.
func Layout(g *Graph) {
	nSeg := g.SegmentCount()
	seg := 0
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Role != RoleSegment {
			p := position[n.Role]
			n.X, n.Y = p[0], p[1]
			continue
		}
		n.X = xSegments
		if nSeg == 1 {
			n.Y = 0.4
		} else {
			n.Y = 0.2 + float64(seg)*(0.6/float64(nSeg-1))
		}
		seg++
	}
}
