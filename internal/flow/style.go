package flow

// Palette holds the colors for the three flow families: neutral (revenue and
// its segments), cost (COGS, opex, tax) and profit (gross profit through net
// profit). Node colors are opaque; link colors are lighter.
type Palette struct {
	NeutralNode string
	CostNode    string
	ProfitNode  string
	NeutralLink string
	CostLink    string
	ProfitLink  string
}

// DefaultPalette is grey for revenue, crimson for costs and sea green for
// profits.
var DefaultPalette = Palette{
	NeutralNode: "rgba(128, 128, 128, 0.8)",
	CostNode:    "rgba(220, 20, 60, 0.8)",
	ProfitNode:  "rgba(46, 139, 87, 0.8)",
	NeutralLink: "rgba(180, 180, 180, 0.4)",
	CostLink:    "rgba(255, 182, 193, 0.4)",
	ProfitLink:  "rgba(144, 238, 144, 0.4)",
}

type family int

const (
	neutral family = iota
	cost
	profit
)

func familyOf(r Role) family {
	switch r {
	case RoleCOGS, RoleOpex, RoleTax:
		return cost
	case RoleGrossProfit, RoleEBIT, RolePreTaxProfit, RoleNetProfit:
		return profit
	default:
		return neutral
	}
}

// Style colors nodes by role and edges by the role of the node they feed.
func Style(g *Graph, p Palette) {
	for i := range g.Nodes {
		switch familyOf(g.Nodes[i].Role) {
		case cost:
			g.Nodes[i].Color = p.CostNode
		case profit:
			g.Nodes[i].Color = p.ProfitNode
		default:
			g.Nodes[i].Color = p.NeutralNode
		}
	}
	for i := range g.Edges {
		target := g.Nodes[g.Edges[i].Target].Role
		switch familyOf(target) {
		case cost:
			g.Edges[i].Color = p.CostLink
		case profit:
			g.Edges[i].Color = p.ProfitLink
		default:
			g.Edges[i].Color = p.NeutralLink
		}
	}
}
