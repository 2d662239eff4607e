// Package flow turns a validated income statement table into a directed flow
// graph (nodes, weighted edges, layout, percentage annotations) ready for a
// Sankey renderer.
package flow

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/fundamentals/internal/model"
)

// Role identifies what a node stands for in the income statement.
type Role string

const (
	RoleSegment      Role = "segment"
	RoleRevenue      Role = "revenue"
	RoleCOGS         Role = "cogs"
	RoleGrossProfit  Role = "gross_profit"
	RoleOpex         Role = "opex"
	RoleEBIT         Role = "ebit"
	RolePreTaxProfit Role = "pbt"
	RoleTax          Role = "tax"
	RoleNetProfit    Role = "net_profit"
)

// stage binds a fixed node role to the anchor it is drawn from. Cost rows are
// consumed as magnitudes.
type stage struct {
	role   Role
	anchor model.Anchor
	cost   bool
}

// stages lists the fixed nodes in index order; segment nodes precede them.
var stages = []stage{
	{RoleRevenue, model.AnchorRevenue, false},
	{RoleCOGS, model.AnchorCOGS, true},
	{RoleGrossProfit, model.AnchorGrossProfit, false},
	{RoleOpex, model.AnchorOpex, true},
	{RoleEBIT, model.AnchorEBIT, false},
	{RolePreTaxProfit, model.AnchorPreTaxProfit, false},
	{RoleTax, model.AnchorTax, true},
	{RoleNetProfit, model.AnchorNetProfit, false},
}

// FixedNodeCount is the number of non-segment nodes in every graph.
var FixedNodeCount = len(stages)

// Node is one vertex of the flow graph. X and Y are normalized to [0,1].
type Node struct {
	ID           int     `json:"id"`
	Role         Role    `json:"role"`
	Name         string  `json:"name"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Value        float64 `json:"value"`
	ValueLabel   string  `json:"value_label"`
	PercentLabel string  `json:"percent_label"`
	Color        string  `json:"color"`
}

// Label is the multi-line caption drawn beside the node: name, formatted
// value and, when defined, the percentage annotation.
func (n Node) Label() string {
	parts := []string{n.Name, n.ValueLabel}
	if n.PercentLabel != "" {
		parts = append(parts, n.PercentLabel)
	}
	return strings.Join(parts, "\n")
}

// Edge is a directed weighted flow between two nodes.
type Edge struct {
	Source          int     `json:"source_id"`
	Target          int     `json:"target_id"`
	Value           float64 `json:"value"`
	Color           string  `json:"color"`
	PercentOfSource float64 `json:"percent_of_source"`
}

// Graph is the income statement flow for one company and period.
type Graph struct {
	Company     string `json:"company"`
	PeriodLabel string `json:"period_label"`
	Currency    string `json:"currency"`
	Unit        string `json:"unit"`
	Nodes       []Node `json:"nodes"`
	Edges       []Edge `json:"edges"`
}

// Title is the chart heading for the graph.
func (g *Graph) Title() string {
	return g.PeriodLabel + " Income Statement Flow"
}

// SegmentCount returns how many revenue segment nodes lead the node list.
func (g *Graph) SegmentCount() int {
	return len(g.Nodes) - FixedNodeCount
}

// NodeByRole returns the first node with the given role.
func (g *Graph) NodeByRole(r Role) (Node, bool) {
	for _, n := range g.Nodes {
		if n.Role == r {
			return n, true
		}
	}
	return Node{}, false
}

// Outflow sums the weights of edges leaving node id.
func (g *Graph) Outflow(id int) float64 {
	var total float64
	for _, e := range g.Edges {
		if e.Source == id {
			total += e.Value
		}
	}
	return total
}

// Validate checks structural invariants: positional ids, in-range edge
// endpoints and non-negative weights.
func (g *Graph) Validate() error {
	if len(g.Nodes) < FixedNodeCount {
		return eris.Errorf("flow: graph has %d nodes, want at least %d", len(g.Nodes), FixedNodeCount)
	}
	for i, n := range g.Nodes {
		if n.ID != i {
			return eris.Errorf("flow: node %d has id %d", i, n.ID)
		}
	}
	for i, e := range g.Edges {
		if e.Source < 0 || e.Source >= len(g.Nodes) || e.Target < 0 || e.Target >= len(g.Nodes) {
			return eris.Errorf("flow: edge %d (%d->%d) out of range", i, e.Source, e.Target)
		}
		if e.Value < 0 {
			return eris.Errorf("flow: edge %d has negative weight %v", i, e.Value)
		}
	}
	return nil
}
