// Package render turns flow graphs, trend charts and payload summaries into
// the figures and fragments the dashboard and CLI emit.
package render

import (
	"fmt"
	"html"

	"github.com/sells-group/fundamentals/internal/flow"
)

// Figure is a Plotly figure holding a single Sankey trace.
type Figure struct {
	Data   []SankeyTrace `json:"data"`
	Layout Layout        `json:"layout"`
}

// SankeyTrace is a Plotly "sankey" trace.
type SankeyTrace struct {
	Type        string     `json:"type"`
	Orientation string     `json:"orientation"`
	Arrangement string     `json:"arrangement"`
	Node        SankeyNode `json:"node"`
	Link        SankeyLink `json:"link"`
}

// SankeyNode holds the per-node arrays of a trace.
type SankeyNode struct {
	Pad           int       `json:"pad"`
	Thickness     int       `json:"thickness"`
	Line          Line      `json:"line"`
	Label         []string  `json:"label"`
	Color         []string  `json:"color"`
	X             []float64 `json:"x"`
	Y             []float64 `json:"y"`
	HoverTemplate string    `json:"hovertemplate"`
}

// SankeyLink holds the per-edge arrays of a trace. CustomData carries each
// edge's percentage of its source.
type SankeyLink struct {
	Source        []int     `json:"source"`
	Target        []int     `json:"target"`
	Value         []float64 `json:"value"`
	Color         []string  `json:"color"`
	CustomData    []float64 `json:"customdata"`
	HoverTemplate string    `json:"hovertemplate"`
}

type Line struct {
	Color string `json:"color"`
	Width int    `json:"width"`
}

type Font struct {
	Size   int    `json:"size"`
	Color  string `json:"color,omitempty"`
	Family string `json:"family"`
}

type Title struct {
	Text    string  `json:"text"`
	Font    Font    `json:"font"`
	X       float64 `json:"x"`
	XAnchor string  `json:"xanchor"`
	Y       float64 `json:"y"`
	YAnchor string  `json:"yanchor"`
}

type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// Layout is the figure layout.
type Layout struct {
	Title        Title  `json:"title"`
	Font         Font   `json:"font"`
	PlotBGColor  string `json:"plot_bgcolor"`
	PaperBGColor string `json:"paper_bgcolor"`
	Height       int    `json:"height"`
	Width        int    `json:"width,omitempty"`
	Margin       Margin `json:"margin"`
}

// NodeLabel renders a node caption in Plotly markup:
// "<b>name</b><br>value" plus "<br>percent" when present.
func NodeLabel(n flow.Node) string {
	label := fmt.Sprintf("<b>%s</b><br>%s", html.EscapeString(n.Name), html.EscapeString(n.ValueLabel))
	if n.PercentLabel != "" {
		label += "<br>" + n.PercentLabel
	}
	return label
}

// Sankey builds the Plotly figure for g. The graph is read, never modified.
func Sankey(g *flow.Graph) Figure {
	node := SankeyNode{
		Pad:           50,
		Thickness:     30,
		Line:          Line{Color: "white", Width: 2},
		Label:         make([]string, len(g.Nodes)),
		Color:         make([]string, len(g.Nodes)),
		X:             make([]float64, len(g.Nodes)),
		Y:             make([]float64, len(g.Nodes)),
		HoverTemplate: "%{label}<extra></extra>",
	}
	for i, n := range g.Nodes {
		node.Label[i] = NodeLabel(n)
		node.Color[i] = n.Color
		node.X[i] = n.X
		node.Y[i] = n.Y
	}

	hover := fmt.Sprintf("%%{source.label} → %%{target.label}<br>%%{value:,.0f} (%s %s)"+
		"<br>%%{customdata:.1f}%% of source<extra></extra>", g.Currency, g.Unit)
	link := SankeyLink{
		Source:        make([]int, len(g.Edges)),
		Target:        make([]int, len(g.Edges)),
		Value:         make([]float64, len(g.Edges)),
		Color:         make([]string, len(g.Edges)),
		CustomData:    make([]float64, len(g.Edges)),
		HoverTemplate: hover,
	}
	for i, e := range g.Edges {
		link.Source[i] = e.Source
		link.Target[i] = e.Target
		link.Value[i] = e.Value
		link.Color[i] = e.Color
		link.CustomData[i] = e.PercentOfSource
	}

	return Figure{
		Data: []SankeyTrace{{
			Type:        "sankey",
			Orientation: "h",
			Arrangement: "snap",
			Node:        node,
			Link:        link,
		}},
		Layout: Layout{
			Title: Title{
				Text:    fmt.Sprintf("<b>%s</b><br>%s", html.EscapeString(g.Company), html.EscapeString(g.Title())),
				Font:    Font{Size: 22, Color: "#2C5F7C", Family: "Arial"},
				X:       0.5,
				XAnchor: "center",
				Y:       0.97,
				YAnchor: "top",
			},
			Font:         Font{Size: 12, Family: "Arial"},
			PlotBGColor:  "#FAFAFA",
			PaperBGColor: "white",
			Height:       800,
			Margin:       Margin{L: 20, R: 150, T: 90, B: 50},
		},
	}
}
