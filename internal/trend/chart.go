package trend

import (
	"fmt"
	"math"

	"github.com/sells-group/fundamentals/internal/units"
)

// Axis colors.
const (
	LeftColor  = "#1f77b4"
	RightColor = "#ff7f0e"
)

// Axis side.
const (
	AxisLeft  = "left"
	AxisRight = "right"
)

// Series is one parameter scaled for display on an axis.
type Series struct {
	Parameter string    `json:"parameter"`
	Axis      string    `json:"axis"`
	Color     string    `json:"color"`
	Scale     float64   `json:"scale"`
	Unit      string    `json:"unit"`
	Title     string    `json:"title"`
	Periods   []string  `json:"periods"`
	Values    []float64 `json:"values"`
}

// Chart is a one- or two-series quarterly chart. When Warning is set there
// are no series.
type Chart struct {
	Code      string    `json:"code"`
	Selection Selection `json:"selection"`
	Periods   []string  `json:"periods"`
	Series    []Series  `json:"series"`
	Caption   string    `json:"caption,omitempty"`
	Warning   string    `json:"warning,omitempty"`
}

// BuildChart plots sel over points. Identical selections give a single
// series on the left axis; otherwise each side is scaled independently.
func BuildChart(code string, points []Point, sel Selection) *Chart {
	c := &Chart{Code: code, Selection: sel}
	if len(points) == 0 {
		c.Warning = fmt.Sprintf("No quarterly data found for %s.", code)
		return c
	}
	if len(Parameters(points)) == 0 {
		c.Warning = "No parameters available to plot."
		return c
	}
	c.Periods = Periods(points)

	if sel.Left == sel.Right {
		s, ok := series(points, sel.Left, AxisLeft, LeftColor)
		if !ok {
			c.Warning = "No data available for parameter: " + sel.Left
			return c
		}
		c.Series = []Series{s}
		c.Caption = fmt.Sprintf("Showing %s over time (scaled to %s).", sel.Left, unitText(s.Unit))
		return c
	}

	left, ok := series(points, sel.Left, AxisLeft, LeftColor)
	if !ok {
		c.Warning = "No data available for LEFT parameter: " + sel.Left
		return c
	}
	right, ok := series(points, sel.Right, AxisRight, RightColor)
	if !ok {
		c.Warning = "No data available for RIGHT parameter: " + sel.Right
		return c
	}
	c.Series = []Series{left, right}
	c.Caption = fmt.Sprintf("Showing %s (left axis, scaled to %s) and %s (right axis, scaled to %s).",
		sel.Left, unitText(left.Unit), sel.Right, unitText(right.Unit))
	return c
}

func series(points []Point, param, axis, color string) (Series, bool) {
	s := Series{Parameter: param, Axis: axis, Color: color}
	var maxAbs float64
	for _, p := range points {
		if p.Parameter != param || math.IsNaN(p.Value) {
			continue
		}
		s.Periods = append(s.Periods, p.Period)
		s.Values = append(s.Values, p.Value)
		if a := math.Abs(p.Value); a > maxAbs {
			maxAbs = a
		}
	}
	if len(s.Values) == 0 {
		return s, false
	}

	s.Scale, s.Unit = units.AutoScale(maxAbs)
	for i := range s.Values {
		s.Values[i] /= s.Scale
	}
	s.Title = param
	if s.Unit != "" {
		s.Title = fmt.Sprintf("%s (%s)", param, s.Unit)
	}
	return s, true
}

func unitText(u string) string {
	if u == "" {
		return "original units"
	}
	return u
}
