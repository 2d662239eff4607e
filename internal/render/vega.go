package render

import (
	"github.com/sells-group/fundamentals/internal/trend"
)

// VegaSchema is the Vega-Lite schema TrendSpec targets.
const VegaSchema = "https://vega.github.io/schema/vega-lite/v5.json"

// TrendSpec builds a Vega-Lite spec for c: one line layer per series, with
// independent y scales when there are two. A chart with a warning yields nil.
func TrendSpec(c *trend.Chart) map[string]any {
	if c.Warning != "" || len(c.Series) == 0 {
		return nil
	}

	var (
		values []map[string]any
		domain []string
		colors []string
		layers []any
	)
	for _, s := range c.Series {
		domain = append(domain, s.Parameter)
		colors = append(colors, s.Color)
	}
	for _, s := range c.Series {
		for i, period := range s.Periods {
			values = append(values, map[string]any{
				"metric":       s.Parameter,
				"period":       period,
				"scaled_value": s.Values[i],
			})
		}

		axis := map[string]any{"title": s.Title}
		if s.Axis == trend.AxisRight {
			axis["orient"] = "right"
		}
		layers = append(layers, map[string]any{
			"transform": []any{map[string]any{"filter": map[string]any{"field": "metric", "equal": s.Parameter}}},
			"mark":      map[string]any{"type": "line", "point": true},
			"encoding": map[string]any{
				"x": map[string]any{"field": "period", "type": "nominal", "sort": c.Periods, "title": "Period"},
				"y": map[string]any{"field": "scaled_value", "type": "quantitative", "axis": axis},
				"color": map[string]any{
					"field":  "metric",
					"type":   "nominal",
					"scale":  map[string]any{"domain": domain, "range": colors},
					"legend": map[string]any{"title": "Metric"},
				},
				"tooltip": []any{
					map[string]any{"field": "metric", "type": "nominal", "title": "Metric"},
					map[string]any{"field": "period", "type": "nominal", "title": "Period"},
					map[string]any{"field": "scaled_value", "type": "quantitative", "title": s.Title, "format": ".2f"},
				},
			},
		})
	}

	spec := map[string]any{
		"$schema":     VegaSchema,
		"description": c.Caption,
		"width":       "container",
		"data":        map[string]any{"values": values},
		"layer":       layers,
	}
	if len(c.Series) > 1 {
		spec["resolve"] = map[string]any{"scale": map[string]any{"y": "independent"}}
	}
	return spec
}
