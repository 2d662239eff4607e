// Package peers builds the core fundamental metrics table comparing a
// company with its largest peers.
package peers

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Segment groups related metrics in the table.
type Segment string

const (
	SegmentQuality    Segment = "Quality"
	SegmentGrowth     Segment = "Growth"
	SegmentCashFlow   Segment = "Cash Flow"
	SegmentRisk       Segment = "Risk"
	SegmentEfficiency Segment = "Efficiency"
	SegmentValuation  Segment = "Valuation"
)

// MetricSpec is one allow-listed metric and the segment it belongs to.
type MetricSpec struct {
	Name    string  `yaml:"name"`
	Segment Segment `yaml:"segment"`
}

// Catalog is the ordered allow-list of metrics shown in the table plus the
// row shading for each segment.
type Catalog struct {
	Metrics []MetricSpec       `yaml:"metrics"`
	Shades  map[Segment]string `yaml:"shades"`
}

const (
	shadeLight = "#FFFFFF"
	shadeTint  = "#E1F5F8"
)

// DefaultCatalog returns the twenty core metrics in display order.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Metrics: []MetricSpec{
			{"Return On Invested Capital (TTM)", SegmentQuality},
			{"Return on Equity (TTM)", SegmentQuality},
			{"Operating Profit Margin (Quarter)", SegmentQuality},
			{"Current EPS (TTM)", SegmentQuality},

			{"Revenue (Quarter YoY Growth)", SegmentGrowth},
			{"EPS Growth (TTM)", SegmentGrowth},
			{"Net Income (Quarter YoY Growth)", SegmentGrowth},

			{"Cash From Operations (TTM)", SegmentCashFlow},
			{"Free cash flow (TTM)", SegmentCashFlow},
			{"Free Cashflow Per Share (TTM)", SegmentCashFlow},

			{"Debt to Equity Ratio (Quarter)", SegmentRisk},
			{"Interest Coverage (TTM)", SegmentRisk},
			{"Net Debt (Quarter)", SegmentRisk},
			{"Current Ratio (Quarter)", SegmentRisk},
			{"Altman Z-Score (Modified)", SegmentRisk},

			{"Asset Turnover (TTM)", SegmentEfficiency},
			{"Cash Conversion Cycle (Quarter)", SegmentEfficiency},
			{"Inventory Turnover (TTM)", SegmentEfficiency},

			{"Current PE Ratio (TTM)", SegmentValuation},
			{"PEG Ratio", SegmentValuation},
		},
		Shades: map[Segment]string{
			SegmentQuality:    shadeLight,
			SegmentGrowth:     shadeTint,
			SegmentCashFlow:   shadeLight,
			SegmentRisk:       shadeTint,
			SegmentEfficiency: shadeLight,
			SegmentValuation:  shadeTint,
		},
	}
}

// LoadCatalog reads a catalog from a YAML file. Segments without a shade fall
// back to the default shading.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "peers: read catalog %s", path)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, eris.Wrap(err, "peers: parse catalog")
	}
	if len(c.Metrics) == 0 {
		return nil, eris.Errorf("peers: catalog %s lists no metrics", path)
	}

	seen := make(map[string]bool, len(c.Metrics))
	for i, m := range c.Metrics {
		if m.Name == "" {
			return nil, eris.Errorf("peers: catalog metric %d has no name", i)
		}
		if seen[m.Name] {
			return nil, eris.Errorf("peers: catalog lists %q twice", m.Name)
		}
		seen[m.Name] = true
	}

	defaults := DefaultCatalog().Shades
	if c.Shades == nil {
		c.Shades = make(map[Segment]string, len(defaults))
	}
	for seg, shade := range defaults {
		if _, ok := c.Shades[seg]; !ok {
			c.Shades[seg] = shade
		}
	}
	return &c, nil
}

// Shade returns the row shading for a segment, or "" when it has none.
func (c *Catalog) Shade(s Segment) string {
	return c.Shades[s]
}

// Segment returns the segment of a named metric.
func (c *Catalog) Segment(metric string) (Segment, bool) {
	for _, m := range c.Metrics {
		if m.Name == metric {
			return m.Segment, true
		}
	}
	return "", false
}
