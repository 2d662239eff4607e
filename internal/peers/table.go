package peers

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/fundamentals/internal/model"
	"github.com/sells-group/fundamentals/internal/units"
)

// Defaults for Options.
const (
	DefaultSizeMetric = "market_cap"
	DefaultLimit      = 5
)

// Warnings shown in place of the table.
const (
	WarnNoData    = "No data available for this stock."
	WarnNoMetrics = "No core metrics available for this stock."
)

// Options tunes peer selection.
type Options struct {
	// SizeMetric ranks peers, largest first.
	SizeMetric string
	// Limit caps the number of peers beside the target.
	Limit int
	// Catalog is the metric allow-list; nil means DefaultCatalog.
	Catalog *Catalog
}

func (o Options) withDefaults() Options {
	if o.SizeMetric == "" {
		o.SizeMetric = DefaultSizeMetric
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Catalog == nil {
		o.Catalog = DefaultCatalog()
	}
	return o
}

// Cell is one metric value for one company.
type Cell struct {
	Value   float64 `json:"value"`
	Present bool    `json:"present"`
	Text    string  `json:"text"`
}

// Row is one metric across every column company.
type Row struct {
	Segment Segment `json:"segment"`
	Metric  string  `json:"metric"`
	Shade   string  `json:"shade"`
	Cells   []Cell  `json:"cells"`
}

// Table is the peer comparison for one company. When Warning is set the
// table has no rows.
type Table struct {
	Code    string   `json:"code"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
	Warning string   `json:"warning,omitempty"`
}

// Header returns the column titles: Segment, Metric, then the company codes.
func (t *Table) Header() []string {
	return append([]string{"Segment", "Metric"}, t.Columns...)
}

// Build pivots fundamentals records into the core metrics table for code.
// The target leads the columns, followed by up to Limit other companies in
// descending SizeMetric order. Companies with no records are omitted.
func Build(records []model.MetricRecord, code string, opts Options) *Table {
	opts = opts.withDefaults()
	t := &Table{Code: code}

	candidates := append([]string{code}, Rank(records, code, opts.SizeMetric, opts.Limit)...)

	// First value wins per (metric, code).
	values := make(map[string]map[string]float64)
	hasData := make(map[string]bool)
	inCols := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		inCols[c] = true
	}
	for _, r := range records {
		if !inCols[r.Code] {
			continue
		}
		hasData[r.Code] = true
		byCode, ok := values[r.Metric]
		if !ok {
			byCode = make(map[string]float64)
			values[r.Metric] = byCode
		}
		if _, dup := byCode[r.Code]; !dup {
			byCode[r.Code] = r.Value
		}
	}

	if len(hasData) == 0 {
		t.Warning = WarnNoData
		zap.L().Warn("peers: no data", zap.String("code", code))
		return t
	}
	for _, c := range candidates {
		if hasData[c] {
			t.Columns = append(t.Columns, c)
		}
	}

	for _, spec := range opts.Catalog.Metrics {
		byCode, ok := values[spec.Name]
		if !ok {
			continue
		}
		row := Row{
			Segment: spec.Segment,
			Metric:  spec.Name,
			Shade:   opts.Catalog.Shade(spec.Segment),
			Cells:   make([]Cell, len(t.Columns)),
		}
		for i, c := range t.Columns {
			v, ok := byCode[c]
			if !ok || math.IsNaN(v) {
				continue
			}
			row.Cells[i] = Cell{Value: v, Present: true, Text: units.Human(v)}
		}
		t.Rows = append(t.Rows, row)
	}

	if len(t.Rows) == 0 {
		t.Warning = WarnNoMetrics
		zap.L().Warn("peers: no core metrics", zap.String("code", code))
	}
	return t
}

// Rank returns up to limit companies other than code, ordered by their
// largest sizeMetric value, descending. Ties keep code order.
func Rank(records []model.MetricRecord, code, sizeMetric string, limit int) []string {
	size := make(map[string]float64)
	for _, r := range records {
		if r.Metric != sizeMetric || r.Code == code || math.IsNaN(r.Value) {
			continue
		}
		if cur, ok := size[r.Code]; !ok || r.Value > cur {
			size[r.Code] = r.Value
		}
	}

	codes := make([]string, 0, len(size))
	for c := range size {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	sort.SliceStable(codes, func(i, j int) bool {
		return size[codes[i]] > size[codes[j]]
	})
	if limit >= 0 && len(codes) > limit {
		codes = codes[:limit]
	}
	return codes
}
