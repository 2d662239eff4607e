// Package warehouse reads the fundamentals tables (the multi-company metric
// table and the quarterly table) from BigQuery, Postgres, SQLite or MySQL.
package warehouse

import (
	"context"
	"math"

	"github.com/sells-group/fundamentals/internal/model"
)

// Query selects the rows for one company. With PeerGroup set, every company
// that shares the target's sector is included too.
type Query struct {
	Code      string
	PeerGroup bool
}

// Source reads fundamentals for a company.
type Source interface {
	Fundamentals(ctx context.Context, q Query) ([]model.MetricRecord, error)
	Quarterly(ctx context.Context, q Query) ([]model.QuarterlyRecord, error)
	Close() error
}

// Writer is implemented by sources that can create and load their tables.
type Writer interface {
	Migrate(ctx context.Context) error
	WriteFundamentals(ctx context.Context, rows []model.MetricRecord) (int64, error)
	WriteQuarterly(ctx context.Context, rows []model.QuarterlyRecord) (int64, error)
}

// Tables names the two warehouse tables.
type Tables struct {
	All     string
	Quarter string
}

// DefaultTables are the table names used when none are configured.
var DefaultTables = Tables{
	All:     "fact_fundamental_all",
	Quarter: "fact_fundamental_quarterly",
}

func (t Tables) withDefaults() Tables {
	if t.All == "" {
		t.All = DefaultTables.All
	}
	if t.Quarter == "" {
		t.Quarter = DefaultTables.Quarter
	}
	return t
}

// Column sets, in table order.
var (
	metricColumns    = []string{"code", "sector", "metric", "clean_value"}
	quarterlyColumns = []string{"code", "parameter", "year", "quarter", "value_final"}
)

// nullable maps NaN to SQL NULL.
func nullable(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func metricArgs(r model.MetricRecord) []any {
	return []any{r.Code, r.Sector, r.Metric, nullable(r.Value)}
}

func quarterlyArgs(r model.QuarterlyRecord) []any {
	return []any{r.Code, r.Parameter, r.Year, r.Quarter, nullable(r.Value)}
}
