package warehouse

import (
	"context"
	"errors"
	"math"

	"cloud.google.com/go/bigquery"
	"github.com/rotisserie/eris"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/sells-group/fundamentals/internal/model"
)

// bigQueryDialect binds the company code as the named parameter @code.
var bigQueryDialect = dialect{
	quote: func(t string) string { return "`" + t + "`" },
	ph:    func(int) string { return "@code" },
}

// rowIterator is the part of *bigquery.RowIterator the source consumes.
type rowIterator interface {
	Next(dst any) error
}

type queryFunc func(ctx context.Context, sql string, params []bigquery.QueryParameter) (rowIterator, error)

// BigQuerySource reads the fundamentals tables from BigQuery. Table names
// are fully qualified ("project.dataset.table").
type BigQuerySource struct {
	run    queryFunc
	close  func() error
	tables Tables
}

type bqMetricRow struct {
	Code   string               `bigquery:"code"`
	Sector bigquery.NullString  `bigquery:"sector"`
	Metric string               `bigquery:"metric"`
	Value  bigquery.NullFloat64 `bigquery:"clean_value"`
}

type bqQuarterlyRow struct {
	Code      string               `bigquery:"code"`
	Parameter string               `bigquery:"parameter"`
	Year      int64                `bigquery:"year"`
	Quarter   string               `bigquery:"quarter"`
	Value     bigquery.NullFloat64 `bigquery:"value_final"`
}

// NewBigQuery creates a client for projectID. An empty credentialsFile uses
// application default credentials.
func NewBigQuery(ctx context.Context, projectID, credentialsFile string, tables Tables) (*BigQuerySource, error) {
	if projectID == "" {
		return nil, eris.New("bigquery: project id is required")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "bigquery: new client")
	}

	run := func(ctx context.Context, sql string, params []bigquery.QueryParameter) (rowIterator, error) {
		q := client.Query(sql)
		q.Parameters = params
		return q.Read(ctx)
	}
	return &BigQuerySource{run: run, close: client.Close, tables: tables.withDefaults()}, nil
}

func (s *BigQuerySource) Fundamentals(ctx context.Context, q Query) ([]model.MetricRecord, error) {
	sql, _ := bigQueryDialect.fundamentalsSQL(s.tables, q)
	it, err := s.run(ctx, sql, codeParam(q))
	if err != nil {
		return nil, eris.Wrapf(err, "bigquery: query fundamentals for %s", q.Code)
	}

	var out []model.MetricRecord
	for {
		var row bqMetricRow
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, eris.Wrapf(err, "bigquery: read fundamentals for %s", q.Code)
		}
		out = append(out, model.MetricRecord{
			Code:   row.Code,
			Sector: row.Sector.StringVal,
			Metric: row.Metric,
			Value:  bqFloat(row.Value),
		})
	}
}

func (s *BigQuerySource) Quarterly(ctx context.Context, q Query) ([]model.QuarterlyRecord, error) {
	sql, _ := bigQueryDialect.quarterlySQL(s.tables, q)
	it, err := s.run(ctx, sql, codeParam(q))
	if err != nil {
		return nil, eris.Wrapf(err, "bigquery: query quarterly for %s", q.Code)
	}

	var out []model.QuarterlyRecord
	for {
		var row bqQuarterlyRow
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, eris.Wrapf(err, "bigquery: read quarterly for %s", q.Code)
		}
		out = append(out, model.QuarterlyRecord{
			Code:      row.Code,
			Parameter: row.Parameter,
			Year:      int(row.Year),
			Quarter:   row.Quarter,
			Value:     bqFloat(row.Value),
		})
	}
}

func (s *BigQuerySource) Close() error {
	if s.close == nil {
		return nil
	}
	return eris.Wrap(s.close(), "bigquery: close")
}

func codeParam(q Query) []bigquery.QueryParameter {
	return []bigquery.QueryParameter{{Name: "code", Value: q.Code}}
}

func bqFloat(v bigquery.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
