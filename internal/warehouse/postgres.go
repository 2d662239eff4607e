package warehouse

import (
	"context"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/fundamentals/internal/db"
	"github.com/sells-group/fundamentals/internal/model"
)

// PostgresSource reads and loads the fundamentals tables in Postgres.
type PostgresSource struct {
	pool   db.Pool
	tables Tables
	// Append loads rows with plain COPY instead of merging on the table
	// keys. Only safe on empty tables.
	Append bool
}

// NewPostgres connects to dsn.
func NewPostgres(ctx context.Context, dsn string, tables Tables) (*PostgresSource, error) {
	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return NewPostgresFromPool(pool, tables), nil
}

// NewPostgresFromPool wraps an existing pool.
func NewPostgresFromPool(pool db.Pool, tables Tables) *PostgresSource {
	return &PostgresSource{pool: pool, tables: tables.withDefaults()}
}

func (s *PostgresSource) Fundamentals(ctx context.Context, q Query) ([]model.MetricRecord, error) {
	query, args := postgresDialect.fundamentalsSQL(s.tables, q)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: query fundamentals for %s", q.Code)
	}
	defer rows.Close()

	var out []model.MetricRecord
	for rows.Next() {
		var (
			r      model.MetricRecord
			sector *string
			value  *float64
		)
		if err := rows.Scan(&r.Code, &sector, &r.Metric, &value); err != nil {
			return nil, eris.Wrap(err, "postgres: scan fundamentals row")
		}
		if sector != nil {
			r.Sector = *sector
		}
		r.Value = orNaN(value)
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate fundamentals")
}

func (s *PostgresSource) Quarterly(ctx context.Context, q Query) ([]model.QuarterlyRecord, error) {
	query, args := postgresDialect.quarterlySQL(s.tables, q)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: query quarterly for %s", q.Code)
	}
	defer rows.Close()

	var out []model.QuarterlyRecord
	for rows.Next() {
		var (
			r     model.QuarterlyRecord
			value *float64
		)
		if err := rows.Scan(&r.Code, &r.Parameter, &r.Year, &r.Quarter, &value); err != nil {
			return nil, eris.Wrap(err, "postgres: scan quarterly row")
		}
		r.Value = orNaN(value)
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate quarterly")
}

// Migrate creates both tables when missing.
func (s *PostgresSource) Migrate(ctx context.Context) error {
	all, quarter := postgresDialect.quote(s.tables.All), postgresDialect.quote(s.tables.Quarter)
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	code        TEXT NOT NULL,
	sector      TEXT,
	metric      TEXT NOT NULL,
	clean_value DOUBLE PRECISION,
	PRIMARY KEY (code, metric)
)`, all),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	code        TEXT NOT NULL,
	parameter   TEXT NOT NULL,
	year        INTEGER NOT NULL,
	quarter     TEXT NOT NULL,
	value_final DOUBLE PRECISION,
	PRIMARY KEY (code, parameter, year, quarter)
)`, quarter),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (sector)",
			pgx.Identifier{"idx_" + db.TempName(s.tables.All) + "_sector"}.Sanitize(), all),
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return eris.Wrap(err, "postgres: migrate")
		}
	}
	return nil
}

func (s *PostgresSource) WriteFundamentals(ctx context.Context, rows []model.MetricRecord) (int64, error) {
	data := make([][]any, len(rows))
	for i, r := range rows {
		data[i] = metricArgs(r)
	}
	if s.Append {
		return db.CopyFrom(ctx, s.pool, s.tables.All, metricColumns, data)
	}
	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        s.tables.All,
		Columns:      metricColumns,
		ConflictKeys: []string{"code", "metric"},
	}, data)
}

func (s *PostgresSource) WriteQuarterly(ctx context.Context, rows []model.QuarterlyRecord) (int64, error) {
	data := make([][]any, len(rows))
	for i, r := range rows {
		data[i] = quarterlyArgs(r)
	}
	if s.Append {
		return db.CopyFrom(ctx, s.pool, s.tables.Quarter, quarterlyColumns, data)
	}
	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        s.tables.Quarter,
		Columns:      quarterlyColumns,
		ConflictKeys: []string{"code", "parameter", "year", "quarter"},
	}, data)
}

func (s *PostgresSource) Close() error {
	s.pool.Close()
	return nil
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
