package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/fundamentals/internal/model"
)

// SQLSource reads and loads the fundamentals tables through database/sql.
// It serves the sqlite and mysql drivers.
type SQLSource struct {
	db      *sql.DB
	driver  string
	dialect dialect
	tables  Tables
}

// OpenSQL opens a sqlite or mysql database.
func OpenSQL(driver, dsn string, tables Tables) (*SQLSource, error) {
	var d dialect
	switch driver {
	case "sqlite":
		d = sqliteDialect
	case "mysql":
		d = mysqlDialect
	default:
		return nil, eris.Errorf("sql: unsupported driver %q", driver)
	}
	if dsn == "" {
		return nil, eris.Errorf("%s: empty dsn", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, eris.Wrapf(err, "%s: open", driver)
	}
	if driver == "sqlite" {
		for _, pragma := range []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA busy_timeout=5000",
		} {
			if _, err := conn.Exec(pragma); err != nil {
				conn.Close() //nolint:errcheck
				return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
			}
		}
	}
	if err := conn.Ping(); err != nil {
		conn.Close() //nolint:errcheck
		return nil, eris.Wrapf(err, "%s: ping", driver)
	}
	return &SQLSource{db: conn, driver: driver, dialect: d, tables: tables.withDefaults()}, nil
}

func (s *SQLSource) Fundamentals(ctx context.Context, q Query) ([]model.MetricRecord, error) {
	query, args := s.dialect.fundamentalsSQL(s.tables, q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "%s: query fundamentals for %s", s.driver, q.Code)
	}
	defer rows.Close() //nolint:errcheck

	var out []model.MetricRecord
	for rows.Next() {
		var (
			r      model.MetricRecord
			sector sql.NullString
			value  sql.NullFloat64
		)
		if err := rows.Scan(&r.Code, &sector, &r.Metric, &value); err != nil {
			return nil, eris.Wrapf(err, "%s: scan fundamentals row", s.driver)
		}
		r.Sector = sector.String
		r.Value = nullFloat(value)
		out = append(out, r)
	}
	return out, eris.Wrapf(rows.Err(), "%s: iterate fundamentals", s.driver)
}

func (s *SQLSource) Quarterly(ctx context.Context, q Query) ([]model.QuarterlyRecord, error) {
	query, args := s.dialect.quarterlySQL(s.tables, q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "%s: query quarterly for %s", s.driver, q.Code)
	}
	defer rows.Close() //nolint:errcheck

	var out []model.QuarterlyRecord
	for rows.Next() {
		var (
			r     model.QuarterlyRecord
			value sql.NullFloat64
		)
		if err := rows.Scan(&r.Code, &r.Parameter, &r.Year, &r.Quarter, &value); err != nil {
			return nil, eris.Wrapf(err, "%s: scan quarterly row", s.driver)
		}
		r.Value = nullFloat(value)
		out = append(out, r)
	}
	return out, eris.Wrapf(rows.Err(), "%s: iterate quarterly", s.driver)
}

// Migrate creates both tables when missing.
func (s *SQLSource) Migrate(ctx context.Context) error {
	textType, floatType := "TEXT", "REAL"
	if s.driver == "mysql" {
		textType, floatType = "VARCHAR(255)", "DOUBLE"
	}
	all, quarter := s.dialect.quote(s.tables.All), s.dialect.quote(s.tables.Quarter)
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	code        %[2]s NOT NULL,
	sector      %[2]s,
	metric      %[2]s NOT NULL,
	clean_value %[3]s,
	PRIMARY KEY (code, metric)
)`, all, textType, floatType),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	code        %[2]s NOT NULL,
	parameter   %[2]s NOT NULL,
	year        INTEGER NOT NULL,
	quarter     %[2]s NOT NULL,
	value_final %[3]s,
	PRIMARY KEY (code, parameter, year, quarter)
)`, quarter, textType, floatType),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return eris.Wrapf(err, "%s: migrate", s.driver)
		}
	}
	return nil
}

func (s *SQLSource) WriteFundamentals(ctx context.Context, rows []model.MetricRecord) (int64, error) {
	args := make([][]any, len(rows))
	for i, r := range rows {
		args[i] = metricArgs(r)
	}
	return s.replace(ctx, s.tables.All, metricColumns, args)
}

func (s *SQLSource) WriteQuarterly(ctx context.Context, rows []model.QuarterlyRecord) (int64, error) {
	args := make([][]any, len(rows))
	for i, r := range rows {
		args[i] = quarterlyArgs(r)
	}
	return s.replace(ctx, s.tables.Quarter, quarterlyColumns, args)
}

// replace writes rows in one transaction, overwriting rows with the same key.
func (s *SQLSource) replace(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrapf(err, "%s: begin tx", s.driver)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, s.dialect.insertSQL(table, columns))
	if err != nil {
		return 0, eris.Wrapf(err, "%s: prepare insert into %s", s.driver, table)
	}
	defer stmt.Close() //nolint:errcheck

	var n int64
	for i, args := range rows {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, eris.Wrapf(err, "%s: insert row %d into %s", s.driver, i, table)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrapf(err, "%s: commit", s.driver)
	}
	return n, nil
}

func (s *SQLSource) Close() error {
	return s.db.Close()
}

func nullFloat(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
