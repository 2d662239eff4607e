package warehouse

import (
	"fmt"
	"strings"
)

// dialect renders the statements shared by the SQL-backed sources.
type dialect struct {
	// quote renders a table identifier.
	quote func(string) string
	// ph renders the n-th (1-based) bind placeholder.
	ph func(int) string
}

var (
	postgresDialect = dialect{
		quote: func(t string) string { return quoteParts(t, `"`) },
		ph:    func(n int) string { return fmt.Sprintf("$%d", n) },
	}
	sqliteDialect = dialect{
		quote: func(t string) string { return quoteParts(t, `"`) },
		ph:    func(int) string { return "?" },
	}
	mysqlDialect = dialect{
		quote: func(t string) string { return quoteParts(t, "`") },
		ph:    func(int) string { return "?" },
	}
)

// quoteParts quotes each dot-separated part of name with q, doubling any
// embedded quote characters.
func quoteParts(name, q string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = q + strings.ReplaceAll(p, q, q+q) + q
	}
	return strings.Join(parts, ".")
}

// codeFilter returns the WHERE clause selecting q's rows from table and the
// bind arguments it needs.
func (d dialect) codeFilter(table string, q Query) (string, []any) {
	if !q.PeerGroup {
		return "WHERE code = " + d.ph(1), []any{q.Code}
	}
	return fmt.Sprintf("WHERE code = %s OR sector IN (SELECT sector FROM %s WHERE code = %s AND sector IS NOT NULL)",
		d.ph(1), d.quote(table), d.ph(2)), []any{q.Code, q.Code}
}

func (d dialect) fundamentalsSQL(t Tables, q Query) (string, []any) {
	where, args := d.codeFilter(t.All, q)
	return fmt.Sprintf("SELECT code, sector, metric, clean_value FROM %s %s", d.quote(t.All), where), args
}

// quarterlySQL selects the quarterly rows. The quarterly table carries no
// sector, so peers are resolved through the metric table.
func (d dialect) quarterlySQL(t Tables, q Query) (string, []any) {
	if !q.PeerGroup {
		return fmt.Sprintf("SELECT code, parameter, year, quarter, value_final FROM %s WHERE code = %s ORDER BY year, quarter",
			d.quote(t.Quarter), d.ph(1)), []any{q.Code}
	}
	return fmt.Sprintf("SELECT code, parameter, year, quarter, value_final FROM %s WHERE code = %s OR code IN "+
		"(SELECT code FROM %s WHERE sector IN (SELECT sector FROM %s WHERE code = %s AND sector IS NOT NULL)) ORDER BY year, quarter",
		d.quote(t.Quarter), d.ph(1), d.quote(t.All), d.quote(t.All), d.ph(2)), []any{q.Code, q.Code}
}

func (d dialect) insertSQL(table string, columns []string) string {
	phs := make([]string, len(columns))
	for i := range columns {
		phs[i] = d.ph(i + 1)
	}
	return fmt.Sprintf("REPLACE INTO %s (%s) VALUES (%s)", d.quote(table), strings.Join(columns, ", "), strings.Join(phs, ", "))
}
