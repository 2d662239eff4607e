package warehouse

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/fundamentals/internal/fetcher"
	"github.com/sells-group/fundamentals/internal/model"
)

// Kind names a warehouse table for seeding.
type Kind string

const (
	KindFundamentals Kind = "fundamentals"
	KindQuarterly    Kind = "quarterly"
)

// Seed loads a CSV, XLSX or JSON file of kind rows into w and returns the
// number of rows written.
func Seed(ctx context.Context, w Writer, kind Kind, path string) (int64, error) {
	var (
		n   int64
		err error
	)
	switch kind {
	case KindFundamentals:
		var rows []model.MetricRecord
		if rows, err = ReadMetrics(path); err == nil {
			n, err = w.WriteFundamentals(ctx, rows)
		}
	case KindQuarterly:
		var rows []model.QuarterlyRecord
		if rows, err = ReadQuarterly(path); err == nil {
			n, err = w.WriteQuarterly(ctx, rows)
		}
	default:
		return 0, eris.Errorf("seed: unknown table kind %q", kind)
	}
	if err != nil {
		return 0, eris.Wrapf(err, "seed: %s from %s", kind, path)
	}
	zap.L().Info("seeded warehouse table", zap.String("kind", string(kind)), zap.String("path", path), zap.Int64("rows", n))
	return n, nil
}

type jsonMetric struct {
	Code   string   `json:"code"`
	Sector string   `json:"sector"`
	Metric string   `json:"metric"`
	Value  *float64 `json:"clean_value"`
}

type jsonQuarterly struct {
	Code      string   `json:"code"`
	Parameter string   `json:"parameter"`
	Year      int      `json:"year"`
	Quarter   string   `json:"quarter"`
	Value     *float64 `json:"value_final"`
}

// ReadMetrics parses fundamentals rows (code, sector, metric, clean_value).
func ReadMetrics(path string) ([]model.MetricRecord, error) {
	if isJSON(path) {
		items, err := readJSON[jsonMetric](path)
		if err != nil {
			return nil, err
		}
		out := make([]model.MetricRecord, len(items))
		for i, it := range items {
			out[i] = model.MetricRecord{Code: it.Code, Sector: it.Sector, Metric: it.Metric, Value: orNaN(it.Value)}
		}
		return out, nil
	}

	rows, err := readTabular(path)
	if err != nil {
		return nil, err
	}
	out := make([]model.MetricRecord, 0, len(rows))
	for i, r := range rows {
		v, err := parseValue(first(r, "clean_value", "value"))
		if err != nil {
			return nil, eris.Wrapf(err, "seed: row %d", i+1)
		}
		if r["code"] == "" || r["metric"] == "" {
			return nil, eris.Errorf("seed: row %d needs code and metric", i+1)
		}
		out = append(out, model.MetricRecord{Code: r["code"], Sector: r["sector"], Metric: r["metric"], Value: v})
	}
	return out, nil
}

// ReadQuarterly parses quarterly rows (code, parameter, year, quarter,
// value_final).
func ReadQuarterly(path string) ([]model.QuarterlyRecord, error) {
	if isJSON(path) {
		items, err := readJSON[jsonQuarterly](path)
		if err != nil {
			return nil, err
		}
		out := make([]model.QuarterlyRecord, len(items))
		for i, it := range items {
			out[i] = model.QuarterlyRecord{Code: it.Code, Parameter: it.Parameter, Year: it.Year, Quarter: it.Quarter, Value: orNaN(it.Value)}
		}
		return out, nil
	}

	rows, err := readTabular(path)
	if err != nil {
		return nil, err
	}
	out := make([]model.QuarterlyRecord, 0, len(rows))
	for i, r := range rows {
		year, err := strconv.Atoi(r["year"])
		if err != nil {
			return nil, eris.Wrapf(err, "seed: row %d year", i+1)
		}
		v, err := parseValue(first(r, "value_final", "value"))
		if err != nil {
			return nil, eris.Wrapf(err, "seed: row %d", i+1)
		}
		out = append(out, model.QuarterlyRecord{
			Code:      r["code"],
			Parameter: r["parameter"],
			Year:      year,
			Quarter:   strings.ToUpper(r["quarter"]),
			Value:     v,
		})
	}
	return out, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func readJSON[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "seed: open %s", path)
	}
	defer f.Close() //nolint:errcheck
	return fetcher.DecodeJSONArray[T](f)
}

func readTabular(path string) ([]map[string]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return fetcher.ReadXLSX(path, "")
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "seed: open %s", path)
		}
		defer f.Close() //nolint:errcheck
		return fetcher.ReadCSV(f)
	default:
		return nil, eris.Errorf("seed: unsupported file type %q", filepath.Ext(path))
	}
}

func first(r map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			return v
		}
	}
	return ""
}

// parseValue reads a numeric cell; blank and NaN-like cells are missing.
func parseValue(s string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "null", "none":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, eris.Wrapf(err, "parse value %q", s)
	}
	return v, nil
}
