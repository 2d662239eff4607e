package fetcher

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// ReadCSV reads a headed CSV document and returns each data row keyed by its
// lower-cased, trimmed header name. Cells are trimmed of surrounding space.
func ReadCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "csv: read header")
	}
	return keyRows(header, func() ([]string, error) {
		rec, err := reader.Read()
		if err != nil {
			return nil, err
		}
		return rec, nil
	})
}

// keyRows pairs each row produced by next with the header until next returns
// io.EOF.
func keyRows(header []string, next func() ([]string, error)) ([]map[string]string, error) {
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []map[string]string
	for line := 2; ; line++ {
		rec, err := next()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, eris.Wrapf(err, "csv: read row %d", line)
		}
		if isBlank(rec) {
			continue
		}
		row := make(map[string]string, len(keys))
		for i, k := range keys {
			if i < len(rec) {
				row[k] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
