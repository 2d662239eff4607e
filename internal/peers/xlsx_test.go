package peers

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/fundamentals/internal/fetcher"
	"github.com/sells-group/fundamentals/internal/model"
)

func TestWriteXLSX(t *testing.T) {
	records := []model.MetricRecord{
		rec("AAA", "market_cap", 2),
		rec("BBB", "market_cap", 1),
		rec("AAA", "PEG Ratio", 1.25),
		rec("AAA", "Return on Equity (TTM)", 0.2),
		rec("BBB", "Return on Equity (TTM)", 0.3),
	}
	tbl := Build(records, "AAA", Options{})
	require.Empty(t, tbl.Warning)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, tbl))

	path := filepath.Join(t.TempDir(), "peers.xlsx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	rows, err := fetcher.ReadXLSX(path, SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Quality", rows[0]["segment"])
	assert.Equal(t, "Return on Equity (TTM)", rows[0]["metric"])
	assert.NotEmpty(t, rows[0]["aaa"])
	assert.NotEmpty(t, rows[0]["bbb"])

	assert.Equal(t, "Valuation", rows[1]["segment"])
	assert.Equal(t, "PEG Ratio", rows[1]["metric"])
	assert.Empty(t, rows[1]["bbb"])
}

func TestWriteXLSX_RefusesWarnings(t *testing.T) {
	tbl := Build(nil, "AAA", Options{})

	var buf bytes.Buffer
	err := WriteXLSX(&buf, tbl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), WarnNoData)
	assert.Zero(t, buf.Len())
}

func TestArgbOf(t *testing.T) {
	assert.Equal(t, "FFE1F5F8", argbOf("#e1f5f8"))
	assert.Equal(t, "FFFFFFFF", argbOf("FFFFFF"))
	assert.Empty(t, argbOf(""))
	assert.Empty(t, argbOf("#FFF"))
}
