package fetcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	input := "Code, Metric ,clean_value\nUNVR,market_cap,1.5e14\n,,\nMYOR, PEG Ratio ,0.8\n"

	rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]string{"code": "UNVR", "metric": "market_cap", "clean_value": "1.5e14"}, rows[0])
	assert.Equal(t, "PEG Ratio", rows[1]["metric"])
}

func TestReadCSV_ShortRow(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("code,metric,clean_value\nUNVR,market_cap\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	_, ok := rows[0]["clean_value"]
	assert.False(t, ok)
}

func TestReadCSV_Empty(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadCSV_Malformed(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("code,metric\n\"UNVR,market_cap\n"))
	require.Error(t, err)
}
