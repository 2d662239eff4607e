package warehouse

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	src, err := Open(ctx, Options{Driver: DriverNone})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, src)

	src, err = Open(ctx, Options{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "w.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLSource{}, src)
	assert.NoError(t, src.Close())
}

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		msg  string
	}{
		{"unknown driver", Options{Driver: "oracle"}, "unknown driver"},
		{"bigquery without project", Options{Driver: DriverBigQuery}, "project id is required"},
		{"postgres without dsn", Options{Driver: DriverPostgres}, "empty postgres dsn"},
		{"mysql without dsn", Options{Driver: DriverMySQL}, "empty dsn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Open(context.Background(), tt.opts)
			require.Error(t, err)
			assert.Nil(t, src)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
