package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/fundamentals/internal/config"
	"github.com/sells-group/fundamentals/internal/statement"
)

func setFlowFlags(t *testing.T, asJSON, figure bool) {
	t.Helper()
	flowJSON, flowFigure = asJSON, figure
	t.Cleanup(func() { flowJSON, flowFigure = false, false })
}

func TestRunFlow_Text(t *testing.T) {
	setFlowFlags(t, false, false)

	var out bytes.Buffer
	err := runFlow(context.Background(), &out, &statement.FileLoader{Dir: "testdata"}, "unvr")
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "PT Unilever Indonesia Tbk")
	assert.Contains(t, text, "9M 2025 Income Statement Flow")
	assert.Contains(t, text, "Home & Personal Care")
}

func TestRunFlow_JSON(t *testing.T) {
	setFlowFlags(t, true, false)

	var out bytes.Buffer
	require.NoError(t, runFlow(context.Background(), &out, &statement.FileLoader{Dir: "testdata"}, "UNVR"))

	var g map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &g))
	assert.Len(t, g["nodes"], 10)
}

func TestRunFlow_Figure(t *testing.T) {
	setFlowFlags(t, false, true)

	var out bytes.Buffer
	require.NoError(t, runFlow(context.Background(), &out, &statement.FileLoader{Dir: "testdata"}, "UNVR"))

	var fig map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &fig))
	assert.Len(t, fig["data"], 1)
}

func TestRunFlow_MissingAnchor(t *testing.T) {
	setFlowFlags(t, false, false)

	err := runFlow(context.Background(), &bytes.Buffer{}, &statement.FileLoader{Dir: "testdata"}, "BROKEN")
	var missing *statement.MissingAnchorError
	assert.True(t, errors.As(err, &missing))
}

func TestNewLoader(t *testing.T) {
	c := &config.Config{Data: config.DataConfig{Dir: "payloads", Lenient: true}}
	fl, ok := newLoader(c).(*statement.FileLoader)
	require.True(t, ok)
	assert.Equal(t, "payloads", fl.Dir)
	assert.True(t, fl.Lenient)

	c.Data.BaseURL = "https://bucket.example.com/output"
	hl, ok := newLoader(c).(*statement.HTTPLoader)
	require.True(t, ok)
	assert.Equal(t, "https://bucket.example.com/output", hl.BaseURL)
	assert.NotNil(t, hl.Fetcher)
}
