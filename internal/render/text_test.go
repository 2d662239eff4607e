package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FlowText(&buf, exampleGraph(t)))

	out := buf.String()
	assert.Contains(t, out, "PT Contoh Tbk")
	assert.Contains(t, out, "9M 2025 Income Statement Flow")
	assert.Contains(t, out, "40.0% of Revenue")
	assert.Contains(t, out, "Revenue")
	assert.Contains(t, out, "60.0%")
}
