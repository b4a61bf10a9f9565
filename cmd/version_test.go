package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/data"
)

func TestPrintVersion(t *testing.T) {
	content, err := data.NewLoader(nil).Load()
	require.NoError(t, err)

	var buf bytes.Buffer
	printVersion(&buf, content)
	out := buf.String()

	assert.Contains(t, out, "fiftytwo dev (none, built unknown")
	assert.Contains(t, out, "bundled data: 3 acts")
	assert.Contains(t, out, "4 classes")
}
