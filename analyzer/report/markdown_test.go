package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown(t *testing.T) {
	res := analyze(twoOpLog + "keccak: 2.50 sec (50 steps/op) (1,234 ops)\n")

	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, "run.log", res, Options{}))
	out := buf.String()

	assert.Contains(t, out, "# ZisK Cycle Counting Report - run.log\n")
	assert.Contains(t, out, "| Total Steps | 1,000,000 |\n")
	assert.Contains(t, out, "## Operations (2, equal-share)\n")
	assert.Contains(t, out, "| 1 | a | 50.00% | 500,000 | 2.5000 | 6.25 |\n")
	assert.Contains(t, out, "| keccak | 2.50 | 50 | 1,234 |\n")
	assert.Contains(t, out, "| Reads | 1,000 | 20 | 3 | 1,023 |\n")
	assert.Contains(t, out, "Total memory operations: 1,479\n")
}

func TestMarkdown_NoData(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, "empty.log", analyze(""), Options{}))
	require.Equal(t, "# ZisK Cycle Counting Report - empty.log\n\n"+noDataMsg+"\n", buf.String())
}

func TestMarkdown_NoOperations(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, "x", analyze("Main Cost: 1.00 sec 10 steps\n"), Options{}))
	require.Contains(t, buf.String(), "No operations detected.")
}

func TestMarkdown_EscapesOperationNames(t *testing.T) {
	log := "Main Cost: 1.00 sec 100 steps\n" +
		"TIMING_START:x` <img src=x onerror=alert(1)> `y\nTIMING_END:x` <img src=x onerror=alert(1)> `y\n" +
		"TIMING_START:p|q\nTIMING_END:p|q\n" +
		"TIMING_START:hash_leaf\nTIMING_END:hash_leaf\n"

	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, "run.log", analyze(log), Options{}))
	out := buf.String()

	assert.NotContains(t, out, "<img")
	assert.Contains(t, out, "| 1 | x\\` &lt;img src=x onerror=alert(1)&gt; \\`y | 33.33% |")
	assert.Contains(t, out, "| 2 | p\\|q | 33.33% |")
	assert.Contains(t, out, "| 3 | hash\\_leaf | 33.33% |")
}
