package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gosuda.org/zisk-timing/analyzer"
)

const twoOpLog = "Main Cost: 12.50 sec 1,000,000 steps\n" +
	"process_rom() steps=1,000,000 duration=5.00 tp=200.00 Msteps/s freq=1000.00 5.00 clocks/step\n" +
	"TIMING_START:a\nTIMING_END:a\nTIMING_START:b\nTIMING_END:b"

func TestSaveBreakdown(t *testing.T) {
	res := analyzer.New(analyzer.WithSidecarPaths()).Analyze(twoOpLog)

	path := filepath.Join(t.TempDir(), "breakdown.png")
	require.NoError(t, SaveBreakdown(path, res))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Positive(t, info.Size())
}

func TestBreakdown_NoOperations(t *testing.T) {
	res := analyzer.New(analyzer.WithSidecarPaths()).Analyze("Main Cost: 1.00 sec 10 steps\n")

	_, err := Breakdown(res)
	require.ErrorIs(t, err, analyzer.ErrNoOperations)

	require.Error(t, SaveBreakdown("", res))
}
