package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommas(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1000000, "1,000,000"},
		{1234567890, "1,234,567,890"},
		{-4500, "-4,500"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, Commas(tt.in), "Commas(%d)", tt.in)
	}
}

func TestPercent(t *testing.T) {
	require.Equal(t, "50.00%", Percent(0.5))
	require.Equal(t, "0.00%", Percent(0))
	require.Equal(t, "33.33%", Percent(1.0/3))
}

func TestIsURLSafeName(t *testing.T) {
	require.True(t, IsURLSafeName("run-01.log"))
	require.True(t, IsURLSafeName("attestation_case_3"))
	require.False(t, IsURLSafeName(""))
	require.False(t, IsURLSafeName(".."))
	require.False(t, IsURLSafeName("a/b"))
	require.False(t, IsURLSafeName("a b"))
	require.False(t, IsURLSafeName("x?y=1"))
}

func TestParseList(t *testing.T) {
	require.Nil(t, ParseList("   "))
	require.Equal(t, []string{"a.json", "build/b.json"}, ParseList(" a.json, ,build/b.json ,"))
}
