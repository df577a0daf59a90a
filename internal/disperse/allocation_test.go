package disperse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecomputeEqualAmounts(t *testing.T) {
	tests := []struct {
		name     string
		total    string
		count    int
		expected string
	}{
		{name: "even split", total: "10", count: 2, expected: "5.000000"},
		{name: "repeating fraction", total: "10", count: 3, expected: "3.333333"},
		{name: "single recipient", total: "7.5", count: 1, expected: "7.500000"},
		{name: "zero total", total: "0", count: 4, expected: "0.000000"},
		{name: "empty total", total: "", count: 3, expected: "0.000000"},
		{name: "unparseable total", total: "abc", count: 2, expected: "0.000000"},
		{name: "negative total", total: "-5", count: 2, expected: "0.000000"},
		{name: "zero count", total: "10", count: 0, expected: "0.000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, recomputeEqualAmounts(tt.total, tt.count))
		})
	}
}

func TestParseAmount(t *testing.T) {
	require.Equal(t, "2.500000", parseAmount("2.5").FloatString(6))
	require.Equal(t, "0.000000", parseAmount("not a number").FloatString(6))
	require.Equal(t, "0.000000", parseAmount("-1").FloatString(6))
	require.Equal(t, "0.000000", parseAmount("").FloatString(6))
}
