package util

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals int
		want     string
		wantErr  bool
	}{
		{name: "whole USDC", amount: "10", decimals: 6, want: "10000000"},
		{name: "fractional USDC", amount: "1.5", decimals: 6, want: "1500000"},
		{name: "full precision", amount: "0.000001", decimals: 6, want: "1"},
		{name: "one ether", amount: "1", decimals: 18, want: "1000000000000000000"},
		{name: "equal share", amount: "5.000000", decimals: 18, want: "5000000000000000000"},
		{name: "zero", amount: "0", decimals: 18, want: "0"},
		{name: "leading dot", amount: ".5", decimals: 2, want: "50"},
		{name: "trailing zeros beyond precision are fine", amount: "1.500000", decimals: 2, want: "150"},
		{name: "excess significant digits", amount: "0.0000001", decimals: 6, wantErr: true},
		{name: "empty", amount: "", decimals: 6, wantErr: true},
		{name: "two dots", amount: "1.2.3", decimals: 6, wantErr: true},
		{name: "not a number", amount: "abc", decimals: 6, wantErr: true},
		{name: "negative", amount: "-1", decimals: 6, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToBaseUnits(tt.amount, tt.decimals)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got.String())
		})
	}
}

func TestFormatBaseUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   *big.Int
		decimals int
		places   int
		want     string
	}{
		{name: "wei to eth 4dp", amount: big.NewInt(1234567890000000000), decimals: 18, places: 4, want: "1.2346"},
		{name: "usdc 4dp", amount: big.NewInt(10000000), decimals: 6, places: 4, want: "10.0000"},
		{name: "zero", amount: big.NewInt(0), decimals: 18, places: 4, want: "0.0000"},
		{name: "nil treated as zero", amount: nil, decimals: 18, places: 4, want: "0.0000"},
		{name: "six places", amount: big.NewInt(5000000), decimals: 6, places: 6, want: "5.000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FormatBaseUnits(tt.amount, tt.decimals, tt.places))
		})
	}
}
