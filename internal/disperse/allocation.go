package disperse

import "math/big"

// displayPrecision is the fixed fractional precision for on-screen totals
// and equal shares. On-chain submission re-expresses amounts at the asset's
// native precision instead.
const displayPrecision = 6

// recomputeEqualAmounts is the single authoritative recompute shared by the
// add, remove, total-edit and mode-switch paths: every recipient's amount in
// equal-distribution mode is total/count.
func recomputeEqualAmounts(total string, count int) string {
	if count <= 0 {
		return zeroAmount()
	}

	t := parseAmount(total)
	share := new(big.Rat).Quo(t, new(big.Rat).SetInt64(int64(count)))
	return share.FloatString(displayPrecision)
}

// parseAmount parses a user-entered decimal string. Unparseable or negative
// input counts as zero for aggregation; callers keep the raw text for
// re-display.
func parseAmount(s string) *big.Rat {
	r, ok := new(big.Rat).SetString(s)
	if !ok || r.Sign() < 0 {
		return new(big.Rat)
	}
	return r
}

func zeroAmount() string {
	return new(big.Rat).FloatString(displayPrecision)
}
