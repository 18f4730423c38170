package domain

import "github.com/shopspring/decimal"

// nativeScale is the fixed decimal scale of the bridge ledger counters.
const nativeScale = 18

// PreDepositOffset is the fixed amount credited to the native position for
// deposits made before ledger tracking began.
var PreDepositOffset = decimal.RequireFromString("1.5")

// SafeParse parses a string into a decimal, returning zero for invalid or
// empty input.
func SafeParse(value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// SafeSum adds two decimals.
func SafeSum(a, b decimal.Decimal) decimal.Decimal {
	return a.Add(b)
}

// ScaleSupply converts a raw string-encoded integer supply into its
// human-scale quantity: supply / 10^decimals.
func ScaleSupply(rawSupply string, decimals int32) decimal.Decimal {
	return SafeParse(rawSupply).Shift(-decimals)
}

// NativeNetSupply computes the net native supply from the bridge ledger
// counters: (deposits - withdrawals - burns) normalized by 10^18, plus the
// pre-deposit offset. All three counters must come from the same ledger
// snapshot or the result is inconsistent.
func NativeNetSupply(deposits, withdrawals, burns string) decimal.Decimal {
	net := SafeParse(deposits).
		Sub(SafeParse(withdrawals)).
		Sub(SafeParse(burns)).
		Shift(-nativeScale)
	return net.Add(PreDepositOffset)
}
