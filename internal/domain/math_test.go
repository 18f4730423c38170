package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSafeParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid integer", "42", "42"},
		{"valid decimal", "1.5", "1.5"},
		{"empty", "", "0"},
		{"garbage", "not-a-number", "0"},
		{"negative", "-3.25", "-3.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeParse(tt.input).String(); got != tt.want {
				t.Errorf("SafeParse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestScaleSupply(t *testing.T) {
	tests := []struct {
		name     string
		supply   string
		decimals int32
		want     string
	}{
		{"18 decimals unit", "1000000000000000000", 18, "1"},
		{"6 decimals", "123456789", 6, "123.456789"},
		{"zero decimals", "777", 0, "777"},
		{"fractional result", "15", 1, "1.5"},
		{"invalid supply", "bogus", 18, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScaleSupply(tt.supply, tt.decimals).String(); got != tt.want {
				t.Errorf("ScaleSupply(%q, %d) = %s, want %s", tt.supply, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestNativeNetSupply(t *testing.T) {
	// deposits 2.0, withdrawals 0.5, burns 0 -> 1.5 net + 1.5 pre-deposit = 3
	got := NativeNetSupply("2000000000000000000", "500000000000000000", "0")
	if got.String() != "3" {
		t.Errorf("NativeNetSupply() = %s, want 3", got)
	}
}

func TestNativeNetSupplyEmptyCounters(t *testing.T) {
	// All-zero ledger still carries the pre-deposit offset.
	got := NativeNetSupply("0", "0", "0")
	if !got.Equal(PreDepositOffset) {
		t.Errorf("NativeNetSupply(zero) = %s, want %s", got, PreDepositOffset)
	}
}

func TestSumHasNoFloatArtifacts(t *testing.T) {
	got := SafeSum(SafeParse("0.1"), SafeParse("0.2"))
	if got.String() != "0.3" {
		t.Errorf("0.1 + 0.2 = %s, want exactly 0.3", got)
	}
}

func TestAmountMultiplicationIsExact(t *testing.T) {
	supply := ScaleSupply("1000000000000000000", 18)
	price := decimal.RequireFromString("65432.19")
	if got := supply.Mul(price).String(); got != "65432.19" {
		t.Errorf("1 * 65432.19 = %s, want 65432.19", got)
	}
}
