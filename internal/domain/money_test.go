package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRequiredDeposit_Percentage(t *testing.T) {
	lost := decimal.RequireFromString("1000.00")
	pct := decimal.RequireFromString("12.5")

	got := RequiredDeposit(lost, pct, nil, "USD")
	assert.Equal(t, "125", got.String())
}

func TestRequiredDeposit_FixedOverridesPercentage(t *testing.T) {
	lost := decimal.RequireFromString("1000.00")
	pct := decimal.RequireFromString("12.5")
	fixed := decimal.RequireFromString("99.999")

	got := RequiredDeposit(lost, pct, &fixed, "USD")
	assert.Equal(t, "100", got.String())
}

func TestRequiredDeposit_CurrencyRounding(t *testing.T) {
	lost := decimal.RequireFromString("1001")
	pct := decimal.RequireFromString("12.5")

	// 125.125 rounds per currency precision.
	assert.Equal(t, "125.13", RequiredDeposit(lost, pct, nil, "USD").String())
	assert.Equal(t, "125", RequiredDeposit(lost, pct, nil, "JPY").String())
	assert.Equal(t, "125.125", RequiredDeposit(lost, pct, nil, "KWD").String())
}

func TestCurrencyDecimals(t *testing.T) {
	tests := []struct {
		currency string
		want     int32
	}{
		{"USD", 2},
		{"eur", 2},
		{"JPY", 0},
		{"krw", 0},
		{"IDR", 0},
		{"VND", 0},
		{"KWD", 3},
		{"BHD", 3},
		{"XYZ", 2},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, CurrencyDecimals(tc.currency), tc.currency)
	}
}

func TestValidAmount(t *testing.T) {
	assert.True(t, ValidAmount(decimal.RequireFromString("10.50"), "USD"))
	assert.True(t, ValidAmount(decimal.RequireFromString("100"), "JPY"))
	assert.False(t, ValidAmount(decimal.RequireFromString("10.505"), "USD"))
	assert.False(t, ValidAmount(decimal.RequireFromString("100.5"), "JPY"))
	assert.False(t, ValidAmount(decimal.Zero, "USD"))
	assert.False(t, ValidAmount(decimal.RequireFromString("-5"), "USD"))
}
