package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MinWithdrawalUSD is the minimum withdrawal amount in USD-equivalent terms.
var MinWithdrawalUSD = decimal.NewFromInt(10)

var zeroDecimalCurrencies = map[string]struct{}{
	"JPY": {}, "KRW": {}, "IDR": {}, "VND": {},
}

var threeDecimalCurrencies = map[string]struct{}{
	"KWD": {}, "BHD": {},
}

// CurrencyDecimals returns the number of fraction digits used for an ISO
// currency code. Unknown codes get the common two-digit treatment.
func CurrencyDecimals(currency string) int32 {
	code := strings.ToUpper(currency)
	if _, ok := zeroDecimalCurrencies[code]; ok {
		return 0
	}
	if _, ok := threeDecimalCurrencies[code]; ok {
		return 3
	}
	return 2
}

// RoundMoney rounds half-up to the currency's fraction digits.
func RoundMoney(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.Round(CurrencyDecimals(currency))
}

// ValidAmount reports whether amount is positive and representable in the
// currency's fraction digits. A JPY amount with cents is not representable.
func ValidAmount(amount decimal.Decimal, currency string) bool {
	if !amount.IsPositive() {
		return false
	}
	return amount.Equal(amount.Round(CurrencyDecimals(currency)))
}

// RequiredDeposit computes the deposit a plan demands for a case: the plan's
// fixed amount when set, otherwise the percentage of the amount lost, rounded
// to the currency's fraction digits.
func RequiredDeposit(amountLost decimal.Decimal, percentage decimal.Decimal, fixed *decimal.Decimal, currency string) decimal.Decimal {
	if fixed != nil {
		return RoundMoney(*fixed, currency)
	}
	return RoundMoney(amountLost.Mul(percentage).Div(decimal.NewFromInt(100)), currency)
}
