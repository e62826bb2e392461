package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUserWallet_WithdrawalLifecycle(t *testing.T) {
	w := UserWallet{
		Balance:        decimal.RequireFromString("150.00"),
		TotalRecovered: decimal.RequireFromString("150.00"),
		TotalWithdrawn: decimal.Zero,
		Currency:       "USD",
	}
	amount := decimal.RequireFromString("50.00")

	held := w.ApplyWithdrawalHold(amount)
	assert.Equal(t, "100", held.Balance.String())
	assert.Equal(t, "50", held.PendingBalance.String())
	assert.Equal(t, "0", held.TotalWithdrawn.String())

	// Completion settles the pending amount; the available balance does not move again.
	completed := held.ApplyWithdrawalComplete(amount)
	assert.Equal(t, "100", completed.Balance.String())
	assert.Equal(t, "0", completed.PendingBalance.String())
	assert.Equal(t, "50", completed.TotalWithdrawn.String())

	// Rejection refunds the pending amount instead.
	refunded := held.ApplyRefund(amount)
	assert.Equal(t, "150", refunded.Balance.String())
	assert.Equal(t, "0", refunded.PendingBalance.String())
	assert.Equal(t, "0", refunded.TotalWithdrawn.String())

	// Value receivers never mutate the original.
	assert.Equal(t, "150", w.Balance.String())
	assert.Equal(t, "0", w.PendingBalance.String())
}

func TestUserWallet_ApplyRecovery(t *testing.T) {
	w := UserWallet{
		Balance:        decimal.RequireFromString("10.00"),
		TotalRecovered: decimal.RequireFromString("10.00"),
	}

	credited := w.ApplyRecovery(decimal.RequireFromString("200.00"))
	assert.Equal(t, "210", credited.Balance.String())
	assert.Equal(t, "210", credited.TotalRecovered.String())
}

func TestUserWallet_CanWithdraw(t *testing.T) {
	w := UserWallet{Balance: decimal.RequireFromString("100.00")}

	assert.True(t, w.CanWithdraw(decimal.RequireFromString("100.00")))
	assert.True(t, w.CanWithdraw(decimal.RequireFromString("5.00")))
	assert.False(t, w.CanWithdraw(decimal.RequireFromString("100.01")))
	assert.False(t, w.CanWithdraw(decimal.Zero))
	assert.False(t, w.CanWithdraw(decimal.RequireFromString("-1")))
}
