package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recoverypro/portal/internal/domain"
)

func TestReconciliationRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	ledgerSvc := NewLedgerService(store, notifications, email, false)
	reconcileSvc := NewReconciliationService(store)

	user := createTestUser(t, store.Queries())
	admin := createTestUser(t, store.Queries())
	createTestWallet(t, store.Queries(), user.ID, decimal.Zero)
	c := createTestCase(t, store.Queries(), user.ID, domain.CaseRecovery, "1000.00")

	_, err := ledgerSvc.RecordRecovery(ctx, c.ID, decimal.RequireFromString("200.00"), "", admin.ID)
	require.NoError(t, err)

	// Credits through RecordRecovery keep the wallet and ledger in step.
	require.NoError(t, reconcileSvc.Run(ctx))

	wallet, err := store.Queries().GetWallet(ctx, user.ID)
	require.NoError(t, err)
	ledgerTotal, err := store.Queries().SumRecoveries(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, wallet.TotalRecovered.Equal(ledgerTotal))

	// A credit applied outside the service leaves a detectable divergence.
	wallet.TotalRecovered = wallet.TotalRecovered.Add(decimal.RequireFromString("5.00"))
	_, err = store.Queries().UpdateWalletBalances(ctx, wallet)
	require.NoError(t, err)

	require.NoError(t, reconcileSvc.Run(ctx))

	ledgerTotal, err = store.Queries().SumRecoveries(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, wallet.TotalRecovered.Equal(ledgerTotal))
}

func TestRefreshQueueGauges(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store, _, _ := newTestServices(db)
	reconcileSvc := NewReconciliationService(store)

	require.NoError(t, reconcileSvc.RefreshQueueGauges(context.Background()))
}
