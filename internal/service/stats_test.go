package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recoverypro/portal/internal/domain"
)

func TestUserDashboard(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, _, _ := newTestServices(db)
	statsSvc := NewStatsService(store)

	user := createTestUser(t, store.Queries())
	createTestWallet(t, store.Queries(), user.ID, decimal.RequireFromString("300.00"))
	createTestCase(t, store.Queries(), user.ID, domain.CaseSubmitted, "1000.00")
	createTestCase(t, store.Queries(), user.ID, domain.CaseRecovery, "500.00")
	createTestCase(t, store.Queries(), user.ID, domain.CaseRejected, "250.00")

	dash, err := statsSvc.UserDashboard(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), dash.TotalCases)
	assert.Equal(t, int64(2), dash.OpenCases)
	assert.Equal(t, int64(1), dash.CasesByStatus[string(domain.CaseRecovery)])
	// Rejected cases do not count toward the amount at stake.
	assert.Equal(t, "1500", dash.AmountLost.String())
	assert.Equal(t, "300", dash.Balance.String())
	assert.Equal(t, "USD", dash.Currency)
}

func TestUserDashboard_NoWallet(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store, _, _ := newTestServices(db)
	statsSvc := NewStatsService(store)
	user := createTestUser(t, store.Queries())

	dash, err := statsSvc.UserDashboard(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, dash.Balance.IsZero())
	assert.Empty(t, dash.Currency)
}

func TestAdminOverview(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	statsSvc := NewStatsService(store)
	ledgerSvc := NewLedgerService(store, notifications, email, false)

	userA := createTestUser(t, store.Queries())
	userB := createTestUser(t, store.Queries())
	admin := createTestUser(t, store.Queries())
	createTestWallet(t, store.Queries(), userA.ID, decimal.Zero)

	c := createTestCase(t, store.Queries(), userA.ID, domain.CaseRecovery, "1000.00")
	createTestCase(t, store.Queries(), userB.ID, domain.CaseSubmitted, "400.00")

	_, err := ledgerSvc.RecordRecovery(ctx, c.ID, decimal.RequireFromString("150.00"), "", admin.ID)
	require.NoError(t, err)

	overview, err := statsSvc.AdminOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), overview.TotalUsers)
	assert.Equal(t, int64(1), overview.CasesByStatus[string(domain.CaseSubmitted)])
	assert.Equal(t, "1400", overview.TotalAmountLost.String())
	assert.Equal(t, "150", overview.TotalRecovered.String())
}
