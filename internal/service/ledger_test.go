package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recoverypro/portal/internal/domain"
	"github.com/recoverypro/portal/internal/models"
)

func TestRecordRecovery(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	ledgerSvc := NewLedgerService(store, notifications, email, false)

	user := createTestUser(t, store.Queries())
	admin := createTestUser(t, store.Queries())
	createTestWallet(t, store.Queries(), user.ID, decimal.Zero)
	c := createTestCase(t, store.Queries(), user.ID, domain.CaseRecovery, "1000.00")

	rec, err := ledgerSvc.RecordRecovery(ctx, c.ID, decimal.RequireFromString("200.00"), "Exchange froze the scammer's account", admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "USD", rec.Currency)
	assert.True(t, rec.Reference[:3] == "TXN")

	wallet, err := ledgerSvc.GetWallet(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "200", wallet.Balance.String())
	assert.Equal(t, "200", wallet.TotalRecovered.String())

	recs, err := ledgerSvc.ListRecoveries(ctx, user.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestRecordRecovery_RejectedCase(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	ledgerSvc := NewLedgerService(store, notifications, email, false)

	user := createTestUser(t, store.Queries())
	admin := createTestUser(t, store.Queries())
	createTestWallet(t, store.Queries(), user.ID, decimal.Zero)
	c := createTestCase(t, store.Queries(), user.ID, domain.CaseRejected, "1000.00")

	_, err := ledgerSvc.RecordRecovery(ctx, c.ID, decimal.RequireFromString("50.00"), "", admin.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestRequestWithdrawal(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	ledgerSvc := NewLedgerService(store, notifications, email, false)

	user := createTestUser(t, store.Queries())
	createTestWallet(t, store.Queries(), user.ID, decimal.RequireFromString("150.00"))

	w, err := ledgerSvc.RequestWithdrawal(ctx, WithdrawalInput{
		UserID:      user.ID,
		Amount:      decimal.RequireFromString("50.00"),
		Method:      domain.WithdrawalMethodBank,
		Destination: "GB29NWBK60161331926819",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalPending, w.Status)

	// The hold debits the balance immediately.
	wallet, err := ledgerSvc.GetWallet(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "100", wallet.Balance.String())
	assert.Equal(t, "50", wallet.PendingBalance.String())
	assert.Equal(t, "0", wallet.TotalWithdrawn.String())
}

func TestRequestWithdrawal_Limits(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	ledgerSvc := NewLedgerService(store, notifications, email, false)

	user := createTestUser(t, store.Queries())
	createTestWallet(t, store.Queries(), user.ID, decimal.RequireFromString("150.00"))

	_, err := ledgerSvc.RequestWithdrawal(ctx, WithdrawalInput{
		UserID: user.ID, Amount: decimal.RequireFromString("5.00"),
		Method: domain.WithdrawalMethodBank, Destination: "acct",
	})
	assert.ErrorIs(t, err, models.ErrBelowMinimumWithdrawal)

	_, err = ledgerSvc.RequestWithdrawal(ctx, WithdrawalInput{
		UserID: user.ID, Amount: decimal.RequireFromString("500.00"),
		Method: domain.WithdrawalMethodBank, Destination: "acct",
	})
	assert.ErrorIs(t, err, models.ErrInsufficientBalance)
}

func TestRequestWithdrawal_KYCRequired(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	ledgerSvc := NewLedgerService(store, notifications, email, true)

	user := createTestUser(t, store.Queries())
	createTestWallet(t, store.Queries(), user.ID, decimal.RequireFromString("150.00"))

	_, err := ledgerSvc.RequestWithdrawal(ctx, WithdrawalInput{
		UserID: user.ID, Amount: decimal.RequireFromString("50.00"),
		Method: domain.WithdrawalMethodBank, Destination: "acct",
	})
	assert.ErrorIs(t, err, models.ErrKYCRequired)

	_, err = store.Queries().SetUserKYCVerified(ctx, user.ID, true)
	require.NoError(t, err)

	_, err = ledgerSvc.RequestWithdrawal(ctx, WithdrawalInput{
		UserID: user.ID, Amount: decimal.RequireFromString("50.00"),
		Method: domain.WithdrawalMethodBank, Destination: "acct",
	})
	assert.NoError(t, err)
}

func TestResolveWithdrawal_Completed(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	ledgerSvc := NewLedgerService(store, notifications, email, false)

	user := createTestUser(t, store.Queries())
	admin := createTestUser(t, store.Queries())
	createTestWallet(t, store.Queries(), user.ID, decimal.RequireFromString("150.00"))

	w, err := ledgerSvc.RequestWithdrawal(ctx, WithdrawalInput{
		UserID: user.ID, Amount: decimal.RequireFromString("50.00"),
		Method: domain.WithdrawalMethodCrypto, Destination: "0xabc",
	})
	require.NoError(t, err)

	resolved, err := ledgerSvc.ResolveWithdrawal(ctx, w.ID, domain.WithdrawalApproved, "", admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalApproved, resolved.Status)

	// Approved does not touch the wallet.
	wallet, err := ledgerSvc.GetWallet(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "100", wallet.Balance.String())
	assert.Equal(t, "50", wallet.PendingBalance.String())

	resolved, err = ledgerSvc.ResolveWithdrawal(ctx, w.ID, domain.WithdrawalCompleted, "Paid out", admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalCompleted, resolved.Status)

	wallet, err = ledgerSvc.GetWallet(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "100", wallet.Balance.String())
	assert.Equal(t, "0", wallet.PendingBalance.String())
	assert.Equal(t, "50", wallet.TotalWithdrawn.String())

	// Terminal states cannot move again.
	_, err = ledgerSvc.ResolveWithdrawal(ctx, w.ID, domain.WithdrawalRejected, "", admin.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestResolveWithdrawal_RejectedRefunds(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	ledgerSvc := NewLedgerService(store, notifications, email, false)

	user := createTestUser(t, store.Queries())
	admin := createTestUser(t, store.Queries())
	createTestWallet(t, store.Queries(), user.ID, decimal.RequireFromString("150.00"))

	w, err := ledgerSvc.RequestWithdrawal(ctx, WithdrawalInput{
		UserID: user.ID, Amount: decimal.RequireFromString("50.00"),
		Method: domain.WithdrawalMethodBank, Destination: "acct",
	})
	require.NoError(t, err)

	_, err = ledgerSvc.ResolveWithdrawal(ctx, w.ID, domain.WithdrawalRejected, "Destination failed checks", admin.ID)
	require.NoError(t, err)

	wallet, err := ledgerSvc.GetWallet(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "150", wallet.Balance.String())
	assert.Equal(t, "0", wallet.PendingBalance.String())
	assert.Equal(t, "0", wallet.TotalWithdrawn.String())
}

func TestResolveWithdrawal_EmailsOwner(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	ledgerSvc := NewLedgerService(store, notifications, email, false)

	user := createTestUser(t, store.Queries())
	admin := createTestUser(t, store.Queries())
	createTestWallet(t, store.Queries(), user.ID, decimal.RequireFromString("150.00"))

	w, err := ledgerSvc.RequestWithdrawal(ctx, WithdrawalInput{
		UserID: user.ID, Amount: decimal.RequireFromString("50.00"),
		Method: domain.WithdrawalMethodCrypto, Destination: "0xabc",
	})
	require.NoError(t, err)

	_, err = ledgerSvc.ResolveWithdrawal(ctx, w.ID, domain.WithdrawalApproved, "", admin.ID)
	require.NoError(t, err)
	_, err = ledgerSvc.ResolveWithdrawal(ctx, w.ID, domain.WithdrawalCompleted, "Paid out", admin.ID)
	require.NoError(t, err)

	logs, err := store.Queries().ListEmailLogs(ctx, user.ID, 10, 0)
	require.NoError(t, err)

	var subjects []string
	for _, l := range logs {
		if l.Type != domain.EmailWithdrawalUpdate {
			continue
		}
		assert.Equal(t, user.Email, l.Recipient)
		assert.True(t, l.Sent)
		subjects = append(subjects, l.Subject)
	}
	require.Len(t, subjects, 2)
	assert.Contains(t, subjects, "Withdrawal "+w.Reference+" approved")
	assert.Contains(t, subjects, "Withdrawal "+w.Reference+" paid out")
}

func TestResolveWithdrawal_RejectedEmailsOwner(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	ledgerSvc := NewLedgerService(store, notifications, email, false)

	user := createTestUser(t, store.Queries())
	admin := createTestUser(t, store.Queries())
	createTestWallet(t, store.Queries(), user.ID, decimal.RequireFromString("150.00"))

	w, err := ledgerSvc.RequestWithdrawal(ctx, WithdrawalInput{
		UserID: user.ID, Amount: decimal.RequireFromString("50.00"),
		Method: domain.WithdrawalMethodBank, Destination: "acct",
	})
	require.NoError(t, err)

	_, err = ledgerSvc.ResolveWithdrawal(ctx, w.ID, domain.WithdrawalRejected, "Destination failed checks", admin.ID)
	require.NoError(t, err)

	logs, err := store.Queries().ListEmailLogs(ctx, user.ID, 10, 0)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	assert.Equal(t, domain.EmailWithdrawalUpdate, logs[0].Type)
	assert.Equal(t, "Withdrawal "+w.Reference+" rejected", logs[0].Subject)
}
