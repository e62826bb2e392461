package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recoverypro/portal/internal/domain"
	"github.com/recoverypro/portal/internal/models"
	"github.com/recoverypro/portal/internal/repository"
)

func seedDepositCase(t *testing.T, q *repository.Queries, caseSvc *CaseService) (*models.User, *models.ScamCase) {
	t.Helper()

	ctx := context.Background()
	user := createTestUser(t, q)
	plan := createTestPlan(t, q, "12.5")
	c := createTestCase(t, q, user.ID, domain.CaseSubmitted, "1000.00")
	createTestCryptoWallet(t, q, domain.CryptoBTC)

	_, _, err := caseSvc.SelectPlan(ctx, user.ID, c.ID, plan.ID)
	require.NoError(t, err)
	return user, c
}

func TestInitiateDeposit(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	caseSvc := NewCaseService(store, notifications, email)
	depositSvc := NewDepositService(store, notifications, email)

	user, c := seedDepositCase(t, store.Queries(), caseSvc)

	d, err := depositSvc.InitiateDeposit(ctx, user.ID, c.ID, "btc")
	require.NoError(t, err)
	assert.Equal(t, domain.DepositPending, d.Status)
	assert.Equal(t, domain.CryptoBTC, d.Crypto)
	assert.Equal(t, "125", d.Amount.String())
	assert.NotEmpty(t, d.WalletAddr)

	// One live deposit per case.
	_, err = depositSvc.InitiateDeposit(ctx, user.ID, c.ID, domain.CryptoBTC)
	assert.ErrorIs(t, err, models.ErrDuplicateActiveDeposit)
}

func TestInitiateDeposit_RequiresPlan(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	depositSvc := NewDepositService(store, notifications, email)

	user := createTestUser(t, store.Queries())
	c := createTestCase(t, store.Queries(), user.ID, domain.CaseSubmitted, "1000.00")
	createTestCryptoWallet(t, store.Queries(), domain.CryptoBTC)

	_, err := depositSvc.InitiateDeposit(ctx, user.ID, c.ID, domain.CryptoBTC)
	assert.ErrorIs(t, err, models.ErrPlanRequired)
}

func TestInitiateDeposit_NoReceivingWallet(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	caseSvc := NewCaseService(store, notifications, email)
	depositSvc := NewDepositService(store, notifications, email)

	user, c := seedDepositCase(t, store.Queries(), caseSvc)

	_, err := depositSvc.InitiateDeposit(ctx, user.ID, c.ID, domain.CryptoETH)
	assert.True(t, models.IsValidation(err))
}

func TestSubmitTxHash(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	caseSvc := NewCaseService(store, notifications, email)
	depositSvc := NewDepositService(store, notifications, email)

	user, c := seedDepositCase(t, store.Queries(), caseSvc)

	d, err := depositSvc.InitiateDeposit(ctx, user.ID, c.ID, domain.CryptoBTC)
	require.NoError(t, err)

	d, err = depositSvc.SubmitTxHash(ctx, user.ID, d.ID, "0xdeadbeef")
	require.NoError(t, err)
	assert.Equal(t, domain.DepositUnderReview, d.Status)
	assert.Equal(t, "0xdeadbeef", d.TxHash)

	// Already under review.
	_, err = depositSvc.SubmitTxHash(ctx, user.ID, d.ID, "0xdeadbeef")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestConfirmDeposit_AdvancesVerifiedCase(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	caseSvc := NewCaseService(store, notifications, email)
	depositSvc := NewDepositService(store, notifications, email)

	user, c := seedDepositCase(t, store.Queries(), caseSvc)
	admin := createTestUser(t, store.Queries())

	d, err := depositSvc.InitiateDeposit(ctx, user.ID, c.ID, domain.CryptoBTC)
	require.NoError(t, err)
	_, err = depositSvc.SubmitTxHash(ctx, user.ID, d.ID, "0xabc123")
	require.NoError(t, err)

	// Plan selection left the case verified.
	got, err := caseSvc.GetCase(ctx, c.ID, admin.ID, true)
	require.NoError(t, err)
	require.Equal(t, domain.CaseVerified, got.Status)

	confirmed, err := depositSvc.ConfirmDeposit(ctx, d.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DepositCompleted, confirmed.Status)

	got, err = caseSvc.GetCase(ctx, c.ID, admin.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.CaseInvestigation, got.Status)

	// A completed deposit still blocks a second one.
	_, err = depositSvc.InitiateDeposit(ctx, user.ID, c.ID, domain.CryptoBTC)
	assert.ErrorIs(t, err, models.ErrDuplicateActiveDeposit)
}

func TestConfirmDeposit_LaterStageNoAdvance(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	caseSvc := NewCaseService(store, notifications, email)
	depositSvc := NewDepositService(store, notifications, email)

	user, c := seedDepositCase(t, store.Queries(), caseSvc)
	admin := createTestUser(t, store.Queries())

	d, err := depositSvc.InitiateDeposit(ctx, user.ID, c.ID, domain.CryptoBTC)
	require.NoError(t, err)

	_, err = caseSvc.AdvanceStatus(ctx, c.ID, domain.CaseTracing, "", admin.ID)
	require.NoError(t, err)

	_, err = depositSvc.ConfirmDeposit(ctx, d.ID, admin.ID)
	require.NoError(t, err)

	got, err := caseSvc.GetCase(ctx, c.ID, admin.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.CaseTracing, got.Status)
}

func TestRejectDeposit(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	caseSvc := NewCaseService(store, notifications, email)
	depositSvc := NewDepositService(store, notifications, email)

	user, c := seedDepositCase(t, store.Queries(), caseSvc)

	d, err := depositSvc.InitiateDeposit(ctx, user.ID, c.ID, domain.CryptoBTC)
	require.NoError(t, err)

	_, err = depositSvc.RejectDeposit(ctx, d.ID, domain.DepositCompleted, "")
	assert.True(t, models.IsValidation(err))

	rejected, err := depositSvc.RejectDeposit(ctx, d.ID, domain.DepositCancelled, "User asked to cancel")
	require.NoError(t, err)
	assert.Equal(t, domain.DepositCancelled, rejected.Status)

	// A cancelled deposit frees the case for a new one.
	_, err = depositSvc.InitiateDeposit(ctx, user.ID, c.ID, domain.CryptoBTC)
	assert.NoError(t, err)
}

func TestRejectDeposit_FailedEmailsOwner(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	caseSvc := NewCaseService(store, notifications, email)
	depositSvc := NewDepositService(store, notifications, email)

	user, c := seedDepositCase(t, store.Queries(), caseSvc)

	d, err := depositSvc.InitiateDeposit(ctx, user.ID, c.ID, domain.CryptoBTC)
	require.NoError(t, err)

	_, err = depositSvc.RejectDeposit(ctx, d.ID, domain.DepositFailed, "Transaction never landed on chain")
	require.NoError(t, err)

	logs, err := store.Queries().ListEmailLogs(ctx, user.ID, 10, 0)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	assert.Equal(t, domain.EmailDepositFailed, logs[0].Type)
	assert.Equal(t, "Deposit "+d.Reference+" failed", logs[0].Subject)
	assert.Equal(t, user.Email, logs[0].Recipient)
	assert.True(t, logs[0].Sent)
}

func TestRejectDeposit_CancelledSendsNoEmail(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	caseSvc := NewCaseService(store, notifications, email)
	depositSvc := NewDepositService(store, notifications, email)

	user, c := seedDepositCase(t, store.Queries(), caseSvc)

	d, err := depositSvc.InitiateDeposit(ctx, user.ID, c.ID, domain.CryptoBTC)
	require.NoError(t, err)

	_, err = depositSvc.RejectDeposit(ctx, d.ID, domain.DepositCancelled, "User asked to cancel")
	require.NoError(t, err)

	logs, err := store.Queries().ListEmailLogs(ctx, user.ID, 10, 0)
	require.NoError(t, err)
	for _, l := range logs {
		assert.NotEqual(t, domain.EmailDepositFailed, l.Type)
	}
}
