package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recoverypro/portal/internal/domain"
	"github.com/recoverypro/portal/internal/models"
)

func TestSubmitCase(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	caseSvc := NewCaseService(store, notifications, email)

	user := createTestUser(t, store.Queries())

	c, err := caseSvc.SubmitCase(ctx, SubmitCaseInput{
		UserID:       user.ID,
		ScamType:     domain.ScamTypeInvestment,
		Description:  "Broker vanished after I wired the funds",
		AmountLost:   decimal.RequireFromString("1000.00"),
		Currency:     "usd",
		IncidentDate: time.Now().AddDate(0, -2, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CaseSubmitted, c.Status)
	assert.Equal(t, "USD", c.Currency)
	assert.Len(t, c.Reference, 8)

	timeline, err := caseSvc.Timeline(ctx, c.ID, user.ID, false)
	require.NoError(t, err)
	require.Len(t, timeline, 1)
	assert.Equal(t, domain.CaseSubmitted, timeline[0].NewStatus)

	notes, err := store.Queries().ListNotifications(ctx, user.ID, false, 10, 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotificationCaseUpdate, notes[0].Type)
}

func TestSubmitCase_Validation(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	caseSvc := NewCaseService(store, notifications, email)
	user := createTestUser(t, store.Queries())

	tests := []struct {
		name  string
		input SubmitCaseInput
	}{
		{
			name: "unknown scam type",
			input: SubmitCaseInput{
				UserID: user.ID, ScamType: "lottery", Description: "d",
				AmountLost: decimal.RequireFromString("10"), Currency: "USD",
				IncidentDate: time.Now().AddDate(0, -1, 0),
			},
		},
		{
			name: "empty description",
			input: SubmitCaseInput{
				UserID: user.ID, ScamType: domain.ScamTypeCrypto, Description: "  ",
				AmountLost: decimal.RequireFromString("10"), Currency: "USD",
				IncidentDate: time.Now().AddDate(0, -1, 0),
			},
		},
		{
			name: "zero amount",
			input: SubmitCaseInput{
				UserID: user.ID, ScamType: domain.ScamTypeCrypto, Description: "d",
				AmountLost: decimal.Zero, Currency: "USD",
				IncidentDate: time.Now().AddDate(0, -1, 0),
			},
		},
		{
			name: "bad currency",
			input: SubmitCaseInput{
				UserID: user.ID, ScamType: domain.ScamTypeCrypto, Description: "d",
				AmountLost: decimal.RequireFromString("10"), Currency: "US",
				IncidentDate: time.Now().AddDate(0, -1, 0),
			},
		},
		{
			name: "future incident date",
			input: SubmitCaseInput{
				UserID: user.ID, ScamType: domain.ScamTypeCrypto, Description: "d",
				AmountLost: decimal.RequireFromString("10"), Currency: "USD",
				IncidentDate: time.Now().AddDate(0, 0, 7),
			},
		},
		{
			name: "missing incident date",
			input: SubmitCaseInput{
				UserID: user.ID, ScamType: domain.ScamTypeCrypto, Description: "d",
				AmountLost: decimal.RequireFromString("10"), Currency: "USD",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := caseSvc.SubmitCase(ctx, tc.input)
			assert.True(t, models.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestSelectPlan(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	caseSvc := NewCaseService(store, notifications, email)

	user := createTestUser(t, store.Queries())
	plan := createTestPlan(t, store.Queries(), "12.5")
	c := createTestCase(t, store.Queries(), user.ID, domain.CaseSubmitted, "1000.00")

	updated, required, err := caseSvc.SelectPlan(ctx, user.ID, c.ID, plan.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.PlanID)
	assert.Equal(t, plan.ID, *updated.PlanID)
	assert.Equal(t, "125", required.String())
	assert.Equal(t, domain.CaseVerified, updated.Status)

	// A case carries one plan for life.
	second := createTestPlan(t, store.Queries(), "20")
	_, _, err = caseSvc.SelectPlan(ctx, user.ID, c.ID, second.ID)
	assert.True(t, models.IsValidation(err))
}

func TestSelectPlan_InactivePlan(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	caseSvc := NewCaseService(store, notifications, email)

	user := createTestUser(t, store.Queries())
	plan := createTestPlan(t, store.Queries(), "10")
	_, err := store.Queries().SetPlanActive(ctx, plan.ID, false)
	require.NoError(t, err)
	c := createTestCase(t, store.Queries(), user.ID, domain.CaseSubmitted, "500.00")

	_, _, err = caseSvc.SelectPlan(ctx, user.ID, c.ID, plan.ID)
	assert.ErrorIs(t, err, models.ErrPlanInactive)
}

func TestSelectPlan_NotOwner(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	caseSvc := NewCaseService(store, notifications, email)

	owner := createTestUser(t, store.Queries())
	stranger := createTestUser(t, store.Queries())
	plan := createTestPlan(t, store.Queries(), "10")
	c := createTestCase(t, store.Queries(), owner.ID, domain.CaseSubmitted, "500.00")

	_, _, err := caseSvc.SelectPlan(ctx, stranger.ID, c.ID, plan.ID)
	assert.ErrorIs(t, err, models.ErrCaseNotFound)
}

func TestAdvanceStatus(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	caseSvc := NewCaseService(store, notifications, email)

	user := createTestUser(t, store.Queries())
	admin := createTestUser(t, store.Queries())
	c := createTestCase(t, store.Queries(), user.ID, domain.CaseSubmitted, "1000.00")

	updated, err := caseSvc.AdvanceStatus(ctx, c.ID, domain.CaseVerified, "Identity checks passed", admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CaseVerified, updated.Status)

	// Skipping forward is fine; going backwards is not.
	updated, err = caseSvc.AdvanceStatus(ctx, c.ID, domain.CaseTracing, "", admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CaseTracing, updated.Status)

	_, err = caseSvc.AdvanceStatus(ctx, c.ID, domain.CaseVerified, "", admin.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	timeline, err := caseSvc.Timeline(ctx, c.ID, admin.ID, true)
	require.NoError(t, err)
	assert.Len(t, timeline, 2)
}

func TestAdvanceStatus_RejectedIsTerminal(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	caseSvc := NewCaseService(store, notifications, email)

	user := createTestUser(t, store.Queries())
	admin := createTestUser(t, store.Queries())
	c := createTestCase(t, store.Queries(), user.ID, domain.CaseInvestigation, "1000.00")

	_, err := caseSvc.AdvanceStatus(ctx, c.ID, domain.CaseRejected, "Fraudulent claim", admin.ID)
	require.NoError(t, err)

	_, err = caseSvc.AdvanceStatus(ctx, c.ID, domain.CaseRecovery, "", admin.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestAttachEvidence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	caseSvc := NewCaseService(store, notifications, email)

	user := createTestUser(t, store.Queries())
	c := createTestCase(t, store.Queries(), user.ID, domain.CaseSubmitted, "1000.00")

	f, err := caseSvc.AttachEvidence(ctx, c.ID, user.ID, "statement.pdf", 1024, "uploads/statement.pdf")
	require.NoError(t, err)
	assert.Equal(t, c.ID, f.CaseID)

	_, err = caseSvc.AttachEvidence(ctx, c.ID, user.ID, "malware.exe", 1024, "uploads/malware.exe")
	assert.True(t, models.IsValidation(err))

	_, err = caseSvc.AttachEvidence(ctx, c.ID, user.ID, "huge.pdf", domain.MaxDocumentSize+1, "uploads/huge.pdf")
	assert.True(t, models.IsValidation(err))

	files, err := caseSvc.ListEvidence(ctx, c.ID, user.ID, false)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestGetCase_OwnerScoping(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	caseSvc := NewCaseService(store, notifications, email)

	owner := createTestUser(t, store.Queries())
	stranger := createTestUser(t, store.Queries())
	c := createTestCase(t, store.Queries(), owner.ID, domain.CaseSubmitted, "100.00")

	_, err := caseSvc.GetCase(ctx, c.ID, stranger.ID, false)
	assert.ErrorIs(t, err, models.ErrCaseNotFound)

	got, err := caseSvc.GetCase(ctx, c.ID, stranger.ID, true)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = caseSvc.GetCase(ctx, uuid.New(), owner.ID, false)
	assert.ErrorIs(t, err, models.ErrCaseNotFound)
}

func TestAssignCase(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	caseSvc := NewCaseService(store, notifications, email)

	owner := createTestUser(t, store.Queries())
	agent := createTestStaff(t, store.Queries(), domain.RoleAgent)
	c := createTestCase(t, store.Queries(), owner.ID, domain.CaseSubmitted, "500.00")

	assigned, err := caseSvc.Assign(ctx, c.ID, agent.ID, 65)
	require.NoError(t, err)
	require.NotNil(t, assigned.AgentID)
	assert.Equal(t, agent.ID, *assigned.AgentID)
	assert.Equal(t, 65, assigned.RiskScore)

	_, err = caseSvc.Assign(ctx, c.ID, agent.ID, 101)
	assert.True(t, models.IsValidation(err), "expected validation error, got %v", err)

	// Regular users cannot be assigned as reviewers.
	_, err = caseSvc.Assign(ctx, c.ID, owner.ID, 10)
	assert.True(t, models.IsValidation(err), "expected validation error, got %v", err)

	_, err = caseSvc.Assign(ctx, uuid.New(), agent.ID, 10)
	assert.ErrorIs(t, err, models.ErrCaseNotFound)
}

func TestSubmitCase_NotifiesAdmins(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	caseSvc := NewCaseService(store, notifications, email)

	user := createTestUser(t, store.Queries())
	firstAdmin := createTestStaff(t, store.Queries(), domain.RoleAdmin)
	secondAdmin := createTestStaff(t, store.Queries(), domain.RoleAdmin)
	agent := createTestStaff(t, store.Queries(), domain.RoleAgent)

	c, err := caseSvc.SubmitCase(ctx, SubmitCaseInput{
		UserID:       user.ID,
		ScamType:     domain.ScamTypeCrypto,
		Description:  "Wallet drained after signing a fake airdrop",
		AmountLost:   decimal.RequireFromString("750.00"),
		Currency:     "USD",
		IncidentDate: time.Now().AddDate(0, 0, -7),
	})
	require.NoError(t, err)

	for _, admin := range []*models.User{firstAdmin, secondAdmin} {
		notes, err := store.Queries().ListNotifications(ctx, admin.ID, false, 10, 0)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, domain.NotificationSystem, notes[0].Type)
		assert.Contains(t, notes[0].Title, c.Reference)
		require.NotNil(t, notes[0].CaseID)
		assert.Equal(t, c.ID, *notes[0].CaseID)
	}

	// Agents are not on the intake queue.
	notes, err := store.Queries().ListNotifications(ctx, agent.ID, false, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestSelectPlan_AmountOutsideRange(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	caseSvc := NewCaseService(store, notifications, email)

	user := createTestUser(t, store.Queries())
	plan := createTestPlan(t, store.Queries(), "15")
	plan.MaxAmount = decimal.NewFromInt(1000)
	_, err := db.Exec(ctx, `UPDATE payment_plans SET max_amount = $2 WHERE id = $1`, plan.ID, plan.MaxAmount)
	require.NoError(t, err)

	c := createTestCase(t, store.Queries(), user.ID, domain.CaseSubmitted, "5000.00")

	_, _, err = caseSvc.SelectPlan(ctx, user.ID, c.ID, plan.ID)
	assert.True(t, models.IsValidation(err), "expected validation error, got %v", err)

	// The range is half-open: the upper bound itself is excluded.
	edge := createTestCase(t, store.Queries(), user.ID, domain.CaseSubmitted, "1000.00")
	_, _, err = caseSvc.SelectPlan(ctx, user.ID, edge.ID, plan.ID)
	assert.True(t, models.IsValidation(err), "expected validation error, got %v", err)
}

func TestAdvanceStatus_NotificationNamesBothStages(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, notifications, email := newTestServices(db)
	caseSvc := NewCaseService(store, notifications, email)

	user := createTestUser(t, store.Queries())
	admin := createTestUser(t, store.Queries())
	c := createTestCase(t, store.Queries(), user.ID, domain.CaseSubmitted, "1000.00")

	_, err := caseSvc.AdvanceStatus(ctx, c.ID, domain.CaseVerified, "", admin.ID)
	require.NoError(t, err)

	notes, err := store.Queries().ListNotifications(ctx, user.ID, false, 10, 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, domain.CaseSubmitted.Label())
	assert.Contains(t, notes[0].Message, domain.CaseVerified.Label())
	require.NotNil(t, notes[0].CaseID)
	assert.Equal(t, c.ID, *notes[0].CaseID)
}
