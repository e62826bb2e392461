package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseStatusCanTransition(t *testing.T) {
	tests := []struct {
		from CaseStatus
		to   CaseStatus
		want bool
	}{
		{CaseSubmitted, CaseVerified, true},
		{CaseSubmitted, CaseTracing, true}, // skipping forward is allowed
		{CaseVerified, CaseSubmitted, false},
		{CaseTracing, CaseInvestigation, false},
		{CaseRecovery, CaseCompleted, true},
		{CaseSubmitted, CaseRejected, true},
		{CaseSecured, CaseRejected, true},
		{CaseCompleted, CaseRejected, false},
		{CaseRejected, CaseVerified, false},
		{CaseVerified, CaseVerified, false},
		{CaseVerified, CaseStatus("bogus"), false},
		{CaseStatus("bogus"), CaseVerified, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCaseStatusTerminal(t *testing.T) {
	assert.True(t, CaseCompleted.Terminal())
	assert.True(t, CaseRejected.Terminal())
	assert.False(t, CaseSecured.Terminal())
}

func TestCaseStatusProgress(t *testing.T) {
	assert.Equal(t, 10, CaseSubmitted.Progress())
	assert.Equal(t, 100, CaseCompleted.Progress())
	assert.Equal(t, 100, CaseRejected.Progress())

	// Progress is monotonic along the pipeline.
	order := []CaseStatus{CaseSubmitted, CaseVerified, CaseInvestigation, CaseTracing, CaseEvidence, CaseRecovery, CaseSecured, CaseCompleted}
	for i := 1; i < len(order); i++ {
		assert.Greater(t, order[i].Progress(), order[i-1].Progress())
	}
}

func TestDepositStatusTransitions(t *testing.T) {
	assert.True(t, DepositPending.CanTransition(DepositUnderReview))
	assert.True(t, DepositPending.CanTransition(DepositCompleted))
	assert.True(t, DepositUnderReview.CanTransition(DepositFailed))
	assert.False(t, DepositUnderReview.CanTransition(DepositPending))
	assert.False(t, DepositCompleted.CanTransition(DepositFailed))
	assert.False(t, DepositCancelled.CanTransition(DepositPending))
}

func TestDepositStatusActive(t *testing.T) {
	// Completed stays active: a paid case never takes a second deposit.
	assert.True(t, DepositPending.Active())
	assert.True(t, DepositUnderReview.Active())
	assert.True(t, DepositCompleted.Active())
	assert.False(t, DepositFailed.Active())
	assert.False(t, DepositCancelled.Active())
}

func TestWithdrawalStatusTransitions(t *testing.T) {
	assert.True(t, WithdrawalPending.CanTransition(WithdrawalApproved))
	assert.True(t, WithdrawalPending.CanTransition(WithdrawalRejected))
	assert.True(t, WithdrawalApproved.CanTransition(WithdrawalProcessing))
	assert.True(t, WithdrawalProcessing.CanTransition(WithdrawalCompleted))
	assert.False(t, WithdrawalProcessing.CanTransition(WithdrawalApproved))
	assert.False(t, WithdrawalCompleted.CanTransition(WithdrawalRejected))
	assert.False(t, WithdrawalRejected.CanTransition(WithdrawalPending))
}

func TestKYCStatusValid(t *testing.T) {
	assert.True(t, KYCPending.Valid())
	assert.True(t, KYCResubmit.Valid())
	assert.False(t, KYCStatus("unknown").Valid())
}
