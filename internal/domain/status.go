package domain

// CaseStatus is the recovery pipeline stage of a case. Transitions follow the
// pipeline order; Rejected is reachable from any non-terminal stage.
type CaseStatus string

const (
	CaseSubmitted     CaseStatus = "submitted"
	CaseVerified      CaseStatus = "verified"
	CaseInvestigation CaseStatus = "investigation"
	CaseTracing       CaseStatus = "tracing"
	CaseEvidence      CaseStatus = "evidence"
	CaseRecovery      CaseStatus = "recovery"
	CaseSecured       CaseStatus = "secured"
	CaseCompleted     CaseStatus = "completed"
	CaseRejected      CaseStatus = "rejected"
)

var caseStatusOrder = map[CaseStatus]int{
	CaseSubmitted:     1,
	CaseVerified:      2,
	CaseInvestigation: 3,
	CaseTracing:       4,
	CaseEvidence:      5,
	CaseRecovery:      6,
	CaseSecured:       7,
	CaseCompleted:     8,
	CaseRejected:      9,
}

// Valid reports whether s is a known case status.
func (s CaseStatus) Valid() bool {
	_, ok := caseStatusOrder[s]
	return ok
}

// Order returns the numeric pipeline position, with Rejected last.
func (s CaseStatus) Order() int {
	return caseStatusOrder[s]
}

// Terminal reports whether no further transitions are allowed.
func (s CaseStatus) Terminal() bool {
	return s == CaseCompleted || s == CaseRejected
}

// CanTransition reports whether the case may move from s to next. The pipeline
// is monotonic: a case only moves forward, or sideways into Rejected.
func (s CaseStatus) CanTransition(next CaseStatus) bool {
	if !s.Valid() || !next.Valid() || s.Terminal() || s == next {
		return false
	}
	if next == CaseRejected {
		return true
	}
	return next.Order() > s.Order() && next != CaseRejected
}

// Progress returns the display progress percentage for a stage.
func (s CaseStatus) Progress() int {
	progress := map[CaseStatus]int{
		CaseSubmitted:     10,
		CaseVerified:      20,
		CaseInvestigation: 40,
		CaseTracing:       50,
		CaseEvidence:      60,
		CaseRecovery:      75,
		CaseSecured:       90,
		CaseCompleted:     100,
		CaseRejected:      100,
	}
	if p, ok := progress[s]; ok {
		return p
	}
	return 10
}

// Label returns the human-readable stage name used in notifications.
func (s CaseStatus) Label() string {
	labels := map[CaseStatus]string{
		CaseSubmitted:     "Submitted",
		CaseVerified:      "Verified",
		CaseInvestigation: "Investigation Started",
		CaseTracing:       "Wallet/Account Tracing",
		CaseEvidence:      "Evidence Gathering",
		CaseRecovery:      "Recovery in Progress",
		CaseSecured:       "Funds Secured",
		CaseCompleted:     "Completed",
		CaseRejected:      "Rejected",
	}
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// DepositStatus is the review state of a crypto deposit.
type DepositStatus string

const (
	DepositPending     DepositStatus = "pending"
	DepositCompleted   DepositStatus = "completed"
	DepositFailed      DepositStatus = "failed"
	DepositCancelled   DepositStatus = "cancelled"
	DepositUnderReview DepositStatus = "under_review"
)

var depositTransitions = map[DepositStatus]map[DepositStatus]struct{}{
	DepositPending: {
		DepositUnderReview: {},
		DepositCompleted:   {},
		DepositFailed:      {},
		DepositCancelled:   {},
	},
	DepositUnderReview: {
		DepositCompleted: {},
		DepositFailed:    {},
		DepositCancelled: {},
	},
	DepositCompleted: {},
	DepositFailed:    {},
	DepositCancelled: {},
}

func (s DepositStatus) Valid() bool {
	_, ok := depositTransitions[s]
	return ok
}

func (s DepositStatus) CanTransition(next DepositStatus) bool {
	nexts, ok := depositTransitions[s]
	if !ok {
		return false
	}
	_, ok = nexts[next]
	return ok
}

// Active reports whether the deposit still counts against the one-active-
// deposit-per-case rule. Completed stays active: a case that already paid its
// deposit never accepts another.
func (s DepositStatus) Active() bool {
	return s == DepositPending || s == DepositUnderReview || s == DepositCompleted
}

// WithdrawalStatus is the review state of a withdrawal request. Processing is
// a manual-only intermediate stage used by operations staff.
type WithdrawalStatus string

const (
	WithdrawalPending    WithdrawalStatus = "pending"
	WithdrawalApproved   WithdrawalStatus = "approved"
	WithdrawalProcessing WithdrawalStatus = "processing"
	WithdrawalCompleted  WithdrawalStatus = "completed"
	WithdrawalRejected   WithdrawalStatus = "rejected"
)

var withdrawalTransitions = map[WithdrawalStatus]map[WithdrawalStatus]struct{}{
	WithdrawalPending: {
		WithdrawalApproved:   {},
		WithdrawalProcessing: {},
		WithdrawalCompleted:  {},
		WithdrawalRejected:   {},
	},
	WithdrawalApproved: {
		WithdrawalProcessing: {},
		WithdrawalCompleted:  {},
		WithdrawalRejected:   {},
	},
	WithdrawalProcessing: {
		WithdrawalCompleted: {},
		WithdrawalRejected:  {},
	},
	WithdrawalCompleted: {},
	WithdrawalRejected:  {},
}

func (s WithdrawalStatus) Valid() bool {
	_, ok := withdrawalTransitions[s]
	return ok
}

func (s WithdrawalStatus) CanTransition(next WithdrawalStatus) bool {
	nexts, ok := withdrawalTransitions[s]
	if !ok {
		return false
	}
	_, ok = nexts[next]
	return ok
}

// Terminal reports whether the withdrawal reached a final state.
func (s WithdrawalStatus) Terminal() bool {
	return s == WithdrawalCompleted || s == WithdrawalRejected
}

// KYCStatus is the review state of a KYC submission.
type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCApproved KYCStatus = "approved"
	KYCRejected KYCStatus = "rejected"
	KYCResubmit KYCStatus = "resubmit"
)

func (s KYCStatus) Valid() bool {
	switch s {
	case KYCPending, KYCApproved, KYCRejected, KYCResubmit:
		return true
	default:
		return false
	}
}
