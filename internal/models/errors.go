package models

import "errors"

var (
	ErrInsufficientBalance    = errors.New("insufficient wallet balance")
	ErrBelowMinimumWithdrawal = errors.New("amount is below the minimum withdrawal")
	ErrDuplicateActiveDeposit = errors.New("case already has an active deposit")
	ErrPlanInactive           = errors.New("payment plan is not active")
	ErrPlanRequired           = errors.New("case has no payment plan selected")
	ErrKYCRequired            = errors.New("identity verification is required")
	ErrInvalidTransition      = errors.New("status transition not allowed")

	ErrUserNotFound       = errors.New("user not found")
	ErrCaseNotFound       = errors.New("case not found")
	ErrPlanNotFound       = errors.New("payment plan not found")
	ErrDepositNotFound    = errors.New("deposit not found")
	ErrWithdrawalNotFound = errors.New("withdrawal request not found")
	ErrKYCNotFound        = errors.New("kyc submission not found")
	ErrWalletNotFound     = errors.New("wallet not found")

	ErrNotificationNotFound = errors.New("notification not found")
)

// ValidationError marks caller input problems so handlers can map them to a
// 422 instead of a 500.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// NewValidationError builds a field-scoped validation error.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
