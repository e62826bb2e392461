package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Human-facing reference generators. References are short uppercase slices of
// a random UUID, unique enough for support conversations while the row UUID
// stays the real key.

func randomHex(n int) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:n])
}

// NewCaseRef returns an 8-character case reference, e.g. "3F9A01BC".
func NewCaseRef() string { return randomHex(8) }

// NewDepositRef returns a 12-character deposit reference.
func NewDepositRef() string { return randomHex(12) }

// NewWithdrawalRef returns a withdrawal reference of the form "WD" + 10 hex chars.
func NewWithdrawalRef() string { return "WD" + randomHex(10) }

// NewTransactionRef returns a recovery transaction reference of the form
// "TXN" + 12 hex chars.
func NewTransactionRef() string { return "TXN" + randomHex(12) }
