package domain

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var hexUpper = regexp.MustCompile(`^[0-9A-F]+$`)

func TestReferenceFormats(t *testing.T) {
	caseRef := NewCaseRef()
	assert.Len(t, caseRef, 8)
	assert.Regexp(t, hexUpper, caseRef)

	depositRef := NewDepositRef()
	assert.Len(t, depositRef, 12)
	assert.Regexp(t, hexUpper, depositRef)

	withdrawalRef := NewWithdrawalRef()
	assert.Len(t, withdrawalRef, 12)
	assert.Equal(t, "WD", withdrawalRef[:2])
	assert.Regexp(t, hexUpper, withdrawalRef[2:])

	txnRef := NewTransactionRef()
	assert.Len(t, txnRef, 15)
	assert.Equal(t, "TXN", txnRef[:3])
	assert.Regexp(t, hexUpper, txnRef[3:])
}

func TestReferencesAreUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		ref := NewCaseRef()
		_, dup := seen[ref]
		assert.False(t, dup, "duplicate reference %s", ref)
		seen[ref] = struct{}{}
	}
}
