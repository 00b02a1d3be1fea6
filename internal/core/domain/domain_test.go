package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "ab12cd34", "AB12CD34"},
		{"mixed case", "Ab12Cd34", "AB12CD34"},
		{"already normalized", "AB12CD34", "AB12CD34"},
		{"surrounding whitespace", "  ab12  ", "AB12"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeUID(tt.input))
		})
	}
}

func TestTransaction_IsConsistent(t *testing.T) {
	topup := &Transaction{Kind: TransactionKindTopup, Amount: 500, BalanceBefore: 0, BalanceAfter: 500}
	assert.True(t, topup.IsConsistent())

	payment := &Transaction{Kind: TransactionKindPayment, Amount: 300, BalanceBefore: 500, BalanceAfter: 200}
	assert.True(t, payment.IsConsistent())

	broken := &Transaction{Kind: TransactionKindTopup, Amount: 500, BalanceBefore: 0, BalanceAfter: 400}
	assert.False(t, broken.IsConsistent())

	unknown := &Transaction{Kind: TransactionKind("REFUND"), Amount: 1, BalanceBefore: 1, BalanceAfter: 0}
	assert.False(t, unknown.IsConsistent())
}
