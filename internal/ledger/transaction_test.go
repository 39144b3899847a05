package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransactionValidate(t *testing.T) {
	a := &Account{ID: 1, Number: "A"}
	b := &Account{ID: 2, Number: "B"}
	now := time.Now()

	cases := []struct {
		name string
		tx   Transaction
		ok   bool
	}{
		{"deposit", Transaction{To: a, Amount: 1, Type: TypeDeposit, Timestamp: now}, true},
		{"deposit with source", Transaction{From: b, To: a, Amount: 1, Type: TypeDeposit}, false},
		{"withdrawal", Transaction{From: a, Amount: 1, Type: TypeWithdrawal}, true},
		{"withdrawal with destination", Transaction{From: a, To: b, Amount: 1, Type: TypeWithdrawal}, false},
		{"transfer", Transaction{From: a, To: b, Amount: 1, Type: TypeTransfer}, true},
		{"transfer missing side", Transaction{From: a, Amount: 1, Type: TypeTransfer}, false},
		{"transfer to self", Transaction{From: a, To: a, Amount: 1, Type: TypeTransfer}, false},
		{"zero amount", Transaction{To: a, Amount: 0, Type: TypeDeposit}, false},
		{"unknown type", Transaction{To: a, Amount: 1, Type: "REFUND"}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.tx.Validate()
			if c.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

	err := Transaction{To: a, Amount: -5, Type: TypeDeposit}.Validate()
	assert.True(t, errors.Is(err, ErrInvalidAmount))
}

func TestTransactionViews(t *testing.T) {
	a := &Account{ID: 1, Number: "A", Balance: 900}
	b := &Account{ID: 2, Number: "B", Balance: 2100}
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tr := Transaction{ID: 7, From: a, To: b, Amount: 100, Type: TypeTransfer, Timestamp: ts}
	assert.Equal(t, TransferView{
		FromAccountNumber: "A",
		ToAccountNumber:   "B",
		Amount:            100,
		Type:              TypeTransfer,
		Timestamp:         ts,
	}, tr.TransferView())

	w := Transaction{From: a, Amount: 5, Type: TypeWithdrawal, Timestamp: ts}
	assert.Equal(t, "A", w.SingleView().AccountNumber)
	assert.Equal(t, TransactionView{FromAccountNumber: "A", Amount: 5, Type: TypeWithdrawal, Timestamp: ts}, w.View())
}
