package ledger

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditLeavesReceiverUntouched(t *testing.T) {
	acc := Account{ID: 1, Number: "A", Balance: 1000}

	got, err := acc.Credit(100)
	require.NoError(t, err)

	assert.Equal(t, int64(1100), got.Balance)
	assert.Equal(t, int64(1000), acc.Balance)
}

func TestCreditRejectsOverflow(t *testing.T) {
	acc := Account{ID: 1, Number: "A", Balance: math.MaxInt64 - 10}

	got, err := acc.Credit(10)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), got.Balance)

	_, err = acc.Credit(11)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidAmount))
	assert.Equal(t, "amount exceeds the balance limit of account A", err.Error())
}

func TestDebit(t *testing.T) {
	acc := Account{ID: 1, Number: "A", Balance: 1000}

	got, err := acc.Debit(1000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Balance)
	assert.Equal(t, int64(1000), acc.Balance)

	_, err = acc.Debit(1001)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	assert.Equal(t, "insufficient funds in account A", err.Error())
}
