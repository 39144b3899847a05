package ledger

import "math"

// Account is a snapshot of a stored account. Balance is kept in the smallest
// currency unit and never goes below zero.
type Account struct {
	ID      uint   `json:"-"`
	Number  string `json:"accountNumber"`
	Balance int64  `json:"balance"`
}

// Credit returns a copy of the account with amount added to the balance,
// or BalanceOverflow when the sum does not fit in an int64.
func (a Account) Credit(amount int64) (Account, error) {
	if amount > math.MaxInt64-a.Balance {
		return a, BalanceOverflow(a.Number)
	}
	a.Balance += amount
	return a, nil
}

// Debit returns a copy of the account with amount taken from the balance,
// or InsufficientFunds when the balance does not cover it.
func (a Account) Debit(amount int64) (Account, error) {
	if a.Balance < amount {
		return a, InsufficientFunds(a.Number)
	}
	a.Balance -= amount
	return a, nil
}
