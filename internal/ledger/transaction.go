package ledger

import (
	"time"

	"github.com/quintans/faults"
)

type TransactionType string

const (
	TypeDeposit    TransactionType = "DEPOSIT"
	TypeWithdrawal TransactionType = "WITHDRAWAL"
	TypeTransfer   TransactionType = "TRANSFER"
)

// Transaction is an immutable record of a completed balance change. From and
// To hold the account snapshots taken right after the change.
type Transaction struct {
	ID        uint
	From      *Account
	To        *Account
	Amount    int64
	Type      TransactionType
	Timestamp time.Time
}

// Validate checks that the record has the shape its type requires.
func (t Transaction) Validate() error {
	if t.Amount <= 0 {
		return InvalidAmount("amount must be greater than zero")
	}
	switch t.Type {
	case TypeDeposit:
		if t.From != nil || t.To == nil {
			return faults.Errorf("deposit must only have a destination account")
		}
	case TypeWithdrawal:
		if t.From == nil || t.To != nil {
			return faults.Errorf("withdrawal must only have a source account")
		}
	case TypeTransfer:
		if t.From == nil || t.To == nil {
			return faults.Errorf("transfer must have both accounts")
		}
		if t.From.Number == t.To.Number {
			return SameAccount(t.From.Number)
		}
	default:
		return faults.Errorf("unknown transaction type %q", t.Type)
	}
	return nil
}

// SingleTransactionView is returned for operations that touch one account.
type SingleTransactionView struct {
	AccountNumber string          `json:"accountNumber"`
	Amount        int64           `json:"amount"`
	Type          TransactionType `json:"type"`
	Timestamp     time.Time       `json:"timestamp"`
}

// TransferView is returned for a transfer between two accounts.
type TransferView struct {
	FromAccountNumber string          `json:"fromAccountNumber"`
	ToAccountNumber   string          `json:"toAccountNumber"`
	Amount            int64           `json:"amount"`
	Type              TransactionType `json:"type"`
	Timestamp         time.Time       `json:"timestamp"`
}

// TransactionView is a history entry. Either side may be empty.
type TransactionView struct {
	ID                uint            `json:"id"`
	FromAccountNumber string          `json:"fromAccountNumber,omitempty"`
	ToAccountNumber   string          `json:"toAccountNumber,omitempty"`
	Amount            int64           `json:"amount"`
	Type              TransactionType `json:"type"`
	Timestamp         time.Time       `json:"timestamp"`
}

func (t Transaction) SingleView() SingleTransactionView {
	v := SingleTransactionView{Amount: t.Amount, Type: t.Type, Timestamp: t.Timestamp}
	switch {
	case t.To != nil:
		v.AccountNumber = t.To.Number
	case t.From != nil:
		v.AccountNumber = t.From.Number
	}
	return v
}

func (t Transaction) TransferView() TransferView {
	return TransferView{
		FromAccountNumber: t.From.Number,
		ToAccountNumber:   t.To.Number,
		Amount:            t.Amount,
		Type:              t.Type,
		Timestamp:         t.Timestamp,
	}
}

func (t Transaction) View() TransactionView {
	v := TransactionView{ID: t.ID, Amount: t.Amount, Type: t.Type, Timestamp: t.Timestamp}
	if t.From != nil {
		v.FromAccountNumber = t.From.Number
	}
	if t.To != nil {
		v.ToAccountNumber = t.To.Number
	}
	return v
}
