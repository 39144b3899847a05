package ledger

import "context"

// TransferLookup is the result of resolving both sides of a transfer in one
// read. A nil side means that account number does not exist.
type TransferLookup struct {
	FromNumber string
	ToNumber   string
	From       *Account
	To         *Account
}

// Missing lists the unresolved account numbers, source first.
func (l TransferLookup) Missing() []string {
	var missing []string
	if l.From == nil {
		missing = append(missing, l.FromNumber)
	}
	if l.To == nil {
		missing = append(missing, l.ToNumber)
	}
	return missing
}

type AccountStore interface {
	Create(ctx context.Context, initialBalance int64) (Account, error)
	FindByNumber(ctx context.Context, number string) (Account, error)
	List(ctx context.Context, req PageRequest) (Page[Account], error)
	FindPairForTransfer(ctx context.Context, fromNumber, toNumber string) (TransferLookup, error)
	IncreaseBalance(ctx context.Context, number string, amount int64) (Account, error)
	DecreaseBalance(ctx context.Context, number string, amount int64) (Account, error)
}

// TransactionLog is append only: records are never updated or deleted.
type TransactionLog interface {
	Append(ctx context.Context, tx Transaction) (Transaction, error)
	ListByAccount(ctx context.Context, number string, req PageRequest) (Page[Transaction], error)
}

// Store gives access to the account and transaction stores. Do runs fn inside
// a single storage transaction; every write made through the stores handed to
// fn is rolled back if fn returns an error.
type Store interface {
	Accounts() AccountStore
	Transactions() TransactionLog
	Do(ctx context.Context, fn func(accounts AccountStore, txLog TransactionLog) error) error
}
