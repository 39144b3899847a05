package storage

import (
	"time"

	"github.com/NgigiN/ledger/internal/ledger"
)

// Account is the stored form of a ledger account.
type Account struct {
	ID        uint   `gorm:"primaryKey"`
	Number    string `gorm:"column:account_number;size:64;uniqueIndex;not null"`
	Balance   int64  `gorm:"not null;check:balance >= 0"`
	CreatedAt time.Time
}

// Transaction is a stored ledger record. Rows are inserted once and never
// updated.
type Transaction struct {
	ID            uint      `gorm:"primaryKey"`
	FromAccountID *uint     `gorm:"index"`
	FromAccount   *Account  `gorm:"constraint:OnDelete:RESTRICT"`
	ToAccountID   *uint     `gorm:"index"`
	ToAccount     *Account  `gorm:"constraint:OnDelete:RESTRICT"`
	Amount        int64     `gorm:"not null;check:amount > 0"`
	Type          string    `gorm:"size:16;not null"`
	Timestamp     time.Time `gorm:"not null"`
}

func (a Account) toLedger() ledger.Account {
	return ledger.Account{ID: a.ID, Number: a.Number, Balance: a.Balance}
}

func (t Transaction) toLedger() ledger.Transaction {
	tx := ledger.Transaction{
		ID:        t.ID,
		Amount:    t.Amount,
		Type:      ledger.TransactionType(t.Type),
		Timestamp: t.Timestamp,
	}
	if t.FromAccount != nil {
		from := t.FromAccount.toLedger()
		tx.From = &from
	}
	if t.ToAccount != nil {
		to := t.ToAccount.toLedger()
		tx.To = &to
	}
	return tx
}
