package storage

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/quintans/faults"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/NgigiN/ledger/internal/ledger"
)

// AccountStore reads and writes accounts. Balance changes lock the row first
// and apply a relative update, so a stale read can never be written back.
type AccountStore struct {
	db *gorm.DB
}

var _ ledger.AccountStore = (*AccountStore)(nil)

var forUpdate = clause.Locking{Strength: "UPDATE"}

func (s *AccountStore) Create(ctx context.Context, initialBalance int64) (ledger.Account, error) {
	if initialBalance < 0 {
		return ledger.Account{}, ledger.InvalidAmount("initial balance cannot be negative")
	}
	row := Account{Number: uuid.NewString(), Balance: initialBalance}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return ledger.Account{}, faults.Errorf("failed to create account: %w", err)
	}
	return row.toLedger(), nil
}

func (s *AccountStore) FindByNumber(ctx context.Context, number string) (ledger.Account, error) {
	row, err := s.find(s.db.WithContext(ctx), number)
	if err != nil {
		return ledger.Account{}, err
	}
	return row.toLedger(), nil
}

func (s *AccountStore) List(ctx context.Context, req ledger.PageRequest) (ledger.Page[ledger.Account], error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&Account{}).Count(&total).Error; err != nil {
		return ledger.Page[ledger.Account]{}, faults.Errorf("failed to count accounts: %w", err)
	}

	var rows []Account
	err := db.Order("id").Offset(req.Offset()).Limit(req.Size).Find(&rows).Error
	if err != nil {
		return ledger.Page[ledger.Account]{}, faults.Errorf("failed to list accounts: %w", err)
	}

	items := make([]ledger.Account, len(rows))
	for i, r := range rows {
		items[i] = r.toLedger()
	}
	return ledger.NewPage(items, req, total), nil
}

// FindPairForTransfer resolves both account numbers with one locking read.
// Rows are locked in id order, so opposite transfers between the same two
// accounts take their locks in the same order.
func (s *AccountStore) FindPairForTransfer(ctx context.Context, fromNumber, toNumber string) (ledger.TransferLookup, error) {
	var rows []Account
	err := s.db.WithContext(ctx).
		Clauses(forUpdate).
		Where("account_number IN ?", []string{fromNumber, toNumber}).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return ledger.TransferLookup{}, faults.Errorf("failed to look up transfer accounts: %w", err)
	}

	lookup := ledger.TransferLookup{FromNumber: fromNumber, ToNumber: toNumber}
	for _, r := range rows {
		acc := r.toLedger()
		switch r.Number {
		case fromNumber:
			lookup.From = &acc
		case toNumber:
			lookup.To = &acc
		}
	}
	return lookup, nil
}

func (s *AccountStore) IncreaseBalance(ctx context.Context, number string, amount int64) (ledger.Account, error) {
	db := s.db.WithContext(ctx)
	row, err := s.find(db.Clauses(forUpdate), number)
	if err != nil {
		return ledger.Account{}, err
	}
	updated, err := row.toLedger().Credit(amount)
	if err != nil {
		return ledger.Account{}, err
	}

	res := db.Model(&Account{}).
		Where("id = ? AND balance <= ?", row.ID, math.MaxInt64-amount).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return ledger.Account{}, faults.Errorf("failed to increase balance of %s: %w", number, res.Error)
	}
	if res.RowsAffected == 0 {
		return ledger.Account{}, ledger.BalanceOverflow(number)
	}
	return updated, nil
}

func (s *AccountStore) DecreaseBalance(ctx context.Context, number string, amount int64) (ledger.Account, error) {
	db := s.db.WithContext(ctx)
	row, err := s.find(db.Clauses(forUpdate), number)
	if err != nil {
		return ledger.Account{}, err
	}
	updated, err := row.toLedger().Debit(amount)
	if err != nil {
		return ledger.Account{}, err
	}

	res := db.Model(&Account{}).
		Where("id = ? AND balance >= ?", row.ID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return ledger.Account{}, faults.Errorf("failed to decrease balance of %s: %w", number, res.Error)
	}
	if res.RowsAffected == 0 {
		return ledger.Account{}, ledger.InsufficientFunds(number)
	}
	return updated, nil
}

func (s *AccountStore) find(db *gorm.DB, number string) (Account, error) {
	var row Account
	err := db.Where("account_number = ?", number).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Account{}, ledger.AccountNotFound(number)
	}
	if err != nil {
		return Account{}, faults.Errorf("failed to find account %s: %w", number, err)
	}
	return row, nil
}
