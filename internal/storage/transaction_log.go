package storage

import (
	"context"

	"github.com/quintans/faults"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/NgigiN/ledger/internal/ledger"
)

// TransactionLog appends ledger records. There is no update or delete.
type TransactionLog struct {
	db *gorm.DB
}

var _ ledger.TransactionLog = (*TransactionLog)(nil)

func (l *TransactionLog) Append(ctx context.Context, tx ledger.Transaction) (ledger.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return ledger.Transaction{}, err
	}

	row := Transaction{
		Amount:    tx.Amount,
		Type:      string(tx.Type),
		Timestamp: tx.Timestamp,
	}
	if tx.From != nil {
		id := tx.From.ID
		row.FromAccountID = &id
	}
	if tx.To != nil {
		id := tx.To.ID
		row.ToAccountID = &id
	}

	if err := l.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		return ledger.Transaction{}, faults.Errorf("failed to append %s transaction: %w", tx.Type, err)
	}
	tx.ID = row.ID
	return tx, nil
}

// ListByAccount returns the records where the account is either side, newest
// first.
func (l *TransactionLog) ListByAccount(ctx context.Context, number string, req ledger.PageRequest) (ledger.Page[ledger.Transaction], error) {
	db := l.db.WithContext(ctx)

	accountIDs := db.Model(&Account{}).Select("id").Where("account_number = ?", number)
	scope := db.Model(&Transaction{}).
		Where("from_account_id IN (?) OR to_account_id IN (?)", accountIDs, accountIDs).
		Session(&gorm.Session{})

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return ledger.Page[ledger.Transaction]{}, faults.Errorf("failed to count transactions of %s: %w", number, err)
	}

	var rows []Transaction
	err := scope.
		Preload("FromAccount").
		Preload("ToAccount").
		Order("id DESC").
		Offset(req.Offset()).
		Limit(req.Size).
		Find(&rows).Error
	if err != nil {
		return ledger.Page[ledger.Transaction]{}, faults.Errorf("failed to list transactions of %s: %w", number, err)
	}

	items := make([]ledger.Transaction, len(rows))
	for i, r := range rows {
		items[i] = r.toLedger()
	}
	return ledger.NewPage(items, req, total), nil
}
