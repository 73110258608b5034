package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mockupstudio/server/internal/model"
	"github.com/mockupstudio/server/internal/port/outbound"
	"gorm.io/gorm"
)

// transactionAdapter implements outbound.TransactionDatabasePort.
type transactionAdapter struct {
	db *gorm.DB
}

// NewTransactionAdapter creates a new transaction record adapter.
func NewTransactionAdapter(db *gorm.DB) outbound.TransactionDatabasePort {
	return &transactionAdapter{db: db}
}

func (a *transactionAdapter) RecordDebit(ctx context.Context, accountID uuid.UUID, amount int64, description string) error {
	return a.db.WithContext(ctx).Create(&model.Transaction{
		AccountID:   accountID,
		Amount:      amount,
		Type:        model.TransactionTypeDebit,
		Description: description,
	}).Error
}

func (a *transactionAdapter) RecordCredit(ctx context.Context, accountID uuid.UUID, amount int64, description string) error {
	return a.db.WithContext(ctx).Create(&model.Transaction{
		AccountID:   accountID,
		Amount:      amount,
		Type:        model.TransactionTypeCredit,
		Description: description,
	}).Error
}

func (a *transactionAdapter) FindByDescription(ctx context.Context, description string) (*model.Transaction, error) {
	var tx model.Transaction
	err := a.db.WithContext(ctx).First(&tx, "description = ?", description).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

func (a *transactionAdapter) CreditWithRecord(ctx context.Context, accountID uuid.UUID, amount int64, reference string) (int64, error) {
	var balance int64
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&model.Transaction{}).Where("reference = ?", reference).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return outbound.ErrDuplicateReference
		}

		ref := reference
		record := &model.Transaction{
			AccountID:   accountID,
			Amount:      amount,
			Type:        model.TransactionTypeCredit,
			Description: reference,
			Reference:   &ref,
		}
		if err := tx.Create(record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return outbound.ErrDuplicateReference
			}
			return err
		}

		var err error
		balance, err = creditInTx(tx, accountID, amount)
		return err
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (a *transactionAdapter) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*model.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	var txs []*model.Transaction
	err := a.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txs).Error
	return txs, err
}

func (a *transactionAdapter) ActivityByAccounts(ctx context.Context, accountIDs []uuid.UUID) (map[uuid.UUID]outbound.AccountActivity, error) {
	activity := make(map[uuid.UUID]outbound.AccountActivity, len(accountIDs))
	if len(accountIDs) == 0 {
		return activity, nil
	}

	var rows []struct {
		AccountID        uuid.UUID
		TransactionCount int64
		CreditsSpent     int64
	}
	err := a.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Select("account_id, COUNT(*) AS transaction_count, COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS credits_spent", model.TransactionTypeDebit).
		Where("account_id IN ?", accountIDs).
		Group("account_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		activity[r.AccountID] = outbound.AccountActivity{
			TransactionCount: r.TransactionCount,
			CreditsSpent:     r.CreditsSpent,
		}
	}
	return activity, nil
}

// Compile-time check
var _ outbound.TransactionDatabasePort = (*transactionAdapter)(nil)
