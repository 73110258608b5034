package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mockupstudio/server/internal/model"
	"github.com/mockupstudio/server/internal/port/outbound"
	"gorm.io/gorm"
)

// ledgerAdapter implements outbound.LedgerPort on the accounts table.
type ledgerAdapter struct {
	db *gorm.DB
}

// NewLedgerAdapter creates a new credit ledger adapter.
func NewLedgerAdapter(db *gorm.DB) outbound.LedgerPort {
	return &ledgerAdapter{db: db}
}

// TryReserve is a single conditional UPDATE; the row filter is the only guard
// against concurrent reservations.
func (a *ledgerAdapter) TryReserve(ctx context.Context, accountID uuid.UUID, amount int64) (bool, error) {
	if amount <= 0 {
		return false, fmt.Errorf("reserve non-positive amount %d", amount)
	}

	result := a.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ? AND credits >= ?", accountID, amount).
		UpdateColumn("credits", gorm.Expr("credits - ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (a *ledgerAdapter) Refund(ctx context.Context, accountID uuid.UUID, amount int64) error {
	result := a.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", accountID).
		UpdateColumn("credits", gorm.Expr("credits + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("refund: account %s not found", accountID)
	}
	return nil
}

func (a *ledgerAdapter) Credit(ctx context.Context, accountID uuid.UUID, amount int64) (int64, error) {
	var balance int64
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		balance, err = creditInTx(tx, accountID, amount)
		return err
	})
	return balance, err
}

func (a *ledgerAdapter) Balance(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var account model.Account
	err := a.db.WithContext(ctx).Select("credits").First(&account, "id = ?", accountID).Error
	if err != nil {
		return 0, err
	}
	return account.Credits, nil
}

func creditInTx(tx *gorm.DB, accountID uuid.UUID, amount int64) (int64, error) {
	result := tx.Model(&model.Account{}).
		Where("id = ?", accountID).
		UpdateColumn("credits", gorm.Expr("credits + ?", amount))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, fmt.Errorf("credit: account %s not found", accountID)
	}

	var account model.Account
	if err := tx.Select("credits").First(&account, "id = ?", accountID).Error; err != nil {
		return 0, err
	}
	return account.Credits, nil
}

// Compile-time check
var _ outbound.LedgerPort = (*ledgerAdapter)(nil)
