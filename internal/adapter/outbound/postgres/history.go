package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mockupstudio/server/internal/model"
	"github.com/mockupstudio/server/internal/port/outbound"
	"gorm.io/gorm"
)

// historyAdapter implements outbound.HistoryPort on the accounts table.
// Prepend is read-modify-write: concurrent prepends for one account race and
// the last write wins.
type historyAdapter struct {
	db *gorm.DB
}

// NewHistoryAdapter creates a new usage history adapter.
func NewHistoryAdapter(db *gorm.DB) outbound.HistoryPort {
	return &historyAdapter{db: db}
}

func (a *historyAdapter) Prepend(ctx context.Context, accountID uuid.UUID, entry model.HistoryEntry) error {
	current, err := a.Read(ctx, accountID)
	if err != nil {
		return err
	}

	result := a.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", accountID).
		UpdateColumns(map[string]any{
			"usage_history":    current.Prepend(entry),
			"image_count":      gorm.Expr("image_count + ?", 1),
			"generation_count": gorm.Expr("generation_count + ?", 1),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("prepend history: account %s not found", accountID)
	}
	return nil
}

func (a *historyAdapter) Read(ctx context.Context, accountID uuid.UUID) (model.UsageHistory, error) {
	var account model.Account
	err := a.db.WithContext(ctx).
		Select("usage_history").
		First(&account, "id = ?", accountID).Error
	if err != nil {
		return nil, err
	}
	if account.UsageHistory == nil {
		return model.UsageHistory{}, nil
	}
	return account.UsageHistory, nil
}

// Compile-time check
var _ outbound.HistoryPort = (*historyAdapter)(nil)
