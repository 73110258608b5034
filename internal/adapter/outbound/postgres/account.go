package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mockupstudio/server/internal/model"
	"github.com/mockupstudio/server/internal/port/outbound"
	"gorm.io/gorm"
)

// accountAdapter implements outbound.AccountDatabasePort.
type accountAdapter struct {
	db *gorm.DB
}

// NewAccountAdapter creates a new account database adapter.
func NewAccountAdapter(db *gorm.DB) outbound.AccountDatabasePort {
	return &accountAdapter{db: db}
}

func (a *accountAdapter) Create(ctx context.Context, account *model.Account) error {
	err := a.db.WithContext(ctx).Create(account).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return outbound.ErrDuplicateEmail
	}
	return err
}

func (a *accountAdapter) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var account model.Account
	err := a.db.WithContext(ctx).First(&account, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (a *accountAdapter) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	err := a.db.WithContext(ctx).First(&account, "email = ?", strings.ToLower(email)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (a *accountAdapter) List(ctx context.Context, filter *outbound.AccountFilter) ([]*model.Account, int64, error) {
	query := a.db.WithContext(ctx).Model(&model.Account{})

	if filter != nil && filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var page model.PaginationRequest
	if filter != nil {
		page = filter.PaginationRequest
	}
	page.DefaultPagination()

	var accounts []*model.Account
	err := query.
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&accounts).Error
	if err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

func (a *accountAdapter) ListAll(ctx context.Context) ([]*model.Account, error) {
	var accounts []*model.Account
	err := a.db.WithContext(ctx).Order("created_at DESC").Find(&accounts).Error
	return accounts, err
}

func (a *accountAdapter) Update(ctx context.Context, id uuid.UUID, changes *outbound.AccountChanges) error {
	updates := make(map[string]any, 4)
	if changes.Name != nil {
		updates["name"] = *changes.Name
	}
	if changes.Email != nil {
		updates["email"] = strings.ToLower(*changes.Email)
	}
	if changes.PasswordHash != nil {
		updates["password_hash"] = *changes.PasswordHash
	}
	if changes.Credits != nil {
		updates["credits"] = *changes.Credits
	}
	if len(updates) == 0 {
		return nil
	}

	err := a.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", id).
		Updates(updates).
		Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return outbound.ErrDuplicateEmail
	}
	return err
}

func (a *accountAdapter) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", id).Delete(&model.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", id).Delete(&model.GeneratedImage{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Account{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// Compile-time check
var _ outbound.AccountDatabasePort = (*accountAdapter)(nil)
