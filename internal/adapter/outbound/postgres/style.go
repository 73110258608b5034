package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mockupstudio/server/internal/model"
	"github.com/mockupstudio/server/internal/port/outbound"
	"gorm.io/gorm"
)

// styleAdapter implements outbound.StyleDatabasePort.
type styleAdapter struct {
	db *gorm.DB
}

// NewStyleAdapter creates a new style database adapter.
func NewStyleAdapter(db *gorm.DB) outbound.StyleDatabasePort {
	return &styleAdapter{db: db}
}

func (a *styleAdapter) Create(ctx context.Context, style *model.Style) error {
	return a.db.WithContext(ctx).Create(style).Error
}

func (a *styleAdapter) GetByID(ctx context.Context, id uuid.UUID) (*model.Style, error) {
	var style model.Style
	err := a.db.WithContext(ctx).First(&style, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &style, nil
}

func (a *styleAdapter) List(ctx context.Context) ([]*model.Style, error) {
	var styles []*model.Style
	err := a.db.WithContext(ctx).Order("created_at DESC").Find(&styles).Error
	return styles, err
}

func (a *styleAdapter) Update(ctx context.Context, style *model.Style) error {
	return a.db.WithContext(ctx).Save(style).Error
}

func (a *styleAdapter) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := a.db.WithContext(ctx).Delete(&model.Style{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// enhanceStyleAdapter implements outbound.EnhanceStyleDatabasePort.
type enhanceStyleAdapter struct {
	db *gorm.DB
}

// NewEnhanceStyleAdapter creates a new enhance preset database adapter.
func NewEnhanceStyleAdapter(db *gorm.DB) outbound.EnhanceStyleDatabasePort {
	return &enhanceStyleAdapter{db: db}
}

func (a *enhanceStyleAdapter) Create(ctx context.Context, style *model.EnhanceStyle) error {
	return a.db.WithContext(ctx).Create(style).Error
}

func (a *enhanceStyleAdapter) GetByID(ctx context.Context, id uuid.UUID) (*model.EnhanceStyle, error) {
	var style model.EnhanceStyle
	err := a.db.WithContext(ctx).First(&style, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &style, nil
}

func (a *enhanceStyleAdapter) List(ctx context.Context) ([]*model.EnhanceStyle, error) {
	var styles []*model.EnhanceStyle
	err := a.db.WithContext(ctx).Order("created_at DESC").Find(&styles).Error
	return styles, err
}

func (a *enhanceStyleAdapter) Update(ctx context.Context, style *model.EnhanceStyle) error {
	return a.db.WithContext(ctx).Save(style).Error
}

func (a *enhanceStyleAdapter) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := a.db.WithContext(ctx).Delete(&model.EnhanceStyle{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// generatedImageAdapter implements outbound.GeneratedImageDatabasePort.
type generatedImageAdapter struct {
	db *gorm.DB
}

// NewGeneratedImageAdapter creates a new generated image audit adapter.
func NewGeneratedImageAdapter(db *gorm.DB) outbound.GeneratedImageDatabasePort {
	return &generatedImageAdapter{db: db}
}

func (a *generatedImageAdapter) Create(ctx context.Context, image *model.GeneratedImage) error {
	return a.db.WithContext(ctx).Create(image).Error
}

// Compile-time checks
var (
	_ outbound.StyleDatabasePort          = (*styleAdapter)(nil)
	_ outbound.EnhanceStyleDatabasePort   = (*enhanceStyleAdapter)(nil)
	_ outbound.GeneratedImageDatabasePort = (*generatedImageAdapter)(nil)
)
