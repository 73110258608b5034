package outbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/mockupstudio/server/internal/model"
)

// StyleDatabasePort defines style template persistence operations.
type StyleDatabasePort interface {
	// Create creates a new style.
	Create(ctx context.Context, style *model.Style) error

	// GetByID gets a style by ID. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Style, error)

	// List lists all styles, newest first.
	List(ctx context.Context) ([]*model.Style, error)

	// Update saves every field of the style.
	Update(ctx context.Context, style *model.Style) error

	// Delete removes a style. Returns (false, nil) when nothing was deleted.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// EnhanceStyleDatabasePort defines enhance preset persistence operations.
type EnhanceStyleDatabasePort interface {
	Create(ctx context.Context, style *model.EnhanceStyle) error

	// GetByID gets a preset by ID. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.EnhanceStyle, error)

	// List lists all presets, newest first.
	List(ctx context.Context) ([]*model.EnhanceStyle, error)

	Update(ctx context.Context, style *model.EnhanceStyle) error

	// Delete removes a preset. Returns (false, nil) when nothing was deleted.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// GeneratedImageDatabasePort records style transfer outputs for auditing.
type GeneratedImageDatabasePort interface {
	Create(ctx context.Context, image *model.GeneratedImage) error
}
