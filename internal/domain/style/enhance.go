package style

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mockupstudio/server/internal/model"
	"github.com/mockupstudio/server/internal/port/outbound"
	"go.uber.org/zap"
)

var ErrEnhanceStyleNotFound = errors.New("Enhance style not found")

// EnhanceInput is an enhance preset create or update payload. Nil fields
// are left unchanged on update.
type EnhanceInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CoverImage  *string `json:"coverImage"`
	Prompt      *string `json:"prompt"`
}

// EnhanceDomain manages the enhance preset catalogue.
type EnhanceDomain struct {
	presets outbound.EnhanceStyleDatabasePort
	logger  *zap.Logger
}

// NewEnhanceDomain creates a new enhance preset domain.
func NewEnhanceDomain(presets outbound.EnhanceStyleDatabasePort, logger *zap.Logger) *EnhanceDomain {
	return &EnhanceDomain{presets: presets, logger: logger}
}

// List returns every preset, newest first.
func (d *EnhanceDomain) List(ctx context.Context) ([]*model.EnhanceStyle, error) {
	presets, err := d.presets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list enhance styles: %w", err)
	}
	if presets == nil {
		presets = []*model.EnhanceStyle{}
	}
	return presets, nil
}

func (d *EnhanceDomain) Create(ctx context.Context, in *EnhanceInput) (*model.EnhanceStyle, error) {
	if blank(in.Name) || blank(in.Description) || blank(in.CoverImage) || blank(in.Prompt) {
		return nil, &ValidationError{Message: "Name, description, cover image, and prompt are required"}
	}

	p := &model.EnhanceStyle{}
	applyEnhance(p, in)
	if err := d.presets.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create enhance style: %w", err)
	}
	d.logger.Info("enhance style created", zap.String("enhance_style_id", p.ID.String()), zap.String("name", p.Name))
	return p, nil
}

// Update changes the given fields. None of them may be set blank.
func (d *EnhanceDomain) Update(ctx context.Context, id uuid.UUID, in *EnhanceInput) (*model.EnhanceStyle, error) {
	for _, v := range []*string{in.Name, in.Description, in.CoverImage, in.Prompt} {
		if v != nil && blank(v) {
			return nil, &ValidationError{Message: "Name, description, cover image, and prompt must not be empty"}
		}
	}

	p, err := d.presets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get enhance style: %w", err)
	}
	if p == nil {
		return nil, ErrEnhanceStyleNotFound
	}

	applyEnhance(p, in)
	if err := d.presets.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update enhance style: %w", err)
	}
	return p, nil
}

func (d *EnhanceDomain) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := d.presets.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete enhance style: %w", err)
	}
	if !deleted {
		return ErrEnhanceStyleNotFound
	}
	d.logger.Info("enhance style deleted", zap.String("enhance_style_id", id.String()))
	return nil
}

func applyEnhance(p *model.EnhanceStyle, in *EnhanceInput) {
	setString(&p.Name, in.Name)
	setString(&p.Description, in.Description)
	setString(&p.CoverImage, in.CoverImage)
	setString(&p.Prompt, in.Prompt)
}
