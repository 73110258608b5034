package style

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mockupstudio/server/internal/model"
	"github.com/mockupstudio/server/internal/port/outbound"
	"github.com/mockupstudio/server/internal/utils/metrics"
	"go.uber.org/zap"
)

// Domain errors.
var (
	ErrStyleNotFound = errors.New("Style not found")
	ErrInvalidInput  = errors.New("invalid input")
)

// ValidationError carries a user-facing message for a rejected input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

const (
	// CacheTTL bounds the staleness of cached listings.
	CacheTTL = 60 * time.Second

	cacheKeySummary = "styles:summary"
	cacheKeyFull    = "styles:full"
	cacheName       = "styles"
)

// Input is a style create or update payload. Nil fields are left unset on
// create (and take their defaults) and unchanged on update.
type Input struct {
	Name                       *string          `json:"name"`
	Description                *string          `json:"description"`
	CoverImage                 *string          `json:"coverImage"`
	ReferenceImage             *string          `json:"referenceImage"`
	Prompt                     *string          `json:"prompt"`
	StandardPrompt             *string          `json:"standardPrompt"`
	ProPrompt                  *string          `json:"proPrompt"`
	StyleType                  *model.StyleType `json:"styleType"`
	RequiresFabricUpload       *bool            `json:"requiresFabricUpload"`
	RequiresLogoUpload         *bool            `json:"requiresLogoUpload"`
	RequiresCustomInstructions *bool            `json:"requiresCustomInstructions"`
	RequiresMannequinReference *bool            `json:"requiresMannequinReference"`
	AllowsResolutionSelection  *bool            `json:"allowsResolutionSelection"`
}

// Listing is a serialized style list.
type Listing struct {
	// Data is the JSON array of styles.
	Data json.RawMessage
	// Cached is true when Data came from the cache.
	Cached bool
}

// Domain manages the style catalogue and its listing cache.
type Domain struct {
	styles  outbound.StyleDatabasePort
	cache   outbound.StyleCachePort
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewStyleDomain creates a new style domain. cache may be nil.
func NewStyleDomain(styles outbound.StyleDatabasePort, cache outbound.StyleCachePort, m *metrics.Metrics, logger *zap.Logger) *Domain {
	return &Domain{
		styles:  styles,
		cache:   cache,
		metrics: m,
		logger:  logger,
	}
}

// List returns every style, newest first. The summary listing omits the
// heavy image fields; the full listing blanks inline cover images.
func (d *Domain) List(ctx context.Context, full bool) (*Listing, error) {
	key := cacheKeySummary
	if full {
		key = cacheKeyFull
	}

	if d.cache != nil {
		data, err := d.cache.Get(ctx, key)
		switch {
		case err == nil:
			d.metrics.RecordCacheHit(cacheName)
			return &Listing{Data: data, Cached: true}, nil
		case !errors.Is(err, outbound.ErrCacheMiss):
			d.logger.Warn("style cache read failed", zap.String("key", key), zap.Error(err))
		}
		d.metrics.RecordCacheMiss(cacheName)
	}

	styles, err := d.styles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list styles: %w", err)
	}

	var payload any
	if full {
		rows := make([]*model.Style, len(styles))
		for i, s := range styles {
			row := *s
			if model.IsDataURL(row.CoverImage) {
				row.CoverImage = ""
			}
			rows[i] = &row
		}
		payload = rows
	} else {
		rows := make([]model.StyleSummary, len(styles))
		for i, s := range styles {
			rows[i] = s.Summary()
		}
		payload = rows
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode styles: %w", err)
	}

	if d.cache != nil {
		if err := d.cache.Set(ctx, key, data, CacheTTL); err != nil {
			d.logger.Warn("style cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return &Listing{Data: data}, nil
}

func (d *Domain) Get(ctx context.Context, id uuid.UUID) (*model.Style, error) {
	s, err := d.styles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get style: %w", err)
	}
	if s == nil {
		return nil, ErrStyleNotFound
	}
	return s, nil
}

// Create adds a style. The cover image falls back to the reference image.
func (d *Domain) Create(ctx context.Context, in *Input) (*model.Style, error) {
	if blank(in.Name) || blank(in.Description) || blank(in.ReferenceImage) || blank(in.Prompt) {
		return nil, &ValidationError{Message: "Missing required fields"}
	}

	s := &model.Style{
		StyleType:                  model.StyleTypeFabricMockup,
		RequiresFabricUpload:       true,
		RequiresLogoUpload:         true,
		RequiresCustomInstructions: true,
		RequiresMannequinReference: true,
		AllowsResolutionSelection:  true,
	}
	if err := apply(s, in); err != nil {
		return nil, err
	}
	if s.CoverImage == "" {
		s.CoverImage = s.ReferenceImage
	}
	s.ExampleBeforeImage = s.ReferenceImage
	s.ExampleAfterImage = s.ReferenceImage

	if err := d.styles.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	d.invalidate(ctx)
	d.logger.Info("style created", zap.String("style_id", s.ID.String()), zap.String("name", s.Name))
	return s, nil
}

func (d *Domain) Update(ctx context.Context, id uuid.UUID, in *Input) (*model.Style, error) {
	s, err := d.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(s, in); err != nil {
		return nil, err
	}
	if err := d.styles.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("update style: %w", err)
	}
	d.invalidate(ctx)
	return s, nil
}

func (d *Domain) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := d.styles.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete style: %w", err)
	}
	if !deleted {
		return ErrStyleNotFound
	}
	d.invalidate(ctx)
	return nil
}

func (d *Domain) invalidate(ctx context.Context) {
	if d.cache == nil {
		return
	}
	if err := d.cache.Invalidate(ctx); err != nil {
		d.logger.Error("style cache invalidation failed", zap.Error(err))
	}
}

func apply(s *model.Style, in *Input) error {
	if in.StyleType != nil {
		if !in.StyleType.IsValid() {
			return &ValidationError{Message: fmt.Sprintf("Invalid styleType %q", *in.StyleType)}
		}
		s.StyleType = *in.StyleType
	}

	setString(&s.Name, in.Name)
	setString(&s.Description, in.Description)
	setString(&s.CoverImage, in.CoverImage)
	setString(&s.ReferenceImage, in.ReferenceImage)
	setString(&s.Prompt, in.Prompt)
	setString(&s.StandardPrompt, in.StandardPrompt)
	setString(&s.ProPrompt, in.ProPrompt)

	setBool(&s.RequiresFabricUpload, in.RequiresFabricUpload)
	setBool(&s.RequiresLogoUpload, in.RequiresLogoUpload)
	setBool(&s.RequiresCustomInstructions, in.RequiresCustomInstructions)
	setBool(&s.RequiresMannequinReference, in.RequiresMannequinReference)
	setBool(&s.AllowsResolutionSelection, in.AllowsResolutionSelection)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func blank(v *string) bool {
	return v == nil || strings.TrimSpace(*v) == ""
}
