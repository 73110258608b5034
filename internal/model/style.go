package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StyleType selects the system prompt and the number of input images.
type StyleType string

const (
	StyleTypeFabricMockup   StyleType = "fabric-mockup"
	StyleTypeStudioPortrait StyleType = "studio-portrait"
	StyleTypeStyleTransfer  StyleType = "style-transfer"
)

// IsValid checks if the style type is known.
func (t StyleType) IsValid() bool {
	switch t {
	case StyleTypeFabricMockup, StyleTypeStudioPortrait, StyleTypeStyleTransfer:
		return true
	default:
		return false
	}
}

// Style is an admin-curated template used by style transfers.
type Style struct {
	ID             uuid.UUID `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"not null"`
	Description    string    `json:"description" gorm:"type:text"`
	CoverImage     string    `json:"coverImage" gorm:"column:cover_image;type:text"`
	ReferenceImage string    `json:"referenceImage" gorm:"column:reference_image;type:text"`

	Prompt         string `json:"prompt" gorm:"type:text;not null"`
	StandardPrompt string `json:"standardPrompt,omitempty" gorm:"column:standard_prompt;type:text"`
	ProPrompt      string `json:"proPrompt,omitempty" gorm:"column:pro_prompt;type:text"`

	StyleType StyleType `json:"styleType" gorm:"column:style_type;not null;default:fabric-mockup"`

	RequiresFabricUpload       bool `json:"requiresFabricUpload" gorm:"column:requires_fabric_upload"`
	RequiresLogoUpload         bool `json:"requiresLogoUpload" gorm:"column:requires_logo_upload"`
	RequiresCustomInstructions bool `json:"requiresCustomInstructions" gorm:"column:requires_custom_instructions"`
	RequiresMannequinReference bool `json:"requiresMannequinReference" gorm:"column:requires_mannequin_reference"`
	AllowsResolutionSelection  bool `json:"allowsResolutionSelection" gorm:"column:allows_resolution_selection"`

	ExampleBeforeImage string `json:"exampleBeforeImage" gorm:"column:example_before_image;type:text"`
	ExampleAfterImage  string `json:"exampleAfterImage" gorm:"column:example_after_image;type:text"`

	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

// TableName returns the database table name.
func (Style) TableName() string {
	return "styles"
}

// BeforeCreate assigns an id when the caller did not.
func (s *Style) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// StyleSummary is the lightweight listing shape without the heavy image fields.
type StyleSummary struct {
	ID                         uuid.UUID `json:"id"`
	Name                       string    `json:"name"`
	Description                string    `json:"description"`
	CoverImage                 string    `json:"coverImage"`
	StyleType                  StyleType `json:"styleType"`
	RequiresFabricUpload       bool      `json:"requiresFabricUpload"`
	RequiresLogoUpload         bool      `json:"requiresLogoUpload"`
	RequiresCustomInstructions bool      `json:"requiresCustomInstructions"`
	RequiresMannequinReference bool      `json:"requiresMannequinReference"`
	AllowsResolutionSelection  bool      `json:"allowsResolutionSelection"`
	CreatedAt                  time.Time `json:"createdAt"`
	UpdatedAt                  time.Time `json:"updatedAt"`
}

// Summary returns the listing shape of s.
func (s *Style) Summary() StyleSummary {
	return StyleSummary{
		ID:                         s.ID,
		Name:                       s.Name,
		Description:                s.Description,
		CoverImage:                 s.CoverImage,
		StyleType:                  s.StyleType,
		RequiresFabricUpload:       s.RequiresFabricUpload,
		RequiresLogoUpload:         s.RequiresLogoUpload,
		RequiresCustomInstructions: s.RequiresCustomInstructions,
		RequiresMannequinReference: s.RequiresMannequinReference,
		AllowsResolutionSelection:  s.AllowsResolutionSelection,
		CreatedAt:                  s.CreatedAt,
		UpdatedAt:                  s.UpdatedAt,
	}
}

// IsDataURL reports whether v is an inline data URL rather than a link.
func IsDataURL(v string) bool {
	return strings.HasPrefix(v, "data:")
}

// EnhanceStyle is an admin-curated preset for the enhance operation.
type EnhanceStyle struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	CoverImage  string    `json:"coverImage" gorm:"column:cover_image;type:text;not null"`
	Prompt      string    `json:"prompt" gorm:"type:text;not null"`
	CreatedAt   time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

// TableName returns the database table name.
func (EnhanceStyle) TableName() string {
	return "enhance_styles"
}

// BeforeCreate assigns an id when the caller did not.
func (s *EnhanceStyle) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
