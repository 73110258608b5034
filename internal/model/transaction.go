package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionType is the direction of a credit movement.
type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "debit"
	TransactionTypeCredit TransactionType = "credit"
)

// Transaction is an immutable audit entry of a credit movement.
// For payment credits Description holds the payment reference.
type Transaction struct {
	ID          uuid.UUID       `json:"id" gorm:"primaryKey"`
	AccountID   uuid.UUID       `json:"account_id" gorm:"column:account_id;not null;index"`
	Amount      int64           `json:"amount" gorm:"not null"`
	Type        TransactionType `json:"type" gorm:"not null"`
	Description string          `json:"description" gorm:"not null;index"`
	// Reference is set only for payment credits and is unique.
	Reference *string   `json:"-" gorm:"uniqueIndex"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the database table name.
func (Transaction) TableName() string {
	return "transactions"
}

// BeforeCreate assigns an id when the caller did not.
func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// GeneratedImage records the inputs and output of a paid style transfer.
type GeneratedImage struct {
	ID                uuid.UUID `json:"id" gorm:"primaryKey"`
	AccountID         uuid.UUID `json:"account_id" gorm:"column:account_id;not null;index"`
	StyleID           uuid.UUID `json:"style_id" gorm:"column:style_id;not null;index"`
	OriginalImageURL  string    `json:"original_image_url" gorm:"column:original_image_url;type:text"`
	GeneratedImageURL string    `json:"generated_image_url" gorm:"column:generated_image_url;type:text"`
	CreatedAt         time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the database table name.
func (GeneratedImage) TableName() string {
	return "generated_images"
}

// BeforeCreate assigns an id when the caller did not.
func (g *GeneratedImage) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
