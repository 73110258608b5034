package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxHistoryEntries is the number of recent results kept per account.
const MaxHistoryEntries = 2

// Account represents a registered customer and their credit balance.
type Account struct {
	ID           uuid.UUID `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`

	// Credits is never negative; it is only changed through conditional updates.
	Credits int64 `json:"credits" gorm:"not null;default:0"`

	UsageHistory    UsageHistory `json:"usage_history" gorm:"column:usage_history;type:text"`
	ImageCount      int64        `json:"image_count" gorm:"column:image_count;not null;default:0"`
	GenerationCount int64        `json:"generation_count" gorm:"column:generation_count;not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// TableName returns the database table name.
func (Account) TableName() string {
	return "accounts"
}

// BeforeCreate assigns an id when the caller did not.
func (a *Account) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// HistoryEntry is one generated result remembered for an account.
type HistoryEntry struct {
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// UsageHistory is the bounded, most-recent-first list of results.
// It is stored as a JSON document in a text column.
type UsageHistory []HistoryEntry

// Prepend returns a new history with entry in front, truncated to MaxHistoryEntries.
func (h UsageHistory) Prepend(entry HistoryEntry) UsageHistory {
	out := make(UsageHistory, 0, MaxHistoryEntries)
	out = append(out, entry)
	for _, e := range h {
		if len(out) == MaxHistoryEntries {
			break
		}
		out = append(out, e)
	}
	return out
}

// Value implements driver.Valuer.
func (h UsageHistory) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	b, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner. Unreadable documents scan as an empty history.
func (h *UsageHistory) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*h = UsageHistory{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return errors.New("usage history: unsupported column type")
	}

	var entries UsageHistory
	if err := json.Unmarshal(raw, &entries); err != nil {
		*h = UsageHistory{}
		return nil
	}
	if len(entries) > MaxHistoryEntries {
		entries = entries[:MaxHistoryEntries]
	}
	*h = entries
	return nil
}
