package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/feirinha-app/feirinha-backend/pkg/enums"
)

// ShoppingList is a user-submitted batch of items to resolve, either free
// text or invoice text. Status only moves pending -> processed|failed.
type ShoppingList struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string              `gorm:"column:name;not null"`
	RawText      string              `gorm:"column:raw_text;not null"`
	EntryType    enums.ListEntryType `gorm:"column:entry_type;not null"`
	Status       enums.ListStatus    `gorm:"column:status;not null;default:'pending';index"`
	ErrorMessage *string             `gorm:"column:error_message"`
	ProcessedAt  *time.Time          `gorm:"column:processed_at"`
	PurchaseDate *time.Time          `gorm:"column:purchase_date"`
	StoreID      *uuid.UUID          `gorm:"column:store_id;type:uuid"`
	Store        *Store              `gorm:"foreignKey:StoreID"`

	// Warnings collects line-level notes (unmapped unit codes and the
	// like) that did not fail the list.
	Warnings pq.StringArray `gorm:"column:warnings;type:text[]"`

	Items     []ListItem `gorm:"foreignKey:ListID"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
