package models

import (
	"time"

	"github.com/google/uuid"
)

// Store is the issuing company of an invoice. Created on first sight of a
// new name, never merged automatically.
type Store struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string    `gorm:"column:name;not null"`
	NormalizedName string    `gorm:"column:normalized_name;not null;uniqueIndex"`
	TaxID          *string   `gorm:"column:tax_id"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
